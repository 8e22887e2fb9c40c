package report

import (
	"fmt"
	"html/template"
	"os"
	"time"

	"ausgaben/internal/dates"
	"ausgaben/internal/model"
)

// HTMLReportData is everything the HTML report template consumes. The report
// is a static summary page; it renders the computed aggregates, it does not
// recompute anything.
type HTMLReportData struct {
	Range       dates.Range
	Statistics  model.Statistics
	Categories  []model.CategoryTotal
	MonthTrend  []model.PeriodBucket
	GeneratedAt time.Time
}

var reportTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"money": func(v float64) string { return fmt.Sprintf("%.2f", v) },
}).Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="UTF-8">
  <title>Expense Report: {{.Range.Label}}</title>
  <style>
    body { font-family: Arial, sans-serif; max-width: 960px; margin: 0 auto; padding: 20px; }
    h1 { text-align: center; }
    .period { text-align: center; color: #666; }
    table { border-collapse: collapse; width: 100%; margin-top: 12px; }
    th, td { border: 1px solid #ddd; padding: 6px 10px; text-align: left; }
    th { background: #f5f5f5; }
    td.num { text-align: right; }
    .footer { text-align: center; color: #999; margin-top: 40px; }
  </style>
</head>
<body>
  <h1>Expense Report</h1>
  <p class="period">{{.Range.Label}}</p>

  <h2>Summary</h2>
  <ul>
    <li>Total expenses: {{.Statistics.Count}}</li>
    <li>Total spent: &euro;{{money .Statistics.Total}}</li>
    <li>Daily average: &euro;{{money .Statistics.DailyAverage}}</li>
    <li>Average expense: &euro;{{money .Statistics.Average}}</li>
    <li>Top category: {{with .Statistics.TopCategory.Category}}{{.}}{{else}}N/A{{end}}</li>
  </ul>

  <h2>Spending by Category</h2>
  <table>
    <tr><th>Category</th><th>Total</th><th>Count</th><th>Average</th><th>Share</th></tr>
    {{range .Categories}}
    <tr>
      <td>{{.Category}}</td>
      <td class="num">&euro;{{money .Total}}</td>
      <td class="num">{{.Count}}</td>
      <td class="num">&euro;{{money .Average}}</td>
      <td class="num">{{money .Percentage}}%</td>
    </tr>
    {{end}}
  </table>

  <h2>Monthly Trend</h2>
  <table>
    <tr><th>Month</th><th>Total</th><th>Count</th><th>Average</th></tr>
    {{range .MonthTrend}}
    <tr>
      <td>{{.Period}}</td>
      <td class="num">&euro;{{money .Total}}</td>
      <td class="num">{{.Count}}</td>
      <td class="num">&euro;{{money .Average}}</td>
    </tr>
    {{end}}
  </table>

  <p class="footer">Generated on {{.GeneratedAt.Format "2006-01-02 15:04:05"}}</p>
</body>
</html>
`))

// WriteHTMLReport renders the summary report to path.
func WriteHTMLReport(path string, data HTMLReportData) error {
	if data.GeneratedAt.IsZero() {
		data.GeneratedAt = time.Now()
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if err := reportTemplate.Execute(f, data); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return f.Close()
}
