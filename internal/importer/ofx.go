package importer

import (
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"

	"github.com/aclindsa/ofxgo"

	"ausgaben/internal/common"
	"ausgaben/internal/model"
)

// OFX bank exports carry no expense categories, so imported records land in
// this category until the user recategorizes them.
const ofxFallbackCategory = "uncategorized"

// preprocessOFX fixes common formatting issues seen in real OFX/QFX exports
// before handing them to the strict parser.
func preprocessOFX(content string) string {
	content = strings.TrimLeft(content, " \t\r\n")

	// Mixed-case SEVERITY values (must be INFO, WARN, or ERROR).
	severityRegex := regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	content = severityRegex.ReplaceAllStringFunc(content, strings.ToUpper)

	// SGML-style exports sometimes drop the closing angle bracket on a tag
	// that ends a line.
	tagFixRegex := regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseOFX parses an OFX/QFX bank export into expense records. The whole
// file either parses or fails as a batch; OFX is machine-written, so
// row-level tolerance does not apply.
func (p *Parser) ParseOFX(r io.Reader) (*Result, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrBatchFormat, err)
	}
	if len(content) == 0 {
		return nil, fmt.Errorf("%w: OFX input is empty", common.ErrBatchFormat)
	}

	resp, err := ofxgo.ParseResponse(strings.NewReader(preprocessOFX(string(content))))
	if err != nil {
		return nil, fmt.Errorf("%w: not a parseable OFX file: %v", common.ErrBatchFormat, err)
	}

	result := &Result{}
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			currency := strings.TrimSpace(fmt.Sprintf("%v", stmt.CurDef))
			for _, tx := range stmt.BankTranList.Transactions {
				result.Records = append(result.Records, p.convertOFXTransaction(tx, currency))
				result.Imported++
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			currency := strings.TrimSpace(fmt.Sprintf("%v", stmt.CurDef))
			for _, tx := range stmt.BankTranList.Transactions {
				result.Records = append(result.Records, p.convertOFXTransaction(tx, currency))
				result.Imported++
			}
		}
	}

	slog.Debug("parsed OFX batch",
		"records", result.Imported,
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return result, nil
}

func (p *Parser) convertOFXTransaction(tx ofxgo.Transaction, currency string) model.Expense {
	// OFX uses negative amounts for debits; expenses store the spend
	// magnitude.
	amount, _ := tx.TrnAmt.Float64()
	if amount < 0 {
		amount = -amount
	}

	note := strings.TrimSpace(string(tx.Name))
	if memo := strings.TrimSpace(string(tx.Memo)); memo != "" && note == "" {
		note = memo
	}

	if currency == "" {
		currency = p.defaultCurrency
	}

	return model.Expense{
		Date:          tx.DtPosted.Time,
		Amount:        amount,
		Category:      ofxFallbackCategory,
		Note:          note,
		Currency:      currency,
		PaymentMethod: strings.ToLower(fmt.Sprintf("%v", tx.TrnType)),
	}
}
