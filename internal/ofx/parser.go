// Package ofx parses OFX/QFX statement files into canonical transactions.
package ofx

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/aclindsa/ofxgo"
	"github.com/shopspring/decimal"

	"github.com/mapleledger/maple/internal/model"
)

// Parser implements OFX/QFX file parsing.
type Parser struct{}

// NewParser creates a new OFX parser.
func NewParser() *Parser {
	return &Parser{}
}

var (
	severityRegex = regexp.MustCompile(`(?i)<SEVERITY>(Info|Warn|Error)</SEVERITY>`)
	tagFixRegex   = regexp.MustCompile(`(?m)^(\s*<[A-Z][A-Z0-9._]*[A-Z0-9])$`)
	nonDigitRe    = regexp.MustCompile(`\D`)
)

// preprocessOFX fixes common formatting issues in OFX files.
func (p *Parser) preprocessOFX(content string) string {
	// Trim any leading whitespace or blank lines before the header
	content = strings.TrimLeft(content, " \t\r\n")

	// Fix mixed-case SEVERITY values (should be INFO, WARN, or ERROR)
	content = severityRegex.ReplaceAllStringFunc(content, func(match string) string {
		return strings.ToUpper(match)
	})

	// Fix missing closing angle brackets in SGML-style OFX files
	content = tagFixRegex.ReplaceAllString(content, "$1>")

	return content
}

// ParseFile parses an OFX/QFX file into canonical transactions owned by
// userID. The currency applies to every transaction; OFX amounts are signed
// (negative means money out), normalized here to unsigned plus a direction.
func (p *Parser) ParseFile(ctx context.Context, reader io.Reader, userID, currency string) ([]model.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read OFX file: %w", err)
	}

	processedContent := p.preprocessOFX(string(content))

	resp, err := ofxgo.ParseResponse(strings.NewReader(processedContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse OFX file: %w", err)
	}

	var transactions []model.Transaction
	var bankStmts, ccStmts int

	for _, msg := range resp.Bank {
		if stmt, ok := msg.(*ofxgo.StatementResponse); ok {
			bankStmts++
			if stmt.BankTranList == nil {
				continue
			}
			for _, ofxTx := range stmt.BankTranList.Transactions {
				if tx, ok := p.convertTransaction(ofxTx, userID, currency, ""); ok {
					transactions = append(transactions, tx)
				}
			}
		}
	}

	for _, msg := range resp.CreditCard {
		if stmt, ok := msg.(*ofxgo.CCStatementResponse); ok {
			ccStmts++
			if stmt.BankTranList == nil {
				continue
			}
			cardMasked := string(stmt.CCAcctFrom.AcctID)
			for _, ofxTx := range stmt.BankTranList.Transactions {
				if tx, ok := p.convertTransaction(ofxTx, userID, currency, cardMasked); ok {
					transactions = append(transactions, tx)
				}
			}
		}
	}

	slog.Info("Parsed OFX file",
		"total_transactions", len(transactions),
		"bank_statements", bankStmts,
		"cc_statements", ccStmts)

	return transactions, nil
}

// convertTransaction converts an OFX transaction to the canonical model.
// Zero-amount entries are dropped; everything canonical carries a positive
// amount with the sign folded into the direction.
func (p *Parser) convertTransaction(ofxTx ofxgo.Transaction, userID, currency, cardMasked string) (model.Transaction, bool) {
	signed, err := decimal.NewFromString(ofxTx.TrnAmt.FloatString(2))
	if err != nil || signed.IsZero() {
		slog.Warn("Skipping OFX transaction with unusable amount",
			"fitid", string(ofxTx.FiTID),
			"amount", ofxTx.TrnAmt.String())
		return model.Transaction{}, false
	}

	direction := model.DirectionCredit
	amount := signed
	if signed.IsNegative() {
		direction = model.DirectionDebit
		amount = signed.Neg()
	}

	posted := ofxTx.DtPosted.Time
	date := time.Date(posted.Year(), posted.Month(), posted.Day(), 0, 0, 0, 0, time.UTC)

	tx := model.Transaction{
		UserID:      userID,
		Date:        date,
		Description: p.extractDescription(ofxTx),
		Amount:      amount,
		Currency:    currency,
		Direction:   direction,
		Category:    model.CategoryUncategorized,
		Source:      model.SourceOFX,
		CardLast4:   cardLast4(cardMasked),
	}
	tx.Hash = tx.GenerateHash()

	return tx, true
}

// extractDescription tries to get a clean merchant name from OFX data.
func (p *Parser) extractDescription(tx ofxgo.Transaction) string {
	// Prefer PAYEE if available (cleaner merchant name)
	if tx.Payee != nil && tx.Payee.Name != "" {
		return strings.TrimSpace(string(tx.Payee.Name))
	}

	name := strings.TrimSpace(string(tx.Name))

	// Sometimes MEMO has better merchant info than a bare NAME
	if name == "" && tx.Memo != "" {
		name = strings.TrimSpace(string(tx.Memo))
	}

	return name
}

func cardLast4(masked string) string {
	digits := nonDigitRe.ReplaceAllString(masked, "")
	if len(digits) < 4 {
		return ""
	}
	return digits[len(digits)-4:]
}
