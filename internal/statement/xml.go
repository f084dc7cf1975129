package statement

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/Dan9191/statement-analyzer/internal/models"
	"github.com/beevik/etree"
)

// WriteXML writes the ledger as a <Statement> document with one
// <Transaction> element per entry.
func WriteXML(w io.Writer, l models.Ledger, profile models.Profile) error {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)

	root := doc.CreateElement("Statement")
	root.CreateAttr("profile", string(profile))
	root.CreateAttr("count", strconv.Itoa(l.Len()))
	opening := l.OpeningBalance
	if l.Len() > 0 {
		opening = balanceBefore(l.Transactions[0])
		root.CreateAttr("from", l.FirstDate().Format(models.DateLayout))
		root.CreateAttr("to", l.LastDate().Format(models.DateLayout))
	}
	root.CreateAttr("opening_balance", formatAmount(opening))
	root.CreateAttr("closing_balance", formatAmount(l.CurrentBalance()))

	for _, t := range l.Transactions {
		el := root.CreateElement("Transaction")
		el.CreateAttr("date", t.Date.Format(models.DateLayout))
		el.CreateAttr("type", string(t.Type))
		el.CreateElement("Description").SetText(t.Description)
		el.CreateElement("Amount").SetText(formatAmount(t.Amount))
		el.CreateElement("Category").SetText(string(t.Category))
		if t.Subcategory != "" {
			el.CreateElement("Subcategory").SetText(t.Subcategory)
		}
		el.CreateElement("Balance").SetText(formatAmount(t.Balance))
	}

	doc.Indent(2)
	if _, err := doc.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write XML: %w", err)
	}
	return nil
}

// ReadXML parses a document produced by WriteXML. Balances are re-derived
// from the opening_balance attribute, or from startingBalance without one.
func ReadXML(r io.Reader, startingBalance float64) (models.Ledger, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return models.Ledger{}, &ParseError{Err: fmt.Errorf("failed to parse XML: %w", err)}
	}

	root := doc.SelectElement("Statement")
	if root == nil {
		return models.Ledger{}, &ParseError{Err: errors.New("no Statement element found in XML")}
	}
	if raw := root.SelectAttrValue("opening_balance", ""); raw != "" {
		opening, err := ParseAmount(raw)
		if err != nil {
			return models.Ledger{}, &ParseError{Column: "opening_balance", Err: err}
		}
		startingBalance = opening
	}

	elements := root.FindElements("./Transaction")
	txs := make([]models.Transaction, 0, len(elements))
	for i, el := range elements {
		tx, err := parseElement(el)
		if err != nil {
			// Line reports the 1-based element position for XML input
			err.Line = i + 1
			return models.Ledger{}, err
		}
		txs = append(txs, tx)
	}
	return models.NewLedger(txs, startingBalance), nil
}

func parseElement(el *etree.Element) (models.Transaction, *ParseError) {
	var tx models.Transaction

	date, err := ParseDate(el.SelectAttrValue("date", ""))
	if err != nil {
		return tx, &ParseError{Column: ColDate, Err: err}
	}
	tx.Date = date

	amount := el.FindElement("./Amount")
	if amount == nil {
		return tx, &ParseError{Column: ColAmount, Err: errors.New("amount element not found")}
	}
	if tx.Amount, err = ParseAmount(amount.Text()); err != nil {
		return tx, &ParseError{Column: ColAmount, Err: err}
	}

	tx.Description = childText(el, "Description")
	tx.Category = models.NormalizeCategory(childText(el, "Category"))
	tx.Subcategory = childText(el, "Subcategory")
	return tx, nil
}

func childText(el *etree.Element, name string) string {
	if child := el.SelectElement(name); child != nil {
		return child.Text()
	}
	return ""
}
