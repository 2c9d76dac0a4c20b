package etl

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/meridianhq/platform/pkg/sanitizer"
	"github.com/meridianhq/platform/pkg/validator"
)

const (
	minInvoiceAmount = 0.01
	maxInvoiceAmount = 999_999_999.99
	dueDateLayout    = "2006-01-02"
)

var allowedInvoiceStatuses = []string{
	string(InvoiceStatusDraft),
	string(InvoiceStatusSent),
	string(InvoiceStatusPaid),
	string(InvoiceStatusOverdue),
	string(InvoiceStatusVoid),
}

// knownInvoiceFields are the row keys validateRow consumes directly; every
// other key on a normalized row is carried through as Invoice metadata.
var knownInvoiceFields = map[string]bool{
	"external_id":    true,
	"customer_name":  true,
	"invoice_number": true,
	"amount":         true,
	"status":         true,
	"currency":       true,
	"due_date":       true,
}

// validatedRow is the subset of a normalized row validateRow accepted,
// ready for toInvoiceRecord.
type validatedRow struct {
	externalID    string
	customerName  string
	invoiceNumber string
	amount        float64
	status        string
	currency      string
	dueDate       *time.Time
	metadata      map[string]any
}

// validateRow validates a field-alias-normalized row and returns the
// accepted fields plus any validation error messages. Messages carry no
// row number of their own; a caller batching many rows through one call is
// responsible for prefixing one.
func validateRow(row map[string]any) (validatedRow, []string) {
	var vr validatedRow
	var messages []string
	var rules []validator.Rule

	externalID, _ := row["external_id"].(string)
	customerName, _ := row["customer_name"].(string)
	invoiceNumber, _ := row["invoice_number"].(string)

	vr.externalID = sanitizer.Trim(externalID)
	vr.customerName = sanitizer.Trim(customerName)
	vr.invoiceNumber = sanitizer.Trim(invoiceNumber)

	rules = append(rules,
		validator.RequiredString("external_id", vr.externalID),
		validator.RequiredString("customer_name", vr.customerName),
	)

	if amount, ok := toFloat(row["amount"]); ok {
		vr.amount = amount
		rules = append(rules, validator.AmountRange("amount", amount, minInvoiceAmount, maxInvoiceAmount))
	} else {
		messages = append(messages, "amount: must be a number")
	}

	if raw, present := row["status"]; present && raw != nil {
		status, _ := raw.(string)
		vr.status = sanitizer.TrimToLower(status)
		if vr.status != "" {
			rules = append(rules, validator.InListString("status", vr.status, allowedInvoiceStatuses))
		}
	}
	if vr.status == "" {
		vr.status = string(InvoiceStatusDraft)
	}

	if raw, present := row["currency"]; present && raw != nil {
		currency, _ := raw.(string)
		vr.currency = sanitizer.TrimToUpper(currency)
		if vr.currency != "" {
			rules = append(rules, validator.ValidCurrencyCode("currency", vr.currency))
		}
	}
	if vr.currency == "" {
		vr.currency = "USD"
	}

	if raw, present := row["due_date"]; present && raw != nil {
		dueDate, ok := parseDueDate(raw)
		if !ok {
			messages = append(messages, "due_date: must be parseable as "+dueDateLayout)
		} else {
			vr.dueDate = dueDate
		}
	}

	if err := validator.Apply(rules...); err != nil {
		for _, ve := range validator.ExtractValidationErrors(err) {
			messages = append(messages, fmt.Sprintf("%s: %s", ve.Field, ve.Message))
		}
	}

	vr.metadata = extraFields(row)

	return vr, messages
}

// extraFields carries every row key validateRow does not consume directly
// into an invoice's metadata, so a source system's extra columns survive
// the sync instead of being silently dropped.
func extraFields(row map[string]any) map[string]any {
	extra := make(map[string]any)
	for k, v := range row {
		if !knownInvoiceFields[k] {
			extra[k] = v
		}
	}
	return extra
}

// toFloat accepts the numeric shapes a JSON or CSV-derived ETL row might
// carry for amount: a decoded JSON number, or a plain numeric string.
func toFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

// parseDueDate accepts a time.Time (already-decoded source) or a
// YYYY-MM-DD string; an empty string is treated as "no due date", not a
// parse failure.
func parseDueDate(v any) (*time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return &t, true
	case string:
		s := sanitizer.Trim(t)
		if s == "" {
			return nil, true
		}
		parsed, err := time.Parse(dueDateLayout, s)
		if err != nil {
			return nil, false
		}
		return &parsed, true
	default:
		return nil, false
	}
}
