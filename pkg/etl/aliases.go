package etl

import "github.com/meridianhq/platform/pkg/sanitizer"

// fieldAliases maps common source-system column names to the canonical
// field names validateRow expects. Source systems disagree on naming far
// more than they disagree on shape.
var fieldAliases = map[string]string{
	"invoice_id":   "external_id",
	"id":           "external_id",
	"total_amount": "amount",
	"total":        "amount",
	"customer":     "customer_name",
	"client_name":  "customer_name",
	"client":       "customer_name",
	"invoice_num":  "invoice_number",
	"invoice_no":   "invoice_number",
	"due":          "due_date",
	"due_on":       "due_date",
}

// normalizeFieldAliases canonicalizes a raw row's keys: every key is
// trimmed and snake_cased, then mapped through fieldAliases if a known
// alias matches. Unknown keys pass through unchanged and end up in an
// invoice's metadata.
func normalizeFieldAliases(raw map[string]any) map[string]any {
	out := make(map[string]any, len(raw))
	for k, v := range raw {
		key := sanitizer.ToSnakeCase(sanitizer.Trim(k))
		if canon, ok := fieldAliases[key]; ok {
			key = canon
		}
		out[key] = v
	}
	return out
}
