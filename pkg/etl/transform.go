package etl

import (
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/meridianhq/platform/pkg/envelope"
)

// toInvoiceRecord builds the plaintext Invoice a validated row transforms
// into, synthesizing an invoice number when the source row did not carry
// one. Encryption is a separate step (encryptInvoiceFields) so this stays
// testable without a tenant secret.
func toInvoiceRecord(vr validatedRow) Invoice {
	invoiceNumber := vr.invoiceNumber
	if invoiceNumber == "" {
		invoiceNumber = synthesizeInvoiceNumber()
	}

	return Invoice{
		ExternalID:    vr.externalID,
		CustomerName:  vr.customerName,
		InvoiceNumber: invoiceNumber,
		Amount:        vr.amount,
		Status:        vr.status,
		Currency:      vr.currency,
		DueDate:       vr.dueDate,
		Metadata:      vr.metadata,
		IsEncrypted:   true,
	}
}

// encryptInvoiceFields seals CustomerName and InvoiceNumber under the
// tenant's own secret, in place. Called once per row, before the batch
// crosses into SQL.
func encryptInvoiceFields(inv *Invoice, tenantSecret []byte) error {
	customerName, err := envelope.EncryptField(inv.CustomerName, tenantSecret)
	if err != nil {
		return fmt.Errorf("etl: encrypt customer_name: %w", err)
	}
	invoiceNumber, err := envelope.EncryptField(inv.InvoiceNumber, tenantSecret)
	if err != nil {
		return fmt.Errorf("etl: encrypt invoice_number: %w", err)
	}
	inv.CustomerName = customerName
	inv.InvoiceNumber = invoiceNumber
	return nil
}

// toQuarantineRecord wraps a row that failed validation together with the
// error list accumulated against it.
func toQuarantineRecord(sourceTag string, normalizedRow map[string]any, errs []string) QuarantineRecord {
	return QuarantineRecord{
		SourceTag: sourceTag,
		RawData:   normalizedRow,
		Errors:    errs,
		Status:    QuarantinePending,
	}
}

func synthesizeInvoiceNumber() string {
	return "INV-" + strings.ToUpper(uuid.NewString()[:8])
}

// mergeFixedFields overlays normalized fixedFields on top of a quarantine
// record's stored raw data, for retryQuarantineRecord's single-row repair.
func mergeFixedFields(raw, fixed map[string]any) map[string]any {
	merged := make(map[string]any, len(raw)+len(fixed))
	for k, v := range raw {
		merged[k] = v
	}
	for k, v := range normalizeFieldAliases(fixed) {
		merged[k] = v
	}
	return merged
}
