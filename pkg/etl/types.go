package etl

import (
	"time"

	"github.com/google/uuid"
)

// InvoiceStatus is the fixed set of statuses an invoice row may carry.
type InvoiceStatus string

const (
	InvoiceStatusDraft   InvoiceStatus = "draft"
	InvoiceStatusSent    InvoiceStatus = "sent"
	InvoiceStatusPaid    InvoiceStatus = "paid"
	InvoiceStatusOverdue InvoiceStatus = "overdue"
	InvoiceStatusVoid    InvoiceStatus = "void"
)

// Invoice is a row that passed validation and is ready to persist.
// CustomerName and InvoiceNumber hold plaintext between validateRow and
// encryptInvoiceFields; everywhere else in this package, including in SQL,
// they are ciphertext.
type Invoice struct {
	ID            uuid.UUID
	ExternalID    string
	CustomerName  string
	InvoiceNumber string
	Amount        float64
	Status        string
	Currency      string
	DueDate       *time.Time
	Metadata      map[string]any
	IsEncrypted   bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// QuarantineRecord is a row that failed validation, held for manual or
// automated repair.
type QuarantineRecord struct {
	ID        uuid.UUID
	SourceTag string
	RawData   map[string]any
	Errors    []string
	Status    QuarantineStatus
	CreatedAt time.Time
}

// SyncResult summarizes one RunInvoiceETL call.
type SyncResult struct {
	Total       int
	Synced      int
	Quarantined int
}

// RetryFailure is one row's outcome within a failed RetryQuarantineBatch
// attempt.
type RetryFailure struct {
	ID     uuid.UUID
	Errors []string
}

// RetryBatchResult summarizes one RetryQuarantineBatch call.
type RetryBatchResult struct {
	TotalProcessed int
	Succeeded      int
	Failed         []RetryFailure
}
