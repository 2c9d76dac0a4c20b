// Package etl implements the invoice intake pipeline: normalizing and
// validating raw rows from an upstream source, persisting the valid ones
// as encrypted invoices, quarantining the rest, and repairing quarantined
// rows later either synchronously (RetryQuarantineBatch,
// RetryQuarantineRecord) or via a background queue.Worker
// (NewRetryQuarantineBatchHandler).
//
// Every operation here runs under a tenant scope the caller already
// established (pkg/tenantctx); this package never selects a tenant on its
// own.
package etl
