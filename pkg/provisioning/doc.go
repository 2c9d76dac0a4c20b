// Package provisioning implements the tenant provisioning coordinator:
// CreateOrganization turns an unprovisioned owner user and a company name
// into an active tenant, a physical schema, a linked owner, and a
// freshly-signed tenant credential.
//
// Steps 3 through 7 of the algorithm (tenant row insert, schema create,
// owner update, commit) run inside one transaction via
// pkg/txscope.Executor.WithPublicTransaction. Step 8 (business-table
// migration) runs outside that transaction, against the schema just
// committed, on a raw pool connection whose transaction binds only
// search_path; it installs no tenantctx context and switches to no
// connection role. If the migration fails the
// coordinator compensates explicitly: drop the schema, unlink the owner,
// delete the tenant row — each tolerating "already gone" so the whole
// sequence is safe to retry.
package provisioning
