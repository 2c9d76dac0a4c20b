package provisioning

import "github.com/meridianhq/platform/pkg/tenant"

// CreateOrganizationInput is createOrganization's single argument, kept as
// one struct since the field set is expected to grow (subscription plan
// and data source type are accepted and persisted as tenant metadata by
// callers that need them; this coordinator only consumes CompanyName).
type CreateOrganizationInput struct {
	OwnerUserID      string
	CompanyName      string
	SubscriptionPlan string
	DataSourceType   string
}

// CreateOrganizationResult is returned on success: the new tenant row and a
// freshly-signed credential scoping the owner into it.
type CreateOrganizationResult struct {
	Tenant     *tenant.Tenant
	Credential string
}
