package provisioning

import (
	"context"
	"errors"
	"fmt"

	"github.com/meridianhq/platform/pkg/async"
	"github.com/meridianhq/platform/pkg/email"
	"github.com/meridianhq/platform/pkg/notifications"
)

// Notifier sends the owner their welcome email and in-app notification
// after a tenant is fully provisioned. Spec.md §4.6 ends at the migration
// step with no owner-facing confirmation; every onboarding flow in the
// corpus sends one, so this is additive rather than load-bearing — a
// failure here never unwinds the tenant.
type Notifier struct {
	mailer  email.EmailSender
	manager *notifications.Manager
}

// NewNotifier builds a Notifier. Either collaborator may be nil, in which
// case that channel is skipped.
func NewNotifier(mailer email.EmailSender, manager *notifications.Manager) *Notifier {
	return &Notifier{mailer: mailer, manager: manager}
}

// NotifyOwner fires the welcome email and notification in the background.
// It detaches from ctx's cancellation (the caller's request is likely
// about to return) but keeps its values, then bounds the whole attempt to
// a fixed timeout so a stalled mail provider cannot leak a goroutine.
func (n *Notifier) NotifyOwner(ctx context.Context, ownerUserID, ownerEmail, companyName string) {
	detached := context.WithoutCancel(ctx)

	async.Async(detached, struct{}{}, func(ctx context.Context, _ struct{}) (struct{}, error) {
		var errs []error

		if n.mailer != nil {
			err := n.mailer.SendEmail(ctx, email.SendEmailParams{
				SendTo:   ownerEmail,
				Subject:  fmt.Sprintf("Welcome to %s", companyName),
				BodyHTML: fmt.Sprintf("<p>%s is ready. Sign in to get started.</p>", companyName),
				Tag:      "tenant-welcome",
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("welcome email: %w", err))
			}
		}

		if n.manager != nil {
			err := n.manager.Send(ctx, notifications.Notification{
				UserID:   ownerUserID,
				Type:     notifications.TypeSuccess,
				Priority: notifications.PriorityNormal,
				Title:    "Organization created",
				Message:  fmt.Sprintf("%s is ready to use.", companyName),
			})
			if err != nil {
				errs = append(errs, fmt.Errorf("welcome notification: %w", err))
			}
		}

		return struct{}{}, errors.Join(errs...)
	})
}
