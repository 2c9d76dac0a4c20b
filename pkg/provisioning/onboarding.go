package provisioning

import (
	"context"

	"github.com/meridianhq/platform/pkg/statemachine"
)

// OnboardingState is the derived lifecycle stage of a user being attached
// to a tenant. It is never persisted as its own column — Lobby and
// TenantUser are computed from whether the user row's tenant_id is set,
// and Provisioning exists only for the duration of one CreateOrganization
// call — but the transition rules are still worth enforcing explicitly
// rather than left implicit in the coordinator's control flow.
type OnboardingState string

const (
	OnboardingLobby        OnboardingState = "lobby"
	OnboardingProvisioning OnboardingState = "provisioning"
	OnboardingTenantUser   OnboardingState = "tenant_user"
)

const (
	eventBeginProvisioning  statemachine.Event = statemachine.StringEvent("begin_provisioning")
	eventCompleteOnboarding statemachine.Event = statemachine.StringEvent("complete_onboarding")
)

func onboardingState(s OnboardingState) statemachine.State {
	return statemachine.StringState(string(s))
}

// newOnboardingMachine builds the forward-only onboarding lifecycle rooted
// at from: lobby -> provisioning -> tenant_user. There is no backwards
// transition; a failed provisioning attempt does not move the user out of
// lobby, it simply never advances it.
func newOnboardingMachine(from OnboardingState) (statemachine.StateMachine, error) {
	b := statemachine.NewBuilder(onboardingState(from))

	b, err := b.WithTransition(onboardingState(OnboardingLobby), onboardingState(OnboardingProvisioning), eventBeginProvisioning, nil, nil)
	if err != nil {
		return nil, err
	}
	b, err = b.WithTransition(onboardingState(OnboardingProvisioning), onboardingState(OnboardingTenantUser), eventCompleteOnboarding, nil, nil)
	if err != nil {
		return nil, err
	}
	return b.Build(), nil
}

func eventForOnboardingTransition(from, to OnboardingState) (statemachine.Event, bool) {
	switch {
	case from == OnboardingLobby && to == OnboardingProvisioning:
		return eventBeginProvisioning, true
	case from == OnboardingProvisioning && to == OnboardingTenantUser:
		return eventCompleteOnboarding, true
	default:
		return nil, false
	}
}

// validOnboardingTransition reports whether moving from from to to is a
// legal onboarding step.
func validOnboardingTransition(from, to OnboardingState) bool {
	event, ok := eventForOnboardingTransition(from, to)
	if !ok {
		return false
	}
	machine, err := newOnboardingMachine(from)
	if err != nil {
		return false
	}
	return machine.CanFire(context.Background(), event, nil)
}
