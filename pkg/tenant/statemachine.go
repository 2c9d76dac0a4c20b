package tenant

import (
	"context"

	"github.com/meridianhq/platform/pkg/statemachine"
)

const (
	eventSuspend    statemachine.Event = statemachine.StringEvent("suspend")
	eventReactivate statemachine.Event = statemachine.StringEvent("reactivate")
	eventDelete     statemachine.Event = statemachine.StringEvent("delete")
)

func statusState(s Status) statemachine.State {
	return statemachine.StringState(string(s))
}

// newStatusMachine builds the tenant status lifecycle rooted at from:
// active <-> suspended, and active/suspended -> deleted (terminal). Deleted
// has no outbound transitions.
func newStatusMachine(from Status) (statemachine.StateMachine, error) {
	b := statemachine.NewBuilder(statusState(from))

	steps := []struct {
		from, to Status
		event    statemachine.Event
	}{
		{StatusActive, StatusSuspended, eventSuspend},
		{StatusSuspended, StatusActive, eventReactivate},
		{StatusActive, StatusDeleted, eventDelete},
		{StatusSuspended, StatusDeleted, eventDelete},
	}

	var err error
	for _, s := range steps {
		b, err = b.WithTransition(statusState(s.from), statusState(s.to), s.event, nil, nil)
		if err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func eventForTransition(from, to Status) (statemachine.Event, bool) {
	switch {
	case from == StatusActive && to == StatusSuspended:
		return eventSuspend, true
	case from == StatusSuspended && to == StatusActive:
		return eventReactivate, true
	case (from == StatusActive || from == StatusSuspended) && to == StatusDeleted:
		return eventDelete, true
	default:
		return nil, false
	}
}

// validStatusTransition reports whether moving a tenant from from to to is a
// legal lifecycle transition.
func validStatusTransition(from, to Status) bool {
	event, ok := eventForTransition(from, to)
	if !ok {
		return false
	}
	machine, err := newStatusMachine(from)
	if err != nil {
		return false
	}
	return machine.CanFire(context.Background(), event, nil)
}
