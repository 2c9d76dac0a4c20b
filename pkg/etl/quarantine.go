package etl

import (
	"context"

	"github.com/meridianhq/platform/pkg/statemachine"
)

// QuarantineStatus is a quarantine record's repair lifecycle.
type QuarantineStatus string

const (
	QuarantinePending  QuarantineStatus = "pending"
	QuarantineResolved QuarantineStatus = "resolved"
	QuarantineDeleted  QuarantineStatus = "deleted"
)

const (
	eventResolve statemachine.Event = statemachine.StringEvent("resolve")
	eventDiscard statemachine.Event = statemachine.StringEvent("discard")
)

func quarantineState(s QuarantineStatus) statemachine.State {
	return statemachine.StringState(string(s))
}

// newQuarantineMachine builds the quarantine repair lifecycle rooted at
// from: pending -> resolved (resolve) and pending -> deleted (discard).
// Both are terminal; neither has an outbound transition. A successful
// retry does not pass through this machine: RetryQuarantineBatch and
// RetryQuarantineRecord delete the row outright.
func newQuarantineMachine(from QuarantineStatus) (statemachine.StateMachine, error) {
	b := statemachine.NewBuilder(quarantineState(from))

	steps := []struct {
		from, to QuarantineStatus
		event    statemachine.Event
	}{
		{QuarantinePending, QuarantineResolved, eventResolve},
		{QuarantinePending, QuarantineDeleted, eventDiscard},
	}

	var err error
	for _, s := range steps {
		b, err = b.WithTransition(quarantineState(s.from), quarantineState(s.to), s.event, nil, nil)
		if err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}

func eventForQuarantineTransition(from, to QuarantineStatus) (statemachine.Event, bool) {
	switch {
	case from == QuarantinePending && to == QuarantineResolved:
		return eventResolve, true
	case from == QuarantinePending && to == QuarantineDeleted:
		return eventDiscard, true
	default:
		return nil, false
	}
}

// validQuarantineTransition reports whether moving a quarantine record from
// from to to is a legal repair-lifecycle transition.
func validQuarantineTransition(from, to QuarantineStatus) bool {
	event, ok := eventForQuarantineTransition(from, to)
	if !ok {
		return false
	}
	machine, err := newQuarantineMachine(from)
	if err != nil {
		return false
	}
	return machine.CanFire(context.Background(), event, nil)
}
