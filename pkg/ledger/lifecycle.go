package ledger

import (
	"context"
	"fmt"
)

// State is a subscription lifecycle state.
type State string

const (
	StateActive   State = "active"
	StateInactive State = "inactive"
)

// Event triggers a lifecycle transition.
type Event string

const (
	EventModify Event = "modify"
	EventCancel Event = "cancel"
)

// Action runs a transition's side effect before the record's state changes.
// Returning an error aborts the transition and leaves the record untouched.
type Action func(ctx context.Context, sub Subscription, data any) error

type transition struct {
	to      State
	actions []Action
}

// lifecycle is a transition table keyed [from][event]. It holds no current
// state of its own: the state comes from the record being transitioned, so a
// single table serves every subscription.
type lifecycle struct {
	table map[State]map[Event]transition
}

func newLifecycle() *lifecycle {
	return &lifecycle{table: make(map[State]map[Event]transition)}
}

func (l *lifecycle) add(from, to State, event Event, actions ...Action) {
	if _, ok := l.table[from]; !ok {
		l.table[from] = make(map[Event]transition)
	}
	l.table[from][event] = transition{to: to, actions: actions}
}

func (l *lifecycle) can(sub Subscription, event Event) bool {
	_, ok := l.table[sub.State()][event]
	return ok
}

// fire runs the transition for event from sub's current state. On success sub
// is updated to the target state.
func (l *lifecycle) fire(ctx context.Context, sub *Subscription, event Event, data any) error {
	from := sub.State()
	t, ok := l.table[from][event]
	if !ok {
		return &ErrNoTransition{State: from, Event: event}
	}

	for _, action := range t.actions {
		if err := action(ctx, *sub, data); err != nil {
			return fmt.Errorf("%s: %w", event, err)
		}
	}

	sub.IsActive = t.to == StateActive
	return nil
}
