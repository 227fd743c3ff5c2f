package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

func TestPublishSwallowsHandlerFailures(t *testing.T) {
	core, logs := observer.New(zap.WarnLevel)
	dispatcher := NewInMemoryDispatcher(zap.New(core))

	var calls []string
	dispatcher.Subscribe(EventTicketClosed, func(context.Context, Event) error {
		calls = append(calls, "failing")
		return errors.New("boom")
	})
	dispatcher.Subscribe(EventTicketClosed, func(context.Context, Event) error {
		calls = append(calls, "panicking")
		panic("handler bug")
	})
	dispatcher.Subscribe(EventTicketClosed, func(context.Context, Event) error {
		calls = append(calls, "healthy")
		return nil
	})
	dispatcher.Subscribe(EventTicketReopened, func(context.Context, Event) error {
		calls = append(calls, "other")
		return nil
	})

	err := dispatcher.Publish(context.Background(), Event{Type: EventTicketClosed, TicketID: "t-1"})
	require.NoError(t, err)
	require.Equal(t, []string{"failing", "panicking", "healthy"}, calls)
	require.Equal(t, 1, logs.FilterMessage("event handler failed").Len())
	require.Equal(t, 1, logs.FilterMessage("event handler panicked").Len())
}

func TestEventTypeForAction(t *testing.T) {
	require.Equal(t, EventTicketAssigned, EventTypeForAction(domain.ActionAssign))
	require.Equal(t, EventTicketReassigned, EventTypeForAction(domain.ActionReassign))
	require.Equal(t, EventTicketEscalated, EventTypeForAction(domain.ActionEscalate))
	require.Equal(t, EventTicketClosed, EventTypeForAction(domain.ActionClose))
	require.Equal(t, EventTicketReopened, EventTypeForAction(domain.ActionReopen))
	require.Equal(t, EventTicketStatusChanged, EventTypeForAction(domain.ActionUpdateStatus))
}
