package events

import (
	"time"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketAssigned      EventType = "ticket_assigned"
	EventTicketReassigned    EventType = "ticket_reassigned"
	EventTicketEscalated     EventType = "ticket_escalated"
	EventTicketClosed        EventType = "ticket_closed"
	EventTicketReopened      EventType = "ticket_reopened"
	EventTicketStatusChanged EventType = "ticket_status_changed"
)

// TransitionEventTypes lists every event a workflow transition can emit.
var TransitionEventTypes = []EventType{
	EventTicketAssigned,
	EventTicketReassigned,
	EventTicketEscalated,
	EventTicketClosed,
	EventTicketReopened,
	EventTicketStatusChanged,
}

// EventTypeForAction maps a workflow action to the event it emits.
func EventTypeForAction(action domain.TicketAction) EventType {
	switch action {
	case domain.ActionAssign:
		return EventTicketAssigned
	case domain.ActionReassign:
		return EventTicketReassigned
	case domain.ActionEscalate:
		return EventTicketEscalated
	case domain.ActionClose:
		return EventTicketClosed
	case domain.ActionReopen:
		return EventTicketReopened
	default:
		return EventTicketStatusChanged
	}
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string       `json:"id"`
	Type      EventType    `json:"type"`
	TicketID  string       `json:"ticket_id"`
	Actor     domain.Actor `json:"actor"`
	Timestamp time.Time    `json:"timestamp"`
	Payload   interface{}  `json:"payload"`
}

// TransitionPayload describes a completed workflow transition.
type TransitionPayload struct {
	Action               domain.TicketAction   `json:"action"`
	PreviousStatus       domain.TicketStatus   `json:"previous_status"`
	NewStatus            domain.TicketStatus   `json:"new_status"`
	PreviousPriority     domain.TicketPriority `json:"previous_priority"`
	NewPriority          domain.TicketPriority `json:"new_priority"`
	PreviousTechnicianID *string               `json:"previous_technician_id,omitempty"`
	Ticket               domain.Ticket         `json:"ticket"`
}
