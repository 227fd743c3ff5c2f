package domain

import "time"

// TicketAction names a workflow transition.
type TicketAction string

const (
	ActionAssign       TicketAction = "assign"
	ActionReassign     TicketAction = "reassign"
	ActionEscalate     TicketAction = "escalate"
	ActionClose        TicketAction = "close"
	ActionReopen       TicketAction = "reopen"
	ActionUpdateStatus TicketAction = "update_status"
)

// TicketChangeType captures what changed in a history entry.
type TicketChangeType string

const (
	ChangeTypeStatus     TicketChangeType = "STATUS_CHANGE"
	ChangeTypeTechnician TicketChangeType = "TECHNICIAN_CHANGE"
	ChangeTypePriority   TicketChangeType = "PRIORITY_CHANGE"
)

// TicketHistory is an immutable audit trail entry.
type TicketHistory struct {
	ID            string
	TicketID      string
	Action        TicketAction
	ChangedByID   string
	ChangedByRole Role
	ChangeType    TicketChangeType
	OldValue      map[string]any
	NewValue      map[string]any
	CreatedAt     time.Time
}
