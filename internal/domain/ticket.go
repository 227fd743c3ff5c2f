package domain

import (
	"fmt"
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for tickets.
type TicketStatus string

const (
	TicketStatusPendingAnalysis TicketStatus = "pending_analysis"
	TicketStatusAssigned        TicketStatus = "assigned"
	TicketStatusInProgress      TicketStatus = "in_progress"
	TicketStatusResolved        TicketStatus = "resolved"
	TicketStatusClosed          TicketStatus = "closed"
	TicketStatusRejected        TicketStatus = "rejected"
)

// TicketStatuses lists every status in lifecycle order.
var TicketStatuses = []TicketStatus{
	TicketStatusPendingAnalysis,
	TicketStatusAssigned,
	TicketStatusInProgress,
	TicketStatusResolved,
	TicketStatusClosed,
	TicketStatusRejected,
}

// Valid reports whether s is a known status.
func (s TicketStatus) Valid() bool {
	for _, candidate := range TicketStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// HoldsTechnician reports whether a ticket in this status must carry a technician.
func (s TicketStatus) HoldsTechnician() bool {
	switch s {
	case TicketStatusAssigned, TicketStatusInProgress, TicketStatusResolved:
		return true
	}
	return false
}

// TicketPriority enumerates urgency tiers, ordered faible < moyenne < haute < critique.
type TicketPriority string

const (
	TicketPriorityFaible   TicketPriority = "faible"
	TicketPriorityMoyenne  TicketPriority = "moyenne"
	TicketPriorityHaute    TicketPriority = "haute"
	TicketPriorityCritique TicketPriority = "critique"
)

var priorityLadder = []TicketPriority{
	TicketPriorityFaible,
	TicketPriorityMoyenne,
	TicketPriorityHaute,
	TicketPriorityCritique,
}

// PriorityDisplayOrder is the canonical report order, most urgent first.
var PriorityDisplayOrder = []TicketPriority{
	TicketPriorityCritique,
	TicketPriorityHaute,
	TicketPriorityMoyenne,
	TicketPriorityFaible,
}

// Rank returns the position of p on the priority ladder, or -1 when unknown.
func (p TicketPriority) Rank() int {
	for i, candidate := range priorityLadder {
		if candidate == p {
			return i
		}
	}
	return -1
}

// Valid reports whether p is a known priority.
func (p TicketPriority) Valid() bool {
	return p.Rank() >= 0
}

// Next returns the tier directly above p. ok is false at the ceiling or for unknown values.
func (p TicketPriority) Next() (next TicketPriority, ok bool) {
	rank := p.Rank()
	if rank < 0 || rank == len(priorityLadder)-1 {
		return p, false
	}
	return priorityLadder[rank+1], true
}

// Ticket is the aggregate for support requests.
type Ticket struct {
	ID              string
	Number          int64
	Title           string
	Description     string
	CreatorID       string
	CreatorAgency   *string
	UserAgency      *string
	Priority        TicketPriority
	Status          TicketStatus
	TechnicianID    *string
	AssignmentNotes *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
	ClosedAt        *time.Time
}

// Agency returns the creator agency, falling back to the legacy user agency.
func (t *Ticket) Agency() string {
	if t.CreatorAgency != nil && strings.TrimSpace(*t.CreatorAgency) != "" {
		return strings.TrimSpace(*t.CreatorAgency)
	}
	if t.UserAgency != nil {
		return strings.TrimSpace(*t.UserAgency)
	}
	return ""
}

// AssignedTo reports whether the ticket currently references technicianID.
func (t *Ticket) AssignedTo(technicianID string) bool {
	return t.TechnicianID != nil && *t.TechnicianID == technicianID
}

// CheckInvariants verifies the status/technician coupling.
// Closed tickets may keep their last technician for audit.
func (t *Ticket) CheckInvariants() error {
	if !t.Status.Valid() {
		return fmt.Errorf("ticket %s: unknown status %q", t.ID, t.Status)
	}
	if !t.Priority.Valid() {
		return fmt.Errorf("ticket %s: unknown priority %q", t.ID, t.Priority)
	}
	hasTechnician := t.TechnicianID != nil && *t.TechnicianID != ""
	switch {
	case t.Status.HoldsTechnician() && !hasTechnician:
		return fmt.Errorf("ticket %s: status %s requires a technician", t.ID, t.Status)
	case (t.Status == TicketStatusPendingAnalysis || t.Status == TicketStatusRejected) && hasTechnician:
		return fmt.Errorf("ticket %s: status %s must not carry a technician", t.ID, t.Status)
	}
	return nil
}

// Clone returns a copy that shares no pointers with t.
func (t Ticket) Clone() Ticket {
	out := t
	out.CreatorAgency = cloneString(t.CreatorAgency)
	out.UserAgency = cloneString(t.UserAgency)
	out.TechnicianID = cloneString(t.TechnicianID)
	out.AssignmentNotes = cloneString(t.AssignmentNotes)
	if t.ClosedAt != nil {
		closed := *t.ClosedAt
		out.ClosedAt = &closed
	}
	return out
}

func cloneString(v *string) *string {
	if v == nil {
		return nil
	}
	s := *v
	return &s
}
