package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// AssignTicketRequest payload for assign.
type AssignTicketRequest struct {
	TechnicianID string  `json:"technician_id"`
	Notes        *string `json:"notes"`
}

// TechnicianRequest payload for reassign and reopen.
type TechnicianRequest struct {
	TechnicianID string `json:"technician_id"`
}

// UpdateStatusRequest payload for a status-only update.
type UpdateStatusRequest struct {
	Status domain.TicketStatus `json:"status"`
}

// TicketResponse is the public ticket representation.
type TicketResponse struct {
	ID              string                `json:"id"`
	Number          int64                 `json:"number"`
	Title           string                `json:"title"`
	Description     string                `json:"description"`
	CreatorID       string                `json:"creator_id"`
	Agency          string                `json:"agency"`
	Priority        domain.TicketPriority `json:"priority"`
	Status          domain.TicketStatus   `json:"status"`
	TechnicianID    *string               `json:"technician_id"`
	AssignmentNotes *string               `json:"assignment_notes"`
	CreatedAt       time.Time             `json:"created_at"`
	UpdatedAt       time.Time             `json:"updated_at"`
	ClosedAt        *time.Time            `json:"closed_at"`
}

// TicketHistoryResponse represents an audit entry.
type TicketHistoryResponse struct {
	ID            string                  `json:"id"`
	Action        domain.TicketAction     `json:"action"`
	ChangeType    domain.TicketChangeType `json:"change_type"`
	ChangedByID   string                  `json:"changed_by_id"`
	ChangedByRole domain.Role             `json:"changed_by_role"`
	OldValue      map[string]any          `json:"old_value"`
	NewValue      map[string]any          `json:"new_value"`
	CreatedAt     time.Time               `json:"created_at"`
}

// NewTicketResponse maps a ticket to its response.
func NewTicketResponse(ticket *domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:              ticket.ID,
		Number:          ticket.Number,
		Title:           ticket.Title,
		Description:     ticket.Description,
		CreatorID:       ticket.CreatorID,
		Agency:          ticket.Agency(),
		Priority:        ticket.Priority,
		Status:          ticket.Status,
		TechnicianID:    ticket.TechnicianID,
		AssignmentNotes: ticket.AssignmentNotes,
		CreatedAt:       ticket.CreatedAt,
		UpdatedAt:       ticket.UpdatedAt,
		ClosedAt:        ticket.ClosedAt,
	}
}

// NewTicketHistoryResponses maps audit entries.
func NewTicketHistoryResponses(entries []domain.TicketHistory) []TicketHistoryResponse {
	resp := make([]TicketHistoryResponse, 0, len(entries))
	for _, entry := range entries {
		resp = append(resp, TicketHistoryResponse{
			ID:            entry.ID,
			Action:        entry.Action,
			ChangeType:    entry.ChangeType,
			ChangedByID:   entry.ChangedByID,
			ChangedByRole: entry.ChangedByRole,
			OldValue:      entry.OldValue,
			NewValue:      entry.NewValue,
			CreatedAt:     entry.CreatedAt,
		})
	}
	return resp
}
