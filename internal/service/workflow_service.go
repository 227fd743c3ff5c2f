package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/events"
	"github.com/spec-kit/helpdesk-workflow/internal/observability"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
	apperrors "github.com/spec-kit/helpdesk-workflow/pkg/util/errorutil"
)

// WorkflowService validates and applies ticket lifecycle transitions.
type WorkflowService struct {
	tickets     repository.TicketRepository
	technicians repository.TechnicianRepository
	history     repository.TicketHistoryRepository
	dispatcher  events.Dispatcher
	metrics     *observability.Metrics
	logger      *zap.Logger
	now         func() time.Time
}

// WorkflowDependencies bundles collaborators for the workflow service.
type WorkflowDependencies struct {
	TicketRepo     repository.TicketRepository
	TechnicianRepo repository.TechnicianRepository
	HistoryRepo    repository.TicketHistoryRepository
	Dispatcher     events.Dispatcher
	Metrics        *observability.Metrics
	Logger         *zap.Logger
	Now            func() time.Time
}

// TicketListFilter describes staff listing filters.
type TicketListFilter struct {
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	Agency       *string
	TechnicianID *string
	Limit        int
	Offset       int
}

// NewWorkflowService constructs the service.
func NewWorkflowService(deps WorkflowDependencies) *WorkflowService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	now := deps.Now
	if now == nil {
		now = time.Now
	}
	return &WorkflowService{
		tickets:     deps.TicketRepo,
		technicians: deps.TechnicianRepo,
		history:     deps.HistoryRepo,
		dispatcher:  deps.Dispatcher,
		metrics:     deps.Metrics,
		logger:      logger,
		now:         now,
	}
}

// AssignTicket routes a pending ticket to a technician.
func (s *WorkflowService) AssignTicket(ctx context.Context, actor domain.Actor, ticketID, technicianID string, notes *string) (*domain.Ticket, error) {
	if err := authorizeAction(actor, domain.ActionAssign); err != nil {
		return nil, s.reject(domain.ActionAssign, err)
	}
	technician, err := s.resolveTechnician(ctx, technicianID)
	if err != nil {
		return nil, s.reject(domain.ActionAssign, err)
	}
	notes = normalizeNotes(notes)
	return s.apply(ctx, actor, ticketID, domain.ActionAssign, func(ticket *domain.Ticket) error {
		if err := requireSource(ticket, domain.ActionAssign); err != nil {
			return err
		}
		ticket.Status = domain.TicketStatusAssigned
		ticket.TechnicianID = &technician.ID
		ticket.AssignmentNotes = notes
		return nil
	})
}

// ReassignTicket hands an assigned or in-progress ticket to a technician and
// resets it to assigned.
func (s *WorkflowService) ReassignTicket(ctx context.Context, actor domain.Actor, ticketID, technicianID string) (*domain.Ticket, error) {
	if err := authorizeAction(actor, domain.ActionReassign); err != nil {
		return nil, s.reject(domain.ActionReassign, err)
	}
	technician, err := s.resolveTechnician(ctx, technicianID)
	if err != nil {
		return nil, s.reject(domain.ActionReassign, err)
	}
	return s.apply(ctx, actor, ticketID, domain.ActionReassign, func(ticket *domain.Ticket) error {
		if err := requireSource(ticket, domain.ActionReassign); err != nil {
			return err
		}
		ticket.Status = domain.TicketStatusAssigned
		ticket.TechnicianID = &technician.ID
		return nil
	})
}

// EscalateTicket raises the priority by one tier. Status and technician are untouched.
func (s *WorkflowService) EscalateTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	if err := authorizeAction(actor, domain.ActionEscalate); err != nil {
		return nil, s.reject(domain.ActionEscalate, err)
	}
	return s.apply(ctx, actor, ticketID, domain.ActionEscalate, func(ticket *domain.Ticket) error {
		if err := requireSource(ticket, domain.ActionEscalate); err != nil {
			return err
		}
		next, ok := ticket.Priority.Next()
		if !ok {
			return apperrors.NewAlreadyMaxPriority(ticket.ID, string(ticket.Priority))
		}
		ticket.Priority = next
		return nil
	})
}

// CloseTicket closes a resolved ticket, keeping its technician for audit.
func (s *WorkflowService) CloseTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	if err := authorizeAction(actor, domain.ActionClose); err != nil {
		return nil, s.reject(domain.ActionClose, err)
	}
	return s.apply(ctx, actor, ticketID, domain.ActionClose, func(ticket *domain.Ticket) error {
		if err := requireSource(ticket, domain.ActionClose); err != nil {
			return err
		}
		closedAt := s.now().UTC()
		ticket.Status = domain.TicketStatusClosed
		ticket.ClosedAt = &closedAt
		return nil
	})
}

// ReopenTicket puts a rejected ticket back in the hands of a technician.
func (s *WorkflowService) ReopenTicket(ctx context.Context, actor domain.Actor, ticketID, technicianID string) (*domain.Ticket, error) {
	if err := authorizeAction(actor, domain.ActionReopen); err != nil {
		return nil, s.reject(domain.ActionReopen, err)
	}
	technician, err := s.resolveTechnician(ctx, technicianID)
	if err != nil {
		return nil, s.reject(domain.ActionReopen, err)
	}
	return s.apply(ctx, actor, ticketID, domain.ActionReopen, func(ticket *domain.Ticket) error {
		if err := requireSource(ticket, domain.ActionReopen); err != nil {
			return err
		}
		ticket.Status = domain.TicketStatusAssigned
		ticket.TechnicianID = &technician.ID
		ticket.ClosedAt = nil
		return nil
	})
}

// UpdateStatus applies a status-only transition. Setting closed is the Close action.
func (s *WorkflowService) UpdateStatus(ctx context.Context, actor domain.Actor, ticketID string, target domain.TicketStatus) (*domain.Ticket, error) {
	if !target.Valid() {
		return nil, s.reject(domain.ActionUpdateStatus,
			apperrors.NewValidationError("unknown status", map[string]any{"status": string(target)}))
	}
	if target == domain.TicketStatusClosed {
		return s.CloseTicket(ctx, actor, ticketID)
	}
	if err := authorizeAction(actor, domain.ActionUpdateStatus); err != nil {
		return nil, s.reject(domain.ActionUpdateStatus, err)
	}
	return s.apply(ctx, actor, ticketID, domain.ActionUpdateStatus, func(ticket *domain.Ticket) error {
		if !isValidStatusTarget(ticket.Status, target) {
			return apperrors.NewInvalidTransition(ticket.ID, string(ticket.Status), "set status "+string(target))
		}
		if err := authorizeStatusUpdate(actor, ticket, target); err != nil {
			return err
		}
		ticket.Status = target
		if target == domain.TicketStatusRejected {
			ticket.TechnicianID = nil
		}
		return nil
	})
}

// GetTicket fetches a single ticket. Non-staff callers only see tickets they
// created or currently hold; any other ticket reads as not found.
func (s *WorkflowService) GetTicket(ctx context.Context, actor domain.Actor, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.lookupTicket(ctx, ticketID)
	if err != nil {
		return nil, err
	}
	if !actor.Role.IsStaff() && ticket.CreatorID != actor.ID && !ticket.AssignedTo(actor.ID) {
		return nil, apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return ticket, nil
}

// ListTickets returns tickets matching filter, newest first.
func (s *WorkflowService) ListTickets(ctx context.Context, filter TicketListFilter) ([]domain.Ticket, error) {
	for _, status := range filter.Statuses {
		if !status.Valid() {
			return nil, apperrors.NewValidationError("unknown status", map[string]any{"status": string(status)})
		}
	}
	for _, priority := range filter.Priorities {
		if !priority.Valid() {
			return nil, apperrors.NewValidationError("unknown priority", map[string]any{"priority": string(priority)})
		}
	}
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{
		Statuses:     filter.Statuses,
		Priorities:   filter.Priorities,
		Agency:       filter.Agency,
		TechnicianID: filter.TechnicianID,
		Limit:        filter.Limit,
		Offset:       filter.Offset,
	})
}

// ListHistory returns the audit trail of a ticket, oldest first.
func (s *WorkflowService) ListHistory(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if _, err := s.lookupTicket(ctx, ticketID); err != nil {
		return nil, err
	}
	if s.history == nil {
		return []domain.TicketHistory{}, nil
	}
	return s.history.ListByTicket(ctx, ticketID)
}

func (s *WorkflowService) apply(ctx context.Context, actor domain.Actor, ticketID string, action domain.TicketAction, change func(*domain.Ticket) error) (*domain.Ticket, error) {
	var before domain.Ticket
	now := s.now().UTC()
	updated, err := s.tickets.Mutate(ctx, ticketID, func(ticket *domain.Ticket) ([]domain.TicketHistory, error) {
		before = ticket.Clone()
		if err := change(ticket); err != nil {
			return nil, err
		}
		ticket.UpdatedAt = now
		if err := ticket.CheckInvariants(); err != nil {
			return nil, apperrors.NewInternalError(err)
		}
		return historyEntries(actor, action, before, *ticket, now), nil
	})
	if err != nil {
		return nil, s.reject(action, ticketLookupError(ticketID, err))
	}

	s.metrics.RecordTransition(string(action), string(updated.Status))
	s.logger.Info("ticket transition applied",
		zap.String("ticket_id", updated.ID),
		zap.String("action", string(action)),
		zap.String("actor_id", actor.ID),
		zap.String("actor_role", string(actor.Role)),
		zap.String("from_status", string(before.Status)),
		zap.String("to_status", string(updated.Status)))

	// The transition is committed; notifications must not depend on the caller staying around.
	s.publishTransition(context.WithoutCancel(ctx), actor, action, before, *updated, now)
	return updated, nil
}

func (s *WorkflowService) resolveTechnician(ctx context.Context, technicianID string) (*domain.Technician, error) {
	technicianID = strings.TrimSpace(technicianID)
	if technicianID == "" {
		return nil, apperrors.NewUnknownTechnician("")
	}
	technician, err := s.technicians.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperrors.NewUnknownTechnician(technicianID)
		}
		return nil, err
	}
	return technician, nil
}

func (s *WorkflowService) reject(action domain.TicketAction, err error) error {
	code := apperrors.CodeInternal
	if domainErr := apperrors.ToDomainError(err); domainErr != nil {
		code = domainErr.Code
	}
	s.metrics.RecordRejectedTransition(string(action), code)
	if code == apperrors.CodeInternal {
		s.logger.Error("ticket transition failed", zap.String("action", string(action)), zap.Error(err))
	}
	return err
}

func (s *WorkflowService) publishTransition(ctx context.Context, actor domain.Actor, action domain.TicketAction, before, after domain.Ticket, at time.Time) {
	if s.dispatcher == nil {
		return
	}
	event := events.Event{
		ID:        uuid.NewString(),
		Type:      events.EventTypeForAction(action),
		TicketID:  after.ID,
		Actor:     actor,
		Timestamp: at,
		Payload: events.TransitionPayload{
			Action:               action,
			PreviousStatus:       before.Status,
			NewStatus:            after.Status,
			PreviousPriority:     before.Priority,
			NewPriority:          after.Priority,
			PreviousTechnicianID: before.TechnicianID,
			Ticket:               after.Clone(),
		},
	}
	_ = s.dispatcher.Publish(ctx, event)
}

func (s *WorkflowService) lookupTicket(ctx context.Context, ticketID string) (*domain.Ticket, error) {
	ticket, err := s.tickets.GetByID(ctx, ticketID)
	if err != nil {
		return nil, ticketLookupError(ticketID, err)
	}
	return ticket, nil
}

func ticketLookupError(ticketID string, err error) error {
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"ticket_id": ticketID})
	}
	return err
}

func historyEntries(actor domain.Actor, action domain.TicketAction, before, after domain.Ticket, at time.Time) []domain.TicketHistory {
	base := domain.TicketHistory{
		TicketID:      after.ID,
		Action:        action,
		ChangedByID:   actor.ID,
		ChangedByRole: actor.Role,
		CreatedAt:     at,
	}
	var entries []domain.TicketHistory
	if before.Status != after.Status {
		entry := base
		entry.ChangeType = domain.ChangeTypeStatus
		entry.OldValue = map[string]any{"status": string(before.Status)}
		entry.NewValue = map[string]any{"status": string(after.Status)}
		entries = append(entries, entry)
	}
	switch action {
	case domain.ActionAssign, domain.ActionReassign, domain.ActionReopen:
		entry := base
		entry.ChangeType = domain.ChangeTypeTechnician
		entry.OldValue = map[string]any{"technician_id": optional(before.TechnicianID)}
		entry.NewValue = map[string]any{
			"technician_id": optional(after.TechnicianID),
			"notes":         optional(after.AssignmentNotes),
		}
		entries = append(entries, entry)
	default:
		if optional(before.TechnicianID) != optional(after.TechnicianID) {
			entry := base
			entry.ChangeType = domain.ChangeTypeTechnician
			entry.OldValue = map[string]any{"technician_id": optional(before.TechnicianID)}
			entry.NewValue = map[string]any{"technician_id": optional(after.TechnicianID)}
			entries = append(entries, entry)
		}
	}
	if before.Priority != after.Priority {
		entry := base
		entry.ChangeType = domain.ChangeTypePriority
		entry.OldValue = map[string]any{"priority": string(before.Priority)}
		entry.NewValue = map[string]any{"priority": string(after.Priority)}
		entries = append(entries, entry)
	}
	return entries
}

func optional(v *string) any {
	if v == nil {
		return nil
	}
	return *v
}

func normalizeNotes(notes *string) *string {
	if notes == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*notes)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
