package service

import (
	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-workflow/pkg/util/errorutil"
)

// actionSources lists the statuses each named action may start from.
var actionSources = map[domain.TicketAction][]domain.TicketStatus{
	domain.ActionAssign:   {domain.TicketStatusPendingAnalysis},
	domain.ActionReassign: {domain.TicketStatusAssigned, domain.TicketStatusInProgress},
	domain.ActionEscalate: {domain.TicketStatusPendingAnalysis, domain.TicketStatusAssigned, domain.TicketStatusInProgress},
	domain.ActionClose:    {domain.TicketStatusResolved},
	domain.ActionReopen:   {domain.TicketStatusRejected},
}

// statusTargets lists the legal targets of a status-only update. Entering
// assigned always goes through Assign, Reassign or Reopen because it needs a
// technician.
var statusTargets = map[domain.TicketStatus][]domain.TicketStatus{
	domain.TicketStatusPendingAnalysis: {domain.TicketStatusRejected},
	domain.TicketStatusAssigned:        {domain.TicketStatusInProgress, domain.TicketStatusResolved},
	domain.TicketStatusInProgress:      {domain.TicketStatusResolved},
	domain.TicketStatusResolved:        {domain.TicketStatusClosed, domain.TicketStatusRejected},
	domain.TicketStatusClosed:          {},
	domain.TicketStatusRejected:        {},
}

func canApply(action domain.TicketAction, current domain.TicketStatus) bool {
	for _, candidate := range actionSources[action] {
		if candidate == current {
			return true
		}
	}
	return false
}

func isValidStatusTarget(current, next domain.TicketStatus) bool {
	for _, candidate := range statusTargets[current] {
		if candidate == next {
			return true
		}
	}
	return false
}

func requireSource(ticket *domain.Ticket, action domain.TicketAction) error {
	if !canApply(action, ticket.Status) {
		return apperrors.NewInvalidTransition(ticket.ID, string(ticket.Status), string(action))
	}
	return nil
}

// authorizeAction applies the role gate that does not depend on ticket state.
func authorizeAction(actor domain.Actor, action domain.TicketAction) error {
	if action == domain.ActionUpdateStatus {
		if !actor.Role.Valid() {
			return apperrors.NewRoleNotPermitted(string(actor.Role), string(action))
		}
		return nil
	}
	if !actor.Role.IsStaff() {
		return apperrors.NewRoleNotPermitted(string(actor.Role), string(action))
	}
	if action == domain.ActionEscalate && actor.Role == domain.RoleSecretary {
		return apperrors.NewRoleNotPermitted(string(actor.Role), string(action))
	}
	return nil
}

// authorizeStatusUpdate lets staff move any legal edge, technicians progress
// their own tickets, and the creator reject a resolution.
func authorizeStatusUpdate(actor domain.Actor, ticket *domain.Ticket, target domain.TicketStatus) error {
	switch actor.Role {
	case domain.RoleTechnician:
		if ticket.AssignedTo(actor.ID) &&
			(target == domain.TicketStatusInProgress || target == domain.TicketStatusResolved) {
			return nil
		}
	case domain.RoleRequester:
		if ticket.CreatorID == actor.ID &&
			ticket.Status == domain.TicketStatusResolved && target == domain.TicketStatusRejected {
			return nil
		}
	default:
		if actor.Role.IsStaff() {
			return nil
		}
	}
	return apperrors.NewRoleNotPermitted(string(actor.Role), string(domain.ActionUpdateStatus))
}
