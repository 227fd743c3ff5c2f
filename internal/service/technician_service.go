package service

import (
	"context"
	"sort"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
)

// TechnicianService exposes the technician directory with live workload.
type TechnicianService struct {
	technicians repository.TechnicianRepository
	tickets     repository.TicketRepository
}

// NewTechnicianService constructs the service.
func NewTechnicianService(technicians repository.TechnicianRepository, tickets repository.TicketRepository) *TechnicianService {
	return &TechnicianService{technicians: technicians, tickets: tickets}
}

// ListTechnicians returns active technicians, least loaded first. Counts are
// computed from ticket state on every call.
func (s *TechnicianService) ListTechnicians(ctx context.Context) ([]domain.Technician, error) {
	technicians, err := s.technicians.List(ctx)
	if err != nil {
		return nil, err
	}
	workloads, err := s.tickets.CountByTechnician(ctx)
	if err != nil {
		return nil, err
	}
	for i := range technicians {
		load := workloads[technicians[i].ID]
		technicians[i].AssignedCount = load.Assigned
		technicians[i].InProgressCount = load.InProgress
	}
	sort.SliceStable(technicians, func(i, j int) bool {
		if technicians[i].Load() != technicians[j].Load() {
			return technicians[i].Load() < technicians[j].Load()
		}
		return technicians[i].FullName < technicians[j].FullName
	})
	return technicians, nil
}
