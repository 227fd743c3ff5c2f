package service

import (
	"context"

	"github.com/spec-kit/helpdesk-workflow/internal/config"
	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/report"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
)

// ReportService loads a fresh ticket snapshot per call and aggregates it.
type ReportService struct {
	tickets     repository.TicketRepository
	technicians repository.TechnicianRepository
	cfg         config.ReportConfig
}

// Statistics bundles the status and priority distributions.
type Statistics struct {
	Total      int                    `json:"total"`
	Statuses   []report.StatusCount   `json:"statuses"`
	Priorities []report.PriorityCount `json:"priorities"`
}

// NewReportService constructs the service.
func NewReportService(tickets repository.TicketRepository, technicians repository.TechnicianRepository, cfg config.ReportConfig) *ReportService {
	return &ReportService{tickets: tickets, technicians: technicians, cfg: cfg}
}

// Statistics returns status and priority distributions.
func (s *ReportService) Statistics(ctx context.Context) (*Statistics, error) {
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	return &Statistics{
		Total:      len(tickets),
		Statuses:   report.StatusDistribution(tickets),
		Priorities: report.PriorityDistribution(tickets),
	}, nil
}

// TopAgencies returns the busiest agencies. n <= 0 uses the configured default.
func (s *ReportService) TopAgencies(ctx context.Context, n int) ([]report.AgencyCount, error) {
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	if n <= 0 {
		n = s.cfg.TopAgencies
	}
	return report.TopAgencies(tickets, n), nil
}

// Technicians returns the per-technician rollup.
func (s *ReportService) Technicians(ctx context.Context) ([]report.TechnicianStats, error) {
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return nil, err
	}
	technicians, err := s.technicians.List(ctx)
	if err != nil {
		return nil, err
	}
	return report.TechnicianRollup(tickets, technicians), nil
}

// Summary returns the dashboard headline counts.
func (s *ReportService) Summary(ctx context.Context) (report.Summary, error) {
	tickets, err := s.snapshot(ctx)
	if err != nil {
		return report.Summary{}, err
	}
	return report.DashboardSummary(tickets), nil
}

func (s *ReportService) snapshot(ctx context.Context) ([]domain.Ticket, error) {
	return s.tickets.ListWithFilter(ctx, repository.TicketFilter{})
}
