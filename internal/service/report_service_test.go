package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-workflow/internal/config"
	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

func TestReportServiceReadsFreshSnapshot(t *testing.T) {
	f := newWorkflowFixture(t)
	ctx := context.Background()
	ticket := f.seed(t, domain.TicketStatusPendingAnalysis, domain.TicketPriorityMoyenne, nil)
	f.seed(t, domain.TicketStatusResolved, domain.TicketPriorityHaute, ptr("tech-a"))

	reports := NewReportService(f.tickets, f.technicians, config.ReportConfig{TopAgencies: 5})

	summary, err := reports.Summary(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, summary.Total)
	require.Equal(t, 1, summary.Pending)

	_, err = f.service.AssignTicket(ctx, director, ticket.ID, "tech-b", nil)
	require.NoError(t, err)

	summary, err = reports.Summary(ctx)
	require.NoError(t, err)
	require.Zero(t, summary.Pending)
	require.Equal(t, 1, summary.InTreatment)

	stats, err := reports.Statistics(ctx)
	require.NoError(t, err)
	require.Equal(t, 2, stats.Total)
	require.Len(t, stats.Statuses, len(domain.TicketStatuses))
	require.Equal(t, domain.TicketPriorityCritique, stats.Priorities[0].Priority)

	agencies, err := reports.TopAgencies(ctx, 0)
	require.NoError(t, err)
	require.Len(t, agencies, 1)
	require.Equal(t, "Agence Centre", agencies[0].Agency)
	require.Equal(t, 2, agencies[0].Count)

	rollup, err := reports.Technicians(ctx)
	require.NoError(t, err)
	require.Len(t, rollup, 2)
	require.Equal(t, "tech-a", rollup[0].TechnicianID)
	require.Equal(t, 1, rollup[0].Completed)
	require.Equal(t, 1, rollup[1].ActiveLoad)
}
