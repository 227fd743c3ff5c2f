package repository

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

func TestMemoryTicketStoreMutateDiscardsFailedChange(t *testing.T) {
	store := NewMemoryTicketStore()
	ctx := context.Background()
	ticket := &domain.Ticket{Title: "Réseau lent", CreatorID: "user-1", Priority: domain.TicketPriorityFaible, Status: domain.TicketStatusPendingAnalysis}
	require.NoError(t, store.Create(ctx, ticket))
	require.Equal(t, int64(1), ticket.Number)

	refused := errors.New("refused")
	_, err := store.Mutate(ctx, ticket.ID, func(working *domain.Ticket) ([]domain.TicketHistory, error) {
		working.Priority = domain.TicketPriorityCritique
		return nil, refused
	})
	require.ErrorIs(t, err, refused)

	stored, err := store.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Equal(t, domain.TicketPriorityFaible, stored.Priority)

	history, err := store.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Empty(t, history)
}

func TestMemoryTicketStoreMutateUnknownTicket(t *testing.T) {
	store := NewMemoryTicketStore()
	_, err := store.Mutate(context.Background(), "missing", func(*domain.Ticket) ([]domain.TicketHistory, error) {
		return nil, nil
	})
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryTicketStoreMutateHonoursCancellation(t *testing.T) {
	store := NewMemoryTicketStore()
	ticket := &domain.Ticket{Title: "x", Priority: domain.TicketPriorityFaible, Status: domain.TicketStatusPendingAnalysis}
	require.NoError(t, store.Create(context.Background(), ticket))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := store.Mutate(ctx, ticket.ID, func(*domain.Ticket) ([]domain.TicketHistory, error) {
		t.Fatal("mutation must not run after cancellation")
		return nil, nil
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestMemoryTicketStoreMutateSerializesPerTicket(t *testing.T) {
	store := NewMemoryTicketStore()
	ctx := context.Background()
	ticket := &domain.Ticket{Title: "x", Priority: domain.TicketPriorityFaible, Status: domain.TicketStatusPendingAnalysis}
	require.NoError(t, store.Create(ctx, ticket))

	const workers = 20
	var wg sync.WaitGroup
	wg.Add(workers)
	for i := 0; i < workers; i++ {
		go func() {
			defer wg.Done()
			_, err := store.Mutate(ctx, ticket.ID, func(working *domain.Ticket) ([]domain.TicketHistory, error) {
				working.Description += "x"
				return []domain.TicketHistory{{TicketID: working.ID, Action: domain.ActionUpdateStatus}}, nil
			})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stored, err := store.GetByID(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, stored.Description, workers)

	history, err := store.ListByTicket(ctx, ticket.ID)
	require.NoError(t, err)
	require.Len(t, history, workers)
	for _, entry := range history {
		require.NotEmpty(t, entry.ID)
	}
}

func TestMemoryTicketStoreFilterAndPaging(t *testing.T) {
	store := NewMemoryTicketStore()
	ctx := context.Background()
	centre, nord := "Agence Centre", "Agence Nord"
	technician := "tech-a"
	seed := []domain.Ticket{
		{Title: "1", CreatorID: "user-1", CreatorAgency: &centre, Priority: domain.TicketPriorityFaible, Status: domain.TicketStatusPendingAnalysis},
		{Title: "2", CreatorID: "user-2", UserAgency: &nord, Priority: domain.TicketPriorityHaute, Status: domain.TicketStatusAssigned, TechnicianID: &technician},
		{Title: "3", CreatorID: "user-1", CreatorAgency: &centre, Priority: domain.TicketPriorityHaute, Status: domain.TicketStatusPendingAnalysis},
	}
	for i := range seed {
		require.NoError(t, store.Create(ctx, &seed[i]))
	}

	byAgency, err := store.ListWithFilter(ctx, TicketFilter{Agency: &nord})
	require.NoError(t, err)
	require.Len(t, byAgency, 1)
	require.Equal(t, "2", byAgency[0].Title)

	byTechnician, err := store.ListWithFilter(ctx, TicketFilter{TechnicianID: &technician})
	require.NoError(t, err)
	require.Len(t, byTechnician, 1)

	creator := "user-1"
	page, err := store.ListWithFilter(ctx, TicketFilter{CreatorID: &creator, Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	require.Equal(t, "1", page[0].Title)

	empty, err := store.ListWithFilter(ctx, TicketFilter{Limit: 5, Offset: 10})
	require.NoError(t, err)
	require.Empty(t, empty)

	workloads, err := store.CountByTechnician(ctx)
	require.NoError(t, err)
	require.Equal(t, domain.Workload{Assigned: 1}, workloads[technician])
}

func TestMemoryTicketStoreEmptyAgencyMatchesTicketsWithoutAgency(t *testing.T) {
	store := NewMemoryTicketStore()
	ctx := context.Background()
	centre, blank := "Agence Centre", " "
	seed := []domain.Ticket{
		{Title: "with agency", CreatorID: "user-1", CreatorAgency: &centre, Priority: domain.TicketPriorityFaible, Status: domain.TicketStatusPendingAnalysis},
		{Title: "none", CreatorID: "user-2", Priority: domain.TicketPriorityFaible, Status: domain.TicketStatusPendingAnalysis},
		{Title: "blank", CreatorID: "user-3", CreatorAgency: &blank, Priority: domain.TicketPriorityFaible, Status: domain.TicketStatusPendingAnalysis},
	}
	for i := range seed {
		require.NoError(t, store.Create(ctx, &seed[i]))
	}

	empty := ""
	tickets, err := store.ListWithFilter(ctx, TicketFilter{Agency: &empty})
	require.NoError(t, err)
	require.Len(t, tickets, 2)
	for _, ticket := range tickets {
		require.Empty(t, ticket.Agency())
	}
}

func TestMemoryTechnicianStoreHidesInactive(t *testing.T) {
	store := NewMemoryTechnicianStore(
		domain.Technician{ID: "tech-b", FullName: "Karim Benali", Active: true},
		domain.Technician{ID: "tech-a", FullName: "Awa Diallo", Active: true},
		domain.Technician{ID: "tech-old", FullName: "Zoé Ancienne", Active: false},
	)
	ctx := context.Background()

	technicians, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, technicians, 2)
	require.Equal(t, "tech-a", technicians[0].ID)

	_, err = store.GetByID(ctx, "tech-old")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryNotificationStoreNewestFirst(t *testing.T) {
	store := NewMemoryNotificationStore()
	ctx := context.Background()
	for _, message := range []string{"premier", "second"} {
		require.NoError(t, store.Create(ctx, &domain.Notification{RecipientID: "user-1", Type: domain.NotificationTicketClosed, Message: message}))
	}
	require.NoError(t, store.Create(ctx, &domain.Notification{RecipientID: "user-2", Message: "autre"}))

	list, err := store.ListByRecipient(ctx, "user-1", 0)
	require.NoError(t, err)
	require.Len(t, list, 2)
	require.Equal(t, "second", list[0].Message)

	_, err = store.MarkRead(ctx, "user-2", list[0].ID)
	require.ErrorIs(t, err, ErrNotFound)
}
