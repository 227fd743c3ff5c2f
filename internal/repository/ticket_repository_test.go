package repository_test

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
	"github.com/spec-kit/helpdesk-workflow/internal/repository"
)

var ticketColumnNames = []string{
	"id", "number", "title", "description", "creator_id", "creator_agency", "user_agency",
	"priority", "status", "technician_id", "assignment_notes", "created_at", "updated_at", "closed_at",
}

func ticketRow(rows *pgxmock.Rows, id string, status domain.TicketStatus, technicianID *string, createdAt time.Time) *pgxmock.Rows {
	agency := "Agence Centre"
	return rows.AddRow(
		id, int64(7), "Imprimante en panne", "", "user-1", &agency, (*string)(nil),
		domain.TicketPriorityMoyenne, status, technicianID, (*string)(nil),
		createdAt, createdAt, (*time.Time)(nil),
	)
}

func TestTicketRepositoryMutateCommitsUpdateAndHistory(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewTicketRepository(mock)
	createdAt := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	updatedAt := createdAt.Add(time.Hour)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, number")).
		WithArgs("t-1").
		WillReturnRows(ticketRow(pgxmock.NewRows(ticketColumnNames), "t-1", domain.TicketStatusPendingAnalysis, nil, createdAt))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE tickets SET")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), "t-1").
		WillReturnResult(pgxmock.NewResult("UPDATE", 1))
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO ticket_history")).
		WithArgs(pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg(), pgxmock.AnyArg()).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow("h-1"))
	mock.ExpectCommit()

	technician := "tech-a"
	updated, err := repo.Mutate(context.Background(), "t-1", func(ticket *domain.Ticket) ([]domain.TicketHistory, error) {
		require.Equal(t, domain.TicketStatusPendingAnalysis, ticket.Status)
		ticket.Status = domain.TicketStatusAssigned
		ticket.TechnicianID = &technician
		ticket.UpdatedAt = updatedAt
		return []domain.TicketHistory{{
			TicketID:   ticket.ID,
			Action:     domain.ActionAssign,
			ChangeType: domain.ChangeTypeStatus,
			NewValue:   map[string]any{"status": "assigned"},
			CreatedAt:  updatedAt,
		}}, nil
	})
	require.NoError(t, err)
	require.Equal(t, domain.TicketStatusAssigned, updated.Status)
	require.Equal(t, "tech-a", *updated.TechnicianID)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryMutateRollsBackOnValidationError(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewTicketRepository(mock)
	technician := "tech-a"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, number")).
		WithArgs("t-1").
		WillReturnRows(ticketRow(pgxmock.NewRows(ticketColumnNames), "t-1", domain.TicketStatusClosed, &technician, time.Now().UTC()))
	mock.ExpectRollback()

	refused := errors.New("cannot reassign closed ticket")
	_, err = repo.Mutate(context.Background(), "t-1", func(*domain.Ticket) ([]domain.TicketHistory, error) {
		return nil, refused
	})
	require.ErrorIs(t, err, refused)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryMutateMissingTicket(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewTicketRepository(mock)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, number")).
		WithArgs("missing").
		WillReturnError(pgx.ErrNoRows)
	mock.ExpectRollback()

	_, err = repo.Mutate(context.Background(), "missing", func(*domain.Ticket) ([]domain.TicketHistory, error) {
		t.Fatal("mutation must not run for a missing ticket")
		return nil, nil
	})
	require.ErrorIs(t, err, repository.ErrNotFound)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryCountByTechnician(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewTicketRepository(mock)

	mock.ExpectQuery(regexp.QuoteMeta("SELECT technician_id, status, COUNT(*)")).
		WithArgs(domain.TicketStatusAssigned, domain.TicketStatusInProgress).
		WillReturnRows(pgxmock.NewRows([]string{"technician_id", "status", "count"}).
			AddRow("tech-a", domain.TicketStatusAssigned, int64(2)).
			AddRow("tech-a", domain.TicketStatusInProgress, int64(1)).
			AddRow("tech-b", domain.TicketStatusInProgress, int64(3)))

	workloads, err := repo.CountByTechnician(context.Background())
	require.NoError(t, err)
	require.Equal(t, domain.Workload{Assigned: 2, InProgress: 1}, workloads["tech-a"])
	require.Equal(t, domain.Workload{InProgress: 3}, workloads["tech-b"])
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryListWithFilterBuildsClauses(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewTicketRepository(mock)
	agency := " Agence Centre "

	mock.ExpectQuery(`status IN \(\$1\) AND COALESCE\(NULLIF\(TRIM\(creator_agency\), ''\), TRIM\(user_agency\), ''\) = \$2 ORDER BY number DESC LIMIT 20 OFFSET 40`).
		WithArgs(domain.TicketStatusResolved, "Agence Centre").
		WillReturnRows(ticketRow(pgxmock.NewRows(ticketColumnNames), "t-9", domain.TicketStatusResolved, nil, time.Now().UTC()))

	tickets, err := repo.ListWithFilter(context.Background(), repository.TicketFilter{
		Statuses: []domain.TicketStatus{domain.TicketStatusResolved},
		Agency:   &agency,
		Limit:    20,
		Offset:   40,
	})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.Equal(t, "Agence Centre", tickets[0].Agency())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketRepositoryEmptyAgencyFilterMatchesMissingAgency(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := repository.NewTicketRepository(mock)
	empty := ""

	mock.ExpectQuery(`WHERE 1=1 AND COALESCE\(NULLIF\(TRIM\(creator_agency\), ''\), TRIM\(user_agency\), ''\) = \$1 ORDER BY number DESC`).
		WithArgs("").
		WillReturnRows(ticketRow(pgxmock.NewRows(ticketColumnNames), "t-10", domain.TicketStatusPendingAnalysis, nil, time.Now().UTC()))

	tickets, err := repo.ListWithFilter(context.Background(), repository.TicketFilter{Agency: &empty})
	require.NoError(t, err)
	require.Len(t, tickets, 1)
	require.NoError(t, mock.ExpectationsWereMet())
}
