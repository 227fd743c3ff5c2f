package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// TicketFilter captures listing parameters. Zero values do not filter.
type TicketFilter struct {
	Statuses     []domain.TicketStatus
	Priorities   []domain.TicketPriority
	Agency       *string
	TechnicianID *string
	CreatorID    *string
	Limit        int
	Offset       int
}

// TicketRepository encapsulates ticket persistence.
type TicketRepository interface {
	Create(ctx context.Context, ticket *domain.Ticket) error
	GetByID(ctx context.Context, id string) (*domain.Ticket, error)
	ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error)
	CountByTechnician(ctx context.Context) (map[string]domain.Workload, error)
	// Mutate locks the ticket, applies mutate and persists the result atomically.
	Mutate(ctx context.Context, id string, mutate Mutation) (*domain.Ticket, error)
}

const ticketColumns = `id, number, title, description, creator_id, creator_agency, user_agency,
               priority, status, technician_id, assignment_notes, created_at, updated_at, closed_at`

type ticketRepository struct {
	db DB
}

// NewTicketRepository instantiates repository.
func NewTicketRepository(db DB) TicketRepository {
	return &ticketRepository{db: db}
}

func (r *ticketRepository) Create(ctx context.Context, ticket *domain.Ticket) error {
	const query = `
        INSERT INTO tickets (title, description, creator_id, creator_agency, user_agency, priority, status,
            technician_id, assignment_notes, created_at, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$10)
        RETURNING id, number`
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}
	ticket.UpdatedAt = ticket.CreatedAt
	return r.db.QueryRow(ctx, query,
		ticket.Title,
		ticket.Description,
		ticket.CreatorID,
		ticket.CreatorAgency,
		ticket.UserAgency,
		ticket.Priority,
		ticket.Status,
		ticket.TechnicianID,
		ticket.AssignmentNotes,
		ticket.CreatedAt,
	).Scan(&ticket.ID, &ticket.Number)
}

func (r *ticketRepository) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1`
	ticket, err := scanTicket(r.db.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}
	return ticket, nil
}

func (r *ticketRepository) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	clauses := []string{"1=1"}
	args := []any{}

	if len(filter.Statuses) > 0 {
		placeholders := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			args = append(args, status)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("status IN (%s)", strings.Join(placeholders, ",")))
	}
	if len(filter.Priorities) > 0 {
		placeholders := make([]string, len(filter.Priorities))
		for i, pr := range filter.Priorities {
			args = append(args, pr)
			placeholders[i] = fmt.Sprintf("$%d", len(args))
		}
		clauses = append(clauses, fmt.Sprintf("priority IN (%s)", strings.Join(placeholders, ",")))
	}
	if filter.Agency != nil {
		args = append(args, strings.TrimSpace(*filter.Agency))
		clauses = append(clauses, fmt.Sprintf("COALESCE(NULLIF(TRIM(creator_agency), ''), TRIM(user_agency), '') = $%d", len(args)))
	}
	if filter.TechnicianID != nil {
		args = append(args, *filter.TechnicianID)
		clauses = append(clauses, fmt.Sprintf("technician_id=$%d", len(args)))
	}
	if filter.CreatorID != nil {
		args = append(args, *filter.CreatorID)
		clauses = append(clauses, fmt.Sprintf("creator_id=$%d", len(args)))
	}

	query := fmt.Sprintf(`SELECT %s FROM tickets WHERE %s ORDER BY number DESC`,
		ticketColumns, strings.Join(clauses, " AND "))
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		query += fmt.Sprintf(" LIMIT %d OFFSET %d", filter.Limit, offset)
	}

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *ticketRepository) CountByTechnician(ctx context.Context) (map[string]domain.Workload, error) {
	const query = `
        SELECT technician_id, status, COUNT(*)
        FROM tickets
        WHERE technician_id IS NOT NULL AND status IN ($1, $2)
        GROUP BY technician_id, status`
	rows, err := r.db.Query(ctx, query, domain.TicketStatusAssigned, domain.TicketStatusInProgress)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make(map[string]domain.Workload)
	for rows.Next() {
		var (
			technicianID string
			status       domain.TicketStatus
			count        int64
		)
		if err := rows.Scan(&technicianID, &status, &count); err != nil {
			return nil, err
		}
		load := result[technicianID]
		switch status {
		case domain.TicketStatusAssigned:
			load.Assigned = int(count)
		case domain.TicketStatusInProgress:
			load.InProgress = int(count)
		}
		result[technicianID] = load
	}
	return result, rows.Err()
}

func (r *ticketRepository) Mutate(ctx context.Context, id string, mutate Mutation) (*domain.Ticket, error) {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			_ = tx.Rollback(ctx)
		}
	}()

	query := `SELECT ` + ticketColumns + ` FROM tickets WHERE id=$1 FOR UPDATE`
	ticket, err := scanTicket(tx.QueryRow(ctx, query, id))
	if err != nil {
		return nil, notFound(err)
	}

	entries, err := mutate(ticket)
	if err != nil {
		return nil, err
	}

	const update = `
        UPDATE tickets SET priority=$1, status=$2, technician_id=$3, assignment_notes=$4,
            updated_at=$5, closed_at=$6
        WHERE id=$7`
	if _, err := tx.Exec(ctx, update,
		ticket.Priority,
		ticket.Status,
		ticket.TechnicianID,
		ticket.AssignmentNotes,
		ticket.UpdatedAt,
		ticket.ClosedAt,
		ticket.ID,
	); err != nil {
		return nil, fmt.Errorf("update ticket %s: %w", ticket.ID, err)
	}

	for i := range entries {
		if err := insertHistory(ctx, tx, &entries[i]); err != nil {
			return nil, fmt.Errorf("record history for ticket %s: %w", ticket.ID, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	committed = true
	return ticket, nil
}

func scanTicket(row pgx.Row) (*domain.Ticket, error) {
	var ticket domain.Ticket
	if err := row.Scan(
		&ticket.ID,
		&ticket.Number,
		&ticket.Title,
		&ticket.Description,
		&ticket.CreatorID,
		&ticket.CreatorAgency,
		&ticket.UserAgency,
		&ticket.Priority,
		&ticket.Status,
		&ticket.TechnicianID,
		&ticket.AssignmentNotes,
		&ticket.CreatedAt,
		&ticket.UpdatedAt,
		&ticket.ClosedAt,
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	var result []domain.Ticket
	for rows.Next() {
		ticket, err := scanTicket(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *ticket)
	}
	return result, rows.Err()
}
