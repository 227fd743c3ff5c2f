package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// MemoryTicketStore keeps tickets and their history in process. Mutations on
// the same ticket serialize on a per-ticket lock; different tickets proceed in
// parallel.
type MemoryTicketStore struct {
	mu      sync.RWMutex
	tickets map[string]*domain.Ticket
	locks   map[string]*sync.Mutex
	history map[string][]domain.TicketHistory
	number  int64
}

// NewMemoryTicketStore creates an empty store.
func NewMemoryTicketStore() *MemoryTicketStore {
	return &MemoryTicketStore{
		tickets: make(map[string]*domain.Ticket),
		locks:   make(map[string]*sync.Mutex),
		history: make(map[string][]domain.TicketHistory),
	}
}

func (s *MemoryTicketStore) Create(ctx context.Context, ticket *domain.Ticket) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if ticket.ID == "" {
		ticket.ID = uuid.NewString()
	}
	s.number++
	ticket.Number = s.number
	if ticket.CreatedAt.IsZero() {
		ticket.CreatedAt = time.Now().UTC()
	}
	ticket.UpdatedAt = ticket.CreatedAt

	stored := ticket.Clone()
	s.tickets[ticket.ID] = &stored
	s.locks[ticket.ID] = &sync.Mutex{}
	return nil
}

func (s *MemoryTicketStore) GetByID(ctx context.Context, id string) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return nil, ErrNotFound
	}
	out := ticket.Clone()
	return &out, nil
}

func (s *MemoryTicketStore) ListWithFilter(ctx context.Context, filter TicketFilter) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	result := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		if matchesFilter(ticket, filter) {
			result = append(result, ticket.Clone())
		}
	}
	s.mu.RUnlock()

	sort.Slice(result, func(i, j int) bool {
		return result[i].Number > result[j].Number
	})
	if filter.Limit > 0 {
		offset := filter.Offset
		if offset < 0 {
			offset = 0
		}
		if offset >= len(result) {
			return []domain.Ticket{}, nil
		}
		end := offset + filter.Limit
		if end > len(result) {
			end = len(result)
		}
		result = result[offset:end]
	}
	return result, nil
}

func (s *MemoryTicketStore) CountByTechnician(ctx context.Context) (map[string]domain.Workload, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := make(map[string]domain.Workload)
	for _, ticket := range s.tickets {
		if ticket.TechnicianID == nil {
			continue
		}
		load := result[*ticket.TechnicianID]
		switch ticket.Status {
		case domain.TicketStatusAssigned:
			load.Assigned++
		case domain.TicketStatusInProgress:
			load.InProgress++
		default:
			continue
		}
		result[*ticket.TechnicianID] = load
	}
	return result, nil
}

func (s *MemoryTicketStore) Mutate(ctx context.Context, id string, mutate Mutation) (*domain.Ticket, error) {
	s.mu.RLock()
	lock, ok := s.locks[id]
	s.mu.RUnlock()
	if !ok {
		return nil, ErrNotFound
	}

	lock.Lock()
	defer lock.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	working := s.tickets[id].Clone()
	s.mu.RUnlock()

	entries, err := mutate(&working)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	stored := working.Clone()
	s.tickets[id] = &stored
	for _, entry := range entries {
		if entry.ID == "" {
			entry.ID = uuid.NewString()
		}
		s.history[id] = append(s.history[id], entry)
	}
	s.mu.Unlock()

	return &working, nil
}

// ListByTicket returns the audit entries recorded by Mutate, oldest first.
func (s *MemoryTicketStore) ListByTicket(ctx context.Context, ticketID string) ([]domain.TicketHistory, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	entries := s.history[ticketID]
	out := make([]domain.TicketHistory, len(entries))
	copy(out, entries)
	return out, nil
}

func matchesFilter(ticket *domain.Ticket, filter TicketFilter) bool {
	if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, ticket.Status) {
		return false
	}
	if len(filter.Priorities) > 0 && !containsPriority(filter.Priorities, ticket.Priority) {
		return false
	}
	if filter.Agency != nil && ticket.Agency() != strings.TrimSpace(*filter.Agency) {
		return false
	}
	if filter.TechnicianID != nil && !ticket.AssignedTo(*filter.TechnicianID) {
		return false
	}
	if filter.CreatorID != nil && ticket.CreatorID != *filter.CreatorID {
		return false
	}
	return true
}

func containsStatus(statuses []domain.TicketStatus, status domain.TicketStatus) bool {
	for _, candidate := range statuses {
		if candidate == status {
			return true
		}
	}
	return false
}

func containsPriority(priorities []domain.TicketPriority, priority domain.TicketPriority) bool {
	for _, candidate := range priorities {
		if candidate == priority {
			return true
		}
	}
	return false
}

// MemoryTechnicianStore keeps technicians in process.
type MemoryTechnicianStore struct {
	mu          sync.RWMutex
	technicians map[string]domain.Technician
}

// NewMemoryTechnicianStore creates a store seeded with technicians.
func NewMemoryTechnicianStore(seed ...domain.Technician) *MemoryTechnicianStore {
	store := &MemoryTechnicianStore{technicians: make(map[string]domain.Technician)}
	for _, technician := range seed {
		t := technician
		_ = store.Create(context.Background(), &t)
	}
	return store
}

func (s *MemoryTechnicianStore) Create(ctx context.Context, technician *domain.Technician) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if technician.ID == "" {
		technician.ID = uuid.NewString()
	}
	if technician.CreatedAt.IsZero() {
		technician.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.technicians[technician.ID] = *technician
	return nil
}

func (s *MemoryTechnicianStore) GetByID(ctx context.Context, id string) (*domain.Technician, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	technician, ok := s.technicians[id]
	if !ok || !technician.Active {
		return nil, ErrNotFound
	}
	return &technician, nil
}

func (s *MemoryTechnicianStore) List(ctx context.Context) ([]domain.Technician, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	result := make([]domain.Technician, 0, len(s.technicians))
	for _, technician := range s.technicians {
		if technician.Active {
			result = append(result, technician)
		}
	}
	s.mu.RUnlock()
	sort.Slice(result, func(i, j int) bool {
		return result[i].FullName < result[j].FullName
	})
	return result, nil
}

// MemoryNotificationStore keeps notifications in process.
type MemoryNotificationStore struct {
	mu            sync.RWMutex
	notifications []domain.Notification
}

// NewMemoryNotificationStore creates an empty store.
func NewMemoryNotificationStore() *MemoryNotificationStore {
	return &MemoryNotificationStore{}
}

func (s *MemoryNotificationStore) Create(ctx context.Context, notification *domain.Notification) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if notification.ID == "" {
		notification.ID = uuid.NewString()
	}
	if notification.CreatedAt.IsZero() {
		notification.CreatedAt = time.Now().UTC()
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notifications = append(s.notifications, *notification)
	return nil
}

func (s *MemoryNotificationStore) ListByRecipient(ctx context.Context, recipientID string, limit int) ([]domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	result := []domain.Notification{}
	for i := len(s.notifications) - 1; i >= 0 && len(result) < limit; i-- {
		if s.notifications[i].RecipientID == recipientID {
			result = append(result, s.notifications[i])
		}
	}
	return result, nil
}

func (s *MemoryNotificationStore) MarkRead(ctx context.Context, recipientID, notificationID string) (*domain.Notification, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.notifications {
		n := &s.notifications[i]
		if n.ID == notificationID && n.RecipientID == recipientID {
			n.Read = true
			out := *n
			return &out, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryNotificationStore) CountUnread(ctx context.Context, recipientID string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	count := 0
	for _, n := range s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}
