// Package report computes read-only ticket statistics from a store snapshot.
package report

import (
	"sort"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// UnknownAgency groups tickets whose creator has no recorded agency.
const UnknownAgency = "Non renseignée"

// StatusCount is one row of the status distribution.
type StatusCount struct {
	Status     domain.TicketStatus `json:"status"`
	Count      int                 `json:"count"`
	Percentage float64             `json:"percentage"`
}

// PriorityCount is one row of the priority distribution.
type PriorityCount struct {
	Priority   domain.TicketPriority `json:"priority"`
	Count      int                   `json:"count"`
	Percentage float64               `json:"percentage"`
}

// AgencyCount is the ticket volume of a single agency.
type AgencyCount struct {
	Agency     string  `json:"agency"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

// TechnicianStats rolls up one technician's throughput and live load.
type TechnicianStats struct {
	TechnicianID string `json:"technician_id"`
	FullName     string `json:"full_name"`
	Completed    int    `json:"completed"`
	InProgress   int    `json:"in_progress"`
	ActiveLoad   int    `json:"active_load"`
}

// Summary is the dashboard headline.
type Summary struct {
	Total       int `json:"total"`
	Pending     int `json:"pending"`
	InTreatment int `json:"in_treatment"`
	Resolved    int `json:"resolved"`
	Closed      int `json:"closed"`
	Rejected    int `json:"rejected"`
	Completed   int `json:"completed"`
}

// Percentage returns count/total*100, or 0 when total is 0.
func Percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

// StatusDistribution counts tickets per status, one row per known status in lifecycle order.
func StatusDistribution(tickets []domain.Ticket) []StatusCount {
	counts := make(map[domain.TicketStatus]int, len(domain.TicketStatuses))
	for _, ticket := range tickets {
		counts[ticket.Status]++
	}
	rows := make([]StatusCount, 0, len(domain.TicketStatuses))
	for _, status := range domain.TicketStatuses {
		rows = append(rows, StatusCount{
			Status:     status,
			Count:      counts[status],
			Percentage: Percentage(counts[status], len(tickets)),
		})
	}
	return rows
}

// PriorityDistribution counts tickets per priority, most urgent first.
func PriorityDistribution(tickets []domain.Ticket) []PriorityCount {
	counts := make(map[domain.TicketPriority]int, len(domain.PriorityDisplayOrder))
	for _, ticket := range tickets {
		counts[ticket.Priority]++
	}
	rows := make([]PriorityCount, 0, len(domain.PriorityDisplayOrder))
	for _, priority := range domain.PriorityDisplayOrder {
		rows = append(rows, PriorityCount{
			Priority:   priority,
			Count:      counts[priority],
			Percentage: Percentage(counts[priority], len(tickets)),
		})
	}
	return rows
}

// AgencyVolume groups tickets by effective agency, largest first. Ties are broken by name.
func AgencyVolume(tickets []domain.Ticket) []AgencyCount {
	counts := make(map[string]int)
	for i := range tickets {
		agency := tickets[i].Agency()
		if agency == "" {
			agency = UnknownAgency
		}
		counts[agency]++
	}
	rows := make([]AgencyCount, 0, len(counts))
	for agency, count := range counts {
		rows = append(rows, AgencyCount{
			Agency:     agency,
			Count:      count,
			Percentage: Percentage(count, len(tickets)),
		})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].Count != rows[j].Count {
			return rows[i].Count > rows[j].Count
		}
		return rows[i].Agency < rows[j].Agency
	})
	return rows
}

// TopAgencies returns the n agencies with the most tickets. n <= 0 returns every agency.
// Tickets without an agency are left out of the ranking.
func TopAgencies(tickets []domain.Ticket, n int) []AgencyCount {
	volume := AgencyVolume(tickets)
	rows := make([]AgencyCount, 0, len(volume))
	for _, row := range volume {
		if row.Agency != UnknownAgency {
			rows = append(rows, row)
		}
	}
	if n > 0 && len(rows) > n {
		rows = rows[:n]
	}
	return rows
}

// TechnicianRollup reports each technician's completed tickets (resolved or
// closed) and current load. Technicians with no tickets are included with zeros.
func TechnicianRollup(tickets []domain.Ticket, technicians []domain.Technician) []TechnicianStats {
	stats := make(map[string]*TechnicianStats, len(technicians))
	order := make([]string, 0, len(technicians))
	for _, technician := range technicians {
		stats[technician.ID] = &TechnicianStats{TechnicianID: technician.ID, FullName: technician.FullName}
		order = append(order, technician.ID)
	}
	for _, ticket := range tickets {
		if ticket.TechnicianID == nil {
			continue
		}
		entry, ok := stats[*ticket.TechnicianID]
		if !ok {
			entry = &TechnicianStats{TechnicianID: *ticket.TechnicianID}
			stats[*ticket.TechnicianID] = entry
			order = append(order, *ticket.TechnicianID)
		}
		switch ticket.Status {
		case domain.TicketStatusResolved, domain.TicketStatusClosed:
			entry.Completed++
		case domain.TicketStatusInProgress:
			entry.InProgress++
			entry.ActiveLoad++
		case domain.TicketStatusAssigned:
			entry.ActiveLoad++
		}
	}
	rows := make([]TechnicianStats, 0, len(order))
	for _, id := range order {
		rows = append(rows, *stats[id])
	}
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].Completed > rows[j].Completed
	})
	return rows
}

// DashboardSummary counts tickets per headline bucket.
func DashboardSummary(tickets []domain.Ticket) Summary {
	summary := Summary{Total: len(tickets)}
	for _, ticket := range tickets {
		switch ticket.Status {
		case domain.TicketStatusPendingAnalysis:
			summary.Pending++
		case domain.TicketStatusAssigned, domain.TicketStatusInProgress:
			summary.InTreatment++
		case domain.TicketStatusResolved:
			summary.Resolved++
		case domain.TicketStatusClosed:
			summary.Closed++
		case domain.TicketStatusRejected:
			summary.Rejected++
		}
	}
	summary.Completed = summary.Resolved + summary.Closed
	return summary
}
