package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-workflow/internal/domain"
)

// seedDemoData fills an empty in-memory store with technicians and pending tickets.
func seedDemoData(ctx context.Context, repos stores, logger *zap.Logger) error {
	specializations := []string{"Réseau", "Matériel", "Logiciel"}
	names := []string{"Awa Diallo", "Karim Benali", "Sophie Martin"}
	for i, name := range names {
		specialization := specializations[i]
		technician := domain.Technician{
			FullName:       name,
			Email:          fmt.Sprintf("tech%d@helpdesk.local", i+1),
			Specialization: &specialization,
			Active:         true,
		}
		if err := repos.technicians.Create(ctx, &technician); err != nil {
			return fmt.Errorf("seed technician %s: %w", name, err)
		}
	}

	agencies := []string{"Agence Centre", "Agence Nord", "Agence Sud"}
	priorities := []domain.TicketPriority{
		domain.TicketPriorityFaible,
		domain.TicketPriorityMoyenne,
		domain.TicketPriorityHaute,
	}
	for i := 0; i < 6; i++ {
		agency := agencies[i%len(agencies)]
		ticket := domain.Ticket{
			Title:         fmt.Sprintf("Demande de support %d", i+1),
			Description:   "Ticket de démonstration",
			CreatorID:     fmt.Sprintf("user-%d", i%3+1),
			CreatorAgency: &agency,
			Priority:      priorities[i%len(priorities)],
			Status:        domain.TicketStatusPendingAnalysis,
		}
		if err := repos.tickets.Create(ctx, &ticket); err != nil {
			return fmt.Errorf("seed ticket %d: %w", i+1, err)
		}
	}

	logger.Info("demo data seeded", zap.Int("technicians", len(names)), zap.Int("tickets", 6))
	return nil
}
