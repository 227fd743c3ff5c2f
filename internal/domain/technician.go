package domain

import "time"

// Technician is a staff member tickets can be routed to.
// AssignedCount and InProgressCount are filled from ticket state on read.
type Technician struct {
	ID              string
	FullName        string
	Email           string
	Specialization  *string
	Active          bool
	CreatedAt       time.Time
	AssignedCount   int
	InProgressCount int
}

// Load is the number of tickets the technician currently holds.
func (t Technician) Load() int {
	return t.AssignedCount + t.InProgressCount
}

// Workload is the live ticket count for one technician.
type Workload struct {
	Assigned   int
	InProgress int
}
