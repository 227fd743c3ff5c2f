package dto

import "github.com/spec-kit/helpdesk-workflow/internal/domain"

// TechnicianResponse is a technician with live workload.
type TechnicianResponse struct {
	ID              string  `json:"id"`
	FullName        string  `json:"full_name"`
	Email           string  `json:"email,omitempty"`
	Specialization  *string `json:"specialization"`
	AssignedCount   int     `json:"assigned_count"`
	InProgressCount int     `json:"in_progress_count"`
	Load            int     `json:"load"`
}

// NewTechnicianResponse maps a technician.
func NewTechnicianResponse(technician domain.Technician) TechnicianResponse {
	return TechnicianResponse{
		ID:              technician.ID,
		FullName:        technician.FullName,
		Email:           technician.Email,
		Specialization:  technician.Specialization,
		AssignedCount:   technician.AssignedCount,
		InProgressCount: technician.InProgressCount,
		Load:            technician.Load(),
	}
}
