package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestPriorityNextClimbsLadder(t *testing.T) {
	p := TicketPriorityFaible
	var ok bool
	for _, want := range []TicketPriority{TicketPriorityMoyenne, TicketPriorityHaute, TicketPriorityCritique} {
		p, ok = p.Next()
		require.True(t, ok)
		require.Equal(t, want, p)
	}

	_, ok = TicketPriorityCritique.Next()
	require.False(t, ok)

	_, ok = TicketPriority("urgent").Next()
	require.False(t, ok)
}

func TestPriorityRankOrdering(t *testing.T) {
	assert.Less(t, TicketPriorityFaible.Rank(), TicketPriorityMoyenne.Rank())
	assert.Less(t, TicketPriorityHaute.Rank(), TicketPriorityCritique.Rank())
	assert.Equal(t, -1, TicketPriority("").Rank())
	assert.False(t, TicketPriority("").Valid())
}

func TestCheckInvariants(t *testing.T) {
	cases := []struct {
		name       string
		status     TicketStatus
		technician *string
		wantErr    bool
	}{
		{"pending without technician", TicketStatusPendingAnalysis, nil, false},
		{"pending with technician", TicketStatusPendingAnalysis, strPtr("t1"), true},
		{"assigned with technician", TicketStatusAssigned, strPtr("t1"), false},
		{"assigned without technician", TicketStatusAssigned, nil, true},
		{"in progress with empty technician", TicketStatusInProgress, strPtr(""), true},
		{"resolved with technician", TicketStatusResolved, strPtr("t1"), false},
		{"closed keeps technician", TicketStatusClosed, strPtr("t1"), false},
		{"closed without technician", TicketStatusClosed, nil, false},
		{"rejected without technician", TicketStatusRejected, nil, false},
		{"rejected with technician", TicketStatusRejected, strPtr("t1"), true},
		{"unknown status", TicketStatus("archived"), nil, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ticket := Ticket{ID: "x", Status: tc.status, Priority: TicketPriorityMoyenne, TechnicianID: tc.technician}
			err := ticket.CheckInvariants()
			if tc.wantErr {
				require.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}

func TestAgencyFallsBackToUserAgency(t *testing.T) {
	ticket := Ticket{CreatorAgency: strPtr("  "), UserAgency: strPtr(" Agence Nord ")}
	require.Equal(t, "Agence Nord", ticket.Agency())

	ticket.CreatorAgency = strPtr("Agence Centre")
	require.Equal(t, "Agence Centre", ticket.Agency())

	require.Equal(t, "", (&Ticket{}).Agency())
}

func TestCloneSharesNoPointers(t *testing.T) {
	original := Ticket{ID: "x", TechnicianID: strPtr("t1"), AssignmentNotes: strPtr("n")}
	clone := original.Clone()
	*clone.TechnicianID = "t2"
	*clone.AssignmentNotes = "changed"

	require.Equal(t, "t1", *original.TechnicianID)
	require.Equal(t, "n", *original.AssignmentNotes)
}

func TestRoles(t *testing.T) {
	for _, role := range StaffRoles {
		assert.True(t, role.IsStaff(), role)
		assert.True(t, role.Valid(), role)
	}
	assert.False(t, RoleTechnician.IsStaff())
	assert.True(t, RoleTechnician.Valid())
	assert.False(t, RoleRequester.IsStaff())
	assert.False(t, Role("GUEST").Valid())
}
