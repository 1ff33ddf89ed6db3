package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanModifyMeal(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name      string
		departure time.Time
		allowed   bool
	}{
		{"48 hours out", now.Add(48 * time.Hour), true},
		{"exactly 24 hours out", now.Add(24 * time.Hour), true},
		{"one second inside the cutoff", now.Add(24*time.Hour - time.Second), false},
		{"2 hours out", now.Add(2 * time.Hour), false},
		{"already departed", now.Add(-time.Hour), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			allowed, reason := CanModifyMeal(tc.departure, now)
			assert.Equal(t, tc.allowed, allowed)
			if !tc.allowed {
				assert.NotEmpty(t, reason)
			}
		})
	}
}

func TestNewSupportTicket(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	ticket := NewSupportTicket("lost baggage at transfer", now)

	assert.Regexp(t, `^\d{6}$`, ticket.ID)
	assert.Equal(t, "2025-06-01T12:00:00Z", ticket.Timestamp)
	assert.Equal(t, "lost baggage at transfer", ticket.IssueSummary)
	assert.Equal(t, TicketStatusOpen, ticket.Status)
}
