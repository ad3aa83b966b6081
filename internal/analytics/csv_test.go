package analytics

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExportCSVHeaderOnlyWhenEmpty(t *testing.T) {
	got := ExportCSV(nil)
	assert.Equal(t, "Session ID,Start Time,End Time,Messages,Rating,Order Clicked,Questions Asked", got)
}

func TestExportCSVTwoSessions(t *testing.T) {
	start := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	end := start.Add(5 * time.Minute)

	sessions := []Session{
		{
			SessionID:        "01SESSIONA",
			StartTime:        start,
			EndTime:          &end,
			MessageCount:     2,
			QuestionsAsked:   []string{"what are your hours?", "show me the menu"},
			OrderLinkClicked: true,
			FeedbackRating:   intPtr(5),
		},
		{
			SessionID:    "01SESSIONB",
			StartTime:    start,
			MessageCount: 0,
		},
	}

	got := ExportCSV(sessions)
	lines := strings.Split(got, "\n")
	require.Len(t, lines, 3) // header + 2 rows

	assert.Equal(t,
		"01SESSIONA,2026-08-01T12:00:00Z,2026-08-01T12:05:00Z,2,5,Yes,\"what are your hours?; show me the menu\"",
		lines[1])
	// No end time and no rating serialize as blanks.
	assert.Equal(t, `01SESSIONB,2026-08-01T12:00:00Z,,0,,No,""`, lines[2])
}
