package analytics

import (
	"strconv"
	"strings"
	"time"
)

var csvHeader = []string{"Session ID", "Start Time", "End Time", "Messages", "Rating", "Order Clicked", "Questions Asked"}

// ExportCSV serializes the full history as delimited text: one fixed header
// row plus one row per session. The questions column is semicolon-joined and
// wrapped in double quotes; the other columns carry no escaping by contract
// (session IDs and timestamps cannot contain commas).
func ExportCSV(sessions []Session) string {
	lines := make([]string, 0, len(sessions)+1)
	lines = append(lines, strings.Join(csvHeader, ","))

	for _, s := range sessions {
		end := ""
		if s.EndTime != nil {
			end = s.EndTime.UTC().Format(time.RFC3339)
		}
		rating := ""
		if s.FeedbackRating != nil {
			rating = strconv.Itoa(*s.FeedbackRating)
		}
		clicked := "No"
		if s.OrderLinkClicked {
			clicked = "Yes"
		}
		row := []string{
			s.SessionID,
			s.StartTime.UTC().Format(time.RFC3339),
			end,
			strconv.Itoa(s.MessageCount),
			rating,
			clicked,
			`"` + strings.Join(s.QuestionsAsked, "; ") + `"`,
		}
		lines = append(lines, strings.Join(row, ","))
	}

	return strings.Join(lines, "\n")
}
