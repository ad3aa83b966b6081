package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestSummarizeEmptyHistory(t *testing.T) {
	got := Summarize(nil)

	assert.Equal(t, 0, got.TotalSessions)
	assert.Equal(t, 0.0, got.AvgMessagesPerSession)
	assert.Equal(t, 0.0, got.AvgRating)
	assert.Equal(t, 0, got.OrderClickRate)
	assert.Empty(t, got.TopQuestions)
	assert.Empty(t, got.PopularMenuItems)
}

func TestSummarizeAverages(t *testing.T) {
	now := time.Now()
	sessions := []Session{
		{SessionID: "a", StartTime: now, MessageCount: 1, FeedbackRating: intPtr(4), OrderLinkClicked: true},
		{SessionID: "b", StartTime: now, MessageCount: 2, FeedbackRating: intPtr(5)},
		{SessionID: "c", StartTime: now, MessageCount: 2},
	}

	got := Summarize(sessions)

	assert.Equal(t, 3, got.TotalSessions)
	assert.Equal(t, 1.7, got.AvgMessagesPerSession) // 5/3 rounded to one decimal
	assert.Equal(t, 4.5, got.AvgRating)             // only rated sessions count
	assert.Equal(t, 33, got.OrderClickRate)         // 1/3 as a rounded percentage
}

func TestSummarizeTopQuestionsNormalizedWithStableTies(t *testing.T) {
	now := time.Now()
	sessions := []Session{
		{SessionID: "a", StartTime: now, QuestionsAsked: []string{"  What are your HOURS? ", "show me the menu"}},
		{SessionID: "b", StartTime: now, QuestionsAsked: []string{"what are your hours?", "where are you?"}},
	}

	got := Summarize(sessions)

	require.Len(t, got.TopQuestions, 3)
	assert.Equal(t, QuestionCount{Question: "what are your hours?", Count: 2}, got.TopQuestions[0])
	// Tied entries keep first-encountered order.
	assert.Equal(t, QuestionCount{Question: "show me the menu", Count: 1}, got.TopQuestions[1])
	assert.Equal(t, QuestionCount{Question: "where are you?", Count: 1}, got.TopQuestions[2])
}

func TestSummarizeTopItemsLimitedToFive(t *testing.T) {
	now := time.Now()
	s := Session{SessionID: "a", StartTime: now,
		MenuItemsViewed: []string{"i1", "i2", "i3", "i4", "i5", "i6"}}
	repeat := Session{SessionID: "b", StartTime: now, MenuItemsViewed: []string{"i6"}}

	got := Summarize([]Session{s, repeat})

	require.Len(t, got.PopularMenuItems, 5)
	assert.Equal(t, ItemCount{Item: "i6", Count: 2}, got.PopularMenuItems[0])
	assert.Equal(t, "i1", got.PopularMenuItems[1].Item)
}
