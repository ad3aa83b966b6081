package analytics

import (
	"math"
	"sort"
	"strings"
)

type QuestionCount struct {
	Question string `json:"question"`
	Count    int    `json:"count"`
}

type ItemCount struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

// Summary aggregates the persisted history for the owners.
type Summary struct {
	TotalSessions         int             `json:"total_sessions"`
	AvgMessagesPerSession float64         `json:"avg_messages_per_session"`
	TopQuestions          []QuestionCount `json:"top_questions"`
	PopularMenuItems      []ItemCount     `json:"popular_menu_items"`
	AvgRating             float64         `json:"avg_rating"`
	OrderClickRate        int             `json:"order_click_rate"` // percent of sessions
}

// Summarize is a pure read over the session history. An empty history yields
// zeroed fields, never a division error. Question/item rankings break ties
// by first-encountered order under a stable sort.
func Summarize(sessions []Session) Summary {
	summary := Summary{
		TopQuestions:     []QuestionCount{},
		PopularMenuItems: []ItemCount{},
	}
	if len(sessions) == 0 {
		return summary
	}

	totalMessages := 0
	orderClicks := 0
	ratingSum := 0
	ratingCount := 0
	questions := newFrequencyTable()
	items := newFrequencyTable()

	for _, s := range sessions {
		totalMessages += s.MessageCount
		if s.OrderLinkClicked {
			orderClicks++
		}
		if s.FeedbackRating != nil {
			ratingSum += *s.FeedbackRating
			ratingCount++
		}
		for _, q := range s.QuestionsAsked {
			questions.add(strings.TrimSpace(strings.ToLower(q)))
		}
		for _, item := range s.MenuItemsViewed {
			items.add(item)
		}
	}

	n := len(sessions)
	summary.TotalSessions = n
	summary.AvgMessagesPerSession = round1(float64(totalMessages) / float64(n))
	summary.OrderClickRate = int(math.Round(float64(orderClicks) / float64(n) * 100))
	if ratingCount > 0 {
		summary.AvgRating = round1(float64(ratingSum) / float64(ratingCount))
	}

	for _, e := range questions.top(5) {
		summary.TopQuestions = append(summary.TopQuestions, QuestionCount{Question: e.key, Count: e.count})
	}
	for _, e := range items.top(5) {
		summary.PopularMenuItems = append(summary.PopularMenuItems, ItemCount{Item: e.key, Count: e.count})
	}

	return summary
}

// frequencyTable counts keys while remembering first-encounter order so the
// stable descending sort breaks ties deterministically.
type frequencyTable struct {
	counts map[string]int
	order  []string
}

func newFrequencyTable() *frequencyTable {
	return &frequencyTable{counts: map[string]int{}}
}

func (t *frequencyTable) add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

type frequencyEntry struct {
	key   string
	count int
}

func (t *frequencyTable) top(n int) []frequencyEntry {
	entries := make([]frequencyEntry, 0, len(t.order))
	for _, key := range t.order {
		entries = append(entries, frequencyEntry{key: key, count: t.counts[key]})
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].count > entries[j].count
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	return entries
}

func round1(x float64) float64 {
	return math.Round(x*10) / 10
}
