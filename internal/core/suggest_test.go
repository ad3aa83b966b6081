package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestSuggestRepliesBranches(t *testing.T) {
	ctx := NewConversationContext(time.Now())

	tests := []struct {
		name       string
		botMessage string
		want       []string
	}{
		{
			name:       "menu branch",
			botMessage: "Here's what's on our MENU today.",
			want:       []string{"What's most popular?", "Tell me about the brisket"},
		},
		{
			name:       "recommend also hits the menu branch",
			botMessage: "I'd recommend the brisket.",
			want:       []string{"What's most popular?", "Tell me about the brisket"},
		},
		{
			name:       "hours branch",
			botMessage: "We're open Tuesday through Saturday.",
			want:       []string{"Where are you located?", "Can I order online?"},
		},
		{
			name:       "location branch",
			botMessage: "We're at 212 E. Grand Ave in Escondido.",
			want:       []string{"What are your hours?", "Show me the menu"},
		},
		{
			name:       "default branch",
			botMessage: "You're very welcome!",
			want:       []string{"Show me the menu", "What are your hours?", "Where are you located?"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SuggestReplies(tt.botMessage, ctx)
			assert.Equal(t, tt.want, got)
			assert.NotEmpty(t, got)
			assert.LessOrEqual(t, len(got), 3)
		})
	}
}

func TestSuggestRepliesFirstMatchWins(t *testing.T) {
	ctx := NewConversationContext(time.Now())

	// Both the menu and hours triggers appear; only the first rule fires.
	got := SuggestReplies("Our menu is available during opening hours.", ctx)
	assert.Equal(t, []string{"What's most popular?", "Tell me about the brisket"}, got)
}

func TestSuggestRepliesReturnsCopies(t *testing.T) {
	ctx := NewConversationContext(time.Now())

	first := SuggestReplies("anything", ctx)
	first[0] = "mutated"
	second := SuggestReplies("anything", ctx)
	assert.Equal(t, "Show me the menu", second[0])
}
