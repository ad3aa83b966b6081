package core

import "strings"

// suggestionRule maps trigger substrings in the bot's last reply to canned
// follow-up prompts. Rules are evaluated in order; the first match wins.
type suggestionRule struct {
	triggers []string
	replies  []string
}

var suggestionRules = []suggestionRule{
	{
		triggers: []string{"menu", "recommend"},
		replies:  []string{"What's most popular?", "Tell me about the brisket"},
	},
	{
		triggers: []string{"hour", "open"},
		replies:  []string{"Where are you located?", "Can I order online?"},
	},
	{
		triggers: []string{"escondido", "grand ave"},
		replies:  []string{"What are your hours?", "Show me the menu"},
	},
}

var defaultSuggestions = []string{"Show me the menu", "What are your hours?", "Where are you located?"}

// SuggestReplies returns 1-3 follow-up prompts for the bot's last message.
// Exactly one rule branch fires per call. The context parameter is accepted
// for signature stability but does not currently vary the output; see
// DESIGN.md for why that gap is kept.
func SuggestReplies(lastBotMessage string, ctx ConversationContext) []string {
	_ = ctx
	lower := strings.ToLower(lastBotMessage)
	for _, rule := range suggestionRules {
		if containsAny(lower, rule.triggers) {
			return append([]string{}, rule.replies...)
		}
	}
	return append([]string{}, defaultSuggestions...)
}
