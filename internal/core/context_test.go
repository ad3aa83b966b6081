package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hbrothers.com/concierge/internal/menu"
)

func testCatalog() *menu.Catalog {
	return menu.NewCatalog([]menu.Item{
		{ID: "brisket-sandwich", Name: "Smoked Brisket Sandwich", Price: "$14.95", Category: menu.CategorySandwiches},
		{ID: "h-burger", Name: "H Brothers Burger", Price: "$12.95", Category: menu.CategorySandwiches},
		{ID: "loaded-fries", Name: "Loaded Brisket Fries", Price: "$10.95", Category: menu.CategorySides},
	})
}

func TestUpdateContextIncrementsMessageCount(t *testing.T) {
	catalog := testCatalog()
	ctx := NewConversationContext(time.Now())

	ctx = UpdateContext(ctx, "hello", "hi there", catalog)
	ctx = UpdateContext(ctx, "", "", catalog)

	assert.Equal(t, 2, ctx.MessageCount)
}

func TestUpdateContextHoursFlagIsSticky(t *testing.T) {
	catalog := testCatalog()
	ctx := NewConversationContext(time.Now())

	ctx = UpdateContext(ctx, "What are your HOURS?", "We're open Tue-Sat.", catalog)
	require.True(t, ctx.AskedAboutHours)

	// A later message with no mention of hours must not reset the flag.
	ctx = UpdateContext(ctx, "thanks!", "You're welcome.", catalog)
	assert.True(t, ctx.AskedAboutHours)
}

func TestUpdateContextLocationTriggers(t *testing.T) {
	catalog := testCatalog()

	for _, msg := range []string{"Where are you?", "what's your LOCATION"} {
		ctx := UpdateContext(NewConversationContext(time.Now()), msg, "", catalog)
		assert.True(t, ctx.AskedAboutLocation, "message %q should set the location flag", msg)
	}

	ctx := UpdateContext(NewConversationContext(time.Now()), "tell me about the menu", "", catalog)
	assert.False(t, ctx.AskedAboutLocation)
}

func TestUpdateContextMentionedItemsDedupedInOrder(t *testing.T) {
	catalog := testCatalog()
	ctx := NewConversationContext(time.Now())

	ctx = UpdateContext(ctx, "any recommendations?",
		"Try the smoked brisket sandwich or the H BROTHERS BURGER!", catalog)
	require.Equal(t, []string{"Smoked Brisket Sandwich", "H Brothers Burger"}, ctx.MentionedItems)

	// Repeats are not re-added; new discoveries append in order.
	ctx = UpdateContext(ctx, "what else?",
		"The Smoked Brisket Sandwich again, or Loaded Brisket Fries.", catalog)
	assert.Equal(t, []string{"Smoked Brisket Sandwich", "H Brothers Burger", "Loaded Brisket Fries"}, ctx.MentionedItems)
}

func TestUpdateContextDoesNotMutateInput(t *testing.T) {
	catalog := testCatalog()
	orig := NewConversationContext(time.Now())

	_ = UpdateContext(orig, "what are your hours", "Try the Smoked Brisket Sandwich", catalog)

	assert.Equal(t, 0, orig.MessageCount)
	assert.False(t, orig.AskedAboutHours)
	assert.Empty(t, orig.MentionedItems)
}
