package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBuilder_Grid(t *testing.T) {
	kb := NewBuilder().
		Grid(2, Button("1", "a"), Button("2", "b"), Button("3", "c")).
		Row(BackButton("back")).
		Row().
		Build()

	assert.Len(t, kb.InlineKeyboard, 3)
	assert.Len(t, kb.InlineKeyboard[0], 2)
	assert.Len(t, kb.InlineKeyboard[1], 1)
	assert.Equal(t, "c", kb.InlineKeyboard[1][0].CallbackData)
	assert.Equal(t, "back", kb.InlineKeyboard[2][0].CallbackData)
}

func TestYesNoAndCheckbox(t *testing.T) {
	row := YesNoButtons("yes", "no")
	assert.Equal(t, "yes", row[0].CallbackData)
	assert.Equal(t, "no", row[1].CallbackData)

	assert.Equal(t, "✅ 3", Checkbox(true, "3"))
	assert.Equal(t, "⬜️ 3", Checkbox(false, "3"))
}
