package discord

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseStartCommand(t *testing.T) {
	t.Parallel()

	bot := &Bot{opts: Options{CommandPrefix: "!"}}

	tokens, ok := bot.parseStartCommand("!start --fresh -port 25566")
	assert.True(t, ok)
	assert.Equal(t, []string{"--fresh", "-port", "25566"}, tokens)

	tokens, ok = bot.parseStartCommand("  !start  ")
	assert.True(t, ok)
	assert.Empty(t, tokens)

	_, ok = bot.parseStartCommand("!stop")
	assert.False(t, ok)

	_, ok = bot.parseStartCommand("just chatting about !start stuff")
	assert.False(t, ok)

	_, ok = bot.parseStartCommand("")
	assert.False(t, ok)
}
