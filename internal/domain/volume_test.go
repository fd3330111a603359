package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextSlotSkipsGaps(t *testing.T) {
	t.Parallel()

	slot := NextSlot([]string{"tmp-mc-1", "tmp-mc-2", "tmp-mc-4"})
	assert.Equal(t, VolumeSlot{Version: 5, Path: "tmp-mc-5"}, slot)
}

func TestNextSlotEmptyTree(t *testing.T) {
	t.Parallel()

	slot := NextSlot(nil)
	assert.Equal(t, VolumeSlot{Version: 1, Path: "tmp-mc-1"}, slot)
}

func TestNextSlotIgnoresForeignNames(t *testing.T) {
	t.Parallel()

	slot := NextSlot([]string{"tmp-mc-3", "lost+found", "tmp-mc-x", "backup-mc-9"})
	assert.Equal(t, VolumeSlot{Version: 4, Path: "tmp-mc-4"}, slot)
}
