package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// SlotPrefix is the naming convention for ephemeral volume directories.
const SlotPrefix = "tmp-mc-"

// VolumeSlot describes one ephemeral volume directory. Path is the slot's
// directory name until the provisioner resolves it against the volume root.
type VolumeSlot struct {
	Version int
	Path    string
}

// NextSlot computes the next unused slot from the given directory names:
// max of all tmp-mc-<n> suffixes plus one, or slot 1 when none exist.
// Gaps are never reused.
func NextSlot(existing []string) VolumeSlot {
	max := 0
	for _, name := range existing {
		rest, ok := strings.CutPrefix(name, SlotPrefix)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(rest)
		if err != nil || n < 0 {
			continue
		}
		if n > max {
			max = n
		}
	}

	next := max + 1
	return VolumeSlot{Version: next, Path: fmt.Sprintf("%s%d", SlotPrefix, next)}
}
