package volume

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
	"github.com/fulcrumlabs/fulcrumbot/internal/ports"
)

const (
	rootDirMode = 0o755
	slotDirMode = 0o755

	// createAttempts bounds the rescan loop when a concurrent provisioner
	// claims the computed slot first.
	createAttempts = 5
)

// Store manages the ephemeral volume directory tree under a fixed root.
// Slot creation uses exclusive os.Mkdir, so two concurrent provisioners
// computing the same next slot cannot both claim it; the loser re-scans.
type Store struct {
	root string
}

var _ ports.VolumeStore = (*Store)(nil)

func NewStore(root string) (*Store, error) {
	root = filepath.Clean(root)
	if err := os.MkdirAll(root, rootDirMode); err != nil {
		return nil, fmt.Errorf("create volume root %q: %w", root, err)
	}
	return &Store{root: root}, nil
}

func (s *Store) Root() string { return s.root }

// SlotNames lists the directory entries under the volume root.
func (s *Store) SlotNames(ctx context.Context) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := os.ReadDir(s.root)
	if err != nil {
		return nil, fmt.Errorf("scan volume root %q: %w", s.root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}

// CreateSlot computes the next free slot and creates its directory. On a
// name collision it re-scans and retries, up to createAttempts times.
func (s *Store) CreateSlot(ctx context.Context) (domain.VolumeSlot, error) {
	for attempt := 0; attempt < createAttempts; attempt++ {
		names, err := s.SlotNames(ctx)
		if err != nil {
			return domain.VolumeSlot{}, err
		}

		slot := domain.NextSlot(names)
		path := filepath.Join(s.root, slot.Path)

		err = os.Mkdir(path, slotDirMode)
		if err == nil {
			slot.Path = path
			return slot, nil
		}
		if errors.Is(err, fs.ErrExist) {
			// Lost the slot to a concurrent provisioner.
			continue
		}
		return domain.VolumeSlot{}, fmt.Errorf("create volume slot %q: %w", path, err)
	}

	return domain.VolumeSlot{}, fmt.Errorf("create volume slot: %d attempts collided under %q", createAttempts, s.root)
}
