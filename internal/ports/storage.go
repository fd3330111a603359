package ports

import (
	"context"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
)

// VolumeStore manages the ephemeral volume directory tree.
type VolumeStore interface {
	// SlotNames lists the entries under the volume root.
	SlotNames(ctx context.Context) ([]string, error)

	// CreateSlot computes the next free slot and creates its directory.
	// Creation is exclusive: on a collision with a concurrent provisioner
	// the store re-scans and retries. The returned slot's Path is the
	// created directory's full path.
	CreateSlot(ctx context.Context) (domain.VolumeSlot, error)
}

// SecretStore resolves named secrets, such as the chat gateway token.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
