package ports

import "context"

// LaunchSpec configures a fresh instance launch.
type LaunchSpec struct {
	Image      string
	Name       string
	VolumePath string
	MountPoint string
	Port       int
	Env        map[string]string
}

// ContainerRuntime is the interface over the external container engine.
// Listing returns raw text; parsing it is the caller's concern.
type ContainerRuntime interface {
	// Ping probes the container daemon and returns an error when it is
	// not reachable.
	Ping(ctx context.Context) error

	// StartDaemon triggers out-of-band startup of the container daemon.
	// Fire-and-forget: a nil return means the start was issued, not that
	// the daemon is ready.
	StartDaemon(ctx context.Context) error

	// Listing returns the raw instance listing filtered by the target
	// version, one name per line.
	Listing(ctx context.Context, targetVersion string) (string, error)

	// Resume starts an existing stopped instance by name.
	Resume(ctx context.Context, name string) error

	// Launch starts a fresh instance with an ephemeral volume mounted on
	// the published port. It does not block on the instance's execution.
	Launch(ctx context.Context, spec LaunchSpec) error
}
