package docker

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"sort"
	"strconv"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
	"github.com/fulcrumlabs/fulcrumbot/internal/ports"
)

// instancePort is the port the server listens on inside the container.
const instancePort = 25565

// Runtime implements ports.ContainerRuntime over the docker CLI via
// os/exec. DaemonStart is the command issued to bring the daemon up
// out-of-band, typically ["systemctl", "start", "docker"].
type Runtime struct {
	DaemonStart []string
}

var _ ports.ContainerRuntime = (*Runtime)(nil)

// Ping checks that the docker daemon is reachable by running docker info.
func (r *Runtime) Ping(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "docker", "info")
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("docker info: %w", err)
	}
	return nil
}

// StartDaemon issues the configured daemon start command and does not wait
// for it to finish.
func (r *Runtime) StartDaemon(ctx context.Context) error {
	if len(r.DaemonStart) == 0 {
		return nil
	}

	cmd := exec.CommandContext(ctx, r.DaemonStart[0], r.DaemonStart[1:]...)
	cmd.Stdout = io.Discard
	cmd.Stderr = io.Discard
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start daemon command %q: %w", r.DaemonStart[0], err)
	}

	// Reap the child without blocking the caller.
	go func() { _ = cmd.Wait() }()
	return nil
}

// Listing returns container names filtered by the target version, one per
// line, including stopped containers.
func (r *Runtime) Listing(ctx context.Context, targetVersion string) (string, error) {
	args := listingCmdArgs(targetVersion)

	cmd := exec.CommandContext(ctx, "docker", args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return "", fmt.Errorf("docker ps: exit code %d: %s", exitErr.ExitCode(), stderr.String())
		}
		return "", fmt.Errorf("docker ps: %w", err)
	}
	return string(out), nil
}

// Resume starts an existing stopped container by name.
func (r *Runtime) Resume(ctx context.Context, name string) error {
	cmd := exec.CommandContext(ctx, "docker", "start", name)
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: docker start %s: exit code %d: %s", domain.ErrLaunchFailed, name, exitErr.ExitCode(), stderr.String())
		}
		return fmt.Errorf("%w: docker start %s: %v", domain.ErrLaunchFailed, name, err)
	}
	return nil
}

// Launch starts a fresh detached container with the ephemeral volume
// mounted and the published port bound.
func (r *Runtime) Launch(ctx context.Context, spec ports.LaunchSpec) error {
	args := launchCmdArgs(spec)

	cmd := exec.CommandContext(ctx, "docker", args...)
	cmd.Stdout = io.Discard
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return fmt.Errorf("%w: docker run %s: exit code %d: %s", domain.ErrLaunchFailed, spec.Name, exitErr.ExitCode(), stderr.String())
		}
		return fmt.Errorf("%w: docker run %s: %v", domain.ErrLaunchFailed, spec.Name, err)
	}
	return nil
}

// listingCmdArgs returns the docker CLI arguments for a listing invocation.
func listingCmdArgs(targetVersion string) []string {
	return []string{
		"ps", "-a",
		"--filter", "name=" + targetVersion + "-mc-",
		"--format", "{{.Names}}",
	}
}

// launchCmdArgs returns the docker CLI arguments for a fresh launch.
// Env keys are emitted in sorted order so the invocation is deterministic.
func launchCmdArgs(spec ports.LaunchSpec) []string {
	args := []string{"run", "-d", "--name", spec.Name}
	args = append(args, "-p", strconv.Itoa(spec.Port)+":"+strconv.Itoa(instancePort))
	args = append(args, "-v", spec.VolumePath+":"+spec.MountPoint)
	for _, k := range sortedKeys(spec.Env) {
		args = append(args, "-e", k+"="+spec.Env[k])
	}
	args = append(args, spec.Image)
	return args
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
