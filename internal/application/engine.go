package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
	"github.com/fulcrumlabs/fulcrumbot/internal/ports"
)

// Flag names the engine itself interprets. Everything else in the schema
// flows through to the launched instance as environment.
const (
	FreshFlag = "fresh"
	PortFlag  = "port"
)

// Invocation is one start request arriving from the chat surface.
type Invocation struct {
	Requester string
	Mention   string
	Tokens    []string
	IssuedAt  time.Time
}

// EngineConfig is the static launch configuration. TargetVersion is the
// dotless form used in container names.
type EngineConfig struct {
	TargetVersion string
	Image         string
	Port          int
	MountPoint    string
}

// Engine coordinates one start invocation end to end: validate the tokens,
// admit through the session gate, confirm daemon readiness, then either
// resume the newest existing instance or provision a fresh ephemeral
// volume and launch a new one.
//
// Every modeled failure kind is converted to a user-facing reply here;
// only unexpected faults propagate as errors, after being logged.
type Engine struct {
	schema  *domain.ArgumentSchema
	gate    *SessionGate
	daemon  *DaemonMonitor
	runtime ports.ContainerRuntime
	volumes ports.VolumeStore
	clock   ports.Clock
	logger  *slog.Logger
	cfg     EngineConfig
}

func NewEngine(
	schema *domain.ArgumentSchema,
	gate *SessionGate,
	daemon *DaemonMonitor,
	runtime ports.ContainerRuntime,
	volumes ports.VolumeStore,
	clock ports.Clock,
	logger *slog.Logger,
	cfg EngineConfig,
) *Engine {
	if clock == nil {
		clock = ports.SystemClock{}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Engine{
		schema:  schema,
		gate:    gate,
		daemon:  daemon,
		runtime: runtime,
		volumes: volumes,
		clock:   clock,
		logger:  logger,
		cfg:     cfg,
	}
}

// Schema returns the command schema the engine validates against.
func (e *Engine) Schema() *domain.ArgumentSchema { return e.schema }

// HandleStart runs one start invocation and returns the reply text for the
// requester. A non-nil error is an unexpected fault; all modeled failures
// come back as replies.
func (e *Engine) HandleStart(ctx context.Context, inv Invocation) (string, error) {
	parsed, err := domain.Validate(e.schema, inv.Tokens)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			e.logger.Warn("command rejected", "requester", inv.Requester, "error", verr)
			return fmt.Sprintf("Could not read that command:\n```\n%s\n```", verr.Diagnostic()), nil
		}
		e.logger.Error("validator fault", "requester", inv.Requester, "error", err)
		return "", err
	}

	now := inv.IssuedAt
	if now.IsZero() {
		now = e.clock.Now()
	}

	session, err := e.gate.TryAdmit(now)
	if err != nil {
		if errors.Is(err, domain.ErrSessionBusy) {
			return fmt.Sprintf("A session is already currently running! Cool-down window: %s", e.gate.Window()), nil
		}
		e.logger.Error("session gate fault", "error", err)
		return "", err
	}

	if err := e.daemon.EnsureReady(ctx); err != nil {
		if errors.Is(err, domain.ErrDaemonUnavailable) {
			e.logger.Error("daemon unavailable", "requester", inv.Requester, "error", err)
			return "The server daemon is not responding right now. Try again in a bit.", nil
		}
		e.logger.Error("daemon readiness fault", "error", err)
		return "", err
	}

	instance, reply, err := e.bringUp(ctx, parsed)
	if err != nil {
		return "", err
	}
	if reply != "" {
		return reply, nil
	}

	e.logger.Info("session started",
		"requester", inv.Requester,
		"instance", instance,
		"session_start", session.Start,
	)

	return successReply(inv, session, e.gate.Window(), instance), nil
}

// bringUp runs the locate-or-provision branch and the launch. It returns
// either the launched instance name or a user-facing reply for a modeled
// failure.
func (e *Engine) bringUp(ctx context.Context, parsed domain.ParsedCommand) (instance, reply string, err error) {
	if parsed.HasOption(e.schema, FreshFlag) {
		slot, err := e.volumes.CreateSlot(ctx)
		if err != nil {
			e.logger.Error("volume provisioning fault", "error", err)
			return "", "", fmt.Errorf("provision volume slot: %w", err)
		}

		spec := ports.LaunchSpec{
			Image:      e.cfg.Image,
			Name:       domain.ContainerName(e.cfg.TargetVersion, slot.Version),
			VolumePath: slot.Path,
			MountPoint: e.cfg.MountPoint,
			Port:       e.launchPort(parsed),
			Env:        launchEnv(parsed),
		}
		if err := e.runtime.Launch(ctx, spec); err != nil {
			return "", e.launchFailureReply(spec.Name, err), nil
		}
		return spec.Name, "", nil
	}

	listing, err := e.runtime.Listing(ctx, e.cfg.TargetVersion)
	if err != nil {
		e.logger.Error("instance listing fault", "error", err)
		return "", "", fmt.Errorf("list instances: %w", err)
	}

	record, err := domain.FindLatest(listing, e.cfg.TargetVersion)
	if err != nil {
		if errors.Is(err, domain.ErrContainerNotFound) {
			e.logger.Warn("no instance to resume", "target_version", e.cfg.TargetVersion)
			return "", fmt.Sprintf("No existing %s instance to resume. Ask for a fresh one with --%s.", e.cfg.TargetVersion, FreshFlag), nil
		}
		return "", "", err
	}

	if err := e.runtime.Resume(ctx, record.Name); err != nil {
		return "", e.launchFailureReply(record.Name, err), nil
	}
	return record.Name, "", nil
}

// launchFailureReply reports a failed launch. The session stays marked
// active: the gate committed before the launch ran.
func (e *Engine) launchFailureReply(instance string, err error) string {
	e.logger.Error("launch failed; session remains marked active", "instance", instance, "error", err)
	return fmt.Sprintf("Could not bring up %s. The cool-down still applies.", instance)
}

func (e *Engine) launchPort(parsed domain.ParsedCommand) int {
	if v, ok := parsed.Flags[PortFlag]; ok && v.Type == domain.FlagInteger {
		return int(v.Int)
	}
	return e.cfg.Port
}

// launchEnv maps bound flag values onto environment for the launched
// instance. The engine's own flags are excluded.
func launchEnv(parsed domain.ParsedCommand) map[string]string {
	env := make(map[string]string)
	for name, val := range parsed.Flags {
		if name == PortFlag {
			continue
		}
		env[envKey(name)] = val.String()
	}
	return env
}

func envKey(flagName string) string {
	return strings.ToUpper(strings.ReplaceAll(flagName, "-", "_"))
}

func successReply(inv Invocation, session domain.Session, window domain.CooldownWindow, instance string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Yuhhhhh! Fulcrum come in. You are a true yodie gang member %s ", inv.Mention)
	b.WriteString("Penjamin city, shall we? Wagwan brotha time to inundate ya with stats ya feel me?\n\n")
	b.WriteString("```\n")
	b.WriteString("Starting a new server session...\n")
	fmt.Fprintf(&b, "Request origin: %s\n", inv.Requester)
	fmt.Fprintf(&b, "Request session start @ %s\n", session.Start.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Request cool-down window: %s\n", window)
	fmt.Fprintf(&b, "Instance: %s\n", instance)
	b.WriteString("```")
	return b.String()
}
