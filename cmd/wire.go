package cmd

import (
	"fmt"

	"github.com/spf13/viper"

	configadapter "github.com/fulcrumlabs/fulcrumbot/internal/adapters/config"
	dockeradapter "github.com/fulcrumlabs/fulcrumbot/internal/adapters/docker"
	schemaadapter "github.com/fulcrumlabs/fulcrumbot/internal/adapters/schema"
	filestore "github.com/fulcrumlabs/fulcrumbot/internal/adapters/secrets/file"
	volumeadapter "github.com/fulcrumlabs/fulcrumbot/internal/adapters/volume"
	"github.com/fulcrumlabs/fulcrumbot/internal/application"
	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
	"github.com/fulcrumlabs/fulcrumbot/internal/ports"
)

type app struct {
	cfg     configadapter.Config
	engine  *application.Engine
	gate    *application.SessionGate
	secrets ports.SecretStore
	logger  *appLogger
}

func wireApp() (*app, error) {
	cfg, err := configadapter.Load(viper.New())
	if err != nil {
		return nil, fmt.Errorf("wire configuration: %w", err)
	}

	logger := newAppLogger(cfg.Log)

	var schema *domain.ArgumentSchema
	if cfg.SchemaPath != "" {
		schema, err = schemaadapter.Load(cfg.SchemaPath)
		if err != nil {
			return nil, fmt.Errorf("wire argument schema: %w", err)
		}
	} else {
		schema = schemaadapter.Default()
	}

	volumes, err := volumeadapter.NewStore(cfg.VolumeRoot)
	if err != nil {
		return nil, fmt.Errorf("wire volume store: %w", err)
	}

	runtime := &dockeradapter.Runtime{DaemonStart: cfg.Daemon.StartCommand}
	gate := application.NewSessionGate(cfg.Server.RestartThreshold)
	monitor := application.NewDaemonMonitor(runtime, cfg.Daemon.MaxChecks, cfg.Daemon.PollInterval, logger.Logger)

	engine := application.NewEngine(
		schema,
		gate,
		monitor,
		runtime,
		volumes,
		ports.SystemClock{},
		logger.Logger,
		application.EngineConfig{
			TargetVersion: cfg.DotlessVersion(),
			Image:         cfg.Server.Image,
			Port:          cfg.Server.Port,
			MountPoint:    cfg.Server.MountPoint,
		},
	)

	return &app{
		cfg:     cfg,
		engine:  engine,
		gate:    gate,
		secrets: filestore.NewStore(cfg.SecretsDir),
		logger:  logger,
	}, nil
}
