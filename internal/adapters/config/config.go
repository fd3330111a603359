// Package config loads the bot's layered configuration: a TOML config file
// discovered next to the working directory or under the user config dir,
// overridden by FULCRUMBOT_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	configName = "fulcrumbot"
	configType = "toml"
	configDir  = ".fulcrumbot"
	envPrefix  = "FULCRUMBOT"
)

// targetVersionPattern is the accepted shape of a target version, e.g.
// "1.19.3". Dots are stripped for container naming.
var targetVersionPattern = regexp.MustCompile(`^(\d+\.){2}\d+$`)

type Discord struct {
	TokenRef      string
	ChannelID     string
	CommandPrefix string
	UserCooldown  time.Duration
}

type Server struct {
	RestartThreshold time.Duration
	TargetVersion    string
	Image            string
	Port             int
	MountPoint       string
}

type Daemon struct {
	MaxChecks    int
	PollInterval time.Duration
	StartCommand []string
}

type Log struct {
	Path       string
	MaxSizeMB  int
	MaxBackups int
}

type Config struct {
	Discord    Discord
	Server     Server
	Daemon     Daemon
	Log        Log
	VolumeRoot string
	SchemaPath string
	SecretsDir string
}

// DotlessVersion is the target version with dots stripped, the form used
// in container names ("1.19.3" -> "1193").
func (c Config) DotlessVersion() string {
	return strings.ReplaceAll(c.Server.TargetVersion, ".", "")
}

// Load reads the config file (if any), applies env overrides and defaults,
// and validates the result. A missing config file is not an error.
func Load(v *viper.Viper) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("resolve home directory: %w", err)
	}

	v.SetConfigName(configName)
	v.SetConfigType(configType)
	v.AddConfigPath(".")
	v.AddConfigPath(filepath.Join(homeDir, configDir))
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("discord.token_ref", "discord/api_token")
	v.SetDefault("discord.channel_id", "")
	v.SetDefault("discord.command_prefix", "!")
	v.SetDefault("discord.user_cooldown", "10s")
	v.SetDefault("server.restart_threshold", "2h")
	v.SetDefault("server.target_version", "1.19.3")
	v.SetDefault("server.image", "itzg/minecraft-server")
	v.SetDefault("server.port", 25565)
	v.SetDefault("server.mount_point", "/data")
	v.SetDefault("daemon.max_checks", 5)
	v.SetDefault("daemon.poll_interval", "3s")
	v.SetDefault("daemon.start_command", []string{"systemctl", "start", "docker"})
	v.SetDefault("log.path", "fulcrumbot.log")
	v.SetDefault("log.max_size_mb", 32)
	v.SetDefault("log.max_backups", 5)
	v.SetDefault("volume_root", filepath.Join(homeDir, configDir, "volumes"))
	v.SetDefault("schema_path", "")
	v.SetDefault("secrets_dir", filepath.Join(homeDir, configDir, "secrets"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
	}

	cfg := Config{
		Discord: Discord{
			TokenRef:      v.GetString("discord.token_ref"),
			ChannelID:     v.GetString("discord.channel_id"),
			CommandPrefix: v.GetString("discord.command_prefix"),
			UserCooldown:  v.GetDuration("discord.user_cooldown"),
		},
		Server: Server{
			RestartThreshold: v.GetDuration("server.restart_threshold"),
			TargetVersion:    v.GetString("server.target_version"),
			Image:            v.GetString("server.image"),
			Port:             v.GetInt("server.port"),
			MountPoint:       v.GetString("server.mount_point"),
		},
		Daemon: Daemon{
			MaxChecks:    v.GetInt("daemon.max_checks"),
			PollInterval: v.GetDuration("daemon.poll_interval"),
			StartCommand: v.GetStringSlice("daemon.start_command"),
		},
		Log: Log{
			Path:       v.GetString("log.path"),
			MaxSizeMB:  v.GetInt("log.max_size_mb"),
			MaxBackups: v.GetInt("log.max_backups"),
		},
		VolumeRoot: v.GetString("volume_root"),
		SchemaPath: v.GetString("schema_path"),
		SecretsDir: v.GetString("secrets_dir"),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	if !targetVersionPattern.MatchString(c.Server.TargetVersion) {
		return fmt.Errorf("server.target_version %q must match %s", c.Server.TargetVersion, targetVersionPattern)
	}
	if c.Server.RestartThreshold < 0 {
		return fmt.Errorf("server.restart_threshold must not be negative")
	}
	if c.Daemon.MaxChecks < 1 {
		return fmt.Errorf("daemon.max_checks must be at least 1")
	}
	if c.Daemon.PollInterval < 0 {
		return fmt.Errorf("daemon.poll_interval must not be negative")
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d out of range", c.Server.Port)
	}
	return nil
}
