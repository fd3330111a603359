package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	discordadapter "github.com/fulcrumlabs/fulcrumbot/internal/adapters/discord"
)

func newServeCmd(app *app) *cobra.Command {
	var (
		dev           bool
		offline       bool
		channelReport bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the bot daemon",
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer func() { _ = app.logger.Close() }()

			if offline {
				// Everything is wired; the gateway connection is skipped.
				app.logger.Info("offline mode: not contacting the gateway")
				fmt.Fprintln(cmd.OutOrStdout(), "offline mode: wiring verified, gateway not contacted")
				return nil
			}

			token, err := app.secrets.Get(cmd.Context(), app.cfg.Discord.TokenRef)
			if err != nil {
				return fmt.Errorf("resolve gateway token: %w", err)
			}

			bot, err := discordadapter.New(app.engine, app.logger.Logger, discordadapter.Options{
				Token:         token,
				ChannelID:     app.cfg.Discord.ChannelID,
				CommandPrefix: app.cfg.Discord.CommandPrefix,
				UserCooldown:  app.cfg.Discord.UserCooldown,
				Dev:           dev,
				ChannelReport: channelReport,
			})
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			app.logger.Info("serving",
				"target_version", app.cfg.Server.TargetVersion,
				"restart_threshold", app.cfg.Server.RestartThreshold,
			)
			return bot.Run(ctx)
		},
	}

	cmd.Flags().BoolVarP(&dev, "dev", "d", false, "Report gateway readiness timing")
	cmd.Flags().BoolVar(&offline, "offline", false, "Wire everything but do not contact the chat gateway")
	cmd.Flags().BoolVarP(&channelReport, "channel-report", "c", false, "Post the readiness report to the configured channel")

	return cmd
}
