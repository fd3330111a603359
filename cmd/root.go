package cmd

import "github.com/spf13/cobra"

func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "fulcrumbot",
		Short:         "fulcrumbot: chat-driven control surface for a managed server session",
		Long:          "fulcrumbot listens for start commands in a chat channel, validates their arguments against a declarative schema, and brings up a single containerized server session guarded by a restart cool-down and daemon readiness checks.",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	app, err := wireApp()
	if err != nil {
		rootCmd.RunE = func(_ *cobra.Command, _ []string) error {
			return err
		}
		return rootCmd
	}

	rootCmd.AddCommand(
		newVersionCmd(),
		newServeCmd(app),
		newCheckCmd(app),
	)

	return rootCmd
}
