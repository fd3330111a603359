package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/fulcrumlabs/fulcrumbot/internal/domain"
)

// newCheckCmd validates a command line offline, exactly as the bot would,
// and prints either the parsed result or the positional diagnostic.
func newCheckCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:                "check [tokens...]",
		Short:              "Validate start-command tokens against the schema",
		DisableFlagParsing: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 && (args[0] == "-h" || args[0] == "--help") {
				return cmd.Help()
			}

			parsed, err := domain.Validate(app.engine.Schema(), args)
			if err != nil {
				var verr *domain.ValidationError
				if errors.As(err, &verr) {
					fmt.Fprintln(cmd.OutOrStdout(), verr.Diagnostic())
					return errors.New("command rejected")
				}
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "positionals: %d\n", len(parsed.Positionals))
			for i, val := range parsed.Positionals {
				fmt.Fprintf(out, "  [%d] %s (%s)\n", i, val, val.Type)
			}
			fmt.Fprintf(out, "flags: %d\n", len(parsed.Flags))
			for _, spec := range app.engine.Schema().Flags() {
				if val, ok := parsed.Flags[spec.Name]; ok {
					fmt.Fprintf(out, "  %s = %s (%s)\n", spec.Name, val, spec.Type)
				}
			}
			fmt.Fprintf(out, "options: %#b\n", parsed.Options)
			if set := optionNames(app, parsed); len(set) > 0 {
				fmt.Fprintf(out, "  set: %s\n", strings.Join(set, ", "))
			}
			return nil
		},
	}
}

func optionNames(app *app, parsed domain.ParsedCommand) []string {
	var names []string
	for _, spec := range app.engine.Schema().Flags() {
		if parsed.HasOption(app.engine.Schema(), spec.Name) {
			names = append(names, spec.Name)
		}
	}
	return names
}
