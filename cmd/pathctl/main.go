package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	root := &cobra.Command{
		Use:           "pathctl",
		Short:         "Explore career paths one step at a time",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.api, "api", "", "server base URL (default $PATHCTL_API)")
	root.PersistentFlags().StringVar(&flags.store, "store", "", "state store: memory|file|sqlite|postgres (default $PATHCTL_STORE)")
	root.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "sqlite path, postgres DSN or state directory (default $PATHCTL_DSN)")
	root.PersistentFlags().StringVar(&flags.client, "client", "", "client profile key (default $PATHCTL_CLIENT)")
	root.PersistentFlags().BoolVarP(&flags.verbose, "verbose", "v", false, "log to stderr")

	root.AddCommand(newStartCmd(flags))
	root.AddCommand(newShowCmd(flags))
	root.AddCommand(newChooseCmd(flags))
	root.AddCommand(newBackCmd(flags))
	root.AddCommand(newResourcesCmd(flags))
	root.AddCommand(newSavedCmd(flags))
	root.AddCommand(newUnsaveCmd(flags))
	root.AddCommand(newProgressCmd(flags))
	root.AddCommand(newResetCmd(flags))
	return root
}

// withApp opens the app around run and restores the saved session.
func withApp(cmd *cobra.Command, flags *globalFlags, run func(*app) error) error {
	a, err := loadApp(flags)
	if err != nil {
		return err
	}
	defer func() { _ = a.close() }()
	defer a.log.Sync()

	if err := a.explorer.Restore(cmd.Context()); err != nil {
		return err
	}
	return run(a)
}
