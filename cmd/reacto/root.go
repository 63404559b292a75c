package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "reacto",
		Short: "reacto - pub/sub event engine for plugin pipelines",
		Long: `reacto runs the event engine broker: a fan-in ingress channel, a fan-out
egress channel, and a startup barrier that holds all traffic until every
declared participant has checked in.

The run command starts a broker whose participants are all external
processes; in-process plugins are wired in code, see the examples
directory. The join command implements the external participant side of
the handshake, useful for smoke-testing a running broker.`,
		SilenceUsage: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
	}

	rootCmd.AddCommand(newRunCommand())
	rootCmd.AddCommand(newJoinCommand())

	return rootCmd
}
