package main

import (
	"fmt"

	"github.com/reacto-io/reacto"
	"github.com/spf13/cobra"
)

func newRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Start the broker and wait for all external participants",
		Long: `Start the event engine with no in-process plugins. Every participant
listed under "externals" in the config must perform the rendezvous
handshake before the broker starts relaying. The command blocks forever;
it only exits on an unrecoverable engine failure.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadBrokerConfig(configPath)
			if err != nil {
				return err
			}

			externals := make([]reacto.ExternalParticipant, 0, len(cfg.Externals))
			for _, id := range cfg.Externals {
				externals = append(externals, reacto.ExternalParticipant{ID: id})
			}
			if len(externals) == 0 {
				return fmt.Errorf("config declares no participants; the broker would relay to nobody")
			}

			engine, err := reacto.New(
				reacto.WithExternals(externals...),
				reacto.WithIngressPort(cfg.IngressPort),
				reacto.WithEgressPort(cfg.EgressPort),
				reacto.WithSyncBasePort(cfg.SyncBasePort),
			)
			if err != nil {
				return err
			}
			return engine.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to a TOML broker config")
	return cmd
}
