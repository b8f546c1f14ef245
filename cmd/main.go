// Command genpack generates C pack/unpack code over msgpack-c from the
// built-in schema catalogue.
package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/banditmoscow1337/genpack/config"
)

// app is the state shared by all subcommands once the root has loaded the
// configuration.
type app struct {
	cfgFile string
	cfg     *config.Config
	log     zerolog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{log: zerolog.Nop()}

	root := &cobra.Command{
		Use:   "genpack",
		Short: "Generate msgpack pack/unpack code for C from a schema",
		Long: `genpack turns a typed record schema into three C artifacts:

  <schema>.h         native struct, enum and union declarations
  <schema>_pack.h    pack/unpack prototypes
  <schema>_pack.c    pack/unpack bodies over msgpack-c

Records travel as arrays whose first slot is the record's discriminator.

Examples:
  genpack list
  genpack inspect --schema paxos_types
  genpack generate --out lib/include --tests`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadWithFallback(a.cfgFile)
			if err != nil {
				return err
			}
			a.cfg = cfg
			a.log = config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
			return nil
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path (defaults and GENPACK_* variables when empty)")

	root.AddCommand(newGenerateCmd(a), newListCmd(), newInspectCmd(a))
	return root
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		log := config.NewLogger(config.LoggingConfig{Level: "error", Format: "console"}, os.Stderr)
		log.Error().Err(err).Msg("genpack failed")
		os.Exit(1)
	}
}
