package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/banditmoscow1337/genpack/cmd/generator"
	"github.com/banditmoscow1337/genpack/cmd/generator/catalog"
	"github.com/banditmoscow1337/genpack/config"
)

var errNothingToWatch = errors.New("nothing to watch: pass --config or set license_file")

type generateFlags struct {
	schema string
	out    string
	tests  bool
	watch  bool
}

func newGenerateCmd(a *app) *cobra.Command {
	var f generateFlags

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write the C artifacts for a schema",
		Long: `Write <schema>.h, <schema>_pack.h and <schema>_pack.c into the output
directory. All artifacts are rendered before the first file is created.

With --watch the config file and license file are watched and every
change regenerates; a failed regeneration is logged and watching goes on.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f.apply(cmd, a.cfg)
			if err := a.generate(); err != nil {
				return err
			}
			if !f.watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd, &f)
		},
	}

	cmd.Flags().StringVarP(&f.schema, "schema", "s", "", "catalogue schema to generate (overrides config)")
	cmd.Flags().StringVarP(&f.out, "out", "o", "", "output directory (overrides config)")
	cmd.Flags().BoolVar(&f.tests, "tests", false, "also write <schema>_pack_test.c")
	cmd.Flags().BoolVarP(&f.watch, "watch", "w", false, "regenerate when the config or license file changes")
	return cmd
}

// apply lets explicitly set flags win over the loaded configuration.
func (f *generateFlags) apply(cmd *cobra.Command, cfg *config.Config) {
	if cmd.Flags().Changed("schema") {
		cfg.Schema = f.schema
	}
	if cmd.Flags().Changed("out") {
		cfg.OutputDir = f.out
	}
	if cmd.Flags().Changed("tests") {
		cfg.EmitTests = f.tests
	}
}

func (a *app) generate() error {
	s, entry, err := catalog.Build(a.cfg.Schema)
	if err != nil {
		return err
	}

	license := []byte(entry.License)
	if a.cfg.LicenseFile != "" {
		if license, err = os.ReadFile(a.cfg.LicenseFile); err != nil {
			return fmt.Errorf("read license: %w", err)
		}
	}

	if err := os.MkdirAll(a.cfg.OutputDir, 0755); err != nil {
		return fmt.Errorf("create output dir: %w", err)
	}

	err = generator.Generate(s, generator.Options{
		OutputDir:  a.cfg.OutputDir,
		License:    license,
		FieldCount: a.cfg.FieldCountMode(),
		Tests:      a.cfg.EmitTests,
		Log:        a.log,
	})
	if err != nil {
		return err
	}

	a.log.Info().
		Str("schema", s.Name()).
		Str("dir", a.cfg.OutputDir).
		Msg("generation complete")
	return nil
}

func (a *app) watch(ctx context.Context, cmd *cobra.Command, f *generateFlags) error {
	var paths []string
	if a.cfgFile != "" {
		paths = append(paths, a.cfgFile)
	}
	if a.cfg.LicenseFile != "" {
		paths = append(paths, a.cfg.LicenseFile)
	}
	if len(paths) == 0 {
		return errNothingToWatch
	}

	w, err := config.NewWatcher(a.log, func(string) {
		a.regenerate(cmd, f)
	}, paths...)
	if err != nil {
		return err
	}
	defer w.Close()

	w.Run(ctx)
	return nil
}

// regenerate reloads the configuration and generates again. Failures keep
// the previous output and configuration.
func (a *app) regenerate(cmd *cobra.Command, f *generateFlags) {
	cfg, err := config.LoadWithFallback(a.cfgFile)
	if err != nil {
		a.log.Error().Err(err).Msg("config reload failed, keeping old config")
		return
	}

	prev := a.cfg
	f.apply(cmd, cfg)
	a.cfg = cfg
	if err := a.generate(); err != nil {
		a.log.Error().Err(err).Msg("regeneration failed")
		a.cfg = prev
	}
}
