package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/xonecas/minichat/internal/chime"
	"github.com/xonecas/minichat/internal/config"
	"github.com/xonecas/minichat/internal/constants"
	"github.com/xonecas/minichat/internal/core"
	"github.com/xonecas/minichat/internal/store"
	"github.com/xonecas/minichat/internal/tui"
)

// Version is set at build time via ldflags.
var Version = "dev"

type options struct {
	configPath string
	debug      bool
	name       string
	theme      string
	seed       int64
	noSound    bool
}

func newRootCmd() *cobra.Command {
	opts := &options{}

	root := &cobra.Command{
		Use:           "minichat",
		Short:         "A terminal chat room with simulated peers",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := opts.validate(); err != nil {
				return err
			}
			return run(opts)
		},
	}

	flags := root.Flags()
	flags.StringVar(&opts.configPath, "config", "config.toml", "path to config file")
	flags.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	flags.StringVar(&opts.name, "name", "", "display name (skips the name prompt)")
	flags.StringVar(&opts.theme, "theme", "", "color theme: light or dark")
	flags.Int64Var(&opts.seed, "seed", 0, "random seed for reproducible sessions (0 = time based)")
	flags.BoolVar(&opts.noSound, "no-sound", false, "disable the message chime")

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "minichat %s\n", Version)
		},
	})

	return root
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "minichat: %v\n", err)
		os.Exit(1)
	}
}

func (o *options) validate() error {
	if o.theme != "" && !store.IsTheme(o.theme) {
		return fmt.Errorf("--theme must be %q or %q, got %q", store.ThemeLight, store.ThemeDark, o.theme)
	}
	return nil
}

// applyFlags lets command line flags win over the file and environment.
func applyFlags(cfg *config.Config, opts *options) {
	if opts.seed != 0 {
		cfg.Simulation.Seed = opts.seed
	}
	if opts.noSound {
		cfg.Sound.Enabled = false
	}
}

func run(opts *options) error {
	if err := initLogging(opts.debug); err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	log.Info().Str("version", Version).Msg("Starting minichat")

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		log.Error().Err(err).Msg("Failed to load config")
		return fmt.Errorf("load config: %w", err)
	}
	applyFlags(cfg, opts)
	log.Debug().Interface("config", cfg).Msg("Configuration loaded")

	s, err := store.New()
	if err != nil {
		log.Error().Err(err).Msg("Failed to initialize store")
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	bus := core.NewEventBus(constants.MinEventBusBufferSize)
	defer bus.Close()

	seed := cfg.Simulation.Seed
	sim := core.NewSimulator(
		core.SimulatorConfigFrom(cfg.Simulation),
		bus,
		core.WithRand(core.NewRand(seed)),
	)

	var notifier chime.Notifier = chime.NopNotifier{}
	if cfg.Sound.DesktopNotify {
		notifier = chime.NewDesktop()
	}

	uiSeed := seed
	if uiSeed != 0 {
		uiSeed++
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigCh)

	eventCh := bus.Subscribe()

	model := tui.New(tui.Options{
		Simulator:       sim,
		Store:           s,
		Events:          eventCh,
		Chime:           chime.New(cfg.Sound),
		Notifier:        notifier,
		Rand:            core.NewRand(uiSeed),
		BottomThreshold: cfg.Transcript.BottomThreshold,
		Name:            opts.name,
		Theme:           opts.theme,
	})
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())

	go func() {
		<-sigCh
		log.Info().Msg("Received shutdown signal")
		sim.Stop()
		program.Quit()
	}()

	if _, err := program.Run(); err != nil {
		log.Error().Err(err).Msg("TUI error")
		return fmt.Errorf("run ui: %w", err)
	}

	sim.Stop()
	log.Info().Msg("minichat shutdown complete")
	return nil
}

func initLogging(debug bool) error {
	dataDir, err := config.EnsureDataDir()
	if err != nil {
		return fmt.Errorf("ensure data dir: %w", err)
	}

	// Truncated on startup
	logPath := filepath.Join(dataDir, "minichat.log")
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	if debug {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// The TUI owns stdout/stderr
	log.Logger = zerolog.New(logFile).With().Timestamp().Logger()
	return nil
}
