package play

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/jukebox/cmd/common"
	"github.com/gigurra/jukebox/cmd/jukebox/settings"
	"github.com/gigurra/jukebox/cmd/jukebox/upload"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type Params struct {
	Files       []string `pos:"true" optional:"true" help:"Audio files or directories to queue, in order."`
	Volume      float64  `optional:"true" help:"Initial volume between 0 and 1. Overrides the config file." default:"1"`
	AutoAdvance bool     `short:"a" optional:"true" help:"Continue with the next track when one ends."`
	Watch       string   `short:"w" optional:"true" help:"Drop directory; audio files appearing there are queued."`
	Listen      string   `short:"l" optional:"true" help:"Serve the HTTP remote control on this address (e.g. 127.0.0.1:7788)."`
	Notify      bool     `short:"n" optional:"true" help:"Show a desktop notification when a new track starts."`
	Headless    bool     `optional:"true" help:"Run without the terminal UI and start playing right away."`
	Debug       bool     `short:"d" optional:"true" help:"Log at debug level."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:   "play",
		Short: "Play audio files",
		Long: `Play audio files (mp3, wav, ogg) in the terminal.

Controls:
  SPACE      - Play / pause
  n / p      - Next / previous track
  , / .      - Seek back / forward 5s
  + / -      - Volume up / down
  ↑ / ↓ ENTER - Pick a track from the list
  q          - Quit

Defaults come from the config file (see 'jukebox config'); flags override them.
When stdout is not a terminal the player runs headless.`,
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params, cmd); err != nil {
				fmt.Fprintf(os.Stderr, "play: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func run(params *Params, cmd *cobra.Command) error {
	cfg, err := settings.Load()
	if err != nil {
		return err
	}
	applyFlags(cfg, params, cmd.Flags().Changed)

	initial, err := upload.FromPaths(params.Files)
	if err != nil {
		return err
	}

	interactive := !params.Headless && term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
	if !interactive && len(initial) == 0 && cfg.Library.WatchDir == "" && !cfg.Remote.Enabled {
		return errors.New("nothing to play: pass audio files, --watch or --listen")
	}

	log, closeLog, err := setupLogging(interactive, params.Debug)
	if err != nil {
		return err
	}
	defer closeLog()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	p := newPlayer(cfg, log)
	defer p.close()

	if interactive {
		return p.runInteractive(ctx, initial)
	}
	return p.runHeadless(ctx, initial)
}

// applyFlags lets explicitly given flags win over the config file.
func applyFlags(cfg *settings.Config, params *Params, changed func(name string) bool) {
	if changed("volume") {
		cfg.Playback.Volume = params.Volume
	}
	if changed("auto-advance") {
		cfg.Playback.AutoAdvance = params.AutoAdvance
	}
	if params.Watch != "" {
		cfg.Library.WatchDir = params.Watch
	}
	if params.Listen != "" {
		cfg.Remote.Enabled = true
		cfg.Remote.Listen = params.Listen
	}
	if changed("notify") {
		cfg.Notifications.Enabled = params.Notify
	}
}
