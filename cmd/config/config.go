package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/jukebox/cmd/common"
	"github.com/gigurra/jukebox/cmd/jukebox/settings"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/cobra"
)

type Params struct {
	Init  bool `short:"i" optional:"true" help:"Write the config file with defaults if it does not exist."`
	Force bool `short:"f" optional:"true" help:"With --init, overwrite an existing config file."`
	Path  bool `short:"p" optional:"true" help:"Only print the config file path."`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "config",
		Short:       "Show or initialise the jukebox config file",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params, settings.Path(), os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "config: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

func run(params *Params, path string, out io.Writer) error {
	if params.Path {
		fmt.Fprintln(out, path)
		return nil
	}

	if params.Init {
		if _, err := os.Stat(path); err == nil && !params.Force {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
		if err := settings.DefaultConfig().WriteConfigFile(path); err != nil {
			return err
		}
		fmt.Fprintf(out, "Wrote %s\n", path)
		return nil
	}

	cfg, err := settings.ReadConfigFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(out, "# %s does not exist, showing defaults\n", path)
		cfg = settings.DefaultConfig()
	} else if err != nil {
		return err
	} else {
		fmt.Fprintf(out, "# %s\n", path)
	}

	b, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}
	_, err = out.Write(b)
	return err
}
