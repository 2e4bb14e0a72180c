package main

import (
	"runtime/debug"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/jukebox/cmd/config"
	"github.com/gigurra/jukebox/cmd/list"
	"github.com/gigurra/jukebox/cmd/play"
	"github.com/spf13/cobra"
)

func main() {
	boa.CmdT[boa.NoParams]{
		Use:     "jukebox",
		Short:   "A terminal audio player",
		Version: appVersion(),
		SubCmds: []*cobra.Command{
			play.Cmd(),
			list.Cmd(),
			config.Cmd(),
		},
	}.Run()
}

func appVersion() string {
	bi, hasBuilInfo := debug.ReadBuildInfo()
	if !hasBuilInfo {
		return "unknown-(no build info)"
	}

	versionString := bi.Main.Version
	if versionString == "" {
		versionString = "unknown-(no version)"
	}

	return versionString
}
