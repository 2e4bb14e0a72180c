package list

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/GiGurra/boa/pkg/boa"
	"github.com/gigurra/jukebox/cmd/common"
	"github.com/gigurra/jukebox/cmd/jukebox/media"
	"github.com/gigurra/jukebox/cmd/jukebox/progress"
	"github.com/gigurra/jukebox/cmd/jukebox/upload"
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type Params struct {
	Paths []string `pos:"true" optional:"true" help:"Audio files or directories to inspect." default:"."`
	JSON  bool     `long:"json" help:"Output as JSON"`
}

func Cmd() *cobra.Command {
	return boa.CmdT[Params]{
		Use:         "list",
		Aliases:     []string{"ls"},
		Short:       "List playable audio files with their durations",
		ParamEnrich: common.DefaultParamEnricher(),
		RunFunc: func(params *Params, cmd *cobra.Command, args []string) {
			if err := run(params, os.Stdout); err != nil {
				fmt.Fprintf(os.Stderr, "list: %v\n", err)
				os.Exit(1)
			}
		},
	}.ToCobra()
}

type entry struct {
	Title      string  `json:"title"`
	Path       string  `json:"path"`
	Seconds    float64 `json:"durationSeconds"`
	SampleRate int     `json:"sampleRate,omitempty"`
	Channels   int     `json:"channels,omitempty"`
	Error      string  `json:"error,omitempty"`
}

func probeAll(paths []string) ([]entry, error) {
	tracks, err := upload.FromPaths(paths)
	if err != nil {
		return nil, err
	}

	entries := make([]entry, 0, len(tracks))
	for _, t := range tracks {
		e := entry{Title: t.Title, Path: t.Source}
		info, err := media.Probe(t.Source)
		if err != nil {
			e.Error = err.Error()
		} else {
			e.Seconds = info.Duration.Seconds()
			e.SampleRate = info.SampleRate
			e.Channels = info.Channels
		}
		entries = append(entries, e)
	}
	return entries, nil
}

func run(params *Params, out io.Writer) error {
	entries, err := probeAll(params.Paths)
	if err != nil {
		return err
	}

	if params.JSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(entries)
	}

	if len(entries) == 0 {
		fmt.Fprintln(out, "No playable audio files found")
		return nil
	}

	t := table.NewWriter()
	t.SetOutputMirror(out)
	t.SetStyle(table.StyleLight)
	t.Style().Format.Footer = text.FormatDefault
	t.AppendHeader(table.Row{"#", "Title", "Duration", "Rate", "Ch", "Path"})

	var total time.Duration
	for i, e := range entries {
		if e.Error != "" {
			t.AppendRow(table.Row{i + 1, e.Title, text.FgRed.Sprint("unplayable"), "", "", e.Path})
			continue
		}
		total += time.Duration(e.Seconds * float64(time.Second))
		t.AppendRow(table.Row{i + 1, e.Title, progress.FormatTime(e.Seconds), e.SampleRate, e.Channels, e.Path})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d tracks", len(entries)), progress.FormatTime(total.Seconds()), "", "", ""})

	t.Render()
	return nil
}
