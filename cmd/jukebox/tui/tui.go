// Package tui renders the player in the terminal. The bubbletea update loop
// is the only goroutine that touches the controller; media callbacks, dropped
// files and remote commands all arrive as messages.
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/playback"
	"github.com/gigurra/jukebox/cmd/jukebox/progress"
)

const (
	seekStep   = 5 * time.Second
	volumeStep = 0.05
	maxWidth   = 80
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	artistStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("250"))
	playingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))  // Green
	pausedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("226")) // Yellow
	loadingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("39"))  // Blue
	mutedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("240")) // Gray
	barStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("62"))
	selectedStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15")).Background(lipgloss.Color("62"))
	currentStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("46"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type model struct {
	ctrl    *playback.Controller
	initial []catalog.Track
	snap    playback.Snapshot
	tracks  []catalog.Track
	cursor  int
	width   int
	height  int
}

func newModel(ctrl *playback.Controller, initial []catalog.Track) model {
	return model{
		ctrl:    ctrl,
		initial: initial,
		snap:    ctrl.Snapshot(),
	}
}

// NewProgram builds the interactive player. initial tracks are queued once
// the program starts, so no media callback can arrive before Send works.
func NewProgram(ctrl *playback.Controller, initial []catalog.Track) *tea.Program {
	return tea.NewProgram(newModel(ctrl, initial), tea.WithAltScreen())
}

func (m model) Init() tea.Cmd {
	if len(m.initial) == 0 {
		return nil
	}
	tracks := m.initial
	return func() tea.Msg { return playback.AppendTracks{Tracks: tracks} }
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	before := m.snap.CurrentIndex

	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case " ":
			m.snap = m.ctrl.TogglePlay()
		case "n", "right":
			m.snap = m.ctrl.Next()
		case "p", "left":
			m.snap = m.ctrl.Previous()
		case "+", "=":
			m.snap = m.ctrl.StepVolume(volumeStep)
		case "-", "_":
			m.snap = m.ctrl.StepVolume(-volumeStep)
		case ".":
			m.snap = m.ctrl.SeekBy(seekStep)
		case ",":
			m.snap = m.ctrl.SeekBy(-seekStep)
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.tracks)-1 {
				m.cursor++
			}
		case "enter":
			if _, err := m.ctrl.SelectTrack(m.cursor); err == nil {
				m.snap = m.ctrl.Play()
			}
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	default:
		snap, ok := m.ctrl.Dispatch(msg)
		if !ok {
			return m, nil
		}
		m.snap = snap
	}

	if len(m.tracks) != m.snap.TrackCount {
		m.tracks = m.ctrl.Tracks()
	}
	if m.snap.CurrentIndex != before && m.snap.CurrentIndex >= 0 {
		m.cursor = m.snap.CurrentIndex
	}
	return m, nil
}

func (m model) contentWidth() int {
	if m.width <= 4 {
		return maxWidth
	}
	return min(m.width-4, maxWidth)
}

func (m model) View() string {
	var b strings.Builder
	width := m.contentWidth()

	b.WriteString("\n")
	if m.snap.CurrentTrack == nil {
		b.WriteString("  " + mutedStyle.Render("No tracks. Drop audio files into the watch dir or upload them.") + "\n\n")
	} else {
		b.WriteString("  " + titleStyle.Render(truncate(m.snap.CurrentTrack.Title, width)) + "\n")
		b.WriteString("  " + artistStyle.Render(truncate(m.snap.CurrentTrack.Artist, width)) + "\n\n")
	}

	b.WriteString("  " + renderStatus(m.snap.State))
	b.WriteString(fmt.Sprintf("  %s / %s",
		progress.FormatTime(m.snap.Progress.CurrentTimeSeconds),
		progress.FormatTime(m.snap.Progress.DurationSeconds)))
	b.WriteString(mutedStyle.Render(fmt.Sprintf("   vol %3.0f%%", m.snap.Volume*100)))
	b.WriteString("\n")
	b.WriteString("  " + renderBar(m.snap.Progress.Percent, width-6))
	b.WriteString(fmt.Sprintf(" %3.0f%%\n", m.snap.Progress.Percent))

	if m.snap.LastError != nil {
		b.WriteString("\n  " + errorStyle.Render(truncate(m.snap.LastError.Error(), width)) + "\n")
	}

	if len(m.tracks) > 0 {
		b.WriteString("\n")
		start, end := m.visibleRange()
		for i := start; i < end; i++ {
			m.renderTrack(&b, i, m.tracks[i], width)
		}
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("  space play/pause • n/p next/prev • ,/. seek • +/- volume • ↑/↓ enter select • q quit"))
	b.WriteString("\n")
	return b.String()
}

// visibleRange is the window of track indexes that fits on screen while
// keeping the cursor visible.
func (m model) visibleRange() (start, end int) {
	rows := len(m.tracks)
	if m.height > 0 {
		rows = max(m.height-12, 3)
	}
	if m.cursor >= rows {
		start = m.cursor - rows + 1
	}
	return start, min(start+rows, len(m.tracks))
}

func (m model) renderTrack(b *strings.Builder, i int, t catalog.Track, width int) {
	marker := "  "
	if i == m.snap.CurrentIndex {
		marker = "♪ "
	}
	row := padRight(fmt.Sprintf("%s%2d. %s", marker, i+1, t.Title), width)

	switch {
	case i == m.cursor:
		b.WriteString("  " + selectedStyle.Render(row))
	case i == m.snap.CurrentIndex:
		b.WriteString("  " + currentStyle.Render(row))
	default:
		b.WriteString("  " + row)
	}
	b.WriteString("\n")
}

func renderStatus(s playback.Status) string {
	label := strings.ToUpper(s.String())
	switch s {
	case playback.Playing:
		return playingStyle.Render("▶ " + label)
	case playback.Paused:
		return pausedStyle.Render("⏸ " + label)
	case playback.Loading:
		return loadingStyle.Render("… " + label)
	default:
		return mutedStyle.Render("■ " + label)
	}
}

func renderBar(percent float64, width int) string {
	if width < 1 {
		return ""
	}
	filled := int(math.Round(percent / 100 * float64(width)))
	filled = min(max(filled, 0), width)
	return barStyle.Render(strings.Repeat("━", filled)) + mutedStyle.Render(strings.Repeat("─", width-filled))
}
