package play

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"

	"github.com/gigurra/jukebox/cmd/jukebox/catalog"
	"github.com/gigurra/jukebox/cmd/jukebox/playback"
	"github.com/gigurra/jukebox/cmd/jukebox/settings"
)

func changedSet(names ...string) func(string) bool {
	set := map[string]bool{}
	for _, n := range names {
		set[n] = true
	}
	return func(name string) bool { return set[name] }
}

func TestApplyFlags(t *testing.T) {
	tests := []struct {
		name    string
		params  Params
		changed []string
		check   func(t *testing.T, c *settings.Config)
	}{
		{
			name:   "defaults keep the config",
			params: Params{Volume: 1},
			check: func(t *testing.T, c *settings.Config) {
				if c.Playback.Volume != 0.4 || !c.Playback.AutoAdvance || !c.Notifications.Enabled {
					t.Errorf("config changed: %+v", c)
				}
			},
		},
		{
			name:    "explicit flags win",
			params:  Params{Volume: 0.2, AutoAdvance: false, Notify: false},
			changed: []string{"volume", "auto-advance", "notify"},
			check: func(t *testing.T, c *settings.Config) {
				if c.Playback.Volume != 0.2 || c.Playback.AutoAdvance || c.Notifications.Enabled {
					t.Errorf("flags not applied: %+v", c)
				}
			},
		},
		{
			name:   "listen enables the remote",
			params: Params{Listen: ":9999", Watch: "/drop"},
			check: func(t *testing.T, c *settings.Config) {
				if !c.Remote.Enabled || c.Remote.Listen != ":9999" || c.Library.WatchDir != "/drop" {
					t.Errorf("config = %+v", c)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := settings.DefaultConfig()
			cfg.Playback.Volume = 0.4
			cfg.Playback.AutoAdvance = true
			cfg.Notifications.Enabled = true
			applyFlags(cfg, &tt.params, changedSet(tt.changed...))
			tt.check(t, cfg)
		})
	}
}

func TestLogNowPlaying(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	observe := logNowPlaying(log)

	track := &catalog.Track{Title: "song.mp3"}
	observe(playback.Snapshot{State: playback.Idle, CurrentIndex: -1})
	observe(playback.Snapshot{State: playback.Playing, CurrentIndex: 0, CurrentTrack: track})
	observe(playback.Snapshot{State: playback.Playing, CurrentIndex: 0, CurrentTrack: track})

	out := buf.String()
	if strings.Count(out, "msg=playback") != 1 {
		t.Errorf("expected exactly one log line, got:\n%s", out)
	}
	if !strings.Contains(out, "track=song.mp3") || !strings.Contains(out, "state=playing") {
		t.Errorf("log line = %s", out)
	}
}
