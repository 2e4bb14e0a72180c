package media

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
)

// SupportedExtensions lists the file extensions Decode understands.
var SupportedExtensions = []string{".mp3", ".wav", ".ogg", ".oga"}

// IsSupported reports whether path has an extension Decode understands.
func IsSupported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range SupportedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}

// ResolveSource turns a track source into a local file path. Plain paths and
// file:// URIs are accepted; anything with another scheme is rejected.
func ResolveSource(source string) (string, error) {
	if source == "" {
		return "", fmt.Errorf("%w: empty source", ErrUnsupportedSource)
	}
	if !strings.Contains(source, "://") {
		return source, nil
	}
	u, err := url.Parse(source)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnsupportedSource, err)
	}
	if u.Scheme != "file" {
		return "", fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, u.Scheme)
	}
	return u.Path, nil
}

// Decode opens source and returns a seekable stream of its samples.
func Decode(source string) (beep.StreamSeekCloser, beep.Format, error) {
	path, err := ResolveSource(source)
	if err != nil {
		return nil, beep.Format{}, err
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !IsSupported(path) {
		return nil, beep.Format{}, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, beep.Format{}, err
	}

	var (
		streamer beep.StreamSeekCloser
		format   beep.Format
	)
	switch ext {
	case ".mp3":
		streamer, format, err = mp3.Decode(f)
	case ".wav":
		streamer, format, err = wav.Decode(f)
	default:
		streamer, format, err = vorbis.Decode(f)
	}
	if err != nil {
		f.Close()
		return nil, beep.Format{}, fmt.Errorf("decode %s: %w", filepath.Base(path), err)
	}
	return streamer, format, nil
}

// Info describes a decodable source.
type Info struct {
	Duration   time.Duration
	SampleRate int
	Channels   int
}

// Probe decodes the header of source and reports its length and format.
func Probe(source string) (Info, error) {
	streamer, format, err := Decode(source)
	if err != nil {
		return Info{}, err
	}
	defer streamer.Close()

	return Info{
		Duration:   format.SampleRate.D(streamer.Len()),
		SampleRate: int(format.SampleRate),
		Channels:   format.NumChannels,
	}, nil
}
