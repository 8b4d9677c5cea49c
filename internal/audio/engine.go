// Package audio implements the playback backend on gopxl/beep.
package audio

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/flac"
	"github.com/gopxl/beep/v2/mp3"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/gopxl/beep/v2/vorbis"
	"github.com/gopxl/beep/v2/wav"
	"go.uber.org/zap"

	"github.com/strumapp/strum/internal/core"
	strumerrors "github.com/strumapp/strum/internal/errors"
)

// sampleRate is the fixed speaker rate; every track is resampled to it.
const sampleRate = beep.SampleRate(44100)

// Engine implements core.Backend. Playback pipeline per track:
//
//	[Decode] -> [Resample] -> [Volume] -> [Ctrl] -> [Speaker]
//
// Each Load gets a generation number; the finished channel carries the
// generation of the track that drained, so a completion signal racing
// a newer load can be recognized as stale.
type Engine struct {
	mu sync.Mutex

	streamer beep.StreamSeekCloser
	format   beep.Format
	vol      *effects.Volume
	ctrl     *beep.Ctrl
	file     *os.File

	gen      int
	percent  int
	finished chan int

	log *zap.Logger
}

// New creates an Engine and initializes the speaker.
func New(log *zap.Logger) (*Engine, error) {
	if err := speaker.Init(sampleRate, sampleRate.N(time.Second/10)); err != nil {
		return nil, fmt.Errorf("init speaker: %w", err)
	}
	return &Engine{
		percent:  100,
		finished: make(chan int, 4),
		log:      log,
	}, nil
}

// Load starts decoding and playing the file from position zero,
// superseding any in-flight track. It returns the generation of this
// load.
func (e *Engine) Load(path string) (int, error) {
	e.Stop()

	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", strumerrors.ErrDecode, err)
	}

	streamer, format, err := decode(path, f)
	if err != nil {
		f.Close()
		return 0, err
	}

	e.mu.Lock()
	e.file = f
	e.streamer = streamer
	e.format = format
	e.gen++
	gen := e.gen

	var s beep.Streamer = streamer
	if format.SampleRate != sampleRate {
		s = beep.Resample(4, format.SampleRate, sampleRate, s)
	}

	e.vol = &effects.Volume{Streamer: s, Base: 2}
	e.applyVolumeLocked()

	e.ctrl = &beep.Ctrl{Streamer: e.vol}
	ctrl := e.ctrl
	e.mu.Unlock()

	e.log.Debug("track loaded",
		zap.String("path", path),
		zap.Int("gen", gen),
		zap.Int("sample_rate", int(format.SampleRate)))

	speaker.Play(beep.Seq(ctrl, beep.Callback(func() {
		select {
		case e.finished <- gen:
		default:
		}
	})))

	return gen, nil
}

// decode picks a decoder by file extension.
func decode(path string, f *os.File) (beep.StreamSeekCloser, beep.Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".mp3":
		return wrapDecode(mp3.Decode(f))
	case ".flac":
		return wrapDecode(flac.Decode(f))
	case ".wav":
		return wrapDecode(wav.Decode(f))
	case ".ogg", ".oga":
		return wrapDecode(vorbis.Decode(f))
	default:
		return nil, beep.Format{}, fmt.Errorf("%w: %s", strumerrors.ErrUnsupported, filepath.Ext(path))
	}
}

func wrapDecode(s beep.StreamSeekCloser, format beep.Format, err error) (beep.StreamSeekCloser, beep.Format, error) {
	if err != nil {
		return nil, beep.Format{}, fmt.Errorf("%w: %v", strumerrors.ErrDecode, err)
	}
	return s, format, nil
}

// Play resumes a paused track.
func (e *Engine) Play() {
	speaker.Lock()
	defer speaker.Unlock()
	if e.ctrl != nil {
		e.ctrl.Paused = false
	}
}

// Pause pauses the current track.
func (e *Engine) Pause() {
	speaker.Lock()
	defer speaker.Unlock()
	if e.ctrl != nil {
		e.ctrl.Paused = true
	}
}

// Stop halts playback and releases the current track's resources. The
// completion callback does not fire for a stopped track.
func (e *Engine) Stop() {
	speaker.Clear()
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.streamer != nil {
		e.streamer.Close()
		e.streamer = nil
	}
	if e.file != nil {
		e.file.Close()
		e.file = nil
	}
	e.ctrl = nil
	e.vol = nil
}

// Seek moves playback to an absolute position, clamped to the track.
func (e *Engine) Seek(pos time.Duration) {
	speaker.Lock()
	defer speaker.Unlock()
	if e.streamer == nil {
		return
	}
	n := e.format.SampleRate.N(pos)
	if n < 0 {
		n = 0
	}
	if n >= e.streamer.Len() {
		n = e.streamer.Len() - 1
	}
	if err := e.streamer.Seek(n); err != nil {
		e.log.Warn("seek failed", zap.Duration("pos", pos), zap.Error(err))
	}
}

// SetVolume sets output volume as a percentage. 0 silences output.
func (e *Engine) SetVolume(percent int) {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	e.mu.Lock()
	e.percent = percent
	e.mu.Unlock()

	speaker.Lock()
	defer speaker.Unlock()
	e.mu.Lock()
	e.applyVolumeLocked()
	e.mu.Unlock()
}

// applyVolumeLocked maps the stored percentage onto the volume node.
// 100% is unity gain; each 25% down halves the level.
func (e *Engine) applyVolumeLocked() {
	if e.vol == nil {
		return
	}
	e.vol.Silent = e.percent == 0
	e.vol.Volume = (float64(e.percent) - 100) / 25
}

// Position returns the current playback position.
func (e *Engine) Position() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Position())
}

// Duration returns the total length of the current track, or 0 when
// nothing is loaded.
func (e *Engine) Duration() time.Duration {
	speaker.Lock()
	defer speaker.Unlock()
	if e.streamer == nil {
		return 0
	}
	return e.format.SampleRate.D(e.streamer.Len())
}

// Finished returns the completion channel. Each value is the
// generation of a load whose stream drained naturally.
func (e *Engine) Finished() <-chan int {
	return e.finished
}

// Close stops playback and releases resources.
func (e *Engine) Close() {
	e.Stop()
}

var _ core.Backend = (*Engine)(nil)
