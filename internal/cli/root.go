// Package cli wires the player together and runs it.
package cli

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/strumapp/strum/internal/audio"
	"github.com/strumapp/strum/internal/browser"
	"github.com/strumapp/strum/internal/config"
	"github.com/strumapp/strum/internal/core"
	"github.com/strumapp/strum/internal/logging"
	"github.com/strumapp/strum/internal/meta"
	"github.com/strumapp/strum/internal/playlist"
	"github.com/strumapp/strum/internal/session"
	"github.com/strumapp/strum/internal/tui"
)

var (
	cfgFile   string
	noResume  bool
	startShuf bool

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "strum [files or directories...]",
	Short: "A terminal music player",
	Long: `Strum is a terminal music player for local files.

With no arguments it restores the playlist from the previous session.
Arguments may be audio files, .m3u playlists, or directories, which
are scanned recursively.`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig()
	},
	RunE:         runPlayer,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.strumrc)")
	rootCmd.Flags().BoolVar(&noResume, "no-resume", false, "start with an empty playlist")
	rootCmd.Flags().BoolVar(&startShuf, "shuffle", false, "start with shuffle on")
}

func initConfig() error {
	var err error
	if cfgFile != "" {
		cfg, err = config.LoadFrom(cfgFile)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	return nil
}

func runPlayer(cmd *cobra.Command, args []string) error {
	logger, err := logging.New(cfg.Log)
	if err != nil {
		return fmt.Errorf("failed to set up logging: %w", err)
	}
	defer logger.Sync()

	engine, err := audio.New(logger.Named("audio"))
	if err != nil {
		return fmt.Errorf("failed to start audio: %w", err)
	}
	defer engine.Close()

	reader := meta.New()

	store := config.NewStore("")
	state := store.LoadState(defaultState())

	repeat, _ := core.ParseRepeatMode(state.Repeat)
	sess := session.New(session.Options{
		Backend:      engine,
		Logger:       logger.Named("session"),
		Store:        store,
		PollInterval: time.Duration(cfg.TUI.RefreshInterval) * time.Millisecond,
		Volume:       state.Volume,
		Muted:        state.Muted,
		Shuffle:      state.Shuffle || startShuf,
		Repeat:       repeat,
		LastDir:      state.LastDirectory,
	})

	if len(args) > 0 {
		seedFromArgs(sess, reader, args, logger)
	} else if !noResume {
		seedFromState(sess, reader, state)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		defer close(done)
		sess.Run(ctx)
	}()

	startDir := state.LastDirectory
	if startDir == "" {
		startDir = cfg.Library.MusicDir
	}

	app := tui.NewApp(sess, reader,
		time.Duration(cfg.TUI.RefreshInterval)*time.Millisecond,
		time.Duration(cfg.Player.SeekBy)*time.Second)
	uiErr := tui.Run(app, startDir)

	// Let the session record the final play and persist before exit.
	cancel()
	<-done

	return uiErr
}

// defaultState is what a first run starts from: the config file's
// player section, with nothing queued.
func defaultState() config.State {
	st := cfg.DefaultState()
	st.LastDirectory = cfg.Library.MusicDir
	return st
}

// seedFromArgs fills the playlist from command-line arguments before
// the session loop starts.
func seedFromArgs(sess *session.Session, reader core.MetadataReader, args []string, logger *zap.Logger) {
	var tracks []core.Track
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			logger.Warn("skipping argument", zap.String("arg", arg), zap.Error(err))
			continue
		}
		switch {
		case info.IsDir():
			for batch := range browser.ScanAudio(context.Background(), arg, reader) {
				tracks = append(tracks, batch...)
			}
		case playlist.IsM3U(arg):
			paths, err := playlist.LoadM3U(arg)
			if err != nil {
				logger.Warn("skipping playlist", zap.String("arg", arg), zap.Error(err))
				continue
			}
			for _, p := range paths {
				tracks = append(tracks, meta.Track(reader, p))
			}
		case browser.IsAudioPath(arg):
			tracks = append(tracks, meta.Track(reader, arg))
		default:
			logger.Warn("skipping unsupported file", zap.String("arg", arg))
		}
	}
	sess.Playlist().Add(tracks...)
}

// seedFromState rebuilds the previous session's playlist. Paths that
// no longer resolve stay queued; they surface as unplayable when
// reached.
func seedFromState(sess *session.Session, reader core.MetadataReader, state config.State) {
	if len(state.Playlist) == 0 {
		return
	}
	tracks := make([]core.Track, 0, len(state.Playlist))
	for _, path := range state.Playlist {
		tracks = append(tracks, meta.Track(reader, path))
	}
	sess.Playlist().Add(tracks...)
	if state.Cursor >= 0 {
		_ = sess.Playlist().SetCursor(state.Cursor)
	}
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
