package playlist

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/strumapp/strum/internal/core"
)

// LoadM3U reads an M3U playlist and returns its track paths in file
// order. The optional #EXTM3U header and #EXTINF comment lines are
// ignored; relative paths are resolved against the playlist's own
// directory.
func LoadM3U(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open playlist: %w", err)
	}
	defer f.Close()

	baseDir := filepath.Dir(path)

	var paths []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !filepath.IsAbs(line) {
			line = filepath.Join(baseDir, line)
		}
		paths = append(paths, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read playlist: %w", err)
	}

	return paths, nil
}

// SaveM3U writes the tracks to an M3U file, one bare path per line in
// playlist order, preceded by the #EXTM3U header.
func SaveM3U(path string, tracks []core.Track) error {
	var b strings.Builder
	b.WriteString("#EXTM3U\n")
	for _, t := range tracks {
		b.WriteString(t.Path)
		b.WriteByte('\n')
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return fmt.Errorf("save playlist: %w", err)
	}
	return nil
}

// IsM3U reports whether the path looks like an M3U playlist.
func IsM3U(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	return ext == ".m3u" || ext == ".m3u8"
}
