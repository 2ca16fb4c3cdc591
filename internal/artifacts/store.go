// Package artifacts maps (kind, slide number) pairs to canonical file paths
// and answers the existence and freshness queries the stage runners gate on.
// The file system is the cache: there is no separate artifact index, and the
// zero-padded file names are the only join key between stages.
package artifacts

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Kind identifies one artifact class in the stage graph.
type Kind string

const (
	KindImage Kind = "image"
	KindNotes Kind = "notes"
	KindAudio Kind = "audio"
	KindClip  Kind = "clip"
)

// Kinds lists the per-slide artifact kinds in stage order.
func Kinds() []Kind {
	return []Kind{KindImage, KindNotes, KindAudio, KindClip}
}

// Store resolves canonical artifact paths inside one output folder.
type Store struct {
	root string
}

// OutputDirFor derives the output folder for a deck: a directory named after
// the deck's base name, next to the deck.
func OutputDirFor(deckPath string) string {
	base := filepath.Base(deckPath)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(filepath.Dir(deckPath), stem)
}

// NewStore creates a store rooted at the output folder.
func NewStore(root string) *Store {
	return &Store{root: root}
}

// Root returns the output folder path.
func (s *Store) Root() string {
	return s.root
}

// EnsureDirs creates the output folder and the clips subfolder. Existing
// contents are kept; reruns rely on them for cache hits.
func (s *Store) EnsureDirs() error {
	if err := os.MkdirAll(s.ClipsDir(), 0o755); err != nil {
		return fmt.Errorf("create output directories: %w", err)
	}
	return nil
}

// Path returns the canonical path for the artifact kind and 1-based visible
// slide number. File names use a fixed two-digit zero-padded slide number.
func (s *Store) Path(kind Kind, number int) string {
	switch kind {
	case KindImage:
		return filepath.Join(s.root, fmt.Sprintf("slide_%02d.png", number))
	case KindNotes:
		return filepath.Join(s.root, fmt.Sprintf("text_%02d.txt", number))
	case KindAudio:
		return filepath.Join(s.root, fmt.Sprintf("audio_%02d.wav", number))
	case KindClip:
		return filepath.Join(s.ClipsDir(), fmt.Sprintf("clip_%02d.mp4", number))
	default:
		return ""
	}
}

// ClipsDir returns the folder holding per-slide clips.
func (s *Store) ClipsDir() string {
	return filepath.Join(s.root, "clips")
}

// VideoPath returns the final concatenated video path, named after the
// output folder.
func (s *Store) VideoPath() string {
	return filepath.Join(s.root, filepath.Base(s.root)+"_video.mp4")
}

// ManifestPath returns the temporary concat manifest location.
func (s *Store) ManifestPath() string {
	return filepath.Join(s.root, "concat_list.txt")
}

// LockPath returns the lock file guarding against overlapping runs.
func (s *Store) LockPath() string {
	return filepath.Join(s.root, ".slidecast.lock")
}

// LedgerPath returns the dependency ledger database location.
func (s *Store) LedgerPath() string {
	return filepath.Join(s.root, "ledger.db")
}

// Exists reports whether the artifact file is present.
func (s *Store) Exists(kind Kind, number int) bool {
	info, err := os.Stat(s.Path(kind, number))
	return err == nil && !info.IsDir()
}

// ModTime returns the artifact's modification time, and whether it exists.
func (s *Store) ModTime(kind Kind, number int) (time.Time, bool) {
	return modTime(s.Path(kind, number))
}

// FresherThan reports whether the derived artifact exists and its
// modification time is strictly later than every input's. Missing inputs
// count as infinitely fresh, forcing regeneration.
func FresherThan(derived string, inputs ...string) bool {
	derivedTime, ok := modTime(derived)
	if !ok {
		return false
	}
	for _, input := range inputs {
		inputTime, ok := modTime(input)
		if !ok {
			return false
		}
		if !derivedTime.After(inputTime) {
			return false
		}
	}
	return true
}

func modTime(path string) (time.Time, bool) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
