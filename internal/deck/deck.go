package deck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Visibility is the tri-state hidden flag of a slide. Unknown means the deck
// did not let us determine the flag; policy maps it to visible.
type Visibility int

const (
	VisibilityUnknown Visibility = iota
	VisibilityVisible
	VisibilityHidden
)

func (v Visibility) String() string {
	switch v {
	case VisibilityVisible:
		return "visible"
	case VisibilityHidden:
		return "hidden"
	default:
		return "unknown"
	}
}

// Slide identifies one visible slide after hidden slides have been dropped
// and the remainder renumbered contiguously from 1.
type Slide struct {
	// Number is the 1-based dense visible numbering used for all artifact
	// file names.
	Number int
	// SourceIndex is the slide's 1-based position in the deck, which is what
	// the rendering collaborator addresses.
	SourceIndex int
	// Visibility records how the hidden flag was resolved. Never
	// VisibilityHidden here.
	Visibility Visibility
}

// Reader exposes the deck queries the pipeline needs. Source indexes are
// 1-based deck positions.
type Reader interface {
	SlideCount() int
	Visibility(sourceIndex int) Visibility
	Notes(sourceIndex int) (string, error)
	Close() error
}

var recognizedExtensions = map[string]bool{
	".pptx": true,
	".ppt":  true,
}

// ValidatePath checks that the deck exists and carries a recognized
// extension. It runs before any stage.
func ValidatePath(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("deck not found: %s", path)
	}
	if info.IsDir() {
		return fmt.Errorf("deck is a directory: %s", path)
	}
	ext := strings.ToLower(filepath.Ext(path))
	if !recognizedExtensions[ext] {
		return fmt.Errorf("unrecognized deck extension %q (expected .pptx or .ppt)", ext)
	}
	return nil
}

// Open opens the deck for reading. Failure here is fatal to the run.
func Open(path string) (Reader, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pptx":
		return openPPTX(path)
	case ".ppt":
		return nil, fmt.Errorf("legacy .ppt decks are not readable; convert %s to .pptx", filepath.Base(path))
	default:
		return nil, fmt.Errorf("unrecognized deck extension %q", filepath.Ext(path))
	}
}

// VisibleSlides enumerates the deck once, dropping hidden slides and
// renumbering the rest contiguously from 1. Slides whose hidden flag cannot
// be determined are treated as visible; this is the single place that policy
// is applied.
func VisibleSlides(r Reader) []Slide {
	count := r.SlideCount()
	slides := make([]Slide, 0, count)
	number := 0
	for i := 1; i <= count; i++ {
		visibility := r.Visibility(i)
		if visibility == VisibilityHidden {
			continue
		}
		number++
		slides = append(slides, Slide{Number: number, SourceIndex: i, Visibility: visibility})
	}
	return slides
}
