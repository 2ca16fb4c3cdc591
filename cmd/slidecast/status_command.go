package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"slidecast/internal/artifacts"
	"slidecast/internal/deck"
	"slidecast/internal/ledger"
	"slidecast/internal/textutil"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status <deck.pptx>",
		Short: "Show per-slide artifact freshness for a deck",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if _, err := ctx.ensureConfig(); err != nil {
				return err
			}
			return showStatus(cmd, args[0])
		},
	}
}

func showStatus(cmd *cobra.Command, deckArg string) error {
	deckPath, err := filepath.Abs(deckArg)
	if err != nil {
		return fmt.Errorf("resolve deck path: %w", err)
	}
	if err := deck.ValidatePath(deckPath); err != nil {
		return err
	}
	reader, err := deck.Open(deckPath)
	if err != nil {
		return err
	}
	defer reader.Close()

	store := artifacts.NewStore(artifacts.OutputDirFor(deckPath))
	slides := deck.VisibleSlides(reader)

	rows := make([][]string, 0, len(slides))
	for _, s := range slides {
		imagePath := store.Path(artifacts.KindImage, s.Number)
		notesPath := store.Path(artifacts.KindNotes, s.Number)
		audioPath := store.Path(artifacts.KindAudio, s.Number)
		clipPath := store.Path(artifacts.KindClip, s.Number)
		rows = append(rows, []string{
			strconv.Itoa(s.Number),
			artifactState(imagePath, deckPath),
			textutil.Ternary(exists(notesPath), "ok", "missing"),
			artifactState(audioPath, notesPath),
			artifactState(clipPath, imagePath, audioPath),
		})
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%d visible slides)\n", textutil.DeckTitle(deckPath), len(slides))
	fmt.Fprintln(out, renderTable(out, []string{"Slide", "Image", "Notes", "Audio", "Clip"}, rows))

	videoPath := store.VideoPath()
	if info, err := os.Stat(videoPath); err == nil {
		fmt.Fprintf(out, "Final video: %s (%s)\n", videoPath, info.ModTime().Format("2006-01-02 15:04:05"))
	} else {
		fmt.Fprintf(out, "Final video: not built (%s)\n", videoPath)
	}
	if count, latest, ok := ledgerSummary(cmd.Context(), store); ok {
		fmt.Fprintf(out, "Ledger: %d artifact records, last update %s\n",
			count, latest.Format("2006-01-02 15:04:05"))
	}
	return nil
}

// ledgerSummary reads the per-deck dependency ledger when one exists. The
// ledger is advisory, so any failure just hides the summary line.
func ledgerSummary(ctx context.Context, store *artifacts.Store) (int, time.Time, bool) {
	if !exists(store.LedgerPath()) {
		return 0, time.Time{}, false
	}
	db, err := ledger.Open(store.LedgerPath())
	if err != nil {
		return 0, time.Time{}, false
	}
	defer db.Close()

	entries, err := db.List(ctx)
	if err != nil || len(entries) == 0 {
		return 0, time.Time{}, false
	}
	var latest time.Time
	for _, entry := range entries {
		if entry.UpdatedAt.After(latest) {
			latest = entry.UpdatedAt
		}
	}
	return len(entries), latest, true
}

// artifactState labels a derived file against its inputs the same way the
// pipeline's freshness gates see it.
func artifactState(derived string, inputs ...string) string {
	if !exists(derived) {
		return "missing"
	}
	if artifacts.FresherThan(derived, inputs...) {
		return "ok"
	}
	return "stale"
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
