package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"slidecast/internal/artifacts"
	"slidecast/internal/compose"
	"slidecast/internal/concat"
	"slidecast/internal/config"
	"slidecast/internal/deck"
	"slidecast/internal/ledger"
	"slidecast/internal/logging"
	"slidecast/internal/media"
	"slidecast/internal/narrate"
	"slidecast/internal/notes"
	"slidecast/internal/preflight"
	"slidecast/internal/render"
	"slidecast/internal/services/slides"
	"slidecast/internal/services/tts"
	"slidecast/internal/stage"
	"slidecast/internal/textutil"
	"slidecast/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var skipPreflight bool

	cmd := &cobra.Command{
		Use:   "run <deck.pptx>",
		Short: "Build the narrated video for a deck",
		Long: `Run the full pipeline for a deck: export slide images, extract speaker
notes, synthesize narration, compose per-slide clips, and join them into the
final video. Reruns only redo the work whose inputs changed.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			return runPipeline(cmd, cfg, args[0], skipPreflight)
		},
	}

	cmd.Flags().BoolVar(&skipPreflight, "skip-preflight", false, "Skip environment checks before running")
	return cmd
}

func runPipeline(cmd *cobra.Command, cfg *config.Config, deckArg string, skipPreflight bool) error {
	deckPath, err := filepath.Abs(deckArg)
	if err != nil {
		return fmt.Errorf("resolve deck path: %w", err)
	}
	if err := deck.ValidatePath(deckPath); err != nil {
		return err
	}

	logger, err := logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
		Writer: cmd.ErrOrStderr(),
	})
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	store := artifacts.NewStore(artifacts.OutputDirFor(deckPath))
	if err := store.EnsureDirs(); err != nil {
		return fmt.Errorf("create output folder: %w", err)
	}

	if !skipPreflight {
		results := preflight.CheckSystemDeps(cfg)
		results = append(results, preflight.CheckDirectory("output folder", store.Root()))
		if failure, ok := preflight.FirstFailure(results); ok {
			return fmt.Errorf("preflight failed: %s: %s", failure.Name, failure.Detail)
		}
	}

	lock := flock.New(store.LockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another run is already active for %s", store.Root())
	}
	defer lock.Unlock()

	var ledgerStore *ledger.Store
	if cfg.Ledger.Enabled {
		ledgerStore, err = ledger.Open(store.LedgerPath())
		if err != nil {
			logger.Warn("dependency ledger unavailable", logging.Error(err))
			ledgerStore = nil
		} else {
			defer ledgerStore.Close()
		}
	}

	encoder := media.New(cfg.Tools.FFmpeg, cfg.Tools.FFprobe)
	handlers := workflow.Handlers{
		Render:      render.NewHandler(slides.NewCLI(slides.WithBinary(cfg.Tools.Renderer)), logger),
		Notes:       notes.NewHandler(logger),
		Synthesize:  narrate.NewHandler(tts.NewCLI(tts.WithBinary(cfg.Tools.TTS)), logger),
		Compose:     compose.NewHandler(encoder, logger),
		Concatenate: concat.NewHandler(encoder, logger),
	}
	manager := workflow.NewManager(logger, handlers)

	run := &stage.Run{
		RunID:     uuid.NewString(),
		DeckPath:  deckPath,
		OutputDir: store.Root(),
		Store:     store,
		Ledger:    ledgerStore,
		Pause:     cfg.Pause(),
		Encoding: media.EncodingConfig{
			FPS:        cfg.Video.FPS,
			Codec:      cfg.Video.Codec,
			AudioCodec: cfg.Video.AudioCodec,
			Preset:     cfg.Video.Preset,
			Bitrate:    cfg.Video.Bitrate,
		},
		ToolTimeout: cfg.ToolTimeout(),
	}

	sigCtx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if err := manager.Execute(sigCtx, run); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %d slides, video at %s\n",
		textutil.DeckTitle(deckPath), len(run.Slides), run.FinalVideo)
	if n := run.FailureCount(); n > 0 {
		fmt.Fprintf(out, "%d slide(s) were excluded after failures; fix them and rerun to fill the gaps.\n", n)
	}
	return nil
}
