// Package services defines shared utilities consumed by the pipeline stage
// handlers and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp run identifiers, stage names, and slide
//     numbers for logging.
//   - Structured error markers plus the Wrap helper that classify failures
//     into the fatal vs per-slide taxonomy the orchestrator acts on.
//
// Use these helpers when wiring new stage logic so error handling and
// observability stay uniform across the pipeline.
package services
