// Package media drives FFmpeg and FFprobe: per-slide clip composition, the
// final stream-copy concatenation, and audio duration probing.
//
// Every clip is encoded with one fixed configuration; the concatenation
// relies on that to join clips without re-encoding.
package media
