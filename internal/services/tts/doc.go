// Package tts wraps the external text-to-speech tool that turns one notes
// file into a narration WAV.
package tts
