// Package method classifies an incoming key as a letter, a tone mark, a
// vowel-modifier tone, a stroke, or a removal command, for one of the
// two supported keyboard conventions. Methods are pure lookup — they
// never touch a buffer.
package method

import "github.com/username/goviet-ime/internal/keys"

// Method names a keyboard convention's key classification rules.
type Method interface {
	// Name returns the convention's display name ("Telex" or "VNI").
	Name() string

	// Mark reports the tone mark a key applies, if any.
	Mark(k keys.Key) (keys.Mark, bool)

	// Tone reports the vowel-modifier tone a key applies, if any.
	Tone(k keys.Key) (keys.Tone, bool)

	// Stroke reports whether a key requests the đ stroke.
	Stroke(k keys.Key) bool

	// Remove reports whether a key requests diacritic removal.
	Remove(k keys.Key) bool
}
