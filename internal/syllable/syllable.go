// Package syllable tokenizes a buffer's key sequence into the
// Vietnamese syllable structure (C₁)(G)V(C₂): an optional initial
// consonant cluster, an optional glide, a required vowel nucleus, and
// an optional final consonant group.
package syllable

import (
	"github.com/username/goviet-ime/internal/keys"
	"github.com/username/goviet-ime/internal/phonology"
)

// Syllable is a derived, non-owning view over a key sequence: four
// index groups into that sequence. It is ephemeral — recomputed from
// the buffer on demand, never stored across keystrokes.
type Syllable struct {
	Initial []int
	Glide   *int
	Vowel   []int
	Final   []int
}

// IsEmpty reports whether no vowel nucleus was found.
func (s Syllable) IsEmpty() bool {
	return len(s.Vowel) == 0
}

// HasInitial reports whether an initial consonant group was found.
func (s Syllable) HasInitial() bool {
	return len(s.Initial) > 0
}

// HasFinal reports whether a final consonant group was found.
func (s Syllable) HasFinal() bool {
	return len(s.Final) > 0
}

// Parse tokenizes seq (the plain key identifiers of a buffer's
// decorated records, in order) into a Syllable using longest-match and
// the gi/qu special cases. It is lenient: it does not reject
// structurally invalid initials, deterministic, and idempotent.
func Parse(seq []keys.Key) Syllable {
	var s Syllable
	n := len(seq)
	if n == 0 {
		return s
	}

	firstVowel := -1
	for i, k := range seq {
		if keys.IsVowel(k) {
			firstVowel = i
			break
		}
	}
	if firstVowel == -1 {
		return s
	}

	vowelStart := firstVowel
	pos := firstVowel
	if pos > 0 && pos+1 < n {
		prev, curr, next := seq[pos-1], seq[pos], seq[pos+1]
		switch {
		case prev == 'g' && curr == 'i' && keys.IsVowel(next):
			for i := 0; i <= pos; i++ {
				s.Initial = append(s.Initial, i)
			}
			vowelStart = pos + 1
		case prev == 'q' && curr == 'u' && keys.IsVowel(next):
			for i := 0; i <= pos; i++ {
				s.Initial = append(s.Initial, i)
			}
			vowelStart = pos + 1
		default:
			for i := 0; i < pos; i++ {
				s.Initial = append(s.Initial, i)
			}
		}
	} else {
		for i := 0; i < pos; i++ {
			s.Initial = append(s.Initial, i)
		}
	}

	vowelEnd := vowelStart
	for vowelEnd < n && keys.IsVowel(seq[vowelEnd]) {
		vowelEnd++
	}
	if vowelEnd == vowelStart {
		// Everything before was consumed as "initial" (gi/qu absorption)
		// but no vowel follows after all; treat as no syllable.
		return Syllable{}
	}

	vowelCount := vowelEnd - vowelStart
	if vowelCount >= 2 && phonology.IsGlideVowel(seq[vowelStart], seq[vowelStart+1]) {
		g := vowelStart
		s.Glide = &g
		for i := vowelStart + 1; i < vowelEnd; i++ {
			s.Vowel = append(s.Vowel, i)
		}
	} else {
		for i := vowelStart; i < vowelEnd; i++ {
			s.Vowel = append(s.Vowel, i)
		}
	}

	if vowelEnd < n {
		matchFinal(seq, vowelEnd, &s)
	}

	return s
}

func matchFinal(seq []keys.Key, start int, s *Syllable) {
	n := len(seq)
	if start+1 < n {
		pair := string([]rune{rune(seq[start]), rune(seq[start+1])})
		if phonology.IsLegalFinal(pair) {
			s.Final = []int{start, start + 1}
			return
		}
	}
	if start < n {
		single := string(rune(seq[start]))
		if phonology.IsLegalFinal(single) {
			s.Final = []int{start}
		}
	}
}

// IsValidStructure reports whether seq parses to a non-empty syllable:
// a quick structural check, not full phonological validation.
func IsValidStructure(seq []keys.Key) bool {
	if len(seq) == 0 {
		return false
	}
	return !Parse(seq).IsEmpty()
}
