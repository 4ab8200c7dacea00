// Package phonology implements the Vietnamese placement rules: where a
// tone mark lands in a vowel nucleus, where the horn modifier applies
// across a uo/uoi/uou compound, and which final consonants are legal.
package phonology

import (
	"unicode"

	"github.com/username/goviet-ime/internal/keys"
)

// singleFinals are the legal one-character final consonants.
var singleFinals = map[rune]bool{
	'c': true, 'm': true, 'n': true, 'p': true, 't': true,
}

// doubleFinals are the legal two-character final consonant clusters.
var doubleFinals = map[string]bool{
	"ch": true, "ng": true, "nh": true,
}

// IsLegalFinal reports whether s (already lowercased) is a valid
// Vietnamese final consonant group.
func IsLegalFinal(s string) bool {
	switch len(s) {
	case 0:
		return false
	case 1:
		return singleFinals[rune(s[0])]
	case 2:
		return doubleFinals[s]
	default:
		return false
	}
}

// isMarkedVowel reports whether r already carries a tone modifier
// (circumflex, horn, or breve) — â, ă, ê, ô, ơ, ư and their uppercase
// forms.
func isMarkedVowel(r rune) bool {
	switch unicode.ToLower(r) {
	case 'ă', 'â', 'ê', 'ô', 'ơ', 'ư':
		return true
	}
	return false
}

// FindTonePosition returns the index within vowels (the nucleus,
// excluding any qu/gi-absorbed glide) that should receive the tone
// mark.
//
// vowels is the nucleus in left-to-right order, already rendered (so a
// tone-modified vowel like 'â' is visible to isMarkedVowel). hasFinal
// reports whether the syllable has a final consonant group. modern
// selects the post-1980s placement convention for a two-vowel nucleus
// with no final. hasQu/hasGi are accepted for API symmetry with the
// original source but do not affect placement once the caller has
// already excluded the absorbed u/i from vowels — nucleus boundaries
// are the caller's responsibility (see syllable.Parse).
func FindTonePosition(vowels []rune, hasFinal bool, modern bool, hasQu bool, hasGi bool) int {
	n := len(vowels)
	if n == 0 {
		return 0
	}
	if n == 1 {
		return 0
	}

	// A vowel that already carries a tone modifier always takes the
	// mark. Keep the *last* match, not the first: a horn compound
	// (ươ) tone-modifies both nucleus vowels at once, and the correct
	// mark target is always the second letter of that pair (được,
	// nước, mười, người, ...) — a single already-marked vowel (the
	// far more common case, e.g. muốn's ô, tiến's ê) has only one
	// match either way, so this is unchanged behavior for it.
	markedAt := -1
	for i, v := range vowels {
		if isMarkedVowel(v) {
			markedAt = i
		}
	}
	if markedAt >= 0 {
		return markedAt
	}

	if n == 2 {
		if hasFinal {
			return 1
		}
		if modern {
			return 0
		}
		return 1
	}

	// n >= 3
	if hasFinal || !modern {
		return 1
	}
	return 1
}

// FindHornPositions returns the indices within the nucleus that should
// receive the horn modifier simultaneously: both vowels of a uo
// compound (uơ, ươ, uơi, ươu, ...), or, when there is no uo pair, the
// last nucleus vowel if it is a u or o. A u or o earlier in the nucleus
// (the u of "ua" or "ui") gets no horn.
func FindHornPositions(nucleus []rune) []int {
	if len(nucleus) == 0 {
		return nil
	}

	for i := 0; i+1 < len(nucleus); i++ {
		if unicode.ToLower(nucleus[i]) == 'u' && unicode.ToLower(nucleus[i+1]) == 'o' {
			return []int{i, i + 1}
		}
	}

	last := len(nucleus) - 1
	switch unicode.ToLower(nucleus[last]) {
	case 'u', 'o':
		return []int{last}
	}
	return nil
}

// IsValidInitial reports whether a lowercased onset string is a legal
// Vietnamese initial consonant cluster.
func IsValidInitial(s string) bool {
	if s == "" {
		return true
	}
	return validInitials[s]
}

var validInitials = map[string]bool{
	"b": true, "c": true, "d": true, "đ": true, "g": true, "h": true,
	"k": true, "l": true, "m": true, "n": true, "p": true, "q": true,
	"r": true, "s": true, "t": true, "v": true, "x": true,
	"ch": true, "gh": true, "gi": true, "kh": true, "ng": true,
	"nh": true, "ph": true, "qu": true, "th": true, "tr": true,
	"ngh": true,
}

// IsGlideVowel reports whether the pair (first, second) at the start of
// a vowel nucleus forms a glide/medial: o+{a,e} or u+{y,e}, as used by
// the syllable parser to split a leading glide from the main nucleus.
func IsGlideVowel(first, second keys.Key) bool {
	switch first {
	case 'o':
		return second == 'a' || second == 'e'
	case 'u':
		return second == 'y' || second == 'e'
	}
	return false
}
