// Package transform applies and reverts the four buffer mutations the
// engine drives from a classified keystroke: tone, mark, stroke, and
// remove.
package transform

import (
	"unicode"

	"github.com/username/goviet-ime/internal/buffer"
	"github.com/username/goviet-ime/internal/keys"
	"github.com/username/goviet-ime/internal/phonology"
	"github.com/username/goviet-ime/internal/syllable"
)

// MethodKind distinguishes which keyboard convention is asking for a
// tone transformation, since Telex and VNI pick different target
// vowels for the same tone value.
type MethodKind int

const (
	Telex MethodKind = iota
	VNI
)

// Result reports which buffer positions a transformation touched.
type Result struct {
	Positions []int
	Applied   bool
}

func none() Result { return Result{} }

func success(positions []int) Result {
	return Result{Positions: positions, Applied: true}
}

// ApplyTone applies a Telex/VNI tone-modifier keystroke (circumflex,
// horn, or breve) to its target vowel(s). After applying, any existing
// mark is re-placed per phonology, since the tone modifier can shift
// the canonical mark target (e.g. VNI "tíe" + circumflex -> "tiế").
func ApplyTone(buf *buffer.Buffer, key keys.Key, tone keys.Tone, method MethodKind, modern bool) Result {
	targets, tone := findToneTargets(buf, key, tone, method)
	if len(targets) == 0 {
		return none()
	}

	var positions []int
	for _, pos := range targets {
		c := buf.GetMut(pos)
		if c != nil && c.Tone == keys.ToneNone {
			c.Tone = tone
			positions = append(positions, pos)
		}
	}
	if len(positions) == 0 {
		return none()
	}

	repositionMarkIfNeeded(buf, modern)
	return success(positions)
}

func findToneTargets(buf *buffer.Buffer, key keys.Key, tone keys.Tone, method MethodKind) ([]int, keys.Tone) {
	bufKeys := buf.Keys()
	vowelPositions := buf.FindVowels()
	if len(vowelPositions) == 0 {
		return nil, tone
	}

	if method == Telex {
		switch {
		case tone == keys.ToneCircumflex && (key == 'a' || key == 'e' || key == 'o'):
			// Double-tap circumflex only fires for an immediate repeat of
			// the same vowel at the end of the buffer, and only when no
			// vowel anywhere in the buffer already carries a tone or
			// mark — this is what keeps "quá"+"a" from becoming "quấ"
			// and instead appends a raw extra vowel ("quáa").
			for _, pos := range vowelPositions {
				c, _ := buf.Get(pos)
				if c.Tone != keys.ToneNone || c.Mark != keys.MarkNone {
					return nil, tone
				}
			}
			lastPos := buf.Len() - 1
			for i := len(vowelPositions) - 1; i >= 0; i-- {
				pos := vowelPositions[i]
				if bufKeys[pos] == key && pos == lastPos {
					return []int{pos}, tone
				}
			}
		case tone == keys.ToneHorn && key == 'w':
			// 'w' is overloaded in Telex: breve on a trailing bare 'a'
			// (aw -> ă), horn on o/u (ow -> ơ, uw -> ư, uow -> ươ).
			lastPos := vowelPositions[len(vowelPositions)-1]
			if bufKeys[lastPos] == 'a' {
				return []int{lastPos}, keys.ToneBreve
			}
			return hornTargets(buf, vowelPositions), tone
		}
		return nil, tone
	}

	// VNI.
	switch {
	case tone == keys.ToneCircumflex:
		for i := len(vowelPositions) - 1; i >= 0; i-- {
			pos := vowelPositions[i]
			if k := bufKeys[pos]; k == 'a' || k == 'e' || k == 'o' {
				return []int{pos}, tone
			}
		}
	case tone == keys.ToneHorn:
		return hornTargets(buf, vowelPositions), tone
	case tone == keys.ToneBreve:
		for i := len(vowelPositions) - 1; i >= 0; i-- {
			pos := vowelPositions[i]
			if bufKeys[pos] == 'a' {
				return []int{pos}, tone
			}
		}
	}
	return nil, tone
}

// runesAt renders each position with its tone modifier but without its
// mark, so phonology.FindTonePosition sees a tone-modified vowel (ơ, â,
// ...) as such even when it already carries a mark (ớ, ấ, ...).
func runesAt(buf *buffer.Buffer, positions []int) []rune {
	out := make([]rune, len(positions))
	for i, pos := range positions {
		c, _ := buf.Get(pos)
		c.Mark = keys.MarkNone
		out[i] = c.Rune()
	}
	return out
}

// hornTargets locates which of positions should receive the horn
// modifier, then maps phonology.FindHornPositions' nucleus-relative
// indices back to buffer positions. Identity is judged by base key, not
// the composed rune: a vowel that already carries a mark (e.g. "huóng"
// before horn is applied) still renders as 'u'/'o' for this purpose,
// since a mark never changes which base letter a horn compound is
// built from.
func hornTargets(buf *buffer.Buffer, positions []int) []int {
	bases := make([]rune, len(positions))
	for i, pos := range positions {
		c, _ := buf.Get(pos)
		bases[i] = unicode.ToLower(rune(c.Key))
	}
	local := phonology.FindHornPositions(bases)
	if len(local) == 0 {
		return nil
	}
	out := make([]int, len(local))
	for i, l := range local {
		out[i] = positions[l]
	}
	return out
}

// ApplyMark clears any existing mark, then places mark on the position
// chosen by phonology.FindTonePosition. free bypasses nothing here —
// phonotactic filtering is the engine's job (it decides whether to keep
// or revert the result), this function always places the mark.
func ApplyMark(buf *buffer.Buffer, mark keys.Mark, modern bool) Result {
	syll := syllable.Parse(buf.Keys())
	if syll.IsEmpty() {
		return none()
	}

	hasQu, hasGi := initialKind(buf)
	pos := syll.Vowel[phonology.FindTonePosition(runesAt(buf, syll.Vowel), syll.HasFinal(), modern, hasQu, hasGi)]

	for _, v := range buf.FindVowels() {
		if c := buf.GetMut(v); c != nil {
			c.Mark = keys.MarkNone
		}
	}
	if c := buf.GetMut(pos); c != nil {
		c.Mark = mark
		return success([]int{pos})
	}
	return none()
}

func initialKind(buf *buffer.Buffer) (hasQu, hasGi bool) {
	k := buf.Keys()
	if len(k) >= 2 {
		hasQu = k[0] == 'q' && k[1] == 'u'
		hasGi = k[0] == 'g' && k[1] == 'i'
	}
	return
}

// ApplyStroke sets the stroke flag on the first un-stroked 'd' in the
// buffer, wherever it appears.
func ApplyStroke(buf *buffer.Buffer) Result {
	for i := 0; i < buf.Len(); i++ {
		c := buf.GetMut(i)
		if c.Key == 'd' && !c.Stroke {
			c.Stroke = true
			return success([]int{i})
		}
	}
	return none()
}

// ApplyRemove removes the latest mark if present, else the latest tone
// modifier, else is a no-op.
func ApplyRemove(buf *buffer.Buffer) Result {
	vowels := buf.FindVowels()
	for i := len(vowels) - 1; i >= 0; i-- {
		c := buf.GetMut(vowels[i])
		if c.Mark != keys.MarkNone {
			c.Mark = keys.MarkNone
			return success([]int{vowels[i]})
		}
	}
	for i := len(vowels) - 1; i >= 0; i-- {
		c := buf.GetMut(vowels[i])
		if c.Tone != keys.ToneNone {
			c.Tone = keys.ToneNone
			return success([]int{vowels[i]})
		}
	}
	return none()
}

// RevertTone clears the tone modifier at each of positions — the exact
// buffer positions a prior ApplyTone touched (a horn tone can span two
// vowels at once, which is why this takes positions rather than
// re-deriving a single target from the triggering key: that key is
// sometimes a pure modifier, like Telex's 'w', that never appears as a
// vowel's own Key).
func RevertTone(buf *buffer.Buffer, positions []int) Result {
	var reverted []int
	for _, pos := range positions {
		c := buf.GetMut(pos)
		if c != nil && c.Tone != keys.ToneNone {
			c.Tone = keys.ToneNone
			reverted = append(reverted, pos)
		}
	}
	if len(reverted) == 0 {
		return none()
	}
	return success(reverted)
}

// RevertMark removes the most recently applied mark.
func RevertMark(buf *buffer.Buffer) Result {
	vowels := buf.FindVowels()
	for i := len(vowels) - 1; i >= 0; i-- {
		pos := vowels[i]
		c := buf.GetMut(pos)
		if c.Mark != keys.MarkNone {
			c.Mark = keys.MarkNone
			return success([]int{pos})
		}
	}
	return none()
}

// RevertStroke un-strokes a stroked 'd'.
func RevertStroke(buf *buffer.Buffer) Result {
	for i := 0; i < buf.Len(); i++ {
		c := buf.GetMut(i)
		if c.Key == 'd' && c.Stroke {
			c.Stroke = false
			return success([]int{i})
		}
	}
	return none()
}

// repositionMarkIfNeeded re-runs mark placement after a tone modifier
// changes the nucleus shape, since the canonical mark target can move
// (e.g. adding horn to "huóng" keeps the mark on the same vowel, but
// adding circumflex to the e of "tíe" shifts it: "tiế").
func repositionMarkIfNeeded(buf *buffer.Buffer, modern bool) {
	oldPos := -1
	var mark keys.Mark
	for i := 0; i < buf.Len(); i++ {
		c, _ := buf.Get(i)
		if c.Mark != keys.MarkNone {
			oldPos = i
			mark = c.Mark
			break
		}
	}
	if oldPos == -1 {
		return
	}

	syll := syllable.Parse(buf.Keys())
	if syll.IsEmpty() {
		return
	}
	hasQu, hasGi := initialKind(buf)
	newPos := syll.Vowel[phonology.FindTonePosition(runesAt(buf, syll.Vowel), syll.HasFinal(), modern, hasQu, hasGi)]

	if newPos != oldPos {
		if c := buf.GetMut(oldPos); c != nil {
			c.Mark = keys.MarkNone
		}
		if c := buf.GetMut(newPos); c != nil {
			c.Mark = mark
		}
	}
}
