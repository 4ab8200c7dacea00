package transform

import (
	"testing"

	"github.com/username/goviet-ime/internal/buffer"
	"github.com/username/goviet-ime/internal/keys"
)

func push(buf *buffer.Buffer, s string) {
	for _, r := range s {
		buf.Push(buffer.Char{Key: keys.Key(r)})
	}
}

func render(t *testing.T, buf *buffer.Buffer, want string) {
	t.Helper()
	if got := buf.Render(); got != want {
		t.Errorf("Render() = %q, want %q", got, want)
	}
}

func TestApplyToneTelexCircumflexDoubleTap(t *testing.T) {
	buf := buffer.New()
	push(buf, "a")
	res := ApplyTone(buf, 'a', keys.ToneCircumflex, Telex, true)
	if !res.Applied {
		t.Fatal("ApplyTone() Applied = false, want true")
	}
	render(t, buf, "â")
}

func TestApplyToneTelexCircumflexOnTrailingVowelOfPair(t *testing.T) {
	// "oa" + circumflex-'a': the double-tap still fires because 'a' is
	// the last vowel typed, even though it isn't the buffer's only vowel.
	buf := buffer.New()
	push(buf, "oa")
	res := ApplyTone(buf, 'a', keys.ToneCircumflex, Telex, true)
	if !res.Applied {
		t.Fatal("ApplyTone() on trailing 'a' Applied = false, want true")
	}
	render(t, buf, "oâ")
}

func TestApplyToneTelexCircumflexBlockedByExistingMark(t *testing.T) {
	buf := buffer.New()
	push(buf, "a")
	buf.GetMut(0).Mark = keys.MarkSac
	res := ApplyTone(buf, 'a', keys.ToneCircumflex, Telex, true)
	if res.Applied {
		t.Error("ApplyTone() Applied = true, want false (existing mark blocks double-tap)")
	}
}

func TestApplyToneTelexHornUoCompound(t *testing.T) {
	buf := buffer.New()
	push(buf, "uo")
	res := ApplyTone(buf, 'w', keys.ToneHorn, Telex, true)
	if !res.Applied {
		t.Fatal("ApplyTone() horn Applied = false, want true")
	}
	render(t, buf, "ươ")
}

func TestApplyToneTelexBreveOnTrailingA(t *testing.T) {
	// Telex overloads 'w': breve lands on a bare trailing 'a' ("aw" ->
	// "ă"), horn lands on o/u. Both resolve through the same tone key.
	buf := buffer.New()
	push(buf, "a")
	res := ApplyTone(buf, 'w', keys.ToneHorn, Telex, true)
	if !res.Applied {
		t.Fatal("ApplyTone() breve-via-w Applied = false, want true")
	}
	render(t, buf, "ă")
}

func TestApplyToneVNICircumflex(t *testing.T) {
	buf := buffer.New()
	push(buf, "tien")
	res := ApplyTone(buf, '6', keys.ToneCircumflex, VNI, true)
	if !res.Applied {
		t.Fatal("ApplyTone() VNI circumflex Applied = false")
	}
	render(t, buf, "tiên")
}

func TestApplyToneNoVowelNoOp(t *testing.T) {
	buf := buffer.New()
	push(buf, "bcd")
	if res := ApplyTone(buf, 'a', keys.ToneCircumflex, Telex, true); res.Applied {
		t.Error("ApplyTone() on consonant-only buffer Applied = true, want false")
	}
}

func TestApplyMarkPlacesOnCorrectVowel(t *testing.T) {
	buf := buffer.New()
	push(buf, "tien")
	res := ApplyMark(buf, keys.MarkSac, true)
	if !res.Applied {
		t.Fatal("ApplyMark() Applied = false")
	}
	// "tien" has a final, so the mark goes on the second nucleus vowel.
	render(t, buf, "tién")
}

func TestApplyMarkClearsPriorMark(t *testing.T) {
	buf := buffer.New()
	push(buf, "tien")
	ApplyMark(buf, keys.MarkHuyen, true)
	ApplyMark(buf, keys.MarkSac, true)
	count := 0
	for _, pos := range buf.FindVowels() {
		c, _ := buf.Get(pos)
		if c.Mark != keys.MarkNone {
			count++
		}
	}
	if count != 1 {
		t.Errorf("marked vowel count = %d, want 1", count)
	}
}

func TestApplyMarkQuNucleusExcluded(t *testing.T) {
	// "qua" -> the 'u' is absorbed into the initial cluster and must
	// never receive the mark; only 'a' is eligible.
	buf := buffer.New()
	push(buf, "qua")
	res := ApplyMark(buf, keys.MarkSac, true)
	if !res.Applied {
		t.Fatal("ApplyMark() on qua Applied = false")
	}
	render(t, buf, "quá")
}

func TestApplyMarkGiNucleusExcluded(t *testing.T) {
	buf := buffer.New()
	push(buf, "gia")
	res := ApplyMark(buf, keys.MarkHuyen, true)
	if !res.Applied {
		t.Fatal("ApplyMark() on gia Applied = false")
	}
	render(t, buf, "già")
}

func TestApplyMarkNoVowelNoOp(t *testing.T) {
	buf := buffer.New()
	push(buf, "bcd")
	if res := ApplyMark(buf, keys.MarkSac, true); res.Applied {
		t.Error("ApplyMark() on consonant-only buffer Applied = true, want false")
	}
}

func TestApplyMarkModernVsTraditionalPlacement(t *testing.T) {
	// "mai" has a two-vowel nucleus and no final, so modern vs
	// traditional placement diverge: modern places on the first nucleus
	// vowel, traditional on the last.
	modern := buffer.New()
	push(modern, "mai")
	ApplyMark(modern, keys.MarkSac, true)
	render(t, modern, "mái")

	traditional := buffer.New()
	push(traditional, "mai")
	ApplyMark(traditional, keys.MarkSac, false)
	render(t, traditional, "maí")
}

func TestApplyStroke(t *testing.T) {
	buf := buffer.New()
	push(buf, "d")
	res := ApplyStroke(buf)
	if !res.Applied {
		t.Fatal("ApplyStroke() Applied = false")
	}
	render(t, buf, "đ")
}

func TestApplyStrokeNoDNoOp(t *testing.T) {
	buf := buffer.New()
	push(buf, "a")
	if res := ApplyStroke(buf); res.Applied {
		t.Error("ApplyStroke() on non-d buffer Applied = true, want false")
	}
}

func TestApplyStrokeOnlyFirstUnstroked(t *testing.T) {
	buf := buffer.New()
	push(buf, "dd")
	buf.GetMut(0).Stroke = true
	res := ApplyStroke(buf)
	if !res.Applied || res.Positions[0] != 1 {
		t.Fatalf("ApplyStroke() = %+v, want position 1", res)
	}
}

func TestApplyRemovePrefersMarkOverTone(t *testing.T) {
	buf := buffer.New()
	push(buf, "a")
	buf.GetMut(0).Tone = keys.ToneCircumflex
	buf.GetMut(0).Mark = keys.MarkSac
	res := ApplyRemove(buf)
	if !res.Applied {
		t.Fatal("ApplyRemove() Applied = false")
	}
	c, _ := buf.Get(0)
	if c.Mark != keys.MarkNone {
		t.Errorf("Mark = %v, want MarkNone", c.Mark)
	}
	if c.Tone != keys.ToneCircumflex {
		t.Errorf("Tone = %v, want unchanged ToneCircumflex", c.Tone)
	}
}

func TestApplyRemoveFallsBackToTone(t *testing.T) {
	buf := buffer.New()
	push(buf, "a")
	buf.GetMut(0).Tone = keys.ToneCircumflex
	res := ApplyRemove(buf)
	if !res.Applied {
		t.Fatal("ApplyRemove() Applied = false")
	}
	c, _ := buf.Get(0)
	if c.Tone != keys.ToneNone {
		t.Errorf("Tone = %v, want ToneNone", c.Tone)
	}
}

func TestApplyRemoveNoOpOnPlainVowel(t *testing.T) {
	buf := buffer.New()
	push(buf, "a")
	if res := ApplyRemove(buf); res.Applied {
		t.Error("ApplyRemove() on plain vowel Applied = true, want false")
	}
}

func TestRevertTone(t *testing.T) {
	buf := buffer.New()
	push(buf, "a")
	buf.GetMut(0).Tone = keys.ToneCircumflex
	res := RevertTone(buf, []int{0})
	if !res.Applied {
		t.Fatal("RevertTone() Applied = false")
	}
	render(t, buf, "a")
}

func TestRevertToneSpansMultiplePositions(t *testing.T) {
	// A horn transform can set tone on two buffer positions at once
	// (the uo compound); reverting must clear both.
	buf := buffer.New()
	push(buf, "uo")
	buf.GetMut(0).Tone = keys.ToneHorn
	buf.GetMut(1).Tone = keys.ToneHorn
	res := RevertTone(buf, []int{0, 1})
	if !res.Applied || len(res.Positions) != 2 {
		t.Fatalf("RevertTone() = %+v, want both positions reverted", res)
	}
	render(t, buf, "uo")
}

func TestRevertMark(t *testing.T) {
	buf := buffer.New()
	push(buf, "a")
	buf.GetMut(0).Mark = keys.MarkSac
	res := RevertMark(buf)
	if !res.Applied {
		t.Fatal("RevertMark() Applied = false")
	}
	render(t, buf, "a")
}

func TestRevertStroke(t *testing.T) {
	buf := buffer.New()
	push(buf, "d")
	buf.GetMut(0).Stroke = true
	res := RevertStroke(buf)
	if !res.Applied {
		t.Fatal("RevertStroke() Applied = false")
	}
	render(t, buf, "d")
}

func TestApplyToneRepositionsExistingMark(t *testing.T) {
	// Mark starts on the traditional-placement vowel of "hoa" ('a'); once
	// horn tone on 'a' is impossible here we instead verify repositioning
	// via a uo compound: mark sits on 'o' in "huong" (final present, so
	// mark is on second nucleus vowel already) and must follow the nucleus
	// when horn is applied to both vowels.
	buf := buffer.New()
	push(buf, "huong")
	ApplyMark(buf, keys.MarkSac, true)
	render(t, buf, "huóng")
	res := ApplyTone(buf, 'w', keys.ToneHorn, Telex, true)
	if !res.Applied {
		t.Fatal("ApplyTone() horn Applied = false")
	}
	render(t, buf, "hướng")
}
