package method

import "github.com/username/goviet-ime/internal/keys"

// Telex is the Telex keyboard convention: letter keys double as tone
// and mark triggers (s f r x j for marks, a e o w for tones, d for
// stroke, z for removal).
//
// SkipW implements the skip_w_shortcut setting: when true, 'w' is
// never classified as a tone key at all, so it always falls through
// to a plain letter append instead of the horn/breve transform.
type Telex struct {
	SkipW bool
}

var _ Method = Telex{}

func (Telex) Name() string { return "Telex" }

var telexMarks = map[keys.Key]keys.Mark{
	's': keys.MarkSac,
	'f': keys.MarkHuyen,
	'r': keys.MarkHoi,
	'x': keys.MarkNga,
	'j': keys.MarkNang,
}

func (Telex) Mark(k keys.Key) (keys.Mark, bool) {
	m, ok := telexMarks[k]
	return m, ok
}

// telexTones gives 'w' a provisional ToneHorn value; transform.ApplyTone
// resolves it to ToneBreve instead when the target nucleus is a bare
// trailing 'a', since Telex overloads 'w' across breve and horn and only
// the nucleus shape (not the key alone) disambiguates them.
var telexTones = map[keys.Key]keys.Tone{
	'a': keys.ToneCircumflex,
	'e': keys.ToneCircumflex,
	'o': keys.ToneCircumflex,
	'w': keys.ToneHorn,
}

func (t Telex) Tone(k keys.Key) (keys.Tone, bool) {
	if t.SkipW && k == 'w' {
		return keys.ToneNone, false
	}
	tone, ok := telexTones[k]
	return tone, ok
}

func (Telex) Stroke(k keys.Key) bool { return k == 'd' }

func (Telex) Remove(k keys.Key) bool { return k == 'z' }
