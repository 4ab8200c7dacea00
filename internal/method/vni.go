package method

import "github.com/username/goviet-ime/internal/keys"

// VNI is the VNI keyboard convention: digit keys apply marks and
// tones (1-5 marks, 6-8 tones, 9 stroke, 0 remove).
type VNI struct{}

var _ Method = VNI{}

func (VNI) Name() string { return "VNI" }

var vniMarks = map[keys.Key]keys.Mark{
	'1': keys.MarkSac,
	'2': keys.MarkHuyen,
	'3': keys.MarkHoi,
	'4': keys.MarkNga,
	'5': keys.MarkNang,
}

func (VNI) Mark(k keys.Key) (keys.Mark, bool) {
	m, ok := vniMarks[k]
	return m, ok
}

var vniTones = map[keys.Key]keys.Tone{
	'6': keys.ToneCircumflex,
	'7': keys.ToneHorn,
	'8': keys.ToneBreve,
}

func (VNI) Tone(k keys.Key) (keys.Tone, bool) {
	t, ok := vniTones[k]
	return t, ok
}

func (VNI) Stroke(k keys.Key) bool { return k == '9' }

func (VNI) Remove(k keys.Key) bool { return k == '0' }
