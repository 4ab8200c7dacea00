package keys

// Tone is a vowel-shape modifier: circumflex, horn, or breve.
type Tone int

const (
	ToneNone Tone = iota
	ToneCircumflex
	ToneHorn
	ToneBreve
)

// Mark is one of the five Vietnamese pitch-contour tone marks.
type Mark int

const (
	MarkNone Mark = iota
	MarkSac                // sắc (á)
	MarkHuyen              // huyền (à)
	MarkHoi                // hỏi (ả)
	MarkNga                // ngã (ã)
	MarkNang               // nặng (ạ)
)
