package chars

import (
	"testing"

	"github.com/username/goviet-ime/internal/keys"
)

func TestCompose(t *testing.T) {
	tests := []struct {
		name   string
		base   rune
		tone   keys.Tone
		mark   keys.Mark
		stroke bool
		upper  bool
		want   rune
	}{
		{"plain a", 'a', keys.ToneNone, keys.MarkNone, false, false, 'a'},
		{"circumflex a", 'a', keys.ToneCircumflex, keys.MarkNone, false, false, 'â'},
		{"breve a", 'a', keys.ToneBreve, keys.MarkNone, false, false, 'ă'},
		{"circumflex + sac", 'a', keys.ToneCircumflex, keys.MarkSac, false, false, 'ấ'},
		{"horn o", 'o', keys.ToneHorn, keys.MarkNone, false, false, 'ơ'},
		{"horn o + huyen", 'o', keys.ToneHorn, keys.MarkHuyen, false, false, 'ờ'},
		{"horn u + nang", 'u', keys.ToneHorn, keys.MarkNang, false, false, 'ự'},
		{"plain i + sac", 'i', keys.ToneNone, keys.MarkSac, false, false, 'í'},
		{"stroke d", 'd', keys.ToneNone, keys.MarkNone, true, false, 'đ'},
		{"stroke d uppercase", 'd', keys.ToneNone, keys.MarkNone, true, true, 'Đ'},
		{"uppercase circumflex sac", 'a', keys.ToneCircumflex, keys.MarkSac, false, true, 'Ấ'},
		{"uppercase base folds first", 'A', keys.ToneNone, keys.MarkNone, false, false, 'a'},
		{"unsupported tone leaves base", 'i', keys.ToneCircumflex, keys.MarkNone, false, false, 'i'},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Compose(tt.base, tt.tone, tt.mark, tt.stroke, tt.upper); got != tt.want {
				t.Errorf("Compose(%q, %v, %v, %v, %v) = %q, want %q",
					tt.base, tt.tone, tt.mark, tt.stroke, tt.upper, got, tt.want)
			}
		})
	}
}
