// Package chars holds the static base→composed character tables used to
// render a decorated buffer record into its precomposed Vietnamese
// letter.
package chars

import (
	"unicode"

	"github.com/username/goviet-ime/internal/keys"
)

// toneTable maps a lowercase base vowel to the letter produced by each
// tone modifier. A tone not present for a given base (e.g. horn on 'a')
// leaves the base unchanged.
var toneTable = map[rune]map[keys.Tone]rune{
	'a': {keys.ToneCircumflex: 'â', keys.ToneBreve: 'ă'},
	'e': {keys.ToneCircumflex: 'ê'},
	'o': {keys.ToneCircumflex: 'ô', keys.ToneHorn: 'ơ'},
	'u': {keys.ToneHorn: 'ư'},
}

// markTable maps a (possibly tone-modified) lowercase vowel to the
// letter produced by each tone mark.
var markTable = map[rune]map[keys.Mark]rune{
	'a': {keys.MarkSac: 'á', keys.MarkHuyen: 'à', keys.MarkHoi: 'ả', keys.MarkNga: 'ã', keys.MarkNang: 'ạ'},
	'ă': {keys.MarkSac: 'ắ', keys.MarkHuyen: 'ằ', keys.MarkHoi: 'ẳ', keys.MarkNga: 'ẵ', keys.MarkNang: 'ặ'},
	'â': {keys.MarkSac: 'ấ', keys.MarkHuyen: 'ầ', keys.MarkHoi: 'ẩ', keys.MarkNga: 'ẫ', keys.MarkNang: 'ậ'},
	'e': {keys.MarkSac: 'é', keys.MarkHuyen: 'è', keys.MarkHoi: 'ẻ', keys.MarkNga: 'ẽ', keys.MarkNang: 'ẹ'},
	'ê': {keys.MarkSac: 'ế', keys.MarkHuyen: 'ề', keys.MarkHoi: 'ể', keys.MarkNga: 'ễ', keys.MarkNang: 'ệ'},
	'i': {keys.MarkSac: 'í', keys.MarkHuyen: 'ì', keys.MarkHoi: 'ỉ', keys.MarkNga: 'ĩ', keys.MarkNang: 'ị'},
	'o': {keys.MarkSac: 'ó', keys.MarkHuyen: 'ò', keys.MarkHoi: 'ỏ', keys.MarkNga: 'õ', keys.MarkNang: 'ọ'},
	'ô': {keys.MarkSac: 'ố', keys.MarkHuyen: 'ồ', keys.MarkHoi: 'ổ', keys.MarkNga: 'ỗ', keys.MarkNang: 'ộ'},
	'ơ': {keys.MarkSac: 'ớ', keys.MarkHuyen: 'ờ', keys.MarkHoi: 'ở', keys.MarkNga: 'ỡ', keys.MarkNang: 'ợ'},
	'u': {keys.MarkSac: 'ú', keys.MarkHuyen: 'ù', keys.MarkHoi: 'ủ', keys.MarkNga: 'ũ', keys.MarkNang: 'ụ'},
	'ư': {keys.MarkSac: 'ứ', keys.MarkHuyen: 'ừ', keys.MarkHoi: 'ử', keys.MarkNga: 'ữ', keys.MarkNang: 'ự'},
	'y': {keys.MarkSac: 'ý', keys.MarkHuyen: 'ỳ', keys.MarkHoi: 'ỷ', keys.MarkNga: 'ỹ', keys.MarkNang: 'ỵ'},
}

// Compose renders a single decorated character: overlay the tone
// modifier, then the mark, then the stroke (d only), then case-fold.
func Compose(base rune, tone keys.Tone, mark keys.Mark, stroke bool, upper bool) rune {
	lower := unicode.ToLower(base)

	result := lower
	if toned, ok := toneTable[lower][tone]; ok {
		result = toned
	}
	if marked, ok := markTable[result][mark]; ok {
		result = marked
	}
	if stroke && lower == 'd' {
		result = 'đ'
	}

	if upper {
		return unicode.ToUpper(result)
	}
	return result
}
