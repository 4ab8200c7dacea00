package phonology

import (
	"testing"

	"github.com/username/goviet-ime/internal/keys"
)

func TestIsLegalFinal(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"", false},
		{"n", true},
		{"c", true},
		{"m", true},
		{"p", true},
		{"t", true},
		{"b", false},
		{"ng", true},
		{"nh", true},
		{"ch", true},
		{"ct", false},
		{"ngh", false},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			if got := IsLegalFinal(tt.s); got != tt.want {
				t.Errorf("IsLegalFinal(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestFindTonePositionSingleVowel(t *testing.T) {
	if got := FindTonePosition([]rune{'a'}, false, true, false, false); got != 0 {
		t.Errorf("single vowel = %d, want 0", got)
	}
}

func TestFindTonePositionMarkedVowelWins(t *testing.T) {
	// "â" already carries circumflex; the mark must land there even
	// though a naive positional rule might pick a different index.
	got := FindTonePosition([]rune{'â', 'y'}, true, true, false, false)
	if got != 0 {
		t.Errorf("marked-vowel priority = %d, want 0", got)
	}
	got = FindTonePosition([]rune{'y', 'ê'}, false, false, false, false)
	if got != 1 {
		t.Errorf("marked-vowel priority = %d, want 1", got)
	}
}

func TestFindTonePositionHornCompoundBothMarkedPicksSecond(t *testing.T) {
	// "ư", "ơ" are both already tone-modified (a horn compound marks
	// both vowels at once), unlike a lone circumflexed vowel. The
	// mark must still land on the second letter (được, nước, mười),
	// not the first one found by a naive left-to-right scan.
	got := FindTonePosition([]rune{'ư', 'ơ'}, true, true, false, false)
	if got != 1 {
		t.Errorf("FindTonePosition(ư,ơ, hasFinal) = %d, want 1", got)
	}
	got = FindTonePosition([]rune{'ư', 'ơ', 'i'}, false, true, false, false)
	if got != 1 {
		t.Errorf("FindTonePosition(ư,ơ,i) = %d, want 1", got)
	}
}

func TestFindTonePositionTwoVowels(t *testing.T) {
	tests := []struct {
		name     string
		vowels   []rune
		hasFinal bool
		modern   bool
		want     int
	}{
		{"has final always second", []rune{'o', 'a'}, true, true, 1},
		{"no final modern first", []rune{'o', 'a'}, false, true, 0},
		{"no final traditional last", []rune{'o', 'a'}, false, false, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FindTonePosition(tt.vowels, tt.hasFinal, tt.modern, false, false); got != tt.want {
				t.Errorf("FindTonePosition(%v, %v, %v) = %d, want %d",
					tt.vowels, tt.hasFinal, tt.modern, got, tt.want)
			}
		})
	}
}

func TestFindTonePositionThreeVowels(t *testing.T) {
	// "uyê" style triphthong: mark always lands on the middle vowel.
	tests := []struct {
		hasFinal bool
		modern   bool
	}{
		{true, true},
		{true, false},
		{false, true},
		{false, false},
	}
	for _, tt := range tests {
		got := FindTonePosition([]rune{'u', 'y', 'e'}, tt.hasFinal, tt.modern, false, false)
		if got != 1 {
			t.Errorf("FindTonePosition(hasFinal=%v, modern=%v) = %d, want 1", tt.hasFinal, tt.modern, got)
		}
	}
}

func TestFindHornPositionsUoCompound(t *testing.T) {
	got := FindHornPositions([]rune{'u', 'o', 'i'})
	want := []int{0, 1}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("FindHornPositions(uoi) = %v, want %v", got, want)
	}
}

func TestFindHornPositionsLoneU(t *testing.T) {
	got := FindHornPositions([]rune{'a', 'u'})
	want := []int{1}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("FindHornPositions(au) = %v, want %v", got, want)
	}
}

func TestFindHornPositionsLoneO(t *testing.T) {
	got := FindHornPositions([]rune{'o'})
	want := []int{0}
	if len(got) != 1 || got[0] != want[0] {
		t.Errorf("FindHornPositions(o) = %v, want %v", got, want)
	}
}

func TestFindHornPositionsNone(t *testing.T) {
	if got := FindHornPositions([]rune{'a', 'i'}); got != nil {
		t.Errorf("FindHornPositions(ai) = %v, want nil", got)
	}
	if got := FindHornPositions(nil); got != nil {
		t.Errorf("FindHornPositions(nil) = %v, want nil", got)
	}
}

func TestIsValidInitial(t *testing.T) {
	tests := []struct {
		s    string
		want bool
	}{
		{"", true},
		{"t", true},
		{"ngh", true},
		{"tr", true},
		{"qu", true},
		{"f", false},
		{"w", false},
		{"dd", false},
	}
	for _, tt := range tests {
		t.Run(tt.s, func(t *testing.T) {
			if got := IsValidInitial(tt.s); got != tt.want {
				t.Errorf("IsValidInitial(%q) = %v, want %v", tt.s, got, tt.want)
			}
		})
	}
}

func TestIsGlideVowel(t *testing.T) {
	tests := []struct {
		first, second keys.Key
		want          bool
	}{
		{'o', 'a', true},
		{'o', 'e', true},
		{'u', 'y', true},
		{'u', 'e', true},
		{'o', 'i', false},
		{'u', 'a', false},
		{'a', 'i', false},
	}
	for _, tt := range tests {
		if got := IsGlideVowel(tt.first, tt.second); got != tt.want {
			t.Errorf("IsGlideVowel(%q, %q) = %v, want %v", tt.first, tt.second, got, tt.want)
		}
	}
}
