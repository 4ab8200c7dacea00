package dictionary

import "testing"

func TestSetContainsCaseInsensitive(t *testing.T) {
	s := NewSet([]string{"View", "text"})
	tests := []struct {
		word string
		want bool
	}{
		{"view", true},
		{"VIEW", true},
		{"View", true},
		{"text", true},
		{"texts", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := s.Contains(tt.word); got != tt.want {
			t.Errorf("Contains(%q) = %v, want %v", tt.word, got, tt.want)
		}
	}
}

func TestNewSetSkipsEmptyWords(t *testing.T) {
	s := NewSet([]string{"", "a"})
	if len(s.words) != 1 {
		t.Errorf("len(words) = %d, want 1", len(s.words))
	}
}

func TestDefaultNonEmpty(t *testing.T) {
	s := Default()
	if len(s.words) == 0 {
		t.Error("Default() produced an empty set")
	}
}

func TestLookupInterfaceSatisfied(t *testing.T) {
	var _ Lookup = (*Set)(nil)
}
