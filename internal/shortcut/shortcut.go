// Package shortcut implements the trigger→replacement abbreviation
// table: raw keystroke sequences ("vn", "->") that expand to literal
// replacement text ("Việt Nam", "→") the moment the trigger completes.
package shortcut

import (
	"strings"
	"unicode/utf8"

	"github.com/username/goviet-ime/internal/keys"
)

// Table holds the registered triggers. Lookup is by raw keystrokes, not
// rendered text, since a trigger like "vn" must fire before Vietnamese
// transformation ever touches those keys.
type Table struct {
	entries map[string]string
	maxLen  int
}

// NewTable returns an empty shortcut table.
func NewTable() *Table {
	return &Table{entries: make(map[string]string)}
}

// Defaults returns a table seeded with a few illustrative shortcuts.
// Hosts load their own persisted table over the ABI; these defaults are
// a convenience for a fresh engine, not an authoritative list.
func Defaults() *Table {
	t := NewTable()
	t.Add("vn", "Việt Nam")
	t.Add("hn", "Hà Nội")
	t.Add("hcm", "Hồ Chí Minh")
	t.Add("->", "→")
	t.Add("=>", "⇒")
	t.Add(":)", "😊")
	return t
}

// Add registers trigger -> replacement. A trigger containing a NUL byte
// or invalid UTF-8 is silently ignored, per the no-recoverable-errors
// contract at the ABI boundary; callers that need to know whether the
// shortcut was accepted can check the returned bool.
func (t *Table) Add(trigger, replacement string) bool {
	if trigger == "" || !utf8.ValidString(trigger) || !utf8.ValidString(replacement) {
		return false
	}
	if strings.ContainsRune(trigger, 0) || strings.ContainsRune(replacement, 0) {
		return false
	}
	t.entries[trigger] = replacement
	if n := utf8.RuneCountInString(trigger); n > t.maxLen {
		t.maxLen = n
	}
	return true
}

// Remove deletes a trigger, if registered.
func (t *Table) Remove(trigger string) {
	delete(t.entries, trigger)
}

// Clear empties the table.
func (t *Table) Clear() {
	t.entries = make(map[string]string)
	t.maxLen = 0
}

// Match checks whether the tail of rawKeys ends a registered trigger,
// trying the longest candidate length first so overlapping triggers
// resolve to the longest match.
func (t *Table) Match(rawKeys []keys.Key) (replacement string, ok bool) {
	if len(t.entries) == 0 {
		return "", false
	}

	n := len(rawKeys)
	maxLen := t.maxLen
	if maxLen > n {
		maxLen = n
	}

	for length := maxLen; length >= 1; length-- {
		candidate := keysToString(rawKeys[n-length:])
		if repl, found := t.entries[candidate]; found {
			return repl, true
		}
	}
	return "", false
}

// HasPrefix reports whether seq is a strict prefix of some registered
// trigger, meaning more keystrokes could still complete a match. The
// engine uses this to hold off treating a punctuation key as a hard
// word boundary while a multi-punctuation trigger (e.g. "->") is still
// pending.
func (t *Table) HasPrefix(seq []keys.Key) bool {
	if len(seq) == 0 || len(t.entries) == 0 {
		return false
	}
	candidate := keysToString(seq)
	for trigger := range t.entries {
		if len(trigger) > len(candidate) && strings.HasPrefix(trigger, candidate) {
			return true
		}
	}
	return false
}

func keysToString(ks []keys.Key) string {
	runes := make([]rune, len(ks))
	for i, k := range ks {
		runes[i] = rune(k)
	}
	return string(runes)
}
