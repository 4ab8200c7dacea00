// Package config defines the engine's process-wide settings record and
// the JSON layout a host persists it as. The core itself never reads
// or writes a file; this package only defines the shape.
package config

// MethodID selects the keyboard convention, using the wire encoding
// fixed at the ABI boundary (0 = Telex, 1 = VNI).
type MethodID int

const (
	MethodTelex MethodID = 0
	MethodVNI   MethodID = 1
)

// ShortcutEntry is one trigger/replacement pair, as persisted.
type ShortcutEntry struct {
	Trigger     string `json:"trigger"`
	Replacement string `json:"replacement"`
}

// Settings is the single process-wide configuration record described
// in spec §3. It is mutated only via explicit setters and read by the
// engine on every keystroke.
type Settings struct {
	Method                 MethodID        `json:"method"`
	Enabled                bool            `json:"enabled"`
	ModernTone             bool            `json:"modern_tone"`
	EscRestore             bool            `json:"esc_restore"`
	EnglishAutoRestore     bool            `json:"english_auto_restore"`
	AutoCapitalize         bool            `json:"auto_capitalize"`
	FreeTone               bool            `json:"free_tone"`
	SkipWShortcut          bool            `json:"skip_w_shortcut"`
	BracketShortcut        bool            `json:"bracket_shortcut"`
	AllowForeignConsonants bool            `json:"allow_foreign_consonants"`
	Shortcuts              []ShortcutEntry `json:"shortcuts"`
}

// Default returns the engine's default configuration: Telex, modern
// tone placement, ESC-restore and English-auto-restore on, a handful
// of seed shortcuts, and every other toggle off.
func Default() Settings {
	return Settings{
		Method:             MethodTelex,
		Enabled:            true,
		ModernTone:         true,
		EscRestore:         true,
		EnglishAutoRestore: true,
		Shortcuts: []ShortcutEntry{
			{Trigger: "vn", Replacement: "Việt Nam"},
			{Trigger: "hn", Replacement: "Hà Nội"},
			{Trigger: "hcm", Replacement: "Hồ Chí Minh"},
			{Trigger: "->", Replacement: "→"},
			{Trigger: "=>", Replacement: "⇒"},
			{Trigger: ":)", Replacement: "😊"},
		},
	}
}
