// Package engine implements the top-level per-keystroke state machine:
// it wires the buffer, syllable parser, phonology rules, transform
// operations, a keyboard Method, the shortcut table, and the English
// dictionary together into the single entry point a host calls once
// per key event.
package engine

import (
	"strings"
	"unicode/utf8"

	"github.com/username/goviet-ime/internal/buffer"
	"github.com/username/goviet-ime/internal/config"
	"github.com/username/goviet-ime/internal/dictionary"
	"github.com/username/goviet-ime/internal/keys"
	"github.com/username/goviet-ime/internal/method"
	"github.com/username/goviet-ime/internal/phonology"
	"github.com/username/goviet-ime/internal/shortcut"
	"github.com/username/goviet-ime/internal/syllable"
	"github.com/username/goviet-ime/internal/transform"
)

// ActionKind records what kind of mutation the last keystroke made,
// used to detect a double-tap collision on the next one.
type ActionKind int

const (
	ActionNone ActionKind = iota
	ActionLetter
	ActionTone
	ActionMark
	ActionStroke
	ActionRemove
)

// KeyEvent is one host-reported keystroke, already translated into the
// engine's key identifier space.
type KeyEvent struct {
	Key keys.Key
	// Upper is the case the host wants this key typed in (shift xor
	// caps-lock), meaningful only for letter keys.
	Upper bool
	// Mod reports whether a modifier the engine does not interpret
	// (ctrl, alt, ...) was held, which always flushes and passes
	// through.
	Mod bool
}

// Result is the minimal edit a host applies to resynchronize its own
// display with the engine's buffer: delete Backspace runes from the
// end of the field, then insert Commit. PassThrough means the engine
// made no change of its own; the host should type the raw key itself.
type Result struct {
	Commit      string
	Backspace   int
	PassThrough bool
}

func passThrough() Result { return Result{PassThrough: true} }

const recentCap = 32

// transformRecord remembers the most recent tone/mark/stroke mutation,
// so the next keystroke can detect a double-tap collision and revert
// it instead of compounding it.
type transformRecord struct {
	kind      ActionKind
	key       keys.Key
	positions []int
}

// Engine is one composition session: the buffer currently being built,
// the raw keys behind it (with their typed case, for ESC-restore and
// English auto-restore), the shortcut-matching window, and the small
// bookkeeping needed for double-tap detection and auto-capitalize.
type Engine struct {
	cfg       config.Settings
	method    method.Method
	dict      dictionary.Lookup
	shortcuts *shortcut.Table
	history   *historyRing

	buf            *buffer.Buffer
	rawRunes       []rune
	recent         []keys.Key
	lastAction     ActionKind
	lastTransform  *transformRecord
	capitalizeNext bool
}

// New constructs an Engine from an explicit settings record and
// collaborators. Hosts typically call this once at startup with
// config.Default(), dictionary.Default(), and shortcut.Defaults(), then
// overwrite fields with whatever was persisted.
func New(cfg config.Settings, dict dictionary.Lookup, shortcuts *shortcut.Table) *Engine {
	e := &Engine{
		cfg:       cfg,
		dict:      dict,
		shortcuts: shortcuts,
		history:   newHistoryRing(64),
		buf:       buffer.New(),
	}
	e.setMethod(cfg.Method)
	return e
}

func (e *Engine) setMethod(id config.MethodID) {
	if id == config.MethodVNI {
		e.method = method.VNI{}
	} else {
		e.method = method.Telex{SkipW: e.cfg.SkipWShortcut}
	}
}

// SetMethod switches the active keyboard convention, flushing any
// in-progress composition first.
func (e *Engine) SetMethod(id config.MethodID) {
	e.Clear()
	e.cfg.Method = id
	e.setMethod(id)
}

// SetEnabled toggles whether ProcessKey transforms keys at all.
func (e *Engine) SetEnabled(v bool) { e.cfg.Enabled = v }

// SetModernTone toggles the modern vs traditional tone-placement
// convention for a two-vowel nucleus with no final.
func (e *Engine) SetModernTone(v bool) { e.cfg.ModernTone = v }

// SetEscRestore toggles whether ESC emits the raw key sequence.
func (e *Engine) SetEscRestore(v bool) { e.cfg.EscRestore = v }

// SetEnglishAutoRestore toggles dictionary-driven auto-restore.
func (e *Engine) SetEnglishAutoRestore(v bool) { e.cfg.EnglishAutoRestore = v }

// SetAutoCapitalize toggles capitalizing the first letter after a
// sentence-ending boundary.
func (e *Engine) SetAutoCapitalize(v bool) { e.cfg.AutoCapitalize = v }

// SetFreeTone toggles bypassing phonotactic validation for marks.
func (e *Engine) SetFreeTone(v bool) { e.cfg.FreeTone = v }

// SetSkipWShortcut toggles treating Telex 'w' as a literal letter
// instead of the horn-tone key. Takes effect immediately: if Telex is
// the active method, its SkipW flag is updated in place.
func (e *Engine) SetSkipWShortcut(v bool) {
	e.cfg.SkipWShortcut = v
	if t, ok := e.method.(method.Telex); ok {
		t.SkipW = v
		e.method = t
	}
}

// SetBracketShortcut stores the bracket-shortcut flag. No component of
// this engine reads it; it exists to round-trip through the ABI and
// persisted settings, matching the source this spec distills (which
// never implements its semantics either).
func (e *Engine) SetBracketShortcut(v bool) { e.cfg.BracketShortcut = v }

// SetAllowForeignConsonants toggles relaxed initial-consonant
// validation for loanwords.
func (e *Engine) SetAllowForeignConsonants(v bool) { e.cfg.AllowForeignConsonants = v }

// AddShortcut registers trigger -> replacement.
func (e *Engine) AddShortcut(trigger, replacement string) bool {
	return e.shortcuts.Add(trigger, replacement)
}

// RemoveShortcut unregisters trigger.
func (e *Engine) RemoveShortcut(trigger string) { e.shortcuts.Remove(trigger) }

// ClearShortcuts empties the shortcut table.
func (e *Engine) ClearShortcuts() { e.shortcuts.Clear() }

// Clear performs a word-boundary reset: the in-progress buffer is
// dropped without emitting a commit, as if the current syllable had
// never been typed. The history ring survives.
func (e *Engine) Clear() {
	e.buf.Reset()
	e.rawRunes = nil
	e.recent = nil
	e.lastAction = ActionNone
	e.lastTransform = nil
}

// ClearAll performs a full reset: the buffer and the history ring.
func (e *Engine) ClearAll() {
	e.Clear()
	e.history.clear()
}

// History returns recent completed keystrokes, oldest first, for a
// host that wants to inspect composition activity (e.g. vikeyctl's
// --history trace). It is a snapshot, not reverted-to by anything in
// the engine itself.
func (e *Engine) History() []HistoryEntry {
	return e.history.snapshot()
}

func (e *Engine) pushRaw(k keys.Key, r rune) {
	e.buf.PushRaw(k)
	e.rawRunes = append(e.rawRunes, r)
}

func (e *Engine) popRaw() {
	e.buf.PopRaw()
	if n := len(e.rawRunes); n > 0 {
		e.rawRunes = e.rawRunes[:n-1]
	}
}

func (e *Engine) pushRecent(k keys.Key) {
	e.recent = append(e.recent, k)
	if n := len(e.recent); n > recentCap {
		e.recent = e.recent[n-recentCap:]
	}
}

func (e *Engine) methodKind() transform.MethodKind {
	if _, ok := e.method.(method.VNI); ok {
		return transform.VNI
	}
	return transform.Telex
}

// ProcessKey runs one keystroke through the ten-step dispatch described
// for the engine's state machine, mutating session state and returning
// the edit the host should apply.
func (e *Engine) ProcessKey(ev KeyEvent) Result {
	// Step 1: disabled passthrough.
	if !e.cfg.Enabled {
		return passThrough()
	}

	// Step 2: unmapped key or modifier held -> flush and pass through.
	if ev.Key == keys.None || ev.Mod {
		e.Clear()
		return passThrough()
	}

	if ev.Key == keys.Escape {
		return e.processEscape()
	}

	if ev.Key == keys.Backspace {
		return e.processBackspace()
	}

	// Step 3: word boundary, with a shortcut-prefix exception so a
	// punctuation-only trigger like "->" can still accumulate across
	// boundary keys before it resolves to a hard reset.
	if ev.Key.IsWordBoundary() {
		tentative := append(append([]keys.Key(nil), e.recent...), ev.Key)
		if repl, ok := e.shortcuts.Match(tentative); ok {
			return e.expandShortcut(tentative, repl)
		}
		if e.shortcuts.HasPrefix(tentative) {
			e.commitWord(ev.Key)
			e.recent = tentative
			return passThrough()
		}
		e.commitWord(ev.Key)
		e.recent = nil
		return passThrough()
	}

	prevRender := e.buf.Render()

	// Step 5 (letter-path): shortcut check folded into the per-key
	// dispatch below, before the key is classified, so it sees the same
	// raw-key window as the punctuation path above.
	result := e.dispatch(ev)
	if result != nil {
		return *result
	}

	newRender := e.buf.Render()
	res := diff(prevRender, newRender)
	e.history.push(HistoryEntry{Raw: append([]keys.Key(nil), e.buf.RawKeys()...), Output: newRender})
	return res
}

// dispatch performs steps 5-8 for a non-boundary, non-backspace,
// non-escape key: shortcut check, classification, validation,
// English-auto-restore, and sets lastAction for the next keystroke's
// double-tap detection. Returns non-nil only when it wants to hand the
// caller a finished Result directly (shortcut expansion).
func (e *Engine) dispatch(ev KeyEvent) *Result {
	key := ev.Key
	e.pushRecent(key)

	if repl, ok := e.shortcuts.Match(e.recent); ok {
		res := e.expandShortcut(e.recent, repl)
		return &res
	}

	switch {
	case e.tryMark(key, ev.Upper):
	case e.tryTone(key, ev.Upper):
	case e.method.Stroke(key):
		e.applyStrokeKey(key, ev.Upper)
	case e.method.Remove(key):
		e.applyRemoveKey(key, ev.Upper)
	default:
		e.appendLetter(key, ev.Upper)
		e.lastAction = ActionLetter
		e.lastTransform = nil
	}

	e.validateLastAction()
	e.maybeAutoRestoreEnglish()
	return nil
}

// tryMark attempts the mark branch of step 6 and reports whether it
// consumed the key (whether as a transform or as the literal-append
// fallback for a mark key that could not be applied); a key with no mark
// mapping is not consumed and returns false. Like tryTone, it detects the
// double-tap collision: transform.ApplyMark always succeeds on a
// non-empty syllable (it has no phonotactic guard to fail against the
// way a tone modifier does), so the collision check must run on the
// *previous* keystroke's identity rather than on whether this attempt
// applied — a second consecutive press of the same mark key re-places
// the identical mark, which is undone here and the raw key appended
// literally instead ("as"+"s" -> "a"+"ss").
func (e *Engine) tryMark(key keys.Key, upper bool) bool {
	mark, ok := e.method.Mark(key)
	if !ok {
		return false
	}
	collision := e.lastAction == ActionMark && e.lastTransform != nil && e.lastTransform.key == key

	attempt := transform.ApplyMark(e.buf, mark, e.cfg.ModernTone)
	e.pushRaw(key, displayRune(key, upper))

	if !attempt.Applied || collision {
		if collision {
			for _, pos := range attempt.Positions {
				if c := e.buf.GetMut(pos); c != nil {
					c.Mark = keys.MarkNone
				}
			}
			// The earlier press of this key was absorbed as the mark;
			// restore it as a literal letter before the current one.
			prevUpper := false
			if n := len(e.rawRunes); n >= 2 {
				r := e.rawRunes[n-2]
				prevUpper = r >= 'A' && r <= 'Z'
			}
			e.appendLetterNoRaw(key, prevUpper)
		}
		e.appendLetterNoRaw(key, upper)
		e.lastAction = ActionLetter
		e.lastTransform = nil
		return true
	}

	e.lastAction = ActionMark
	e.lastTransform = &transformRecord{kind: ActionMark, key: key, positions: attempt.Positions}
	return true
}

// tryTone attempts the tone branch of step 6, including double-tap
// detection: a tone key that fails to apply because its own guard
// already sees a prior tone/mark on the target is a collision only if
// the immediately preceding keystroke was the same tone key; in that
// case the previous transform is undone and the raw key is appended
// literally instead.
func (e *Engine) tryTone(key keys.Key, upper bool) bool {
	tone, ok := e.method.Tone(key)
	if !ok {
		return false
	}
	attempt := transform.ApplyTone(e.buf, key, tone, e.methodKind(), e.cfg.ModernTone)
	e.pushRaw(key, displayRune(key, upper))

	if attempt.Applied {
		e.lastAction = ActionTone
		e.lastTransform = &transformRecord{kind: ActionTone, key: key, positions: attempt.Positions}
		return true
	}

	if e.lastAction == ActionTone && e.lastTransform != nil && e.lastTransform.key == key {
		for _, pos := range e.lastTransform.positions {
			if c := e.buf.GetMut(pos); c != nil {
				c.Tone = keys.ToneNone
			}
		}
	}
	e.appendLetterNoRaw(key, upper)
	e.lastAction = ActionLetter
	e.lastTransform = nil
	return true
}

// applyStrokeKey implements the Telex 'd' key: a 'd' is always appended
// as a plain letter, and only then, if the buffer already held an
// earlier unstroked 'd', is that earlier one struck to đ. "dd" typed at
// the start of a word therefore strikes the first d — but with no
// vowel yet the result is not a valid syllable, so step 7's validation
// reverts the stroke and leaves two plain d's, which is how a bare "dd"
// resolves without ever forming đ.
func (e *Engine) applyStrokeKey(key keys.Key, upper bool) {
	hadUnstrokedD := false
	for i := 0; i < e.buf.Len(); i++ {
		c, _ := e.buf.Get(i)
		if c.Key == 'd' && !c.Stroke {
			hadUnstrokedD = true
			break
		}
	}
	e.appendLetter(key, upper)
	if hadUnstrokedD {
		if attempt := transform.ApplyStroke(e.buf); attempt.Applied {
			e.lastAction = ActionStroke
			e.lastTransform = &transformRecord{kind: ActionStroke, key: key, positions: attempt.Positions}
			return
		}
	}
	e.lastAction = ActionLetter
	e.lastTransform = nil
}

func (e *Engine) applyRemoveKey(key keys.Key, upper bool) {
	attempt := transform.ApplyRemove(e.buf)
	e.pushRaw(key, displayRune(key, upper))
	if attempt.Applied {
		e.lastAction = ActionRemove
		e.lastTransform = nil
		return
	}
	e.appendLetterNoRaw(key, upper)
	e.lastAction = ActionLetter
	e.lastTransform = nil
}

// appendLetter pushes a plain decorated record and records the raw
// keystroke behind it.
func (e *Engine) appendLetter(key keys.Key, upper bool) {
	if e.capitalizeNext && key.IsLetter() {
		upper = true
		e.capitalizeNext = false
	}
	e.buf.Push(buffer.Char{Key: key, Upper: upper})
	e.pushRaw(key, displayRune(key, upper))
}

// appendLetterNoRaw pushes a plain decorated record without recording
// another raw keystroke, for the fallback paths where the raw key was
// already pushed by the caller before the transform attempt.
func (e *Engine) appendLetterNoRaw(key keys.Key, upper bool) {
	if e.capitalizeNext && key.IsLetter() {
		upper = true
		e.capitalizeNext = false
	}
	e.buf.Push(buffer.Char{Key: key, Upper: upper})
}

func displayRune(k keys.Key, upper bool) rune {
	r := rune(k)
	if upper && k.IsLetter() {
		return r - 'a' + 'A'
	}
	return r
}

// validateLastAction implements step 7: if the buffer no longer parses
// as a structurally valid syllable and the last keystroke was a
// transformation, revert it and fall back to a plain letter. free_tone
// bypasses this for marks, per the flag's stated meaning.
// allow_foreign_consonants additionally relaxes the check: when it is
// off, an initial consonant cluster that Vietnamese phonotactics
// doesn't recognize (loanword clusters like "fr", "z") also triggers
// the revert; when on, only nucleus presence is checked.
func (e *Engine) validateLastAction() {
	if e.lastAction != ActionMark && e.lastAction != ActionTone && e.lastAction != ActionStroke {
		return
	}
	if e.cfg.FreeTone && e.lastAction == ActionMark {
		return
	}
	valid := syllable.IsValidStructure(e.buf.Keys())
	if valid && !e.cfg.AllowForeignConsonants {
		valid = e.initialIsValid()
	}
	if valid {
		return
	}
	if e.lastTransform == nil {
		return
	}
	switch e.lastTransform.kind {
	case ActionMark:
		transform.RevertMark(e.buf)
	case ActionTone:
		transform.RevertTone(e.buf, e.lastTransform.positions)
	case ActionStroke:
		transform.RevertStroke(e.buf)
	}
	// A mark or tone key was absorbed by the reverted transform, so it is
	// typed as a literal letter instead; a stroke key was already appended.
	if k := e.lastTransform.kind; k == ActionMark || k == ActionTone {
		upper := false
		if n := len(e.rawRunes); n > 0 {
			r := e.rawRunes[n-1]
			upper = r >= 'A' && r <= 'Z'
		}
		e.appendLetterNoRaw(e.lastTransform.key, upper)
	}
	e.lastAction = ActionLetter
	e.lastTransform = nil
}

// initialIsValid reports whether the buffer's current initial
// consonant cluster (if any) is a recognized Vietnamese onset. A raw
// "dd" is special-cased to valid: it is the two-keystroke spelling of
// đ before (or, per applyStrokeKey's accepted dd-revert behavior,
// instead of) the stroke surviving, never a genuine two-consonant
// cluster, so phonology.IsValidInitial's literal-cluster table must
// not see it — otherwise every đ-initial word would fail this check
// the moment its vowel is typed, not just the bare "dd" scenario.
func (e *Engine) initialIsValid() bool {
	syll := syllable.Parse(e.buf.Keys())
	if len(syll.Initial) == 0 {
		return true
	}
	runes := make([]rune, len(syll.Initial))
	for i, pos := range syll.Initial {
		c, _ := e.buf.Get(pos)
		runes[i] = rune(c.Key)
	}
	if string(runes) == "dd" {
		return true
	}
	return phonology.IsValidInitial(string(runes))
}

// maybeAutoRestoreEnglish implements step 8: if the raw keys so far
// spell a recognized English word but the current render has diverged
// from it (some transform fired), collapse the buffer back to the
// plain raw letters.
func (e *Engine) maybeAutoRestoreEnglish() {
	if !e.cfg.EnglishAutoRestore || e.dict == nil {
		return
	}
	raw := strings.ToLower(string(e.rawRunes))
	if raw == "" || !e.dict.Contains(raw) {
		return
	}
	if e.buf.Render() == string(e.rawRunes) {
		return
	}
	plain := make([]buffer.Char, len(e.rawRunes))
	for i, r := range e.rawRunes {
		plain[i] = buffer.Char{Key: keys.FromRune(r), Upper: r >= 'A' && r <= 'Z'}
	}
	e.buf.SetChars(plain)
	e.lastAction = ActionLetter
	e.lastTransform = nil
}

// processEscape implements ESC-restore: the raw key sequence replaces
// the current render, and the buffer resets — a second ESC then finds
// nothing pending and is a no-op.
func (e *Engine) processEscape() Result {
	if !e.cfg.EscRestore || len(e.rawRunes) == 0 {
		e.Clear()
		return passThrough()
	}
	prevRender := e.buf.Render()
	commit := string(e.rawRunes)
	res := diff(prevRender, commit)
	e.Clear()
	return res
}

// processBackspace implements step 4: peel the outermost diacritic
// from the last decorated record before removing it outright.
func (e *Engine) processBackspace() Result {
	prevRender := e.buf.Render()
	n := e.buf.Len()
	if n == 0 {
		return passThrough()
	}

	last := e.buf.GetMut(n - 1)
	switch {
	case last.Mark != keys.MarkNone:
		last.Mark = keys.MarkNone
	case last.Tone != keys.ToneNone:
		last.Tone = keys.ToneNone
	case last.Stroke:
		last.Stroke = false
	default:
		e.buf.Pop()
	}
	e.popRaw()
	if n := len(e.recent); n > 0 {
		e.recent = e.recent[:n-1]
	}
	e.lastAction = ActionNone
	e.lastTransform = nil

	newRender := e.buf.Render()
	return diff(prevRender, newRender)
}

// commitWord finalizes whatever is in the buffer at a true word
// boundary. The host's field already mirrors the buffer's last
// rendered state via prior diffs, so finalizing is just a reset with
// auto-capitalize bookkeeping for the next word; no further edit needs
// to be emitted. boundary is the key that triggered the commit — the
// buffer itself never holds punctuation, so sentence-end detection
// looks at the triggering key, not the render.
func (e *Engine) commitWord(boundary keys.Key) {
	if e.cfg.AutoCapitalize {
		r := rune(boundary)
		if r == '.' || r == '!' || r == '?' {
			e.capitalizeNext = true
		}
	}
	e.Clear()
}

// expandShortcut replaces the trigger span with its replacement. If
// the buffer holds the in-progress composition behind the trigger (the
// letter-key path), the backspace count is the buffer's current
// rendered length; otherwise (the punctuation pass-through path) it is
// one rune per already-passed-through key. In both paths tentative's
// last element is the key being processed right now — it was pushed
// into the match window but has not yet been rendered to the host
// (dispatch checks the shortcut match before appending the letter;
// step 3 checks it before passing the boundary key through), so only
// len(tentative)-1 keys are actually on screen to erase.
func (e *Engine) expandShortcut(tentative []keys.Key, replacement string) Result {
	prevRender := e.buf.Render()
	var backspace int
	if prevRender != "" {
		backspace = utf8.RuneCountInString(prevRender)
	} else {
		backspace = len(tentative) - 1
	}
	e.Clear()
	return Result{Commit: replacement, Backspace: backspace}
}

// diff computes the minimal (commit, backspace) edit turning prev into
// next, trimming any shared prefix first.
func diff(prev, next string) Result {
	if prev == next {
		return Result{}
	}
	prevRunes := []rune(prev)
	nextRunes := []rune(next)
	shared := 0
	for shared < len(prevRunes) && shared < len(nextRunes) && prevRunes[shared] == nextRunes[shared] {
		shared++
	}
	return Result{
		Backspace: len(prevRunes) - shared,
		Commit:    string(nextRunes[shared:]),
	}
}
