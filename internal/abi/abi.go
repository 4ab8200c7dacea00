// Package abi is the stable C calling-convention boundary described in
// spec.md §6: a single process-wide engine instance behind cgo-exported
// functions, guarded by a mutex per spec.md §5's explicit permission to
// "use internal mutexes to defensively protect the process-wide state."
//
// This is the one package in the module allowed global mutable state;
// internal/engine.New always returns an explicit, test-friendly
// instance, and every function here is a thin, allocation-aware
// wrapper around it.
package abi

/*
#include <stdlib.h>

typedef struct Result {
	unsigned char action;
	char *chars;
	int count;
	int backspace;
} Result;
*/
import "C"

import (
	"sync"
	"unsafe"

	"github.com/username/goviet-ime/internal/config"
	"github.com/username/goviet-ime/internal/dictionary"
	"github.com/username/goviet-ime/internal/engine"
	"github.com/username/goviet-ime/internal/keys"
	"github.com/username/goviet-ime/internal/shortcut"
)

// Action codes carried in Result.action, distinguishing "nothing
// changed" from a real edit so hosts that want to skip a call into
// their text field for no-op keys (e.g. passthrough) can do so cheaply.
const (
	actionNone        = 0
	actionEdit        = 1
	actionPassThrough = 2
)

var (
	mu  sync.Mutex
	eng *engine.Engine
)

// ime_init initializes the process-wide engine with default settings.
// Idempotent: calling it again resets to defaults rather than erroring.
//
//export ime_init
func ime_init() {
	mu.Lock()
	defer mu.Unlock()
	eng = engine.New(config.Default(), dictionary.Default(), shortcut.Defaults())
}

func ensureInit() {
	if eng == nil {
		eng = engine.New(config.Default(), dictionary.Default(), shortcut.Defaults())
	}
}

// ime_key_ext feeds one key event. key is the engine's internal key
// identifier (see internal/keys); caps_xor_shift is the effective
// upper-case request for letter keys; a non-zero ctrl sets the engine's
// Mod flag, and shift is not read (case already arrives through
// caps_xor_shift). When the engine passes the key through, returns a
// Result with action set to actionPassThrough; when it consumed the key
// without any edit to the host's field, returns NULL; otherwise returns
// an actionEdit Result. Every non-NULL Result is heap-allocated and the
// caller must release it via ime_free.
//
//export ime_key_ext
func ime_key_ext(key C.int, capsXorShift C.int, ctrl C.int, shift C.int) *C.Result {
	mu.Lock()
	defer mu.Unlock()
	ensureInit()

	ev := engine.KeyEvent{
		Key:   keys.Key(key),
		Upper: capsXorShift != 0,
		Mod:   ctrl != 0,
	}
	res := eng.ProcessKey(ev)

	if res.PassThrough {
		return newResult(actionPassThrough, "", 0)
	}
	if res.Commit == "" && res.Backspace == 0 {
		return nil
	}
	return newResult(actionEdit, res.Commit, res.Backspace)
}

func newResult(action C.uchar, commit string, backspace int) *C.Result {
	r := (*C.Result)(C.malloc(C.size_t(unsafe.Sizeof(C.Result{}))))
	r.action = action
	r.chars = C.CString(commit)
	r.count = C.int(len([]rune(commit)))
	r.backspace = C.int(backspace)
	return r
}

// ime_free releases a Result previously returned by ime_key_ext.
//
//export ime_free
func ime_free(r *C.Result) {
	if r == nil {
		return
	}
	if r.chars != nil {
		C.free(unsafe.Pointer(r.chars))
	}
	C.free(unsafe.Pointer(r))
}

// ime_method sets the active keyboard convention: 0 = Telex, 1 = VNI.
//
//export ime_method
func ime_method(id C.uchar) {
	mu.Lock()
	defer mu.Unlock()
	ensureInit()
	if id == 1 {
		eng.SetMethod(config.MethodVNI)
	} else {
		eng.SetMethod(config.MethodTelex)
	}
}

//export ime_enabled
func ime_enabled(v C.int) { withEngine(func() { eng.SetEnabled(v != 0) }) }

//export ime_modern
func ime_modern(v C.int) { withEngine(func() { eng.SetModernTone(v != 0) }) }

//export ime_esc_restore
func ime_esc_restore(v C.int) { withEngine(func() { eng.SetEscRestore(v != 0) }) }

//export ime_english_auto_restore
func ime_english_auto_restore(v C.int) { withEngine(func() { eng.SetEnglishAutoRestore(v != 0) }) }

//export ime_auto_capitalize
func ime_auto_capitalize(v C.int) { withEngine(func() { eng.SetAutoCapitalize(v != 0) }) }

//export ime_free_tone
func ime_free_tone(v C.int) { withEngine(func() { eng.SetFreeTone(v != 0) }) }

//export ime_skip_w_shortcut
func ime_skip_w_shortcut(v C.int) { withEngine(func() { eng.SetSkipWShortcut(v != 0) }) }

//export ime_bracket_shortcut
func ime_bracket_shortcut(v C.int) { withEngine(func() { eng.SetBracketShortcut(v != 0) }) }

//export ime_allow_foreign_consonants
func ime_allow_foreign_consonants(v C.int) {
	withEngine(func() { eng.SetAllowForeignConsonants(v != 0) })
}

// ime_add_shortcut registers trigger -> replacement. Returns 1 if
// accepted, 0 if rejected (empty or invalid UTF-8 trigger/replacement).
//
//export ime_add_shortcut
func ime_add_shortcut(trigger *C.char, replacement *C.char) C.int {
	mu.Lock()
	defer mu.Unlock()
	ensureInit()
	if eng.AddShortcut(C.GoString(trigger), C.GoString(replacement)) {
		return 1
	}
	return 0
}

//export ime_remove_shortcut
func ime_remove_shortcut(trigger *C.char) {
	withEngine(func() { eng.RemoveShortcut(C.GoString(trigger)) })
}

//export ime_clear_shortcuts
func ime_clear_shortcuts() { withEngine(func() { eng.ClearShortcuts() }) }

// ime_clear performs a word-boundary reset without clearing history.
//
//export ime_clear
func ime_clear() { withEngine(func() { eng.Clear() }) }

// ime_clear_all clears the buffer and the history ring.
//
//export ime_clear_all
func ime_clear_all() { withEngine(func() { eng.ClearAll() }) }

func withEngine(f func()) {
	mu.Lock()
	defer mu.Unlock()
	ensureInit()
	f()
}
