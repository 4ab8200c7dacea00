// Command daemon is the D-Bus session-bus host binding: it wires
// internal/engine to an Fcitx5-style frontend, the same shape as the
// teacher's InputEngine, generalized to drive the full spec engine and
// to load persisted settings before serving.
package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/adrg/xdg"
	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/username/goviet-ime/internal/config"
	"github.com/username/goviet-ime/internal/dictionary"
	"github.com/username/goviet-ime/internal/engine"
	"github.com/username/goviet-ime/internal/keys"
	"github.com/username/goviet-ime/internal/shortcut"
)

const (
	serviceName = "com.github.goviet.ime"
	objectPath  = "/Engine"
	configName  = "goviet-ime/settings.json"
)

// InputEngine is the D-Bus object that receives key events from Fcitx5.
type InputEngine struct {
	engine *engine.Engine
}

// ProcessKey handles key events from the Fcitx5 frontend.
// Input: keysym (X11 keycode), modifiers (Shift/Ctrl/Alt state).
// Output: handled (was key consumed), commitText, backspace count.
func (e *InputEngine) ProcessKey(keysym uint32, modifiers uint32) (bool, string, int, *dbus.Error) {
	ev := engine.KeyEvent{
		Key:   keysymToKey(keysym),
		Upper: modifiers&modShift != 0,
		Mod:   modifiers&(modControl|modMod1) != 0,
	}
	result := e.engine.ProcessKey(ev)

	log.Debug().
		Uint32("keysym", keysym).
		Uint32("modifiers", modifiers).
		Str("commit", result.Commit).
		Int("backspace", result.Backspace).
		Bool("pass_through", result.PassThrough).
		Msg("key processed")

	return !result.PassThrough, result.Commit, result.Backspace, nil
}

// Reset clears the current composition state at a word boundary.
func (e *InputEngine) Reset() *dbus.Error {
	e.engine.Clear()
	log.Info().Msg("engine reset")
	return nil
}

// SetEnabled enables or disables the engine.
func (e *InputEngine) SetEnabled(enabled bool) *dbus.Error {
	e.engine.SetEnabled(enabled)
	log.Info().Bool("enabled", enabled).Msg("engine enabled state changed")
	return nil
}

// X11 modifier bits and a minimal keysym translation table. Real
// per-host scan-code translation is an external collaborator per
// spec.md §1; this covers just enough of the common X11 keysym range
// to drive the daemon end to end.
const (
	modShift   = 1 << 0
	modControl = 1 << 2
	modMod1    = 1 << 3
)

const (
	xkBackSpace = 0xff08
	xkTab       = 0xff09
	xkReturn    = 0xff0d
	xkEscape    = 0xff1b
)

func keysymToKey(sym uint32) keys.Key {
	switch {
	case sym == xkBackSpace:
		return keys.Backspace
	case sym == xkTab:
		return keys.Tab
	case sym == xkReturn:
		return keys.Enter
	case sym == xkEscape:
		return keys.Escape
	case sym == ' ':
		return keys.Space
	case sym >= 0x20 && sym <= 0x7e:
		return keys.FromRune(rune(sym))
	default:
		return keys.None
	}
}

func loadSettings() config.Settings {
	path, err := xdg.ConfigFile(configName)
	if err != nil {
		log.Warn().Err(err).Msg("could not resolve config path, using defaults")
		return config.Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Str("path", path).Msg("could not read config, using defaults")
		}
		return config.Default()
	}
	var settings config.Settings
	if err := json.Unmarshal(data, &settings); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not parse config, using defaults")
		return config.Default()
	}
	return settings
}

func applySettings(e *engine.Engine, s config.Settings) {
	e.SetMethod(s.Method)
	e.SetEnabled(s.Enabled)
	e.SetModernTone(s.ModernTone)
	e.SetEscRestore(s.EscRestore)
	e.SetEnglishAutoRestore(s.EnglishAutoRestore)
	e.SetAutoCapitalize(s.AutoCapitalize)
	e.SetFreeTone(s.FreeTone)
	e.SetSkipWShortcut(s.SkipWShortcut)
	e.SetBracketShortcut(s.BracketShortcut)
	e.SetAllowForeignConsonants(s.AllowForeignConsonants)
	e.ClearShortcuts()
	for _, sc := range s.Shortcuts {
		e.AddShortcut(sc.Trigger, sc.Replacement)
	}
}

func main() {
	zerolog.SetGlobalLevel(zerolog.InfoLevel)
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	// 1. Load settings, then apply them to a fresh engine, matching
	// the original app's "load and apply settings, then serve" order.
	settings := loadSettings()
	eng := engine.New(settings, dictionary.Default(), shortcut.Defaults())
	applySettings(eng, settings)

	// 2. Connect to the session bus.
	conn, err := dbus.SessionBus()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to session bus")
	}
	defer conn.Close()

	// 3. Register the service name.
	reply, err := conn.RequestName(serviceName, dbus.NameFlagDoNotQueue)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to request name")
	}
	if reply != dbus.RequestNameReplyPrimaryOwner {
		log.Fatal().Msg("name already taken - another instance may be running")
	}

	// 4. Export the engine.
	inputEngine := &InputEngine{engine: eng}
	if err := conn.Export(inputEngine, dbus.ObjectPath(objectPath), serviceName); err != nil {
		log.Fatal().Err(err).Msg("failed to export object")
	}

	log.Info().
		Str("service", serviceName).
		Str("object_path", objectPath).
		Str("method", methodName(settings.Method)).
		Msg("goviet-ime daemon running")

	// 5. Handle graceful shutdown.
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan
	log.Info().Msg("shutting down")
}

func methodName(id config.MethodID) string {
	if id == config.MethodVNI {
		return "VNI"
	}
	return "Telex"
}
