// Command vikeyctl drives internal/engine from the command line: it
// feeds a literal key sequence through the engine and prints the
// resulting render plus the per-keystroke (commit, backspace) trace,
// useful for scripting spec scenarios without a host daemon.
package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/username/goviet-ime/internal/config"
	"github.com/username/goviet-ime/internal/dictionary"
	"github.com/username/goviet-ime/internal/engine"
	"github.com/username/goviet-ime/internal/keys"
	"github.com/username/goviet-ime/internal/shortcut"
)

var (
	methodFlag  string
	traceFlag   bool
	historyFlag bool
)

func main() {
	root := &cobra.Command{
		Use:   "vikeyctl",
		Short: "Exercise the goviet-ime engine from the command line",
	}

	typeCmd := &cobra.Command{
		Use:   "type <sequence>",
		Short: "Feed a literal key sequence through the engine and print the result",
		Args:  cobra.ExactArgs(1),
		RunE:  runType,
	}
	typeCmd.Flags().StringVar(&methodFlag, "method", "telex", "keyboard convention: telex or vni")
	typeCmd.Flags().BoolVar(&traceFlag, "trace", false, "print the (commit, backspace) edit for every keystroke")
	typeCmd.Flags().BoolVar(&historyFlag, "history", false, "print the engine's recorded keystroke history after typing")

	root.AddCommand(typeCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func runType(cmd *cobra.Command, args []string) error {
	method, err := parseMethod(methodFlag)
	if err != nil {
		return err
	}

	cfg := config.Default()
	cfg.Method = method
	eng := engine.New(cfg, dictionary.Default(), shortcut.Defaults())

	var rendered strings.Builder
	for _, r := range args[0] {
		ev := engine.KeyEvent{Key: keys.FromRune(r), Upper: r >= 'A' && r <= 'Z'}
		res := eng.ProcessKey(ev)

		if traceFlag {
			fmt.Fprintf(cmd.OutOrStdout(), "key=%q backspace=%d commit=%q pass_through=%v\n",
				r, res.Backspace, res.Commit, res.PassThrough)
		}

		if res.PassThrough {
			// The engine made no edit of its own; a real host types the
			// raw key itself into the field.
			rendered.WriteRune(r)
			continue
		}

		if res.Backspace > 0 {
			current := rendered.String()
			runes := []rune(current)
			if res.Backspace > len(runes) {
				runes = nil
			} else {
				runes = runes[:len(runes)-res.Backspace]
			}
			rendered.Reset()
			rendered.WriteString(string(runes))
		}
		rendered.WriteString(res.Commit)
	}

	fmt.Fprintln(cmd.OutOrStdout(), rendered.String())

	if historyFlag {
		for _, entry := range eng.History() {
			fmt.Fprintf(cmd.OutOrStdout(), "raw=%q output=%q\n", string(runesOf(entry.Raw)), entry.Output)
		}
	}
	return nil
}

func runesOf(ks []keys.Key) []rune {
	out := make([]rune, len(ks))
	for i, k := range ks {
		out[i] = rune(k)
	}
	return out
}

func parseMethod(s string) (config.MethodID, error) {
	switch strings.ToLower(s) {
	case "telex":
		return config.MethodTelex, nil
	case "vni":
		return config.MethodVNI, nil
	default:
		return 0, fmt.Errorf("unknown method %q: must be telex or vni", s)
	}
}
