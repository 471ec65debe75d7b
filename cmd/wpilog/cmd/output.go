package cmd

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

const previewBytes = 16

var (
	headingColor = color.New(color.FgCyan, color.Bold)
	labelColor   = color.New(color.Bold)
	successColor = color.New(color.FgGreen)
)

// setupColor decides whether output is colorized. In auto mode color is
// used only when writing to a terminal.
func setupColor(mode string, out io.Writer) error {
	switch mode {
	case "always":
		color.NoColor = false
	case "never":
		color.NoColor = true
	case "", "auto":
		f, ok := out.(*os.File)
		color.NoColor = !ok || !(isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd()))
	default:
		return fmt.Errorf("invalid --color value %q", mode)
	}
	return nil
}

func validateOutput(format string) error {
	switch format {
	case "table", "json":
		return nil
	default:
		return fmt.Errorf("invalid --output value %q (use table or json)", format)
	}
}

func outputJSON(cmd *cobra.Command) bool {
	format, _ := cmd.Flags().GetString("output")
	return format == "json"
}

func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func heading(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, headingColor.Sprintf(format, args...))
}

// previewHex renders at most previewBytes of payload as hex
func previewHex(payload []byte) string {
	if len(payload) <= previewBytes {
		return hex.EncodeToString(payload)
	}
	return hex.EncodeToString(payload[:previewBytes]) + "..."
}

// truncate shortens s to at most n runes, ending in "..." when cut
func truncate(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	r := []rune(s)
	return string(r[:n-3]) + "..."
}
