package cmd

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/ssargent/wpilog/pkg/config"
	"github.com/ssargent/wpilog/pkg/logfile"
	"github.com/ssargent/wpilog/pkg/wpilog"
)

// addDecodeFlags registers the parser flags shared by every command that
// reads a log file
func addDecodeFlags(cmd *cobra.Command) {
	cmd.Flags().String("mode", "", "Decode mode (safe or fast)")
	cmd.Flags().String("orphans", "", "Orphan record policy (drop or error)")
	cmd.Flags().Bool("copy-strings", false, "Copy strings out of the input buffer")
	cmd.Flags().Bool("allow-any-version", false, "Accept format versions other than 1.0")
}

func applyDecodeFlags(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Lookup("mode") == nil {
		return
	}
	if flags.Changed("mode") {
		cfg.Decode.Mode, _ = flags.GetString("mode")
	}
	if flags.Changed("orphans") {
		cfg.Decode.Orphans, _ = flags.GetString("orphans")
	}
	if flags.Changed("copy-strings") {
		cfg.Decode.CopyStrings, _ = flags.GetBool("copy-strings")
	}
	if flags.Changed("allow-any-version") {
		cfg.Decode.AllowAnyVersion, _ = flags.GetBool("allow-any-version")
	}
}

// openLog loads and parses the log at path. The returned Log may borrow
// from the file, so the file must be closed only after the Log is done with.
func openLog(path string) (*wpilog.Log, *logfile.File, error) {
	opts, err := container.ParseOptions()
	if err != nil {
		return nil, nil, err
	}

	f, err := logfile.Open(path)
	if err != nil {
		return nil, nil, err
	}

	log, err := wpilog.Parse(f.Bytes(), opts)
	if err != nil {
		_ = f.Close()
		return nil, nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	container.GetLogger().Debug("parsed log",
		slog.String("path", path),
		slog.Bool("mapped", f.Mapped()),
		slog.Bool("compressed", f.Compressed()),
		slog.Int("entries", log.Len()),
		slog.Int("orphans", log.Stats().Orphans))
	return log, f, nil
}
