package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/wpilog/pkg/wpilog"
)

type infoOutput struct {
	Path       string       `json:"path"`
	Version    string       `json:"version"`
	Metadata   string       `json:"metadata"`
	Compressed bool         `json:"compressed"`
	Stats      wpilog.Stats `json:"stats"`
}

// infoCmd represents the info command
var infoCmd = &cobra.Command{
	Use:   "info <file>",
	Short: "Show the header and record counts of a log",
	Long: `Show the format version, header metadata and record counts of a log.

Example:
  wpilog info match.wpilog`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		log, f, err := openLog(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		out := infoOutput{
			Path:       args[0],
			Version:    log.Header().String(),
			Metadata:   log.Metadata(),
			Compressed: f.Compressed(),
			Stats:      log.Stats(),
		}
		if outputJSON(cmd) {
			return writeJSON(cmd.OutOrStdout(), out)
		}

		w := newTable(cmd.OutOrStdout())
		defer w.Flush()

		label := labelColor.SprintFunc()
		fmt.Fprintf(w, "%s\t%s\n", label("Path:"), out.Path)
		fmt.Fprintf(w, "%s\t%s\n", label("Version:"), out.Version)
		fmt.Fprintf(w, "%s\t%q\n", label("Metadata:"), out.Metadata)
		fmt.Fprintf(w, "%s\t%d\n", label("Bytes:"), out.Stats.Bytes)
		fmt.Fprintf(w, "%s\t%t\n", label("Compressed:"), out.Compressed)
		fmt.Fprintf(w, "%s\t%d\n", label("Entries:"), out.Stats.Entries)
		fmt.Fprintf(w, "%s\t%d (%d control, %d data)\n", label("Records:"),
			out.Stats.Records, out.Stats.ControlRecords, out.Stats.DataRecords)
		fmt.Fprintf(w, "%s\t%d\n", label("Orphans:"), out.Stats.Orphans)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	addDecodeFlags(infoCmd)
}
