package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ssargent/wpilog/pkg/wpilog"
)

type entryOutput struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Metadata string `json:"metadata"`
	Values   int    `json:"values"`
}

type valueOutput struct {
	Timestamp uint64 `json:"timestamp"`
	Size      int    `json:"size"`
	Payload   []byte `json:"payload"`
}

// entriesCmd represents the entries command
var entriesCmd = &cobra.Command{
	Use:   "entries <file>",
	Short: "List the entries of a log",
	Long: `List every entry of a log in the order it was first started, with its
type, metadata and number of values.

Examples:
  wpilog entries match.wpilog
  wpilog entries match.wpilog --prefix /drive -o json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		prefix, _ := cmd.Flags().GetString("prefix")

		log, f, err := openLog(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var out []entryOutput
		log.Range(func(e *wpilog.Entry) bool {
			if strings.HasPrefix(e.Name(), prefix) {
				out = append(out, entryOutput{
					Name:     e.Name(),
					Type:     e.Type(),
					Metadata: e.Metadata(),
					Values:   e.Len(),
				})
			}
			return true
		})

		if outputJSON(cmd) {
			return writeJSON(cmd.OutOrStdout(), out)
		}
		if len(out) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No entries found")
			return nil
		}

		heading(cmd.OutOrStdout(), "%s: %d entries", args[0], len(out))
		w := newTable(cmd.OutOrStdout())
		defer w.Flush()

		fmt.Fprintln(w, "NAME\tTYPE\tVALUES\tMETADATA")
		for _, e := range out {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Name, e.Type, e.Values, truncate(e.Metadata, 40))
		}
		return nil
	},
}

// valuesCmd represents the values command
var valuesCmd = &cobra.Command{
	Use:   "values <file> <entry>",
	Short: "Print the values of one entry",
	Long: `Print the timestamp and raw payload of every value of an entry. Payloads
are shown as hex; they are not interpreted according to the entry type.

Example:
  wpilog values match.wpilog /drive/left/speed --limit 20`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")

		log, f, err := openLog(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		e, ok := log.Entry(args[1])
		if !ok {
			return fmt.Errorf("entry %q not found in %s", args[1], args[0])
		}

		values := e.Values()
		if limit > 0 && len(values) > limit {
			values = values[:limit]
		}

		if outputJSON(cmd) {
			out := make([]valueOutput, len(values))
			for i, v := range values {
				out[i] = valueOutput{Timestamp: v.Timestamp, Size: len(v.Payload), Payload: v.Payload}
			}
			return writeJSON(cmd.OutOrStdout(), out)
		}

		heading(cmd.OutOrStdout(), "%s (%s): %d values", e.Name(), e.Type(), e.Len())
		w := newTable(cmd.OutOrStdout())
		defer w.Flush()

		fmt.Fprintln(w, "TIMESTAMP\tSIZE\tPAYLOAD")
		for _, v := range values {
			fmt.Fprintf(w, "%d\t%d\t%s\n", v.Timestamp, len(v.Payload), previewHex(v.Payload))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(entriesCmd)
	rootCmd.AddCommand(valuesCmd)

	addDecodeFlags(entriesCmd)
	entriesCmd.Flags().String("prefix", "", "Only list entries whose name starts with this prefix")

	addDecodeFlags(valuesCmd)
	valuesCmd.Flags().Int("limit", 0, "Maximum number of values to print (0 for all)")
}
