package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/ssargent/wpilog/pkg/codec"
	"github.com/ssargent/wpilog/pkg/logfile"
)

type recordOutput struct {
	Offset    int    `json:"offset"`
	EntryID   uint32 `json:"entry_id"`
	Timestamp uint64 `json:"timestamp"`
	Size      int    `json:"size"`
	Kind      string `json:"kind"`
	Detail    string `json:"detail,omitempty"`
	Payload   []byte `json:"payload,omitempty"`
}

// recordsCmd represents the records command
var recordsCmd = &cobra.Command{
	Use:   "records <file>",
	Short: "List the raw records of a log in file order",
	Long: `List every record of a log as framed on disk, without attributing data
records to entries. Control records are decoded; data payloads are shown as
hex.

Examples:
  wpilog records match.wpilog --limit 50
  wpilog records match.wpilog --control`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		controlOnly, _ := cmd.Flags().GetBool("control")

		opts, err := container.ParseOptions()
		if err != nil {
			return err
		}
		dec := opts.Decoder

		f, err := logfile.Open(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		buf := f.Bytes()
		_, off, err := dec.DecodeHeader(buf)
		if err != nil {
			return fmt.Errorf("failed to decode header: %w", err)
		}

		var out []recordOutput
		fr := dec.NewFramer(buf, off)
		for fr.Next() {
			if limit > 0 && len(out) >= limit {
				break
			}
			rec := fr.Record()
			if controlOnly && !rec.IsControl() {
				continue
			}
			ro, err := describeRecord(dec, rec)
			if err != nil {
				return err
			}
			out = append(out, ro)
		}
		if err := fr.Err(); err != nil {
			return fmt.Errorf("failed to frame records: %w", err)
		}

		if outputJSON(cmd) {
			return writeJSON(cmd.OutOrStdout(), out)
		}

		w := newTable(cmd.OutOrStdout())
		defer w.Flush()

		fmt.Fprintln(w, "OFFSET\tID\tTIMESTAMP\tSIZE\tKIND\tDETAIL")
		for _, r := range out {
			detail := r.Detail
			if r.Kind == "data" {
				detail = previewHex(r.Payload)
			}
			fmt.Fprintf(w, "%d\t%d\t%d\t%d\t%s\t%s\n", r.Offset, r.EntryID, r.Timestamp, r.Size, r.Kind, detail)
		}
		return nil
	},
}

func describeRecord(dec codec.Decoder, rec codec.RawRecord) (recordOutput, error) {
	ro := recordOutput{
		Offset:    rec.Offset,
		EntryID:   rec.EntryID,
		Timestamp: rec.Timestamp,
		Size:      len(rec.Payload),
		Kind:      "data",
	}
	if !rec.IsControl() {
		ro.Payload = rec.Payload
		return ro, nil
	}

	ctrl, err := dec.DecodeControl(rec)
	if err != nil {
		return recordOutput{}, err
	}
	ro.Kind = ctrl.Type().String()
	switch c := ctrl.(type) {
	case codec.Start:
		ro.Detail = fmt.Sprintf("id=%d name=%q type=%q metadata=%q", c.EntryID, c.Name, c.TypeName, c.Metadata)
	case codec.Finish:
		ro.Detail = fmt.Sprintf("id=%d", c.EntryID)
	case codec.SetMetadata:
		ro.Detail = fmt.Sprintf("id=%d metadata=%q", c.EntryID, c.Metadata)
	}
	return ro, nil
}

func init() {
	rootCmd.AddCommand(recordsCmd)
	addDecodeFlags(recordsCmd)
	recordsCmd.Flags().Int("limit", 0, "Maximum number of records to list (0 for all)")
	recordsCmd.Flags().Bool("control", false, "Only list control records")
}
