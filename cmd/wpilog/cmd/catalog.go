package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/ssargent/wpilog/pkg/catalog"
)

// catalogCmd represents the catalog command group
var catalogCmd = &cobra.Command{
	Use:   "catalog",
	Short: "Manage the catalog of parsed logs",
	Long: `The catalog remembers a summary of every log added to it: header
metadata, record counts and the entry directory. Adding the same path again
refreshes its summary.`,
}

var catalogAddCmd = &cobra.Command{
	Use:   "add <file>...",
	Short: "Parse logs and add their summaries to the catalog",
	Long: `Parse each log and store its summary in the catalog.

Example:
  wpilog catalog add logs/*.wpilog`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := container.OpenCatalog()
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer cat.Close()

		for _, path := range args {
			abs, err := filepath.Abs(path)
			if err != nil {
				return fmt.Errorf("invalid path %s: %w", path, err)
			}

			log, f, err := openLog(abs)
			if err != nil {
				return err
			}
			summary := catalog.Summarize(abs, log)
			if err := f.Close(); err != nil {
				return err
			}

			added, err := cat.Add(summary)
			if err != nil {
				return fmt.Errorf("failed to catalog %s: %w", path, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s %s (%d entries)\n",
				successColor.Sprint("added"), added.ID, abs, len(added.Entries))
		}
		return nil
	},
}

var catalogListCmd = &cobra.Command{
	Use:   "list",
	Short: "List cataloged logs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := container.OpenCatalog()
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer cat.Close()

		summaries, err := cat.List()
		if err != nil {
			return err
		}

		if outputJSON(cmd) {
			return writeJSON(cmd.OutOrStdout(), summaries)
		}
		if len(summaries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No logs cataloged")
			return nil
		}

		w := newTable(cmd.OutOrStdout())
		defer w.Flush()

		fmt.Fprintln(w, "ID\tPATH\tVERSION\tENTRIES\tRECORDS\tADDED")
		for _, s := range summaries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%d\t%s\n",
				s.ID, truncate(s.Path, 50), s.Version, len(s.Entries), s.Stats.Records,
				s.AddedAt.Local().Format("2006-01-02 15:04"))
		}
		return nil
	},
}

var catalogShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a cataloged log and its entries",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := catalog.ParseID(args[0])
		if err != nil {
			return err
		}

		cat, err := container.OpenCatalog()
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer cat.Close()

		s, err := cat.Get(id)
		if err != nil {
			return err
		}

		if outputJSON(cmd) {
			return writeJSON(cmd.OutOrStdout(), s)
		}

		out := cmd.OutOrStdout()
		w := newTable(out)
		label := labelColor.SprintFunc()
		fmt.Fprintf(w, "%s\t%s\n", label("ID:"), s.ID)
		fmt.Fprintf(w, "%s\t%s\n", label("Path:"), s.Path)
		fmt.Fprintf(w, "%s\t%s\n", label("Version:"), s.Version)
		fmt.Fprintf(w, "%s\t%q\n", label("Metadata:"), s.Metadata)
		fmt.Fprintf(w, "%s\t%d\n", label("Records:"), s.Stats.Records)
		fmt.Fprintf(w, "%s\t%d\n", label("Orphans:"), s.Stats.Orphans)
		fmt.Fprintf(w, "%s\t%s\n", label("Added:"), s.AddedAt.Format(time.RFC3339))
		if err := w.Flush(); err != nil {
			return err
		}

		if len(s.Entries) == 0 {
			return nil
		}
		fmt.Fprintln(out)
		heading(out, "%d entries", len(s.Entries))
		w = newTable(out)
		defer w.Flush()
		fmt.Fprintln(w, "NAME\tTYPE\tVALUES\tMIN TS\tMAX TS")
		for _, e := range s.Entries {
			fmt.Fprintf(w, "%s\t%s\t%d\t%d\t%d\n", e.Name, e.Type, e.Values, e.MinTS, e.MaxTS)
		}
		return nil
	},
}

var catalogRmCmd = &cobra.Command{
	Use:     "rm <id>...",
	Aliases: []string{"delete"},
	Short:   "Remove logs from the catalog",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cat, err := container.OpenCatalog()
		if err != nil {
			return fmt.Errorf("failed to open catalog: %w", err)
		}
		defer cat.Close()

		for _, arg := range args {
			id, err := catalog.ParseID(arg)
			if err != nil {
				return err
			}
			if err := cat.Delete(id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", successColor.Sprint("removed"), id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(catalogCmd)
	catalogCmd.AddCommand(catalogAddCmd)
	catalogCmd.AddCommand(catalogListCmd)
	catalogCmd.AddCommand(catalogShowCmd)
	catalogCmd.AddCommand(catalogRmCmd)

	addDecodeFlags(catalogAddCmd)
}
