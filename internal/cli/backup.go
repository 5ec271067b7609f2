package cli

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/p-devianne/flashmind/internal/backup"
)

func newExportCommand(e *env) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every topic and card to a backup file",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := backup.ParseFormat(format)
			if err != nil {
				return err
			}
			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			doc, err := a.BackupService.Export(cmd.Context())
			if err != nil {
				return err
			}

			if out == "" {
				return backup.Encode(e.out, doc, f)
			}
			file, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", out, err)
			}
			if err := backup.Encode(file, doc, f); err != nil {
				_ = file.Close()
				return err
			}
			if err := file.Close(); err != nil {
				return err
			}
			e.printf("Exported %d topics and %d cards to %s\n", len(doc.Topics), len(doc.Cards), out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "json", "backup format: json or yaml")
	cmd.Flags().StringVarP(&out, "out", "o", "",
		fmt.Sprintf("output file, e.g. %s (default stdout)", backup.FileName(time.Now(), backup.FormatJSON)))
	return cmd
}

func newImportCommand(e *env) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import topics and cards from a JSON, YAML or CSV file",
		Long: `Import topics and cards. Existing ids are skipped, never overwritten, so
importing the same file twice adds nothing the second time.

CSV files need either question,answer[,topic] or name[,emoji] columns.
The format is taken from the file extension unless --format is given.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			doc, err := decode(args[0], file, format)
			if err != nil {
				return err
			}

			a, err := e.open(cmd.Context())
			if err != nil {
				return err
			}
			result, err := a.BackupService.Import(cmd.Context(), doc)
			if err != nil {
				return err
			}
			if result.Empty() {
				e.printf("Nothing new to import (%d skipped).\n", result.Skipped)
				return nil
			}
			e.printf("Imported %d topics and %d cards (%d skipped).\n",
				result.TopicsImported, result.CardsImported, result.Skipped)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "", "json, yaml or csv (default from file extension)")
	return cmd
}

func decode(name string, r io.Reader, format string) (*backup.Document, error) {
	if format == "" {
		return backup.DecodeFile(name, r, time.Now())
	}
	f, err := backup.ParseFormat(format)
	if err != nil {
		return nil, err
	}
	return backup.Decode(r, f, time.Now())
}
