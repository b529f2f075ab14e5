package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/JonMunkholm/inventory/internal/core"
	"github.com/spf13/cobra"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newPreviewCmd() *cobra.Command {
	var offline bool

	cmd := &cobra.Command{
		Use:   "preview <file>",
		Short: "Classify a CSV without writing anything",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, offline)
			if err != nil {
				return err
			}
			defer sess.close()

			data, err := readCSVFile(args[0], sess.cfg.Import.MaxFileSize)
			if err != nil {
				return userError(err)
			}
			result, err := sess.service.Preview(ctx, data)
			if err != nil {
				return userError(err)
			}
			return writeJSON(cmd.OutOrStdout(), result)
		},
	}
	cmd.Flags().BoolVar(&offline, "offline", false, "Preview against an empty in-memory inventory instead of the database")
	return cmd
}

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a CSV in one step, updating records by serial number",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, false)
			if err != nil {
				return err
			}
			defer sess.close()

			data, err := readCSVFile(args[0], sess.cfg.Import.MaxFileSize)
			if err != nil {
				return userError(err)
			}
			result, err := sess.service.LegacyImport(ctx, data)
			if err != nil {
				return userError(err)
			}
			if err := writeJSON(cmd.OutOrStdout(), result); err != nil {
				return err
			}
			if result.Failed > 0 {
				return fmt.Errorf("%d of %d rows failed", result.Failed, result.TotalRows)
			}
			return nil
		},
	}
	return cmd
}

func newExportCmd() *cobra.Command {
	var (
		includeDeleted bool
		output         string
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write every record as CSV",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			sess, err := openSession(ctx, false)
			if err != nil {
				return err
			}
			defer sess.close()

			var w io.Writer = cmd.OutOrStdout()
			if output != "" {
				if output == "auto" {
					output = core.ExportFileName(time.Now())
				}
				f, err := os.Create(output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			n, err := sess.service.Export(ctx, w, includeDeleted)
			if err != nil {
				return userError(err)
			}
			if output != "" {
				fmt.Fprintf(cmd.ErrOrStderr(), "exported %d records to %s\n", n, output)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&includeDeleted, "include-deleted", false, "Include soft-deleted records")
	cmd.Flags().StringVarP(&output, "output", "o", "", `Output file ("auto" for the dated default name; stdout when empty)`)
	return cmd
}
