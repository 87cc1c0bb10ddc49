package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/smith3v/impostor/pkg/importexport"
	"github.com/spf13/cobra"
)

func newImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file|->",
		Short: "Import a JSON word pack; nothing is written unless every item is valid",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				data []byte
				err  error
			)
			if args[0] == "-" {
				data, err = io.ReadAll(cmd.InOrStdin())
			} else {
				data, err = os.ReadFile(args[0])
			}
			if err != nil {
				return fmt.Errorf("read pack: %w", err)
			}

			result, err := importexport.ImportWords(cmd.Context(), a.store, data)
			if err != nil {
				return fmt.Errorf("import failed, nothing was changed: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d new words, updated %d words\n", result.Inserted, result.Updated)
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		categoryIDs []uint
		out         string
		qrOut       string
		qrSize      int
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the words of some categories as a JSON pack",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			data, count, err := importexport.ExportWords(cmd.Context(), a.store, categoryIDs)
			if err != nil {
				return err
			}

			if out == "-" {
				if _, err := cmd.OutOrStdout().Write(data); err != nil {
					return err
				}
			} else {
				if out == "" {
					out = importexport.ExportFilename(time.Now())
				}
				if err := os.WriteFile(out, data, 0o644); err != nil {
					return fmt.Errorf("write pack: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "exported %d words to %s\n", count, out)
			}

			if qrOut == "" {
				return nil
			}
			png, err := importexport.EncodeQR(data, qrSize)
			if err != nil {
				return err
			}
			if err := os.WriteFile(qrOut, png, 0o644); err != nil {
				return fmt.Errorf("write qr code: %w", err)
			}
			if out != "-" {
				fmt.Fprintf(cmd.OutOrStdout(), "wrote QR code to %s\n", qrOut)
			}
			return nil
		},
	}

	fs := cmd.Flags()
	fs.UintSliceVar(&categoryIDs, "category", nil, "category ids to export, e.g. --category 1,2 (env: IMPOSTOR_CATEGORY)")
	fs.StringVarP(&out, "out", "o", "", "output file, - for stdout (default impostor-pack-YYYYMMDD.json)")
	fs.StringVar(&qrOut, "qr", "", "also write the pack as a PNG QR code to this file")
	fs.IntVar(&qrSize, "qr-size", importexport.DefaultQRSize, "QR code size in pixels")
	bindEnv(fs)
	return cmd
}
