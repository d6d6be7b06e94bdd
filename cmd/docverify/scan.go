package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"docverify/internal/config"
	"docverify/internal/identity"
	"docverify/internal/ocr"
)

type scanOutput struct {
	identity.Result
	Stage string   `json:"stage"`
	Lines []string `json:"lines,omitempty"`
}

func newScanCmd() *cobra.Command {
	var (
		fromText  bool
		showLines bool
	)

	cmd := &cobra.Command{
		Use:   "scan <aadhar|pan> <file>",
		Short: "Validate the number printed on a card image",
		Long: `Runs OCR on a card image and validates the identifier found in it.

With --from-text the file is read as already-extracted OCR text, one line
per line, and no OCR engine is needed.`,
		Args:              cobra.ExactArgs(2),
		ValidArgsFunction: validDocArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			v, err := documentArg(args[0])
			if err != nil {
				return err
			}
			data, err := os.ReadFile(args[1])
			if err != nil {
				return err
			}

			var lines []string
			if fromText {
				lines = ocr.SplitLines(string(data))
			} else {
				cfg, err := config.Load()
				if err != nil {
					return fmt.Errorf("failed to load configuration: %w", err)
				}
				detector, closeDetector, err := newDetector(cmd.Context(), cfg.OCR)
				if err != nil {
					return err
				}
				defer closeDetector()

				lines, err = detector.DetectText(cmd.Context(), data)
				if err != nil {
					return err
				}
			}

			res, stage := identity.Trace(v.Type(), ocr.Join(lines))
			out := scanOutput{Result: res, Stage: stage.String()}
			if showLines {
				out.Lines = lines
			}
			if err := printJSON(cmd.OutOrStdout(), out); err != nil {
				return err
			}
			if !res.Valid {
				return errNotValid
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fromText, "from-text", false, "treat the file as OCR text instead of an image")
	cmd.Flags().BoolVar(&showLines, "lines", false, "include the detected text lines in the output")
	return cmd
}
