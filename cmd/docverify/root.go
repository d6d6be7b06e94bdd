package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"docverify/internal/config"
	googlevision "docverify/internal/google-vision"
	"docverify/internal/identity"
	"docverify/internal/logging"
	"docverify/internal/ocr"
	"docverify/internal/ocr/tesseract"
)

// Version is set via ldflags during build.
var Version = "dev"

func newRootCmd() *cobra.Command {
	var (
		logLevel string
		pretty   bool
	)

	root := &cobra.Command{
		Use:   "docverify",
		Short: "Verify Aadhar and PAN numbers from card images or typed input",
		Long: `docverify validates Indian identity-document numbers.

Aadhar numbers are checked with the Verhoeff checksum, PAN numbers against
their fixed structure and holder-type code. Numbers can be typed or read
from a photo of the card.

  docverify serve                       Run the HTTP API
  docverify check pan ABCPE1234F        Validate a typed number
  docverify scan aadhar card.jpg        Validate the number on a card image`,
		Version:      Version,
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if cmd.Flags().Changed("log-level") || cmd.Flags().Changed("pretty") {
				logging.Init(logLevel, pretty)
			}
		},
	}

	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level: trace, debug, info, warn, error")
	root.PersistentFlags().BoolVar(&pretty, "pretty", false, "human-readable console logs")

	root.AddCommand(newServeCmd(), newCheckCmd(), newScanCmd())
	return root
}

func documentArg(arg string) (identity.Verifier, error) {
	doc, ok := identity.ParseDocumentType(arg)
	if !ok {
		return nil, fmt.Errorf("unknown document type %q (want aadhar or pan)", arg)
	}
	v, _ := identity.For(doc)
	return v, nil
}

func validDocArgs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) == 0 {
		return []string{"aadhar", "pan"}, cobra.ShellCompDirectiveNoFileComp
	}
	return nil, cobra.ShellCompDirectiveDefault
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// newDetector builds the configured OCR engine. The returned close func is
// never nil.
func newDetector(ctx context.Context, cfg config.OCRConfig) (ocr.Detector, func() error, error) {
	noop := func() error { return nil }

	switch strings.ToLower(cfg.Engine) {
	case config.EngineVision:
		c, err := googlevision.New(ctx, cfg.CredentialsFile, cfg.Timeout)
		if err != nil {
			return nil, noop, err
		}
		return c, c.Close, nil
	case config.EngineTesseract:
		e, err := tesseract.New(cfg.Languages)
		if err != nil {
			return nil, noop, err
		}
		return ocr.WithTimeout(e, cfg.Timeout), noop, nil
	default:
		log.Warn().Msg("OCR disabled; only typed numbers can be verified")
		return ocr.Unavailable, noop, nil
	}
}
