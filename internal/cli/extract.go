package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/jmylchreest/hexit/internal/api"
	"github.com/jmylchreest/hexit/internal/colour"
	"github.com/jmylchreest/hexit/internal/config"
	imageutil "github.com/jmylchreest/hexit/internal/image"
	"github.com/jmylchreest/hexit/internal/service"
)

const previewWidth = 4

type extractOptions struct {
	policy   string
	format   string
	swatches bool
}

func newExtractCmd(global *globalOptions) *cobra.Command {
	opts := &extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract <url>",
		Short: "Extract the dominant colours of a remote image",
		Long: `Fetch the image at <url>, extract its swatches and print the ranked
colours, one per line.

Colour blocks are drawn only when stdout is a terminal.

Supported image formats: ` + strings.Join(imageutil.SupportedFormats(), ", ") + `

Examples:
  # Print up to two colours
  hexit extract https://example.com/photo.jpg

  # Rank by dominance instead of swatch priority
  hexit extract --policy dominance https://example.com/photo.jpg

  # Show every swatch the extractor found
  hexit extract --swatches https://example.com/photo.jpg

  # Same response body as GET /v2
  hexit extract --format json https://example.com/photo.jpg`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, global, opts, args[0])
		},
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "hex", "output format (hex, json)")
	cmd.Flags().BoolVar(&opts.swatches, "swatches", false, "also print every extracted swatch")
	addPolicyFlag(cmd.Flags(), &opts.policy)

	return cmd
}

func runExtract(cmd *cobra.Command, global *globalOptions, opts *extractOptions, imageURL string) error {
	if opts.format != "hex" && opts.format != "json" {
		return fmt.Errorf("invalid format: %s (valid: hex, json)", opts.format)
	}

	cfg, logger, err := global.setup(cmd, func(cfg *config.Config) {
		applyPolicy(cmd.Flags(), opts.policy, cfg)
	})
	if err != nil {
		return err
	}

	svc, err := newColourService(cfg, logger)
	if err != nil {
		return err
	}

	detail, err := svc.Detail(cmd.Context(), imageURL)
	if err != nil {
		_, msg := api.Classify(err)
		logger.Debug("extraction failed", "url", imageURL, "error", err)
		return fmt.Errorf("%s (%w)", msg, err)
	}

	out := cmd.OutOrStdout()
	if opts.format == "json" {
		return writeJSON(out, detail, opts.swatches)
	}
	writeHex(out, detail, opts.swatches, isTerminal(out))
	return nil
}

func writeJSON(w io.Writer, detail *service.Detail, withSwatches bool) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if withSwatches {
		return enc.Encode(detail)
	}
	return enc.Encode(detail.ColorResult)
}

func writeHex(w io.Writer, detail *service.Detail, withSwatches, colourise bool) {
	for _, hex := range detail.Colors {
		if colourise {
			if rgb, err := colour.ParseHex(hex); err == nil {
				fmt.Fprintf(w, "%s %s\n", colour.ColourPreview(rgb, previewWidth), hex)
				continue
			}
		}
		fmt.Fprintln(w, hex)
	}

	if !withSwatches {
		return
	}

	headers := []string{"Swatch", "Hex", "RGB", "Population"}
	if colourise {
		headers = append(headers, "Preview")
	}
	table := NewTable(headers...)
	for _, sw := range detail.Swatches.Present() {
		rgb, err := sw.RGB()
		if err != nil {
			continue
		}
		row := []string{sw.Name.String(), sw.Hex, rgb.String(), humanize.Comma(int64(sw.Population))}
		if colourise {
			row = append(row, colour.ColourPreviewWithText(rgb, sw.Hex, 0))
		}
		table.AddRow(row...)
	}
	fmt.Fprintln(w)
	fmt.Fprint(w, table.Render())
}

// isTerminal reports whether w is a terminal; buffers and pipes are not.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
