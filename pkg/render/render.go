package render

import (
	"context"

	"github.com/matzehuels/forcefield/pkg/errors"
	"github.com/matzehuels/forcefield/pkg/graph"
)

// Format constants for output formats.
const (
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatDOT = "dot"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatSVG: true,
	FormatPNG: true,
	FormatDOT: true,
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidFormat,
			"invalid format: %q (must be one of: svg, png, dot)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// Options configures the format-dispatching Render entry point.
type Options struct {
	// Labels draws node labels in SVG output.
	Labels bool
}

// Render produces a single output format for a positioned graph.
func Render(ctx context.Context, g *graph.Graph, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatSVG:
		var svgOpts []SVGOption
		if opts.Labels {
			svgOpts = append(svgOpts, WithLabels())
		}
		return RenderSVG(g, svgOpts...), nil
	case FormatDOT:
		return []byte(ToDOT(g)), nil
	case FormatPNG:
		return RenderPNG(ctx, ToDOT(g))
	default:
		return nil, ValidateFormat(format)
	}
}
