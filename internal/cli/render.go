package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/wayfinder/pkg/cache"
	errs "github.com/matzehuels/wayfinder/pkg/errors"
	"github.com/matzehuels/wayfinder/pkg/render"
)

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output    string // output file; stdout when empty or "-"
	format    string // dot, svg or png; inferred from output when empty
	resources bool   // list resources under location names
	noCache   bool   // skip the rendered-diagram cache
}

// renderCommand creates the render command for drawing the working map.
func (c *CLI) renderCommand() *cobra.Command {
	opts := renderOpts{resources: true}

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Draw the working map with Graphviz",
		Example: `  wayfinder render -o map.svg
  wayfinder render --format dot | dot -Tpdf > map.pdf`,
		GroupID: groupMaps,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.withSession(cmd, func(ctx context.Context, e *env) error {
				if !opts.noCache {
					e.cache = newCache()
				}
				return renderMap(ctx, e, opts)
			})
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default stdout)")
	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: dot, svg, png (default from file extension, else dot)")
	cmd.Flags().BoolVar(&opts.resources, "resources", opts.resources, "show resources under location names")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "always run Graphviz, ignoring cached diagrams")

	return cmd
}

// renderAction is the shell form of render: `render [file]`.
func renderAction() action {
	return action{
		name:  "render",
		usage: "[file.dot|file.svg|file.png]",
		short: "Draw the map with Graphviz",
		group: groupMaps,
		args:  cobra.MaximumNArgs(1),
		run: func(ctx context.Context, e *env, args []string) error {
			opts := renderOpts{resources: true}
			if len(args) == 1 {
				opts.output = args[0]
			}
			return renderMap(ctx, e, opts)
		},
	}
}

func renderMap(ctx context.Context, e *env, opts renderOpts) error {
	format := strings.ToLower(opts.format)
	if format == "" {
		format = formatFromPath(opts.output)
	}

	dot := render.ToDOT(e.sess.Snapshot(), render.Options{
		Resources:        opts.resources,
		HighlightCurrent: true,
	})

	data, err := draw(ctx, e.cache, dot, format)
	if err != nil {
		return errs.Wrap(errs.ErrCodeInvalidInput, err, "render %s", format)
	}

	if opts.output == "" || opts.output == "-" {
		_, err := e.out.w.Write(data)
		return err
	}
	if err := os.WriteFile(opts.output, data, 0o644); err != nil {
		return errs.Wrap(errs.ErrCodeInternal, err, "write %s", opts.output)
	}
	e.out.success("Rendered map")
	e.out.file(opts.output)
	return nil
}

// draw lays out dot in format, reusing a cached diagram when the map has
// not changed since it was last drawn.
func draw(ctx context.Context, c cache.Cache, dot, format string) ([]byte, error) {
	if format == render.FormatDOT {
		return []byte(dot), nil
	}

	logger := loggerFromContext(ctx)
	key := cache.RenderKey(dot, format)
	if data, hit, err := c.Get(ctx, key); err == nil && hit {
		logger.Debug("render cache hit", "format", format)
		return data, nil
	}

	prog := newProgress(logger)
	var (
		data []byte
		err  error
	)
	if format == render.FormatSVG {
		data, err = render.RenderSVG(ctx, dot)
	} else {
		data, err = render.Render(ctx, dot, format)
	}
	if err != nil {
		return nil, err
	}
	prog.done("Rendered " + format)

	if err := c.Set(ctx, key, data, cache.RenderTTL); err != nil {
		logger.Warn("render cache write failed", "err", err)
	}
	return data, nil
}

// formatFromPath infers the output format from a file extension,
// defaulting to DOT.
func formatFromPath(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".svg":
		return render.FormatSVG
	case ".png":
		return render.FormatPNG
	default:
		return render.FormatDOT
	}
}
