package export

import (
	"context"
	"fmt"
	"path/filepath"

	"golang.org/x/sync/errgroup"

	"github.com/vanderheijden86/healthscatter/pkg/chart"
	"github.com/vanderheijden86/healthscatter/pkg/debug"
)

// DefaultBaseName names exported files when no base name is given.
const DefaultBaseName = "health-scatter"

// AllOptions describes a multi-format export of one session.
type AllOptions struct {
	Dir      string
	BaseName string   // file name without extension
	Formats  []Format // defaults to svg, png and html
	Title    string
	Session  *chart.Session
}

// ExportAll writes every requested format into Dir concurrently and
// returns the written paths in format order.
func ExportAll(ctx context.Context, opts AllOptions) ([]string, error) {
	if opts.Session == nil {
		return nil, fmt.Errorf("export: no chart session")
	}
	if len(opts.Formats) == 0 {
		opts.Formats = []Format{FormatSVG, FormatPNG, FormatHTML}
	}
	if opts.BaseName == "" {
		opts.BaseName = DefaultBaseName
	}
	if opts.Dir == "" {
		opts.Dir = "."
	}

	s := opts.Session
	scene := s.Scene()
	paths := make([]string, len(opts.Formats))

	g, ctx := errgroup.WithContext(ctx)
	for i, f := range opts.Formats {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path := filepath.Join(opts.Dir, opts.BaseName+"."+string(f))
			var err error
			switch f {
			case FormatSVG, FormatPNG:
				err = SaveSnapshot(SnapshotOptions{Path: path, Format: f, Scene: scene, Title: opts.Title})
			case FormatHTML:
				path, err = GenerateInteractiveHTML(InteractiveOptions{
					Path:       path,
					Title:      opts.Title,
					Records:    s.Records(),
					Layout:     s.Options().Layout,
					Style:      s.Options().Style,
					Transition: s.Options().TransitionDuration,
					InitialX:   s.ActiveX(),
					InitialY:   s.ActiveY(),
				})
			default:
				err = fmt.Errorf("%w %q", ErrUnsupportedFormat, f)
			}
			if err != nil {
				return fmt.Errorf("export %s: %w", f, err)
			}
			debug.Log("export: wrote %s", path)
			paths[i] = path
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return paths, nil
}

// ParseFormats converts format names, dropping duplicates.
func ParseFormats(names []string) ([]Format, error) {
	seen := make(map[Format]bool, len(names))
	var out []Format
	for _, n := range names {
		f, err := ParseFormat(n)
		if err != nil {
			return nil, err
		}
		if !seen[f] {
			seen[f] = true
			out = append(out, f)
		}
	}
	return out, nil
}
