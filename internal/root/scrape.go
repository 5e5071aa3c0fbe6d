package root

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/template"

	"github.com/drewfead/lunchmap/internal"
	"github.com/drewfead/lunchmap/internal/clock"
	"github.com/urfave/cli/v3"
	"gopkg.in/yaml.v3"
)

func (a *app) scrapeCommand() *cli.Command {
	return &cli.Command{
		Name:      "scrape",
		Usage:     "fetch today's menus and print them",
		ArgsUsage: "[source...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:  "force",
				Usage: "skip the cache",
			},
			&cli.StringFlag{
				Name:  "date",
				Usage: "pretend today is this YYYY-MM-DD date",
			},
			&cli.StringFlag{
				Name:    "output",
				Aliases: []string{"o"},
				Usage:   "write to this file instead of stdout",
			},
			&cli.StringFlag{
				Name:  "format",
				Value: "json",
				Usage: "json, yaml or dense",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			format, err := outputFormat(cmd.String("format"))
			if err != nil {
				return err
			}
			c := a.clock()
			if date := cmd.String("date"); date != "" {
				now, err := clock.Parse(date, a.cfg.Location())
				if err != nil {
					return err
				}
				c = clock.Fixed(now.Time)
			}
			svc, err := a.menuService(ctx, c)
			if err != nil {
				return err
			}

			ids := cmd.Args().Slice()
			var menus map[string]internal.Menu
			if len(ids) == 0 {
				ids = svc.Sources()
				menus = svc.All(ctx, cmd.Bool("force"))
			} else {
				menus = svc.Select(ctx, ids, cmd.Bool("force"))
			}

			var buf bytes.Buffer
			if err := format.Format(&buf, ids, menus); err != nil {
				return err
			}
			if path := cmd.String("output"); path != "" {
				return os.WriteFile(path, buf.Bytes(), 0o644)
			}
			_, err = a.opts.stdout.Write(buf.Bytes())
			return err
		},
	}
}

// OutputFormat renders a scrape result. ids is the display order.
type OutputFormat interface {
	Name() string
	Format(w io.Writer, ids []string, menus map[string]internal.Menu) error
}

func outputFormat(name string) (OutputFormat, error) {
	formats := []OutputFormat{jsonFormat{}, yamlFormat{}, newDenseFormat()}
	for _, f := range formats {
		if f.Name() == name {
			return f, nil
		}
	}
	return nil, fmt.Errorf("unknown --format %q (valid: json, yaml, dense)", name)
}

type jsonFormat struct{}

func (jsonFormat) Name() string { return "json" }

func (jsonFormat) Format(w io.Writer, _ []string, menus map[string]internal.Menu) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(menus)
}

type yamlFormat struct{}

func (yamlFormat) Name() string { return "yaml" }

func (yamlFormat) Format(w io.Writer, _ []string, menus map[string]internal.Menu) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(menus); err != nil {
		return err
	}
	return enc.Close()
}

// denseFormat renders one line per source.
type denseFormat struct {
	templateStr string
}

func newDenseFormat() denseFormat {
	return denseFormat{
		templateStr: `{{range $id := .IDs}}{{padSource $id}} | {{summary (index $.Menus $id)}}
{{end}}`,
	}
}

func (denseFormat) Name() string { return "dense" }

func (f denseFormat) Format(w io.Writer, ids []string, menus map[string]internal.Menu) error {
	const sourceColumnWidth = 16 // "storavarvsgatan6"
	funcMap := template.FuncMap{
		"padSource": func(s string) string {
			return fmt.Sprintf("%-*s", sourceColumnWidth, s)
		},
		"summary": summarize,
	}
	tmpl, err := template.New("dense").Funcs(funcMap).Parse(f.templateStr)
	if err != nil {
		return fmt.Errorf("dense template: %w", err)
	}
	return tmpl.Execute(w, map[string]any{"IDs": ids, "Menus": menus})
}

func summarize(m internal.Menu) string {
	var parts []string
	switch m.Variant {
	case internal.VariantSimple:
		parts = m.Lines
	case internal.VariantTitled:
		for _, d := range m.Dishes {
			parts = append(parts, d.Title+": "+d.Description)
		}
	case internal.VariantKeyed:
		for _, k := range slices.Sorted(maps.Keys(m.Fields)) {
			parts = append(parts, k+": "+m.Fields[k])
		}
	case internal.VariantSegmented:
		for _, s := range m.Segments {
			titles := make([]string, len(s.Contents))
			for i, d := range s.Contents {
				titles[i] = d.Title
			}
			parts = append(parts, s.Header+": "+strings.Join(titles, ", "))
		}
	case internal.VariantLink:
		if m.Link != nil {
			return m.Link.Display + " <" + m.Link.Href + ">"
		}
	case internal.VariantFailure:
		return "error: " + m.Error
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, "; ")
}
