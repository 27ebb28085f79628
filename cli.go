package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/ByLCY/carousel/compose"
	"github.com/ByLCY/carousel/design"
	"github.com/ByLCY/carousel/export"
	"github.com/ByLCY/carousel/render"
)

// newApp builds the carousel CLI.
func newApp() *cli.App {
	return &cli.App{
		Name:    "carousel",
		Usage:   "Render and export slide carousels from project JSON",
		Version: Version,
		Commands: []*cli.Command{
			exportCmd(),
			inspectCmd(),
			initCmd(),
		},
	}
}

func exportCmd() *cli.Command {
	return &cli.Command{
		Name:  "export",
		Usage: "Rasterize visible slides and package them as PNG, ZIP or PDF",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Value: "project.json", Usage: "Project JSON path"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Usage: "Output path (default: sanitized project title)"},
			&cli.StringFlag{Name: "format", Aliases: []string{"f"}, Value: "png", Usage: "Output format: png|zip|pdf"},
			&cli.StringFlag{Name: "quality", Aliases: []string{"q"}, Value: "standard", Usage: "Capture quality: standard|high"},
			&cli.BoolFlag{Name: "watermark", Usage: "Stamp the free-tier watermark on every slide"},
			&cli.StringFlag{Name: "slides", Usage: "Comma-separated slide ids to export (default: all visible)"},
			&cli.StringFlag{Name: "heading-font", Usage: "Font file for the heading family"},
			&cli.StringFlag{Name: "body-font", Usage: "Font file for the body family"},
		},
		Action: func(c *cli.Context) error {
			project, err := loadProject(c.String("in"))
			if err != nil {
				return err
			}
			renderer, err := newRenderer(c, filepath.Dir(c.String("in")), project)
			if err != nil {
				return err
			}
			opts := export.Options{
				Format:    export.Format(c.String("format")),
				Quality:   export.Quality(c.String("quality")),
				Watermark: c.Bool("watermark"),
				Progress: func(pct int) {
					fmt.Fprintf(c.App.Writer, "\rexporting... %3d%%", pct)
				},
			}
			if ids := strings.TrimSpace(c.String("slides")); ids != "" {
				opts.SlideIDs = strings.Split(ids, ",")
			}

			pipeline := export.NewPipeline(renderer)
			artifact, err := pipeline.Export(c.Context, project, opts)
			fmt.Fprintln(c.App.Writer)
			if err != nil {
				return fmt.Errorf("export failed: %w", err)
			}

			out := c.String("out")
			if out == "" {
				out = artifact.Filename
			}
			if err := os.WriteFile(out, artifact.Data, 0o644); err != nil {
				return fmt.Errorf("write artifact: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "wrote %s (%d pages, %d bytes)\n", out, artifact.Pages, len(artifact.Data))
			return nil
		},
	}
}

func inspectCmd() *cli.Command {
	return &cli.Command{
		Name:  "inspect",
		Usage: "Compose all visible slides and dump the draw trees as JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "in", Aliases: []string{"i"}, Value: "project.json", Usage: "Project JSON path"},
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "carousel-debug.json", Usage: "Debug JSON output path"},
		},
		Action: func(c *cli.Context) error {
			project, err := loadProject(c.String("in"))
			if err != nil {
				return err
			}
			renderer := render.NewRenderer(filepath.Dir(c.String("in")))
			compositor := compose.NewCompositor(renderer)

			slides := project.VisibleSlides()
			meta := compose.Meta{
				Author: project.Author,
				Total:  len(slides),
				Data:   compose.ProjectData(project),
			}
			trees := make([]*compose.RenderedSlide, 0, len(slides))
			for i, slide := range slides {
				meta.Index = i
				tree, err := compositor.Compose(slide, project.Design, meta)
				if err != nil {
					return fmt.Errorf("compose slide %s: %w", slide.ID, err)
				}
				trees = append(trees, tree)
			}
			if err := compose.WriteDebugJSON(trees, c.String("out")); err != nil {
				return fmt.Errorf("write debug JSON: %w", err)
			}
			fmt.Fprintf(c.App.Writer, "wrote %s (%d slides)\n", c.String("out"), len(trees))
			return nil
		},
	}
}

func initCmd() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Write a starter project JSON",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "out", Aliases: []string{"o"}, Value: "project.json", Usage: "Output path"},
		},
		Action: func(c *cli.Context) error {
			out := c.String("out")
			if _, err := os.Stat(out); err == nil {
				return fmt.Errorf("%s already exists", out)
			}
			if err := os.WriteFile(out, []byte(starterProject()), 0o644); err != nil {
				return err
			}
			fmt.Fprintf(c.App.Writer, "wrote %s\n", out)
			return nil
		},
	}
}

func loadProject(path string) (*design.Project, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open project %s: %w", path, err)
	}
	defer f.Close()
	project, err := design.LoadProject(f)
	if err != nil {
		return nil, fmt.Errorf("load project %s: %w", path, err)
	}
	return project, nil
}

func newRenderer(c *cli.Context, baseDir string, project *design.Project) (*render.Renderer, error) {
	renderer := render.NewRenderer(baseDir)
	if path := c.String("heading-font"); path != "" {
		family := project.Design.Fonts.Heading
		if err := renderer.RegisterFont(family, path, "bold"); err != nil {
			return nil, err
		}
	}
	if path := c.String("body-font"); path != "" {
		family := project.Design.Fonts.Body
		if err := renderer.RegisterFont(family, path, ""); err != nil {
			return nil, err
		}
	}
	return renderer, nil
}

func starterProject() string {
	return fmt.Sprintf(`{
  "title": "My First Carousel",
  "author": {"name": "Ada", "handle": "@ada"},
  "design": {
    "aspectRatio": "4:5",
    "background": {"type": "pattern", "patternType": "dots"}
  },
  "slides": [
    {
      "id": %q,
      "type": "intro",
      "content": {
        "title": "Five habits that **actually** stick",
        "subtitle": "a field guide",
        "cta_text": "keep reading"
      }
    },
    {
      "id": %q,
      "type": "content",
      "layoutVariant": "checklist",
      "content": {
        "title": "Start here",
        "body": "- Pick one habit\n- Make it tiny\n- Track it daily"
      }
    },
    {
      "id": %q,
      "type": "outro",
      "content": {
        "title": "Follow for more",
        "cta_text": "Follow ${author.handle}"
      }
    }
  ]
}
`, design.NewSlideID(), design.NewSlideID(), design.NewSlideID())
}
