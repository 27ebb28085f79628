// Package export stages composed slides on off-screen canvases, rasterizes
// them in sequence order and packages the bitmaps into a downloadable
// artifact: a PNG, a ZIP of PNGs, or a multi-page PDF.
package export

import (
	"archive/zip"
	"bytes"
	"context"
	"fmt"
	"image"
	"image/png"
	"regexp"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	canvaspdf "github.com/tdewolff/canvas/renderers/pdf"
	"github.com/tdewolff/canvas/renderers/rasterizer"

	"github.com/ByLCY/carousel/compose"
	"github.com/ByLCY/carousel/design"
	"github.com/ByLCY/carousel/render"
)

// Format selects the packaging mode.
type Format string

const (
	FormatPNG Format = "png" // single PNG; multiple visible slides fall back to ZIP
	FormatZIP Format = "zip"
	FormatPDF Format = "pdf"
)

// Quality selects the capture scale factor over the canonical box.
type Quality string

const (
	QualityStandard Quality = "standard" // 1.5x
	QualityHigh     Quality = "high"     // 2x
)

func (q Quality) scale() float64 {
	if q == QualityHigh {
		return 2.0
	}
	return 1.5
}

// Stage is the pipeline state for one export invocation.
type Stage int

const (
	StageIdle Stage = iota
	StageStaging
	StageRasterizing
	StageEncoding
	StagePackaging
	StageDone
	StageFailed
)

func (s Stage) String() string {
	switch s {
	case StageIdle:
		return "idle"
	case StageStaging:
		return "staging"
	case StageRasterizing:
		return "rasterizing"
	case StageEncoding:
		return "encoding"
	case StagePackaging:
		return "packaging"
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Progress allocation: fixed preamble for staging, a linear share per
// rasterized slide, fixed tail for encode+package.
const (
	progressStaged    = 10
	progressRasterEnd = 85
)

// Options configures one export invocation.
type Options struct {
	Format    Format
	Quality   Quality
	Watermark bool
	// SlideIDs optionally restricts the export to a subset of visible
	// slides; order still follows the project sequence.
	SlideIDs []string
	// Progress receives a monotonically increasing percentage in [0,100].
	Progress func(percent int)
}

// Artifact is the packaged result of one export, discarded after download.
type Artifact struct {
	Filename string
	MIME     string
	Data     []byte
	Pages    int
}

// WatermarkText is stamped on staged slides for free-tier exports.
const WatermarkText = "made with carousel"

// Pipeline runs exports for one project at a time. It is not re-entrant:
// a second Export while one is in flight fails immediately, because the
// staged surfaces must not be shared across invocations.
type Pipeline struct {
	renderer   *render.Renderer
	compositor *compose.Compositor

	mu       sync.Mutex
	stage    Stage
	inFlight bool
}

// NewPipeline wires a pipeline over a renderer; composition and measurement
// share that renderer so staged output matches on-screen fitting exactly.
func NewPipeline(r *render.Renderer) *Pipeline {
	return &Pipeline{
		renderer:   r,
		compositor: compose.NewCompositor(r),
		stage:      StageIdle,
	}
}

// Stage reports the current pipeline state.
func (p *Pipeline) Stage() Stage {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.stage
}

func (p *Pipeline) setStage(s Stage) {
	p.mu.Lock()
	p.stage = s
	p.mu.Unlock()
}

// Export runs the full pipeline. The context is checked between per-slide
// captures; cancellation aborts with the context error and no artifact.
// On any failure the pipeline parks in the failed stage; a retry simply
// starts a new Export, which restarts from staging.
func (p *Pipeline) Export(ctx context.Context, project *design.Project, opts Options) (*Artifact, error) {
	p.mu.Lock()
	if p.inFlight {
		p.mu.Unlock()
		return nil, fmt.Errorf("export already in flight")
	}
	p.inFlight = true
	p.stage = StageStaging
	p.mu.Unlock()

	artifact, err := p.run(ctx, project, opts)
	p.mu.Lock()
	p.inFlight = false
	if err != nil {
		// The failure is surfaced to the caller, never papered over with
		// a partial artifact.
		p.stage = StageFailed
	} else {
		p.stage = StageDone
	}
	p.mu.Unlock()
	return artifact, err
}

func (p *Pipeline) run(ctx context.Context, project *design.Project, opts Options) (*Artifact, error) {
	if opts.Format == "" {
		opts.Format = FormatPNG
	}
	report := func(pct int) {
		if opts.Progress != nil {
			opts.Progress(pct)
		}
	}

	slides := selectSlides(project, opts.SlideIDs)
	if len(slides) == 0 {
		return nil, fmt.Errorf("no visible slides to export")
	}

	// STAGING: materialize every slide at full canonical size, independent
	// of any on-screen zoom, so fitting matches production output.
	meta := compose.Meta{
		Author: project.Author,
		Total:  len(slides),
		Data:   compose.ProjectData(project),
	}
	staged := make([]*canvas.Canvas, 0, len(slides))
	for i, slide := range slides {
		meta.Index = i
		tree, err := p.compositor.Compose(slide, project.Design, meta)
		if err != nil {
			return nil, &CaptureError{SlideIndex: i, SlideID: slide.ID, Err: err}
		}
		c, err := p.renderer.RenderSlide(tree)
		if err != nil {
			return nil, &CaptureError{SlideIndex: i, SlideID: slide.ID, Err: err}
		}
		if opts.Watermark {
			// Part of the staged render, not a bitmap post-edit: every
			// capture scale sees the identical badge.
			if err := p.renderer.StampWatermark(c, WatermarkText); err != nil {
				return nil, &CaptureError{SlideIndex: i, SlideID: slide.ID, Err: err}
			}
		}
		staged = append(staged, c)
	}
	report(progressStaged)

	// RASTERIZING: strictly in sequence order, one capture at a time, to
	// bound peak memory. Watermark and page sizing depend on position.
	p.setStage(StageRasterizing)
	scale := opts.Quality.scale()
	bitmaps := make([]image.Image, 0, len(staged))
	for i, c := range staged {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img := rasterizer.Draw(c, canvas.DPMM(scale), canvas.DefaultColorSpace)
		if img == nil || img.Bounds().Empty() {
			return nil, &CaptureError{SlideIndex: i, SlideID: slides[i].ID, Err: fmt.Errorf("empty raster")}
		}
		bitmaps = append(bitmaps, img)
		report(progressStaged + (progressRasterEnd-progressStaged)*(i+1)/len(staged))
	}

	// ENCODING: serialize every bitmap to PNG. The PDF path skips this and
	// draws bitmaps straight onto writer pages during packaging.
	p.setStage(StageEncoding)
	var blobs [][]byte
	if opts.Format != FormatPDF {
		blobs = make([][]byte, 0, len(bitmaps))
		for _, img := range bitmaps {
			data, err := encodePNG(img)
			if err != nil {
				return nil, &EncodeError{Format: opts.Format, Err: err}
			}
			blobs = append(blobs, data)
		}
	}

	p.setStage(StagePackaging)
	w, h := project.Design.AspectRatio.CanvasSize()
	artifact, err := p.pack(project.Title, opts.Format, bitmaps, blobs, w, h, scale)
	if err != nil {
		return nil, err
	}
	report(100)
	return artifact, nil
}

// selectSlides filters to visible slides, optionally narrowed to ids, in
// project sequence order. Ids are trimmed so comma-separated CLI input with
// spaces still matches.
func selectSlides(project *design.Project, ids []string) []design.Slide {
	visible := project.VisibleSlides()
	if len(ids) == 0 {
		return visible
	}
	allowed := make(map[string]bool, len(ids))
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			allowed[id] = true
		}
	}
	out := make([]design.Slide, 0, len(visible))
	for _, s := range visible {
		if allowed[s.ID] {
			out = append(out, s)
		}
	}
	return out
}

func (p *Pipeline) pack(title string, format Format, bitmaps []image.Image, blobs [][]byte, pageW, pageH, scale float64) (*Artifact, error) {
	switch format {
	case FormatPNG:
		if len(blobs) == 1 {
			return &Artifact{
				Filename: Filename(title, "png"),
				MIME:     "image/png",
				Data:     blobs[0],
				Pages:    1,
			}, nil
		}
		return p.packZIP(title, blobs)
	case FormatZIP:
		return p.packZIP(title, blobs)
	case FormatPDF:
		return p.packPDF(title, bitmaps, pageW, pageH, scale)
	default:
		return nil, &EncodeError{Format: format, Err: fmt.Errorf("unsupported format")}
	}
}

// packZIP archives one encoded PNG per slide under deterministic 1-indexed
// names.
func (p *Pipeline) packZIP(title string, blobs [][]byte) (*Artifact, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for i, data := range blobs {
		f, err := zw.Create(fmt.Sprintf("slide_%d.png", i+1))
		if err != nil {
			return nil, &EncodeError{Format: FormatZIP, Err: err}
		}
		if _, err := f.Write(data); err != nil {
			return nil, &EncodeError{Format: FormatZIP, Err: err}
		}
	}
	if err := zw.Close(); err != nil {
		return nil, &EncodeError{Format: FormatZIP, Err: err}
	}
	return &Artifact{
		Filename: Filename(title, "zip"),
		MIME:     "application/zip",
		Data:     buf.Bytes(),
		Pages:    len(blobs),
	}, nil
}

// packPDF writes one page per slide at the canonical box size, each bitmap
// placed full-bleed at the origin with no scaling or letterboxing.
func (p *Pipeline) packPDF(title string, bitmaps []image.Image, pageW, pageH, scale float64) (*Artifact, error) {
	var buf bytes.Buffer
	writer := canvaspdf.New(&buf, pageW, pageH, nil)
	for i, img := range bitmaps {
		if i > 0 {
			writer.NewPage(pageW, pageH)
		}
		page := canvas.New(pageW, pageH)
		ctx := canvas.NewContext(page)
		ctx.SetCoordSystem(canvas.CartesianIV)
		ctx.DrawImage(0, 0, img, canvas.DPMM(scale))
		page.RenderTo(writer)
	}
	if err := writer.Close(); err != nil {
		return nil, &EncodeError{Format: FormatPDF, Err: err}
	}
	return &Artifact{
		Filename: Filename(title, "pdf"),
		MIME:     "application/pdf",
		Data:     buf.Bytes(),
		Pages:    len(bitmaps),
	}, nil
}

func encodePNG(img image.Image) ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

var whitespaceRun = regexp.MustCompile(`\s+`)

// Filename derives the artifact name from the project title: whitespace
// runs collapse to underscores, empty titles fall back to a generic name.
func Filename(title, ext string) string {
	name := whitespaceRun.ReplaceAllString(strings.TrimSpace(title), "_")
	if name == "" {
		name = "carousel"
	}
	return name + "." + ext
}
