// Package render draws composed slides onto tdewolff/canvas surfaces and
// implements the text measurement capability the fitter searches with.
// One canvas unit equals one canonical pixel.
package render

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/carousel/compose"
	"github.com/ByLCY/carousel/design"
	"github.com/ByLCY/carousel/textfit"
)

// Font faces are created in points while geometry runs in canvas units.
const unitToPt = 1.0 / 0.352777

// Renderer draws RenderedSlide trees. It is also the textfit.Measurer the
// compositor fits against, so measurement and drawing cannot drift apart.
type Renderer struct {
	baseDir string
	fonts   *fontSet
	client  *http.Client

	imgMu  sync.Mutex
	images map[string]image.Image
}

var _ textfit.Measurer = (*Renderer)(nil)

// NewRenderer creates a renderer resolving relative image paths against
// baseDir. Remote http(s) images are fetched and cached per renderer.
func NewRenderer(baseDir string) *Renderer {
	return &Renderer{
		baseDir: baseDir,
		fonts:   newFontSet(),
		client:  &http.Client{Timeout: 20 * time.Second},
		images:  map[string]image.Image{},
	}
}

// RegisterFont loads a font file under a family name and style so designs
// can reference it by name.
func (r *Renderer) RegisterFont(family, path, style string) error {
	return r.fonts.register(family, path, style)
}

func (r *Renderer) face(font textfit.Font, sizePx float64, col design.Color) (*canvas.FontFace, error) {
	family, err := r.fonts.family(font.Family)
	if err != nil {
		return nil, err
	}
	rgba := canvas.RGBA(float64(col.R)/255, float64(col.G)/255, float64(col.B)/255, 1)
	return family.Face(sizePx*unitToPt, rgba, parseFontStyle(font.Style), canvas.FontNormal), nil
}

// MeasureHeight implements textfit.Measurer: wrap content into width at
// sizePx and report the total height of the wrapped block. Bold span markup
// is parsed and measured with the bold face, so the reported height matches
// what drawText later produces for the same content.
func (r *Renderer) MeasureHeight(content string, font textfit.Font, sizePx, width, lineHeight float64) (float64, error) {
	if lineHeight <= 0 {
		lineHeight = 1.2
	}
	face, err := r.face(font, sizePx, design.Color{})
	if err != nil {
		return 0, err
	}
	boldFace, err := r.face(textfit.Font{Family: font.Family, Style: boldened(font.Style)}, sizePx, design.Color{})
	if err != nil {
		return 0, err
	}
	lines := wrapSpans(compose.ParseSpans(content), width, face, boldFace)
	return float64(len(lines)) * sizePx * lineHeight, nil
}

// RenderSlide draws the full region tree onto a fresh canonical-size canvas.
// The canvas is the staging surface exports rasterize from.
func (r *Renderer) RenderSlide(rs *compose.RenderedSlide) (*canvas.Canvas, error) {
	if rs == nil {
		return nil, fmt.Errorf("render: nil slide tree")
	}
	c := canvas.New(rs.Width, rs.Height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV) // top-left origin, matching composition space

	for i := range rs.Regions {
		if err := r.drawRegion(ctx, &rs.Regions[i]); err != nil {
			return nil, fmt.Errorf("render region %d (%s): %w", i, rs.Regions[i].Kind, err)
		}
	}
	return c, nil
}

func (r *Renderer) drawRegion(ctx *canvas.Context, reg *compose.Region) error {
	frame := reg.Frame
	transformed := reg.OffsetX != 0 || reg.OffsetY != 0 || reg.Rotation != 0 ||
		(reg.Scale > 0 && reg.Scale != 1)
	if transformed {
		frame.X += reg.OffsetX
		frame.Y += reg.OffsetY
		if reg.Scale > 0 && reg.Scale != 1 {
			cx, cy := frame.X+frame.W/2, frame.Y+frame.H/2
			frame.W *= reg.Scale
			frame.H *= reg.Scale
			frame.X = cx - frame.W/2
			frame.Y = cy - frame.H/2
		}
		if reg.Rotation != 0 {
			ctx.Push()
			ctx.RotateAbout(reg.Rotation, frame.X+frame.W/2, frame.Y+frame.H/2)
			defer ctx.Pop()
		}
	}

	switch reg.Kind {
	case compose.KindRect:
		return drawRect(ctx, reg, frame)
	case compose.KindLine:
		drawLine(ctx, reg, frame)
		return nil
	case compose.KindCircle:
		return drawCircle(ctx, reg, frame)
	case compose.KindImage:
		return r.drawImage(ctx, reg, frame)
	case compose.KindText:
		return r.drawText(ctx, reg, frame)
	default:
		return fmt.Errorf("unknown region kind %q", reg.Kind)
	}
}

func regionRGBA(c design.Color, opacity float64) color.Color {
	if opacity <= 0 || opacity > 1 {
		opacity = 1
	}
	return canvas.RGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, opacity)
}

var transparent = color.RGBA{}

func drawRect(ctx *canvas.Context, reg *compose.Region, frame compose.Frame) error {
	if reg.Fill != nil {
		ctx.SetFillColor(regionRGBA(*reg.Fill, reg.Opacity))
	} else {
		ctx.SetFillColor(transparent)
	}
	if reg.StrokeWidth > 0 {
		ctx.SetStrokeColor(regionRGBA(reg.Stroke, reg.Opacity))
		ctx.SetStrokeWidth(reg.StrokeWidth)
	} else {
		ctx.SetStrokeColor(transparent)
		ctx.SetStrokeWidth(0)
	}
	var p *canvas.Path
	if reg.CornerRadius > 0 {
		p = canvas.RoundedRectangle(frame.W, frame.H, reg.CornerRadius)
	} else {
		p = canvas.Rectangle(frame.W, frame.H)
	}
	ctx.DrawPath(frame.X, frame.Y, p)
	return nil
}

func drawLine(ctx *canvas.Context, reg *compose.Region, frame compose.Frame) {
	w := reg.StrokeWidth
	if w <= 0 {
		w = 1
	}
	ctx.SetStrokeColor(regionRGBA(reg.Stroke, reg.Opacity))
	ctx.SetStrokeWidth(w)
	p := &canvas.Path{}
	p.MoveTo(0, 0)
	p.LineTo(frame.W, frame.H)
	ctx.DrawPath(frame.X, frame.Y, p)
}

func drawCircle(ctx *canvas.Context, reg *compose.Region, frame compose.Frame) error {
	radius := frame.W / 2
	if reg.Fill != nil {
		ctx.SetFillColor(regionRGBA(*reg.Fill, reg.Opacity))
	} else {
		ctx.SetFillColor(transparent)
	}
	if reg.StrokeWidth > 0 {
		ctx.SetStrokeColor(regionRGBA(reg.Stroke, reg.Opacity))
		ctx.SetStrokeWidth(reg.StrokeWidth)
	} else {
		ctx.SetStrokeColor(transparent)
		ctx.SetStrokeWidth(0)
	}
	ctx.DrawPath(frame.X, frame.Y, canvas.Circle(radius))
	return nil
}

func (r *Renderer) drawImage(ctx *canvas.Context, reg *compose.Region, frame compose.Frame) error {
	img, err := r.loadImage(reg.ImageURL)
	if err != nil {
		return err
	}
	iw := float64(img.Bounds().Dx())
	ih := float64(img.Bounds().Dy())
	if iw <= 0 || ih <= 0 || frame.W <= 0 || frame.H <= 0 {
		return nil
	}
	// Cover scaling: the frame is filled completely, excess is centered out.
	scale := frame.W / iw
	if s := frame.H / ih; s > scale {
		scale = s
	}
	drawnW, drawnH := iw*scale, ih*scale
	x := frame.X + (frame.W-drawnW)/2
	y := frame.Y + (frame.H-drawnH)/2
	ctx.DrawImage(x, y, img, canvas.DPMM(1/scale))
	return nil
}

// loadImage resolves builtin http(s) URLs or baseDir-relative paths, with a
// per-renderer decode cache. Remote fetches must succeed: a blank region in
// an export would be a silent defect.
func (r *Renderer) loadImage(src string) (image.Image, error) {
	if src == "" {
		return nil, fmt.Errorf("image region without source")
	}
	r.imgMu.Lock()
	if img, ok := r.images[src]; ok {
		r.imgMu.Unlock()
		return img, nil
	}
	r.imgMu.Unlock()

	var data []byte
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		resp, err := r.client.Get(src)
		if err != nil {
			return nil, fmt.Errorf("fetch image %s: %w", src, err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("fetch image %s: status %s", src, resp.Status)
		}
		data, err = io.ReadAll(resp.Body)
		if err != nil {
			return nil, fmt.Errorf("fetch image %s: %w", src, err)
		}
	} else {
		path := src
		if !filepath.IsAbs(path) {
			path = filepath.Join(r.baseDir, path)
		}
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read image %s: %w", src, err)
		}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode image %s: %w", src, err)
	}
	r.imgMu.Lock()
	r.images[src] = img
	r.imgMu.Unlock()
	return img, nil
}

func (r *Renderer) drawText(ctx *canvas.Context, reg *compose.Region, frame compose.Frame) error {
	if len(reg.Spans) == 0 || reg.FontSize <= 0 {
		return nil
	}
	face, err := r.face(reg.Font, reg.FontSize, reg.Color)
	if err != nil {
		return err
	}
	boldFace, err := r.face(textfit.Font{Family: reg.Font.Family, Style: boldened(reg.Font.Style)}, reg.FontSize, reg.Color)
	if err != nil {
		return err
	}

	lineHeight := reg.FontSize * reg.LineHeight
	if reg.LineHeight <= 0 {
		lineHeight = reg.FontSize * 1.2
	}
	lines := wrapSpans(reg.Spans, frame.W, face, boldFace)
	ascent := face.Metrics().Ascent

	y := frame.Y
	for _, line := range lines {
		x := frame.X
		switch reg.Align {
		case "center":
			x = frame.X + (frame.W-line.width)/2
		case "right":
			x = frame.X + frame.W - line.width
		}
		baseline := y + ascent
		for _, run := range line.runs {
			f := face
			if run.bold {
				f = boldFace
			}
			ctx.DrawText(x, baseline, canvas.NewTextLine(f, run.text, canvas.Left))
			x += f.TextWidth(run.text)
		}
		y += lineHeight
	}
	return nil
}

// Watermark badge geometry, canonical pixels from the bottom-right corner.
const (
	watermarkWidth  = 360.0
	watermarkHeight = 72.0
	watermarkInset  = 36.0
)

// StampWatermark composites a semi-transparent badge onto a staged canvas
// before rasterization, so every export scale captures it identically.
func (r *Renderer) StampWatermark(c *canvas.Canvas, text string) error {
	if text == "" {
		return nil
	}
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianIV)

	x := c.W - watermarkWidth - watermarkInset
	y := c.H - watermarkHeight - watermarkInset
	ctx.SetFillColor(canvas.RGBA(0, 0, 0, 0.45))
	ctx.SetStrokeColor(transparent)
	ctx.DrawPath(x, y, canvas.RoundedRectangle(watermarkWidth, watermarkHeight, watermarkHeight/2))

	face, err := r.face(textfit.Font{Family: FamilyGo, Style: "bold"}, 30, design.Color{R: 255, G: 255, B: 255})
	if err != nil {
		return err
	}
	line := canvas.NewTextLine(face, text, canvas.Center)
	ctx.DrawText(x+watermarkWidth/2, y+watermarkHeight/2+face.Metrics().XHeight/2, line)
	return nil
}
