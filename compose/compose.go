package compose

import (
	"fmt"

	"github.com/ByLCY/carousel/design"
	"github.com/ByLCY/carousel/textfit"
)

// Content inset from the canvas edge, canonical pixels.
const margin = 90.0

// Per-role typography bounds. Titles largest, body mid, captions smallest.
type role struct {
	base, min, max float64
	lineHeight     float64
}

var (
	roleTitle   = role{base: 88, min: 40, max: 96, lineHeight: 1.15}
	roleSub     = role{base: 44, min: 24, max: 52, lineHeight: 1.3}
	roleBody    = role{base: 40, min: 22, max: 48, lineHeight: 1.4}
	roleCaption = role{base: 28, min: 18, max: 32, lineHeight: 1.3}
	roleNumber  = role{base: 300, min: 120, max: 320, lineHeight: 1.0}
	roleCode    = role{base: 30, min: 18, max: 34, lineHeight: 1.5}
)

// Meta carries slide-independent composition inputs: the author identity for
// badges and outro slides, the slide's position among visible slides, and the
// placeholder binding data.
type Meta struct {
	Author design.Author
	Index  int
	Total  int
	Data   map[string]any
}

// Compositor turns slides into RenderedSlide trees. It is safe for reuse
// across slides; fitting results are memoized in the shared Fitter.
type Compositor struct {
	fitter *textfit.Fitter
}

// NewCompositor builds a compositor measuring through m.
func NewCompositor(m textfit.Measurer) *Compositor {
	return &Compositor{fitter: textfit.NewFitter(m)}
}

// Compose produces the draw tree for one slide under a resolved design.
// Composing the same inputs twice yields structurally identical trees.
func (cp *Compositor) Compose(slide design.Slide, style design.Design, meta Meta) (*RenderedSlide, error) {
	w, h := style.AspectRatio.CanvasSize()
	c := &composition{
		cp:    cp,
		slide: slide,
		style: style,
		meta:  meta,
		out: &RenderedSlide{
			SlideID: slide.ID,
			Width:   w,
			Height:  h,
		},
	}

	c.background()
	if err := c.content(); err != nil {
		return nil, err
	}
	c.chrome()
	return c.out, nil
}

// composition is the per-slide working state.
type composition struct {
	cp    *Compositor
	slide design.Slide
	style design.Design
	meta  Meta
	out   *RenderedSlide
}

func (c *composition) add(r Region) {
	c.out.Regions = append(c.out.Regions, r)
}

func (c *composition) width() float64  { return c.out.Width }
func (c *composition) height() float64 { return c.out.Height }
func (c *composition) contentWidth() float64 {
	return c.out.Width - 2*margin
}

// content dispatches to the explicit layout variant, or to the slide-type
// default when none is set. Unknown variants degrade to the content default.
func (c *composition) content() error {
	variant := c.slide.Variant
	if variant == "" {
		variant = design.VariantDefault
	}
	switch variant {
	case design.VariantBigNumber:
		return c.bigNumber()
	case design.VariantQuote:
		return c.quote()
	case design.VariantChecklist:
		return c.checklist()
	case design.VariantComparison:
		return c.comparison()
	case design.VariantImageFull:
		return c.imageFull()
	case design.VariantCode:
		return c.code()
	case design.VariantDefault:
		switch c.slide.Type {
		case design.TypeIntro:
			return c.intro()
		case design.TypeOutro:
			return c.outro()
		case design.TypeContent:
			return c.defaultContent()
		default:
			return c.defaultContent()
		}
	default:
		return c.defaultContent()
	}
}

// fonts resolved from the design.

func (c *composition) headingFont() textfit.Font {
	return textfit.Font{Family: c.style.Fonts.Heading, Style: "bold"}
}

func (c *composition) bodyFont() textfit.Font {
	return textfit.Font{Family: c.style.Fonts.Body}
}

func (c *composition) italicFont() textfit.Font {
	return textfit.Font{Family: c.style.Fonts.Body, Style: "italic"}
}

func (c *composition) monoFont() textfit.Font {
	return textfit.Font{Family: "Go Mono"}
}

// textRegion fits and places one free-text region. An explicit fontSize
// override bypasses the fitter and is applied verbatim.
func (c *composition) textRegion(id design.ElementID, content string, frame Frame, ro role, font textfit.Font, col design.Color, align string) (Region, error) {
	content = Interpolate(content, c.meta.Data)
	spans := ParseSpans(content)

	ov, hasOv := c.slide.Overrides[id]
	size := 0.0
	if hasOv && ov.FontSize > 0 {
		size = ov.FontSize
	} else {
		// The fitter gets the raw markup, not the joined plain text: bold
		// runs wrap wider than regular ones, and the measurer must see them.
		fitted, err := c.cp.fitter.Fit(content, textfit.Box{Width: frame.W, Height: frame.H}, textfit.Options{
			MinSize:    ro.min,
			MaxSize:    ro.max,
			BaseSize:   ro.base,
			Font:       font,
			LineHeight: ro.lineHeight,
		})
		if err != nil {
			return Region{}, fmt.Errorf("fit %s: %w", id, err)
		}
		size = fitted
	}

	r := Region{
		ID:         id,
		Kind:       KindText,
		Frame:      frame,
		Spans:      spans,
		Font:       font,
		FontSize:   size,
		LineHeight: ro.lineHeight,
		Color:      col,
		Align:      align,
	}
	if hasOv {
		applyTransform(&r, ov)
	}
	return r, nil
}

// addText is textRegion plus append; empty content adds nothing.
func (c *composition) addText(id design.ElementID, content string, frame Frame, ro role, font textfit.Font, col design.Color, align string) error {
	if content == "" {
		return nil
	}
	r, err := c.textRegion(id, content, frame, ro, font, col, align)
	if err != nil {
		return err
	}
	c.add(r)
	return nil
}

// applyTransform copies the positional parts of an override onto a region.
// Font size and color are handled where the region is built.
func applyTransform(r *Region, ov design.Override) {
	r.OffsetX = ov.X
	r.OffsetY = ov.Y
	r.Rotation = ov.Rotation
	if ov.Scale > 0 {
		r.Scale = ov.Scale
	}
	if ov.Color != "" {
		r.Color = design.MustColor(ov.Color)
	}
}

// palette helpers

func (c *composition) textColor() design.Color    { return design.MustColor(c.style.Palette.Text) }
func (c *composition) primaryColor() design.Color { return design.MustColor(c.style.Palette.Primary) }
func (c *composition) accentColor() design.Color  { return design.MustColor(c.style.Palette.Accent) }
func (c *composition) secondaryColor() design.Color {
	return design.MustColor(c.style.Palette.Secondary)
}

// background paints the back-most layers: solid fill or pattern, or a
// full-bleed override image with a dark scrim above it.
func (c *composition) background() {
	w, h := c.width(), c.height()
	if src := c.slide.Content.BackgroundOverride; src != "" {
		c.add(Region{
			ID:        "background",
			Kind:      KindImage,
			Frame:     Frame{W: w, H: h},
			ImageURL:  src,
			FullBleed: true,
		})
		scrim := design.Color{}
		c.add(Region{
			Kind:    KindRect,
			Frame:   Frame{W: w, H: h},
			Fill:    &scrim,
			Opacity: 0.55,
		})
		return
	}

	bg := design.MustColor(c.style.Palette.Background)
	c.add(Region{
		ID:    "background",
		Kind:  KindRect,
		Frame: Frame{W: w, H: h},
		Fill:  &bg,
	})
	if c.style.Background.Type == design.BackgroundPattern {
		c.pattern()
	}
}

// pattern emits the decorative background pattern above the solid fill.
func (c *composition) pattern() {
	col := design.MustColor(c.style.Background.PatternColor)
	opacity := c.style.Background.PatternOpacity
	if opacity <= 0 {
		opacity = 0.15
	}
	w, h := c.width(), c.height()

	switch c.style.Background.Pattern {
	case design.PatternDots:
		const step = 120.0
		for y := step / 2; y < h; y += step {
			for x := step / 2; x < w; x += step {
				fill := col
				c.add(Region{
					Kind:    KindCircle,
					Frame:   Frame{X: x - 6, Y: y - 6, W: 12, H: 12},
					Fill:    &fill,
					Opacity: opacity,
				})
			}
		}
	case design.PatternGrid:
		const step = 120.0
		for x := step; x < w; x += step {
			c.add(Region{
				Kind:        KindLine,
				Frame:       Frame{X: x, Y: 0, W: 0, H: h},
				Stroke:      col,
				StrokeWidth: 2,
				Opacity:     opacity,
			})
		}
		for y := step; y < h; y += step {
			c.add(Region{
				Kind:        KindLine,
				Frame:       Frame{X: 0, Y: y, W: w, H: 0},
				Stroke:      col,
				StrokeWidth: 2,
				Opacity:     opacity,
			})
		}
	case design.PatternWaves:
		const r = 48.0
		for row := 0.0; row*3*r < h+3*r; row++ {
			y := row * 3 * r
			for x := -r; x < w+r; x += 2 * r {
				c.add(Region{
					Kind:        KindCircle,
					Frame:       Frame{X: x - r, Y: y - r, W: 2 * r, H: 2 * r},
					Stroke:      col,
					StrokeWidth: 3,
					Opacity:     opacity,
				})
			}
		}
	case design.PatternNone:
	}
}

// chrome paints the front-most decorative layers: creator badge, page
// stamp, and the swipe affordance on intro slides.
func (c *composition) chrome() {
	w, h := c.width(), c.height()

	if c.style.Layout.ShowCreatorProfile && c.meta.Author.Name != "" {
		c.creatorBadge()
	}

	if c.style.Layout.ShowSteppers && c.meta.Total > 1 {
		stamp := fmt.Sprintf("%d / %d", c.meta.Index+1, c.meta.Total)
		c.add(Region{
			Kind:     KindText,
			Frame:    Frame{X: 0, Y: h - 64, W: w, H: 40},
			Spans:    []Span{{Text: stamp}},
			Font:     c.bodyFont(),
			FontSize: 26,
			Color:    c.secondaryColor(),
			Align:    "center",
		})
	}

	lastSlide := c.meta.Index >= c.meta.Total-1
	if c.style.Layout.ShowSwipeIndicator && c.slide.Type == design.TypeIntro && !lastSlide {
		c.add(Region{
			Kind:     KindText,
			Frame:    Frame{X: w - margin - 320, Y: h - 140, W: 320, H: 48},
			Spans:    []Span{{Text: "Swipe"}, {Text: " →", Bold: true}},
			Font:     c.bodyFont(),
			FontSize: 30,
			Color:    c.accentColor(),
			Align:    "right",
		})
	}
}

// creatorBadge stacks an avatar disc and the author name top-left.
func (c *composition) creatorBadge() {
	const size = 72.0
	x, y := margin/2, margin/2
	if c.meta.Author.AvatarURL != "" {
		c.add(Region{
			Kind:     KindImage,
			Frame:    Frame{X: x, Y: y, W: size, H: size},
			ImageURL: c.meta.Author.AvatarURL,
		})
	} else {
		fill := c.primaryColor()
		c.add(Region{
			Kind:  KindCircle,
			Frame: Frame{X: x, Y: y, W: size, H: size},
			Fill:  &fill,
		})
	}
	c.add(Region{
		Kind:     KindText,
		Frame:    Frame{X: x + size + 20, Y: y + 18, W: 500, H: 40},
		Spans:    []Span{{Text: c.meta.Author.Name, Bold: true}},
		Font:     c.bodyFont(),
		FontSize: 28,
		Color:    c.textColor(),
	})
}
