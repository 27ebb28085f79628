package compose

import (
	"strings"

	"github.com/ByLCY/carousel/design"
)

// Layout variant handlers. Geometry is canonical-pixel space; thumbnails and
// zoom are pure caller-side transforms and never feed back into fitting.

// intro: centered hook with an optional eyebrow subtitle, large title, and an
// optional CTA carrying a directional affordance.
func (c *composition) intro() error {
	h := c.height()
	cw := c.contentWidth()
	content := c.slide.Content

	y := h * 0.30
	if content.Subtitle != "" {
		eyebrow := strings.ToUpper(content.Subtitle)
		if err := c.addText(ElemSubtitle, eyebrow, Frame{X: margin, Y: y - 80, W: cw, H: 60},
			roleCaption, c.bodyFont(), c.accentColor(), "center"); err != nil {
			return err
		}
	}
	if err := c.addText(ElemTitle, content.Title, Frame{X: margin, Y: y, W: cw, H: h * 0.34},
		roleTitle, c.headingFont(), c.textColor(), "center"); err != nil {
		return err
	}
	if content.CTAText != "" {
		cta := content.CTAText + "  ↓"
		if err := c.addText(ElemCTA, cta, Frame{X: margin, Y: h * 0.72, W: cw, H: 70},
			roleSub, c.bodyFont(), c.secondaryColor(), "center"); err != nil {
			return err
		}
	}
	return nil
}

// outro: centered sign-off with title, circular avatar, name, handle and a
// CTA pill.
func (c *composition) outro() error {
	w, h := c.width(), c.height()
	cw := c.contentWidth()
	content := c.slide.Content
	author := c.meta.Author

	if err := c.addText(ElemTitle, content.Title, Frame{X: margin, Y: h * 0.16, W: cw, H: h * 0.2},
		roleTitle, c.headingFont(), c.textColor(), "center"); err != nil {
		return err
	}

	const avatar = 160.0
	ax := (w - avatar) / 2
	ay := h * 0.42
	if author.AvatarURL != "" {
		c.add(Region{
			ID:       ElemImage,
			Kind:     KindImage,
			Frame:    Frame{X: ax, Y: ay, W: avatar, H: avatar},
			ImageURL: author.AvatarURL,
		})
	} else {
		fill := c.primaryColor()
		c.add(Region{
			ID:    ElemImage,
			Kind:  KindCircle,
			Frame: Frame{X: ax, Y: ay, W: avatar, H: avatar},
			Fill:  &fill,
		})
	}

	nameY := ay + avatar + 36
	if err := c.addText(ElemSubtitle, author.Name, Frame{X: margin, Y: nameY, W: cw, H: 64},
		roleSub, c.headingFont(), c.textColor(), "center"); err != nil {
		return err
	}
	if author.Handle != "" {
		if err := c.addText(ElemCaption, author.Handle, Frame{X: margin, Y: nameY + 72, W: cw, H: 44},
			roleCaption, c.bodyFont(), c.secondaryColor(), "center"); err != nil {
			return err
		}
	}

	if content.CTAText != "" {
		pillW, pillH := w*0.5, 96.0
		px, py := (w-pillW)/2, h*0.78
		fill := c.accentColor()
		c.add(Region{
			Kind:         KindRect,
			Frame:        Frame{X: px, Y: py, W: pillW, H: pillH},
			Fill:         &fill,
			CornerRadius: pillH / 2,
		})
		if err := c.addText(ElemCTA, content.CTAText, Frame{X: px, Y: py + 24, W: pillW, H: pillH - 48},
			roleSub, c.headingFont(), design.MustColor(c.style.Palette.Background), "center"); err != nil {
			return err
		}
	}
	return nil
}

// defaultContent: bordered title block, optional image block, body, and a
// decorative accent bar. Fallback for unknown variants as well.
func (c *composition) defaultContent() error {
	h := c.height()
	cw := c.contentWidth()
	content := c.slide.Content

	bar := c.accentColor()
	c.add(Region{
		Kind:  KindRect,
		Frame: Frame{X: margin, Y: margin + 60, W: 120, H: 10},
		Fill:  &bar,
	})

	titleTop := margin + 100.0
	titleH := h * 0.18
	if err := c.addText(ElemTitle, content.Title, Frame{X: margin, Y: titleTop, W: cw, H: titleH},
		roleTitle, c.headingFont(), c.textColor(), "left"); err != nil {
		return err
	}
	c.add(Region{
		Kind:        KindLine,
		Frame:       Frame{X: margin, Y: titleTop + titleH + 20, W: cw, H: 0},
		Stroke:      c.secondaryColor(),
		StrokeWidth: 2,
	})

	bodyTop := titleTop + titleH + 60
	if content.ImageURL != "" {
		imgH := h * 0.26
		c.add(Region{
			ID:           ElemImage,
			Kind:         KindImage,
			Frame:        Frame{X: margin, Y: bodyTop, W: cw, H: imgH},
			ImageURL:     content.ImageURL,
			CornerRadius: c.style.Layout.CornerRadius,
		})
		bodyTop += imgH + 48
	}

	bodyH := h - bodyTop - margin - 60
	return c.addText(ElemBody, content.Body, Frame{X: margin, Y: bodyTop, W: cw, H: bodyH},
		roleBody, c.bodyFont(), c.textColor(), "left")
}

// bigNumber: giant numeral, subtitle and caption, all centered.
func (c *composition) bigNumber() error {
	h := c.height()
	cw := c.contentWidth()
	content := c.slide.Content

	if err := c.addText(ElemNumber, content.Title, Frame{X: margin, Y: h * 0.2, W: cw, H: h * 0.32},
		roleNumber, c.headingFont(), c.primaryColor(), "center"); err != nil {
		return err
	}
	if err := c.addText(ElemSubtitle, content.Subtitle, Frame{X: margin, Y: h * 0.58, W: cw, H: h * 0.12},
		roleSub, c.headingFont(), c.textColor(), "center"); err != nil {
		return err
	}
	return c.addText(ElemCaption, content.Body, Frame{X: margin, Y: h * 0.72, W: cw, H: h * 0.12},
		roleCaption, c.bodyFont(), c.secondaryColor(), "center")
}

// quote: quotation glyph, italic body, attribution and a divider.
func (c *composition) quote() error {
	w, h := c.width(), c.height()
	cw := c.contentWidth()
	content := c.slide.Content

	c.add(Region{
		ID:       ElemQuoteMark,
		Kind:     KindText,
		Frame:    Frame{X: margin, Y: h * 0.14, W: cw, H: 180},
		Spans:    []Span{{Text: "“", Bold: true}},
		Font:     c.headingFont(),
		FontSize: 200,
		Color:    c.accentColor(),
		Align:    "center",
	})

	if err := c.addText(ElemBody, content.Body, Frame{X: margin, Y: h * 0.32, W: cw, H: h * 0.3},
		roleSub, c.italicFont(), c.textColor(), "center"); err != nil {
		return err
	}

	c.add(Region{
		Kind:        KindLine,
		Frame:       Frame{X: (w - 180) / 2, Y: h * 0.68, W: 180, H: 0},
		Stroke:      c.accentColor(),
		StrokeWidth: 4,
	})

	attribution := content.Subtitle
	if attribution != "" && !strings.HasPrefix(attribution, "—") {
		attribution = "— " + attribution
	}
	return c.addText(ElemAttribution, attribution, Frame{X: margin, Y: h*0.68 + 40, W: cw, H: 60},
		roleCaption, c.bodyFont(), c.secondaryColor(), "center")
}

// checklist: title plus checkmark rows parsed from the body.
func (c *composition) checklist() error {
	h := c.height()
	cw := c.contentWidth()
	content := c.slide.Content

	if err := c.addText(ElemTitle, content.Title, Frame{X: margin, Y: margin + 40, W: cw, H: h * 0.16},
		roleTitle, c.headingFont(), c.textColor(), "left"); err != nil {
		return err
	}

	items := ParseChecklist(content.Body)
	if len(items) == 0 && content.Body != "" {
		items = []string{content.Body}
	}
	top := margin + 40 + h*0.16 + 60
	avail := h - top - margin - 60
	rowH := 110.0
	if n := float64(len(items)); n > 0 && n*rowH > avail {
		rowH = avail / n
	}
	const mark = 56.0
	for i, item := range items {
		y := top + float64(i)*rowH
		fill := c.accentColor()
		c.add(Region{
			Kind:  KindCircle,
			Frame: Frame{X: margin, Y: y, W: mark, H: mark},
			Fill:  &fill,
		})
		c.add(Region{
			Kind:     KindText,
			Frame:    Frame{X: margin, Y: y + 10, W: mark, H: mark - 20},
			Spans:    []Span{{Text: "✓", Bold: true}},
			Font:     c.bodyFont(),
			FontSize: 34,
			Color:    design.MustColor(c.style.Palette.Background),
			Align:    "center",
		})
		if err := c.addText(ItemID(i), item,
			Frame{X: margin + mark + 32, Y: y, W: cw - mark - 32, H: rowH - 24},
			roleBody, c.bodyFont(), c.textColor(), "left"); err != nil {
			return err
		}
	}
	return nil
}

// Comparison column colors: left flags the mistake, right the solution.
var (
	comparisonLeftColor  = design.Color{R: 239, G: 68, B: 68}
	comparisonRightColor = design.Color{R: 34, G: 197, B: 94}
)

// comparison: two columns split on the literal VS token. A body without the
// token degrades to everything on the left and a placeholder on the right.
func (c *composition) comparison() error {
	w, h := c.width(), c.height()
	cw := c.contentWidth()
	content := c.slide.Content

	if err := c.addText(ElemTitle, content.Title, Frame{X: margin, Y: margin + 40, W: cw, H: h * 0.14},
		roleTitle, c.headingFont(), c.textColor(), "center"); err != nil {
		return err
	}

	left, right := ParseComparison(content.Body)
	if right == "" {
		if content.Subtitle != "" {
			right = content.Subtitle
		} else {
			right = "—"
		}
	}

	colW := (cw - 60) / 2
	top := margin + 40 + h*0.14 + 60
	colH := h - top - margin - 80
	lx := margin
	rx := margin + colW + 60

	for _, col := range []struct {
		x       float64
		label   string
		text    string
		color   design.Color
		idTitle design.ElementID
		idBody  design.ElementID
	}{
		{lx, "Mistake", left, comparisonLeftColor, ElemLeftTitle, ElemLeft},
		{rx, "Solution", right, comparisonRightColor, ElemRightTitle, ElemRight},
	} {
		border := col.color
		c.add(Region{
			Kind:         KindRect,
			Frame:        Frame{X: col.x, Y: top, W: colW, H: colH},
			Stroke:       border,
			StrokeWidth:  4,
			CornerRadius: 24,
		})
		if err := c.addText(col.idTitle, col.label, Frame{X: col.x + 24, Y: top + 32, W: colW - 48, H: 56},
			roleSub, c.headingFont(), col.color, "center"); err != nil {
			return err
		}
		if err := c.addText(col.idBody, col.text, Frame{X: col.x + 24, Y: top + 120, W: colW - 48, H: colH - 152},
			roleBody, c.bodyFont(), c.textColor(), "left"); err != nil {
			return err
		}
	}

	vs := c.accentColor()
	c.add(Region{
		Kind:  KindCircle,
		Frame: Frame{X: (w - 90) / 2, Y: top + colH/2 - 45, W: 90, H: 90},
		Fill:  &vs,
	})
	c.add(Region{
		Kind:     KindText,
		Frame:    Frame{X: (w - 90) / 2, Y: top + colH/2 - 20, W: 90, H: 40},
		Spans:    []Span{{Text: "VS", Bold: true}},
		Font:     c.headingFont(),
		FontSize: 30,
		Color:    design.MustColor(c.style.Palette.Background),
		Align:    "center",
	})
	return nil
}

// imageFull: full-bleed image with a bottom gradient scrim and overlay text.
func (c *composition) imageFull() error {
	w, h := c.width(), c.height()
	cw := c.contentWidth()
	content := c.slide.Content

	if content.ImageURL != "" {
		c.add(Region{
			ID:        ElemImage,
			Kind:      KindImage,
			Frame:     Frame{W: w, H: h},
			ImageURL:  content.ImageURL,
			FullBleed: true,
		})
	}
	// Bottom scrim approximated by stacked translucent bands.
	scrim := design.Color{}
	for i, op := range []float64{0.25, 0.5, 0.75} {
		bandTop := h * (0.55 + 0.15*float64(i))
		c.add(Region{
			Kind:    KindRect,
			Frame:   Frame{X: 0, Y: bandTop, W: w, H: h - bandTop},
			Fill:    &scrim,
			Opacity: op,
		})
	}

	if err := c.addText(ElemTitle, content.Title, Frame{X: margin, Y: h * 0.72, W: cw, H: h * 0.14},
		roleTitle, c.headingFont(), c.textColor(), "left"); err != nil {
		return err
	}
	return c.addText(ElemSubtitle, content.Subtitle, Frame{X: margin, Y: h * 0.88, W: cw, H: 60},
		roleCaption, c.bodyFont(), c.secondaryColor(), "left")
}

// code: title above a dark rounded panel with terminal chrome discs and a
// monospace body.
func (c *composition) code() error {
	h := c.height()
	cw := c.contentWidth()
	content := c.slide.Content

	if err := c.addText(ElemTitle, content.Title, Frame{X: margin, Y: margin + 30, W: cw, H: h * 0.12},
		roleTitle, c.headingFont(), c.textColor(), "left"); err != nil {
		return err
	}

	panelTop := margin + 30 + h*0.12 + 50
	panelH := h - panelTop - margin - 70
	panel := design.Color{R: 17, G: 24, B: 39}
	c.add(Region{
		ID:           ElemCode,
		Kind:         KindRect,
		Frame:        Frame{X: margin, Y: panelTop, W: cw, H: panelH},
		Fill:         &panel,
		CornerRadius: 28,
	})

	chrome := []design.Color{
		{R: 239, G: 68, B: 68},
		{R: 250, G: 204, B: 21},
		{R: 34, G: 197, B: 94},
	}
	for i, col := range chrome {
		fill := col
		c.add(Region{
			Kind:  KindCircle,
			Frame: Frame{X: margin + 36 + float64(i)*44, Y: panelTop + 32, W: 26, H: 26},
			Fill:  &fill,
		})
	}

	codeColor := design.Color{R: 209, G: 250, B: 229}
	return c.addText(ElemBody, content.Body,
		Frame{X: margin + 48, Y: panelTop + 100, W: cw - 96, H: panelH - 148},
		roleCode, c.monoFont(), codeColor, "left")
}
