package design

// Theme resolution merges three layers, later wins: Design defaults, an
// optional theme preset, then per-slide element overrides (which touch only
// color/fontSize/rotation/scale and are applied by the compositor, not here).
// The merge is field-level per nested object; unspecified keys inherit from
// the lower-priority layer.

// BackgroundPatch is a partial Background. Empty strings inherit; the
// opacity pointer distinguishes "unset" from an explicit zero.
type BackgroundPatch struct {
	Type           BackgroundType `json:"type,omitempty"`
	Pattern        PatternType    `json:"patternType,omitempty"`
	PatternOpacity *float64       `json:"patternOpacity,omitempty"`
	PatternColor   string         `json:"patternColor,omitempty"`
}

// LayoutPatch is a partial LayoutFlags. Nil fields inherit, so a preset can
// flip one toggle without restating the others.
type LayoutPatch struct {
	CornerRadius       *float64 `json:"cornerRadius,omitempty"`
	ShowSteppers       *bool    `json:"showSteppers,omitempty"`
	ShowSwipeIndicator *bool    `json:"showSwipeIndicator,omitempty"`
	ShowCreatorProfile *bool    `json:"showCreatorProfile,omitempty"`
}

// ThemePreset is a partial Design. Empty string fields and nil sub-objects
// inherit from the base; inside a non-nil patch, fields inherit individually.
type ThemePreset struct {
	Name       string           `json:"name"`
	Palette    Palette          `json:"colorPalette"`
	Fonts      Fonts            `json:"fonts"`
	Background *BackgroundPatch `json:"background,omitempty"`
	Layout     *LayoutPatch     `json:"layout,omitempty"`
}

// Merge resolves a base design against an optional preset. Nil preset
// returns the base unchanged.
func Merge(base Design, preset *ThemePreset) Design {
	if preset == nil {
		return base
	}
	out := base
	out.Palette = mergePalette(base.Palette, preset.Palette)
	out.Fonts = mergeFonts(base.Fonts, preset.Fonts)
	if preset.Background != nil {
		out.Background = mergeBackground(base.Background, *preset.Background)
	}
	if preset.Layout != nil {
		out.Layout = mergeLayout(base.Layout, *preset.Layout)
	}
	return out
}

func mergePalette(base, over Palette) Palette {
	if over.Primary != "" {
		base.Primary = over.Primary
	}
	if over.Secondary != "" {
		base.Secondary = over.Secondary
	}
	if over.Accent != "" {
		base.Accent = over.Accent
	}
	if over.Background != "" {
		base.Background = over.Background
	}
	if over.Text != "" {
		base.Text = over.Text
	}
	return base
}

func mergeFonts(base, over Fonts) Fonts {
	if over.Heading != "" {
		base.Heading = over.Heading
	}
	if over.Body != "" {
		base.Body = over.Body
	}
	return base
}

func mergeBackground(base Background, over BackgroundPatch) Background {
	if over.Type != "" {
		base.Type = over.Type
	}
	if over.Pattern != "" {
		base.Pattern = over.Pattern
	}
	if over.PatternOpacity != nil {
		base.PatternOpacity = *over.PatternOpacity
	}
	if over.PatternColor != "" {
		base.PatternColor = over.PatternColor
	}
	return base
}

func mergeLayout(base LayoutFlags, over LayoutPatch) LayoutFlags {
	if over.CornerRadius != nil {
		base.CornerRadius = *over.CornerRadius
	}
	if over.ShowSteppers != nil {
		base.ShowSteppers = *over.ShowSteppers
	}
	if over.ShowSwipeIndicator != nil {
		base.ShowSwipeIndicator = *over.ShowSwipeIndicator
	}
	if over.ShowCreatorProfile != nil {
		base.ShowCreatorProfile = *over.ShowCreatorProfile
	}
	return base
}

// presetFromDesign reinterprets a decoded Design as a partial layer over the
// defaults, so a project JSON only needs the fields it changes. A concrete
// Design cannot distinguish explicit zeroes from absent fields, so a zero
// opacity stays unset and a non-zero layout object is taken whole.
func presetFromDesign(d Design) *ThemePreset {
	p := &ThemePreset{Palette: d.Palette, Fonts: d.Fonts}
	if d.Background != (Background{}) {
		bp := BackgroundPatch{
			Type:         d.Background.Type,
			Pattern:      d.Background.Pattern,
			PatternColor: d.Background.PatternColor,
		}
		if d.Background.PatternOpacity > 0 {
			v := d.Background.PatternOpacity
			bp.PatternOpacity = &v
		}
		p.Background = &bp
	}
	if d.Layout != (LayoutFlags{}) {
		l := d.Layout
		p.Layout = &LayoutPatch{
			CornerRadius:       &l.CornerRadius,
			ShowSteppers:       &l.ShowSteppers,
			ShowSwipeIndicator: &l.ShowSwipeIndicator,
			ShowCreatorProfile: &l.ShowCreatorProfile,
		}
	}
	return p
}

// Matches reports whether the preset is "currently active" for a design.
// The comparison is an intentionally loose fingerprint: primary color and
// heading font only. Callers wanting a strict diff compare the structs.
func (t *ThemePreset) Matches(d Design) bool {
	if t == nil {
		return false
	}
	return t.Palette.Primary == d.Palette.Primary && t.Fonts.Heading == d.Fonts.Heading
}
