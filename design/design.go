// Package design defines the carousel data model: a Project owns an ordered
// sequence of Slides plus one shared Design. Slide geometry is always derived
// from Design.AspectRatio, never from slide content.
package design

import (
	"encoding/json"
	"fmt"
	"io"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// AspectRatio selects the canonical pixel box every slide renders into.
type AspectRatio string

const (
	RatioSquare   AspectRatio = "1:1"
	RatioPortrait AspectRatio = "4:5"
	RatioStory    AspectRatio = "9:16"
)

// CanonicalWidth is shared by every aspect ratio; only the height varies.
const CanonicalWidth = 1080.0

// CanvasSize returns the canonical pixel box for the ratio. Unknown ratios
// fall back to square so a malformed project still renders something.
func (a AspectRatio) CanvasSize() (width, height float64) {
	switch a {
	case RatioPortrait:
		return CanonicalWidth, 1350
	case RatioStory:
		return CanonicalWidth, 1920
	case RatioSquare:
		return CanonicalWidth, CanonicalWidth
	default:
		return CanonicalWidth, CanonicalWidth
	}
}

// SlideType is the semantic role of a slide; it drives the default
// composition when no explicit layout variant is set.
type SlideType string

const (
	TypeIntro   SlideType = "intro"
	TypeContent SlideType = "content"
	TypeOutro   SlideType = "outro"
)

// LayoutVariant is an explicit composition template overriding the
// type-based default.
type LayoutVariant string

const (
	VariantDefault    LayoutVariant = "default"
	VariantBigNumber  LayoutVariant = "big-number"
	VariantQuote      LayoutVariant = "quote"
	VariantChecklist  LayoutVariant = "checklist"
	VariantComparison LayoutVariant = "comparison"
	VariantImageFull  LayoutVariant = "image-full"
	VariantCode       LayoutVariant = "code"
)

// Color uses 0-255 RGB channels.
type Color struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// ParseColor parses #rgb, #rrggbb and #rrggbbaa hex notations (alpha is
// accepted and discarded).
func ParseColor(value string) (Color, error) {
	value = strings.TrimPrefix(value, "#")
	switch len(value) {
	case 3:
		r := strings.Repeat(string(value[0]), 2)
		g := strings.Repeat(string(value[1]), 2)
		b := strings.Repeat(string(value[2]), 2)
		return Color{R: mustHex(r), G: mustHex(g), B: mustHex(b)}, nil
	case 6, 8:
		return Color{R: mustHex(value[0:2]), G: mustHex(value[2:4]), B: mustHex(value[4:6])}, nil
	default:
		return Color{}, fmt.Errorf("cannot parse color value %q", value)
	}
}

// MustColor is ParseColor for trusted literals; bad input yields near-black.
func MustColor(value string) Color {
	c, err := ParseColor(value)
	if err != nil {
		return Color{R: 30, G: 30, B: 30}
	}
	return c
}

func mustHex(s string) int {
	v, _ := strconv.ParseInt(s, 16, 64)
	return int(v)
}

// Palette holds the five theme colors as hex strings (model-level; the
// renderer parses them once per pass).
type Palette struct {
	Primary    string `json:"primary"`
	Secondary  string `json:"secondary"`
	Accent     string `json:"accent"`
	Background string `json:"background"`
	Text       string `json:"text"`
}

// Fonts names the heading and body font families.
type Fonts struct {
	Heading string `json:"heading"`
	Body    string `json:"body"`
}

// BackgroundType selects between a solid fill and a pattern fill.
type BackgroundType string

const (
	BackgroundSolid   BackgroundType = "solid"
	BackgroundPattern BackgroundType = "pattern"
)

// PatternType picks a decorative background pattern.
type PatternType string

const (
	PatternNone  PatternType = "none"
	PatternDots  PatternType = "dots"
	PatternGrid  PatternType = "grid"
	PatternWaves PatternType = "waves"
)

// Background describes the back-most paint layer of every slide.
type Background struct {
	Type           BackgroundType `json:"type"`
	Pattern        PatternType    `json:"patternType"`
	PatternOpacity float64        `json:"patternOpacity"`
	PatternColor   string         `json:"patternColor"`
}

// LayoutFlags toggles global decorative layers.
type LayoutFlags struct {
	CornerRadius       float64 `json:"cornerRadius"`
	ShowSteppers       bool    `json:"showSteppers"`
	ShowSwipeIndicator bool    `json:"showSwipeIndicator"`
	ShowCreatorProfile bool    `json:"showCreatorProfile"`
}

// Design is the shared visual theme across all slides of a project. It is
// immutable during a single render pass.
type Design struct {
	AspectRatio AspectRatio `json:"aspectRatio"`
	Palette     Palette     `json:"colorPalette"`
	Fonts       Fonts       `json:"fonts"`
	Background  Background  `json:"background"`
	Layout      LayoutFlags `json:"layout"`
}

// ElementID addresses one composed element of a slide for overrides. The
// closed set of ids lives with the compositor; free-form strings silently
// address nothing.
type ElementID string

// Override is one per-element visual adjustment. Zero values mean "not set":
// FontSize 0 keeps the fitted size, empty Color keeps the resolved color,
// Scale 0 means 1.
type Override struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
	Scale    float64 `json:"scale"`
	FontSize float64 `json:"fontSize"`
	Color    string  `json:"color"`
}

// Content holds the named text/image fields of a slide; all optional.
type Content struct {
	Title              string `json:"title,omitempty"`
	Subtitle           string `json:"subtitle,omitempty"`
	Body               string `json:"body,omitempty"`
	ImageURL           string `json:"image_url,omitempty"`
	BackgroundOverride string `json:"background_override,omitempty"`
	CTAText            string `json:"cta_text,omitempty"`
}

// Slide is one canvas of the carousel. Hidden slides stay in the sequence
// for editing but are skipped by the compositor and exporter.
type Slide struct {
	ID        string                 `json:"id"`
	Type      SlideType              `json:"type"`
	Variant   LayoutVariant          `json:"layoutVariant,omitempty"`
	Content   Content                `json:"content"`
	Overrides map[ElementID]Override `json:"elementOverrides,omitempty"`
	Visible   bool                   `json:"isVisible"`
}

// UnmarshalJSON defaults isVisible to true when the field is absent.
func (s *Slide) UnmarshalJSON(data []byte) error {
	type alias Slide
	aux := struct {
		*alias
		Visible *bool `json:"isVisible"`
	}{alias: (*alias)(s)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	if aux.Visible == nil {
		s.Visible = true
	} else {
		s.Visible = *aux.Visible
	}
	return nil
}

// Author is the creator identity shown on outro slides and profile badges.
type Author struct {
	Name      string `json:"name"`
	Handle    string `json:"handle"`
	AvatarURL string `json:"avatarUrl"`
}

// Project owns the slide sequence and the design; slides have no lifecycle
// outside it.
type Project struct {
	Title  string  `json:"title"`
	Author Author  `json:"author"`
	Slides []Slide `json:"slides"`
	Design Design  `json:"design"`
}

// VisibleSlides returns the slides the compositor and exporter operate on,
// in sequence order.
func (p *Project) VisibleSlides() []Slide {
	out := make([]Slide, 0, len(p.Slides))
	for _, s := range p.Slides {
		if s.Visible {
			out = append(out, s)
		}
	}
	return out
}

// NewSlideID returns a fresh ULID for slides created or loaded without one.
func NewSlideID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}

// LoadProject decodes a project from JSON, fills defaults and assigns ids to
// slides that lack one.
func LoadProject(r io.Reader) (*Project, error) {
	dec := json.NewDecoder(r)
	var p Project
	if err := dec.Decode(&p); err != nil {
		return nil, fmt.Errorf("decode project: %w", err)
	}
	applyDefaults(&p)
	return &p, nil
}

func applyDefaults(p *Project) {
	ratio := p.Design.AspectRatio
	if ratio == "" {
		ratio = RatioPortrait
	}
	p.Design = Merge(DefaultDesign(), presetFromDesign(p.Design))
	p.Design.AspectRatio = ratio
	for i := range p.Slides {
		if p.Slides[i].ID == "" {
			p.Slides[i].ID = NewSlideID()
		}
		if p.Slides[i].Type == "" {
			p.Slides[i].Type = TypeContent
		}
	}
}

// DefaultDesign is the base layer every resolution starts from.
func DefaultDesign() Design {
	return Design{
		AspectRatio: RatioPortrait,
		Palette: Palette{
			Primary:    "#6366f1",
			Secondary:  "#8b5cf6",
			Accent:     "#f59e0b",
			Background: "#0f172a",
			Text:       "#f8fafc",
		},
		Fonts: Fonts{
			Heading: "Go",
			Body:    "Go",
		},
		Background: Background{
			Type:           BackgroundSolid,
			Pattern:        PatternNone,
			PatternOpacity: 0.15,
			PatternColor:   "#ffffff",
		},
		Layout: LayoutFlags{
			CornerRadius:       0,
			ShowSteppers:       true,
			ShowSwipeIndicator: true,
			ShowCreatorProfile: true,
		},
	}
}
