// Package compose maps one Slide plus a resolved Design into a RenderedSlide:
// an ordered tree of positioned draw regions in the canonical pixel box.
// Order is the painter's algorithm, back to front.
package compose

import (
	"strconv"

	"github.com/ByLCY/carousel/design"
	"github.com/ByLCY/carousel/textfit"
)

// RegionKind tags what a region draws.
type RegionKind string

const (
	KindText   RegionKind = "text"
	KindImage  RegionKind = "image"
	KindRect   RegionKind = "rect"
	KindLine   RegionKind = "line"
	KindCircle RegionKind = "circle"
)

// Frame is a region's bounding box in canonical pixels, origin top-left.
type Frame struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	W float64 `json:"w"`
	H float64 `json:"h"`
}

// Span is a run of text with uniform weight; bold spans come from paired
// ** delimiters in the source content.
type Span struct {
	Text string `json:"text"`
	Bold bool   `json:"bold,omitempty"`
}

// Region is one positioned draw instruction. Only the fields matching Kind
// are meaningful.
type Region struct {
	ID    design.ElementID `json:"id,omitempty"`
	Kind  RegionKind       `json:"kind"`
	Frame Frame            `json:"frame"`

	// text
	Spans      []Span       `json:"spans,omitempty"`
	Font       textfit.Font `json:"font,omitempty"`
	FontSize   float64      `json:"fontSize,omitempty"`
	LineHeight float64      `json:"lineHeight,omitempty"`
	Color      design.Color `json:"color,omitempty"`
	Align      string       `json:"align,omitempty"`

	// shapes
	Fill         *design.Color `json:"fill,omitempty"`
	Stroke       design.Color  `json:"stroke,omitempty"`
	StrokeWidth  float64       `json:"strokeWidth,omitempty"`
	CornerRadius float64       `json:"cornerRadius,omitempty"`
	Opacity      float64       `json:"opacity,omitempty"`

	// image
	ImageURL  string `json:"imageUrl,omitempty"`
	FullBleed bool   `json:"fullBleed,omitempty"`

	// transform overrides
	OffsetX  float64 `json:"offsetX,omitempty"`
	OffsetY  float64 `json:"offsetY,omitempty"`
	Rotation float64 `json:"rotation,omitempty"`
	Scale    float64 `json:"scale,omitempty"`
}

// PlainText joins the region's spans back into the raw string.
func (r *Region) PlainText() string {
	var out string
	for _, s := range r.Spans {
		out += s.Text
	}
	return out
}

// RenderedSlide is the ephemeral materialized draw tree for one Slide+Design
// pair; recomputed whenever either changes, never persisted.
type RenderedSlide struct {
	SlideID string   `json:"slideId"`
	Width   float64  `json:"width"`
	Height  float64  `json:"height"`
	Regions []Region `json:"regions"`
}

// Closed element id set addressed by per-slide overrides.
const (
	ElemTitle       design.ElementID = "title"
	ElemSubtitle    design.ElementID = "subtitle"
	ElemBody        design.ElementID = "body"
	ElemImage       design.ElementID = "image"
	ElemCTA         design.ElementID = "cta"
	ElemNumber      design.ElementID = "number"
	ElemCaption     design.ElementID = "caption"
	ElemQuoteMark   design.ElementID = "quote-mark"
	ElemAttribution design.ElementID = "attribution"
	ElemLeft        design.ElementID = "left"
	ElemRight       design.ElementID = "right"
	ElemLeftTitle   design.ElementID = "left-title"
	ElemRightTitle  design.ElementID = "right-title"
	ElemCode        design.ElementID = "code"
)

// ItemID addresses the nth checklist row, 0-indexed.
func ItemID(i int) design.ElementID {
	return design.ElementID("item-" + strconv.Itoa(i))
}
