package render

import (
	"strings"
	"testing"

	"github.com/tdewolff/canvas"

	"github.com/ByLCY/carousel/compose"
	"github.com/ByLCY/carousel/design"
	"github.com/ByLCY/carousel/textfit"
)

func TestMeasureHeightGrowsWithSize(t *testing.T) {
	r := NewRenderer(".")
	font := textfit.Font{Family: FamilyGo}
	text := strings.Repeat("the quick brown fox ", 8)

	small, err := r.MeasureHeight(text, font, 24, 600, 1.3)
	if err != nil {
		t.Fatal(err)
	}
	large, err := r.MeasureHeight(text, font, 48, 600, 1.3)
	if err != nil {
		t.Fatal(err)
	}
	if large <= small {
		t.Fatalf("height at 48px (%g) not greater than at 24px (%g)", large, small)
	}
}

func TestMeasureHeightGrowsWithLength(t *testing.T) {
	r := NewRenderer(".")
	font := textfit.Font{Family: FamilyGo}

	short, err := r.MeasureHeight("one line", font, 32, 600, 1.3)
	if err != nil {
		t.Fatal(err)
	}
	long, err := r.MeasureHeight(strings.Repeat("word ", 60), font, 32, 600, 1.3)
	if err != nil {
		t.Fatal(err)
	}
	if long <= short {
		t.Fatalf("long text (%g) not taller than short text (%g)", long, short)
	}
	if short != 32*1.3 {
		t.Fatalf("single line height = %g, want %g", short, 32*1.3)
	}
}

func TestMeasureHeightHonorsBoldMarkup(t *testing.T) {
	r := NewRenderer(".")
	font := textfit.Font{Family: FamilyGo}
	text := strings.Repeat("weighty ", 24)

	plainH, err := r.MeasureHeight(text, font, 40, 610, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	boldH, err := r.MeasureHeight("**"+text+"**", font, 40, 610, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	if boldH <= plainH {
		t.Fatalf("bold block (%g) not taller than regular block (%g)", boldH, plainH)
	}

	// The measured height must equal what drawText would produce: same
	// spans, same faces, same wrap.
	face, err := r.face(font, 40, design.Color{})
	if err != nil {
		t.Fatal(err)
	}
	boldFace, err := r.face(textfit.Font{Family: FamilyGo, Style: "bold"}, 40, design.Color{})
	if err != nil {
		t.Fatal(err)
	}
	lines := wrapSpans(compose.ParseSpans("**"+text+"**"), 610, face, boldFace)
	if want := float64(len(lines)) * 40 * 1.2; boldH != want {
		t.Fatalf("measured %g, but rendering wraps to %d lines (%g)", boldH, len(lines), want)
	}
}

func TestMeasureHeightUnknownFamilyFallsBack(t *testing.T) {
	r := NewRenderer(".")
	h, err := r.MeasureHeight("hello", textfit.Font{Family: "No Such Font"}, 30, 500, 1.2)
	if err != nil {
		t.Fatal(err)
	}
	if h != 30*1.2 {
		t.Fatalf("height = %g, want single line at fallback family", h)
	}
}

func TestWrapSpansRespectsLimit(t *testing.T) {
	r := NewRenderer(".")
	face, err := r.face(textfit.Font{Family: FamilyGo}, 30, design.Color{})
	if err != nil {
		t.Fatal(err)
	}
	boldFace, err := r.face(textfit.Font{Family: FamilyGo, Style: "bold"}, 30, design.Color{})
	if err != nil {
		t.Fatal(err)
	}

	spans := []compose.Span{{Text: strings.Repeat("wrap me please ", 10)}}
	limit := 300.0
	lines := wrapSpans(spans, limit, face, boldFace)
	if len(lines) < 2 {
		t.Fatalf("expected multiple lines, got %d", len(lines))
	}
	for i, line := range lines {
		if line.width > limit {
			t.Errorf("line %d width %g exceeds limit %g", i, line.width, limit)
		}
	}
}

func TestWrapSpansExplicitNewlines(t *testing.T) {
	r := NewRenderer(".")
	face, err := r.face(textfit.Font{Family: FamilyGo}, 30, design.Color{})
	if err != nil {
		t.Fatal(err)
	}

	lines := wrapSpans([]compose.Span{{Text: "a\nb\nc"}}, 0, face, face)
	if len(lines) != 3 {
		t.Fatalf("got %d lines, want 3", len(lines))
	}
	for i, want := range []string{"a", "b", "c"} {
		if got := lines[i].runs[0].text; got != want {
			t.Errorf("line %d = %q, want %q", i, got, want)
		}
	}
}

func TestWrapSpansMergesSameWeightRuns(t *testing.T) {
	r := NewRenderer(".")
	face, err := r.face(textfit.Font{Family: FamilyGo}, 30, design.Color{})
	if err != nil {
		t.Fatal(err)
	}
	boldFace, err := r.face(textfit.Font{Family: FamilyGo, Style: "bold"}, 30, design.Color{})
	if err != nil {
		t.Fatal(err)
	}

	spans := []compose.Span{
		{Text: "plain "},
		{Text: "strong", Bold: true},
		{Text: " tail"},
	}
	lines := wrapSpans(spans, 0, face, boldFace)
	if len(lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(lines))
	}
	runs := lines[0].runs
	if len(runs) != 3 {
		t.Fatalf("got %d runs, want 3: %+v", len(runs), runs)
	}
	if runs[0].bold || !runs[1].bold || runs[2].bold {
		t.Fatalf("run weights wrong: %+v", runs)
	}
	if runs[1].text != "strong" {
		t.Fatalf("bold run = %q", runs[1].text)
	}
}

func TestTokenize(t *testing.T) {
	got := tokenize("hello  world\nnext\r\nline")
	want := []string{"hello", "  ", "world", "\n", "next", "\n", "line"}
	if len(got) != len(want) {
		t.Fatalf("tokenize = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("token %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestRenderSlideSmoke(t *testing.T) {
	r := NewRenderer(".")
	fill := design.Color{R: 15, G: 23, B: 42}
	rs := &compose.RenderedSlide{
		SlideID: "s1",
		Width:   1080,
		Height:  1350,
		Regions: []compose.Region{
			{Kind: compose.KindRect, Frame: compose.Frame{W: 1080, H: 1350}, Fill: &fill},
			{
				Kind:     compose.KindText,
				Frame:    compose.Frame{X: 90, Y: 200, W: 900, H: 300},
				Spans:    []compose.Span{{Text: "Hello "}, {Text: "world", Bold: true}},
				Font:     textfit.Font{Family: FamilyGo},
				FontSize: 48,
				Color:    design.Color{R: 248, G: 250, B: 252},
				Align:    "center",
			},
			{Kind: compose.KindCircle, Frame: compose.Frame{X: 100, Y: 100, W: 72, H: 72}, Fill: &fill},
			{Kind: compose.KindLine, Frame: compose.Frame{X: 90, Y: 600, W: 900, H: 0}, Stroke: fill, StrokeWidth: 2},
		},
	}
	c, err := r.RenderSlide(rs)
	if err != nil {
		t.Fatal(err)
	}
	if c.W != 1080 || c.H != 1350 {
		t.Fatalf("canvas = %gx%g", c.W, c.H)
	}
	if err := r.StampWatermark(c, "made with carousel"); err != nil {
		t.Fatal(err)
	}
}

func TestRenderSlideNil(t *testing.T) {
	r := NewRenderer(".")
	if _, err := r.RenderSlide(nil); err == nil {
		t.Fatal("expected error for nil tree")
	}
}

func TestParseFontStyle(t *testing.T) {
	if parseFontStyle("bold") != canvas.FontBold {
		t.Error("bold style not parsed as bold")
	}
	if parseFontStyle("Bold Italic") != canvas.FontBold|canvas.FontItalic {
		t.Error("combined bold italic not parsed")
	}
	if parseFontStyle("") != canvas.FontRegular {
		t.Error("empty style should be regular")
	}
	if parseFontStyle("semibold") != canvas.FontSemiBold {
		t.Error("semibold not recognized")
	}
}

func TestBoldened(t *testing.T) {
	tests := []struct{ in, want string }{
		{"", "bold"},
		{"italic", "italic bold"},
		{"bold", "bold"},
		{"Bold Italic", "Bold Italic"},
	}
	for _, tt := range tests {
		if got := boldened(tt.in); got != tt.want {
			t.Errorf("boldened(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
