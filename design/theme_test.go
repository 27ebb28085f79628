package design

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestMergeNilPreset(t *testing.T) {
	base := DefaultDesign()
	if diff := cmp.Diff(base, Merge(base, nil)); diff != "" {
		t.Fatalf("nil preset changed the design (-want +got):\n%s", diff)
	}
}

func TestMergeFieldLevel(t *testing.T) {
	base := DefaultDesign()
	preset := &ThemePreset{
		Name: "sunset",
		Palette: Palette{
			Primary: "#f97316",
			Accent:  "#fde047",
			// Secondary, Background, Text inherit
		},
		Fonts: Fonts{Heading: "Inter"},
	}
	got := Merge(base, preset)

	if got.Palette.Primary != "#f97316" || got.Palette.Accent != "#fde047" {
		t.Errorf("preset colors not applied: %+v", got.Palette)
	}
	if got.Palette.Secondary != base.Palette.Secondary {
		t.Errorf("secondary = %q, want inherited %q", got.Palette.Secondary, base.Palette.Secondary)
	}
	if got.Palette.Text != base.Palette.Text {
		t.Errorf("text = %q, want inherited %q", got.Palette.Text, base.Palette.Text)
	}
	if got.Fonts.Heading != "Inter" {
		t.Errorf("heading = %q, want Inter", got.Fonts.Heading)
	}
	if got.Fonts.Body != base.Fonts.Body {
		t.Errorf("body = %q, want inherited %q", got.Fonts.Body, base.Fonts.Body)
	}
	if got.Background != base.Background {
		t.Errorf("nil background sub-object should inherit wholesale")
	}
	if got.Layout != base.Layout {
		t.Errorf("nil layout sub-object should inherit wholesale")
	}
}

func boolPtr(v bool) *bool        { return &v }
func floatPtr(v float64) *float64 { return &v }

func TestMergeBackgroundSubObject(t *testing.T) {
	base := DefaultDesign()
	preset := &ThemePreset{
		Background: &BackgroundPatch{Type: BackgroundPattern, Pattern: PatternGrid},
	}
	got := Merge(base, preset)
	if got.Background.Type != BackgroundPattern || got.Background.Pattern != PatternGrid {
		t.Fatalf("background not merged: %+v", got.Background)
	}
	if got.Background.PatternOpacity != base.Background.PatternOpacity {
		t.Fatalf("unset opacity should inherit, got %g", got.Background.PatternOpacity)
	}
}

func TestMergeBackgroundExplicitZeroOpacity(t *testing.T) {
	got := Merge(DefaultDesign(), &ThemePreset{
		Background: &BackgroundPatch{PatternOpacity: floatPtr(0)},
	})
	if got.Background.PatternOpacity != 0 {
		t.Fatalf("explicit zero opacity lost, got %g", got.Background.PatternOpacity)
	}
}

func TestMergeLayoutPatch(t *testing.T) {
	base := DefaultDesign()
	got := Merge(base, &ThemePreset{
		Layout: &LayoutPatch{ShowSteppers: boolPtr(false)},
	})
	if got.Layout.ShowSteppers {
		t.Error("steppers toggle not applied")
	}
	if !got.Layout.ShowSwipeIndicator || !got.Layout.ShowCreatorProfile {
		t.Error("untouched toggles should inherit from the base")
	}
	if got.Layout.CornerRadius != base.Layout.CornerRadius {
		t.Errorf("corner radius = %g, want inherited %g", got.Layout.CornerRadius, base.Layout.CornerRadius)
	}

	got = Merge(got, &ThemePreset{
		Layout: &LayoutPatch{CornerRadius: floatPtr(16)},
	})
	if got.Layout.CornerRadius != 16 {
		t.Errorf("corner radius = %g, want 16", got.Layout.CornerRadius)
	}
	if got.Layout.ShowSteppers {
		t.Error("earlier toggle lost by a later unrelated patch")
	}
}

func TestMergeLaterLayerWins(t *testing.T) {
	base := DefaultDesign()
	first := Merge(base, &ThemePreset{Palette: Palette{Primary: "#111111"}})
	second := Merge(first, &ThemePreset{Palette: Palette{Primary: "#222222"}})
	if second.Palette.Primary != "#222222" {
		t.Fatalf("primary = %q, want last preset to win", second.Palette.Primary)
	}
}

func TestPresetMatches(t *testing.T) {
	d := DefaultDesign()
	active := &ThemePreset{
		Palette: Palette{Primary: d.Palette.Primary},
		Fonts:   Fonts{Heading: d.Fonts.Heading},
	}
	if !active.Matches(d) {
		t.Error("preset sharing primary color and heading font should match")
	}

	// The fingerprint ignores every other field.
	loose := *active
	loose.Palette.Accent = "#000000"
	if !loose.Matches(d) {
		t.Error("accent difference should not break the match")
	}

	other := &ThemePreset{Palette: Palette{Primary: "#000000"}, Fonts: active.Fonts}
	if other.Matches(d) {
		t.Error("different primary color should not match")
	}

	var nilPreset *ThemePreset
	if nilPreset.Matches(d) {
		t.Error("nil preset never matches")
	}
}
