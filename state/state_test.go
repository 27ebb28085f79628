package state

import (
	"testing"

	"github.com/ByLCY/carousel/design"
)

func newTestStore() *Store {
	return NewStore(design.Project{
		Title:  "T",
		Design: design.DefaultDesign(),
		Slides: []design.Slide{
			{ID: "a", Type: design.TypeIntro, Visible: true},
			{ID: "b", Type: design.TypeContent, Visible: true},
		},
	})
}

func TestSnapshotIsIsolated(t *testing.T) {
	s := newTestStore()
	snap := s.Snapshot()
	snap.Slides[0].Content.Title = "mutated"
	snap.Title = "mutated"

	fresh := s.Snapshot()
	if fresh.Title != "T" || fresh.Slides[0].Content.Title != "" {
		t.Fatal("mutating a snapshot leaked into the store")
	}
}

func TestUpdateNotifiesSubscribers(t *testing.T) {
	s := newTestStore()
	var got []string
	unsub := s.Subscribe(func(p design.Project) {
		got = append(got, p.Title)
	})

	s.Update(func(p *design.Project) { p.Title = "first" })
	s.Update(func(p *design.Project) { p.Title = "second" })
	unsub()
	s.Update(func(p *design.Project) { p.Title = "third" })

	if len(got) != 2 || got[0] != "first" || got[1] != "second" {
		t.Fatalf("notifications = %v", got)
	}
	if s.Snapshot().Title != "third" {
		t.Fatal("update after unsubscribe was lost")
	}
}

func TestSetOverride(t *testing.T) {
	s := newTestStore()
	ov := design.Override{X: 12, Rotation: 5, FontSize: 40}
	s.SetOverride("b", "title", ov)

	snap := s.Snapshot()
	if got := snap.Slides[1].Overrides["title"]; got != ov {
		t.Fatalf("override = %+v, want %+v", got, ov)
	}
	if snap.Slides[0].Overrides != nil {
		t.Fatal("override leaked onto another slide")
	}

	s.ClearOverride("b", "title")
	if _, ok := s.Snapshot().Slides[1].Overrides["title"]; ok {
		t.Fatal("override not cleared")
	}
}

func TestSetOverrideUnknownSlide(t *testing.T) {
	s := newTestStore()
	s.SetOverride("nope", "title", design.Override{X: 1})
	for _, sl := range s.Snapshot().Slides {
		if len(sl.Overrides) != 0 {
			t.Fatal("override landed on the wrong slide")
		}
	}
}

func TestSetVisibility(t *testing.T) {
	s := newTestStore()
	s.SetVisibility("a", false)
	snap := s.Snapshot()
	if snap.Slides[0].Visible {
		t.Fatal("slide a still visible")
	}
	if !snap.Slides[1].Visible {
		t.Fatal("slide b visibility changed")
	}
	if got := (&snap).VisibleSlides(); len(got) != 1 || got[0].ID != "b" {
		t.Fatalf("visible slides = %v", got)
	}
}

func TestApplyTheme(t *testing.T) {
	s := newTestStore()
	s.ApplyTheme(&design.ThemePreset{
		Name:    "mono",
		Palette: design.Palette{Primary: "#111111"},
	})
	snap := s.Snapshot()
	if snap.Design.Palette.Primary != "#111111" {
		t.Fatalf("primary = %q", snap.Design.Palette.Primary)
	}
	if snap.Design.Fonts.Heading != "Go" {
		t.Fatalf("heading font should inherit, got %q", snap.Design.Fonts.Heading)
	}
}
