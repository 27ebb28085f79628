// Package state holds a project behind a single-writer container with
// observer notification, replacing the ambient reactive store of the
// original UI: updates go through one Update entry point and subscribers
// receive an immutable snapshot after each change.
package state

import (
	"sync"

	"github.com/ByLCY/carousel/design"
)

// Store owns one project. All mutation goes through Update; readers get
// deep-copied snapshots and can never alias live state.
type Store struct {
	mu      sync.Mutex
	project design.Project
	subs    map[int]func(design.Project)
	nextSub int
}

// NewStore wraps a project. The store copies it; the caller's value is not
// retained.
func NewStore(p design.Project) *Store {
	return &Store{
		project: snapshot(p),
		subs:    map[int]func(design.Project){},
	}
}

// Snapshot returns a deep copy of the current project.
func (s *Store) Snapshot() design.Project {
	s.mu.Lock()
	defer s.mu.Unlock()
	return snapshot(s.project)
}

// Update applies fn to the project under the writer lock, then notifies
// subscribers with the new snapshot outside the lock.
func (s *Store) Update(fn func(*design.Project)) {
	s.mu.Lock()
	fn(&s.project)
	snap := snapshot(s.project)
	subs := make([]func(design.Project), 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()
	for _, sub := range subs {
		sub(snap)
	}
}

// Subscribe registers fn for change notifications and returns an
// unsubscribe func.
func (s *Store) Subscribe(fn func(design.Project)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// SetOverride stores one per-element override on a slide; the interaction
// layer calls this as the user drags, rotates or restyles an element.
func (s *Store) SetOverride(slideID string, elem design.ElementID, ov design.Override) {
	s.Update(func(p *design.Project) {
		for i := range p.Slides {
			if p.Slides[i].ID != slideID {
				continue
			}
			if p.Slides[i].Overrides == nil {
				p.Slides[i].Overrides = map[design.ElementID]design.Override{}
			}
			p.Slides[i].Overrides[elem] = ov
			return
		}
	})
}

// ClearOverride removes one element override.
func (s *Store) ClearOverride(slideID string, elem design.ElementID) {
	s.Update(func(p *design.Project) {
		for i := range p.Slides {
			if p.Slides[i].ID == slideID {
				delete(p.Slides[i].Overrides, elem)
				return
			}
		}
	})
}

// SetVisibility toggles a slide in or out of the composited sequence; the
// slide itself stays in place for editing.
func (s *Store) SetVisibility(slideID string, visible bool) {
	s.Update(func(p *design.Project) {
		for i := range p.Slides {
			if p.Slides[i].ID == slideID {
				p.Slides[i].Visible = visible
				return
			}
		}
	})
}

// ApplyTheme merges a preset over the current design.
func (s *Store) ApplyTheme(preset *design.ThemePreset) {
	s.Update(func(p *design.Project) {
		p.Design = design.Merge(p.Design, preset)
	})
}

func snapshot(p design.Project) design.Project {
	out := p
	out.Slides = make([]design.Slide, len(p.Slides))
	for i, sl := range p.Slides {
		copySlide := sl
		if sl.Overrides != nil {
			copySlide.Overrides = make(map[design.ElementID]design.Override, len(sl.Overrides))
			for k, v := range sl.Overrides {
				copySlide.Overrides[k] = v
			}
		}
		out.Slides[i] = copySlide
	}
	return out
}
