// Package textfit sizes typography to fill a bounded box without overflow.
// The search is shrink-only: a seed size that already fits is returned as-is,
// there is no grow pass. Measurement is delegated to a Measurer capability so
// the algorithm stays platform-independent.
package textfit

import (
	"fmt"
	"sync"
	"unicode/utf8"
)

// Font describes the face a measurement runs with. Family names a registered
// font family; Style follows the renderer's style strings ("bold", "italic",
// "bold italic", "").
type Font struct {
	Family string
	Style  string
}

// Measurer applies a font size and reports the rendered height of content
// wrapped into the given width. Content is measured as it will render,
// inline weight markup included. Heights and widths are canonical pixels.
type Measurer interface {
	MeasureHeight(content string, font Font, sizePx, width, lineHeight float64) (float64, error)
}

// Box is the fixed container the text must fit into.
type Box struct {
	Width  float64
	Height float64
}

// Options bounds the search. BaseSize is the role-tuned starting size;
// LineHeight is a factor over the font size (0 means 1.2).
type Options struct {
	MinSize    float64
	MaxSize    float64
	BaseSize   float64
	Font       Font
	LineHeight float64
}

// BoundsError reports a caller contract violation on the size bounds.
type BoundsError struct {
	Min, Max float64
}

func (e *BoundsError) Error() string {
	return fmt.Sprintf("textfit: invalid bounds min=%g max=%g", e.Min, e.Max)
}

// Length thresholds and factor for the heuristic seed.
const (
	shortTextRunes = 10
	longTextRunes  = 150
	longTextFactor = 0.6
)

type fitKey struct {
	text       string
	w, h       float64
	font       Font
	min, max   float64
	base       float64
	lineHeight float64
}

// Fitter memoizes fit results per (text, box, font, bounds) tuple. Each
// measurement forces a layout pass, so repeated renders of unchanged input
// must not re-run the search.
type Fitter struct {
	m Measurer

	mu    sync.Mutex
	cache map[fitKey]float64
}

// NewFitter wraps a measurer.
func NewFitter(m Measurer) *Fitter {
	return &Fitter{m: m, cache: map[fitKey]float64{}}
}

// Fit returns the largest integer font size in [MinSize, MaxSize] at which
// content does not vertically overflow the box. Empty content and
// zero-height boxes trivially return MinSize.
func (f *Fitter) Fit(content string, box Box, opts Options) (float64, error) {
	if opts.MinSize > opts.MaxSize {
		return 0, &BoundsError{Min: opts.MinSize, Max: opts.MaxSize}
	}
	if content == "" || box.Height <= 0 {
		return opts.MinSize, nil
	}
	if opts.BaseSize <= 0 {
		opts.BaseSize = opts.MaxSize
	}
	if opts.LineHeight <= 0 {
		opts.LineHeight = 1.2
	}

	key := fitKey{
		text: content, w: box.Width, h: box.Height,
		font: opts.Font, min: opts.MinSize, max: opts.MaxSize,
		base: opts.BaseSize, lineHeight: opts.LineHeight,
	}
	f.mu.Lock()
	if size, ok := f.cache[key]; ok {
		f.mu.Unlock()
		return size, nil
	}
	f.mu.Unlock()

	size, err := f.search(content, box, opts)
	if err != nil {
		return 0, err
	}
	f.mu.Lock()
	f.cache[key] = size
	f.mu.Unlock()
	return size, nil
}

func (f *Fitter) search(content string, box Box, opts Options) (float64, error) {
	seed := seedSize(content, opts)

	h, err := f.m.MeasureHeight(content, opts.Font, seed, box.Width, opts.LineHeight)
	if err != nil {
		return 0, err
	}
	if h <= box.Height {
		// Already fits at the seed: shrink-only policy, never enlarge.
		if seed < opts.MinSize {
			return opts.MinSize, nil
		}
		return seed, nil
	}

	lo := int(opts.MinSize)
	hi := int(seed)
	best := 0.0
	for lo <= hi {
		mid := (lo + hi) / 2
		h, err := f.m.MeasureHeight(content, opts.Font, float64(mid), box.Width, opts.LineHeight)
		if err != nil {
			return 0, err
		}
		if h <= box.Height {
			best = float64(mid)
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	if best == 0 {
		return opts.MinSize, nil
	}
	return best, nil
}

// seedSize biases the starting size by text length: very short text starts
// at the maximum, very long text well below the base.
func seedSize(content string, opts Options) float64 {
	n := utf8.RuneCountInString(content)
	var seed float64
	switch {
	case n < shortTextRunes:
		seed = opts.MaxSize
	case n > longTextRunes:
		seed = opts.BaseSize * longTextFactor
	default:
		seed = opts.BaseSize
	}
	if seed > opts.MaxSize {
		seed = opts.MaxSize
	}
	if seed < opts.MinSize {
		seed = opts.MinSize
	}
	return seed
}
