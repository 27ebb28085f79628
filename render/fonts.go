package render

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/tdewolff/canvas"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Builtin family names always available without registration.
const (
	FamilyGo     = "Go"
	FamilyGoMono = "Go Mono"
)

// fontSet caches canvas font families by name. The Go families are loaded
// from the embedded gofont data, so rendering works without any font files
// on disk; user families registered by path take precedence by name.
type fontSet struct {
	mu       sync.Mutex
	families map[string]*canvas.FontFamily
}

func newFontSet() *fontSet {
	return &fontSet{families: map[string]*canvas.FontFamily{}}
}

// register loads a font file into a (possibly new) family under the given
// style. Style strings follow the usual weight words plus "italic".
func (fs *fontSet) register(name, path, style string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read font %s: %w", path, err)
	}
	fs.mu.Lock()
	defer fs.mu.Unlock()
	family, ok := fs.families[name]
	if !ok {
		family = canvas.NewFontFamily(name)
		fs.families[name] = family
	}
	if err := family.LoadFont(data, 0, parseFontStyle(style)); err != nil {
		return fmt.Errorf("load font %s: %w", path, err)
	}
	return nil
}

// family resolves a family by name, falling back to the builtin Go family.
func (fs *fontSet) family(name string) (*canvas.FontFamily, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if f, ok := fs.families[name]; ok {
		return f, nil
	}
	if name == FamilyGoMono {
		f, err := loadGoMono()
		if err != nil {
			return nil, err
		}
		fs.families[FamilyGoMono] = f
		return f, nil
	}
	f, ok := fs.families[FamilyGo]
	if !ok {
		var err error
		f, err = loadGo()
		if err != nil {
			return nil, err
		}
		fs.families[FamilyGo] = f
	}
	return f, nil
}

func loadGo() (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily(FamilyGo)
	if err := family.LoadFont(goregular.TTF, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load builtin font: %w", err)
	}
	if err := family.LoadFont(gobold.TTF, 0, canvas.FontBold); err != nil {
		return nil, fmt.Errorf("load builtin bold font: %w", err)
	}
	if err := family.LoadFont(goitalic.TTF, 0, canvas.FontItalic); err != nil {
		return nil, fmt.Errorf("load builtin italic font: %w", err)
	}
	return family, nil
}

func loadGoMono() (*canvas.FontFamily, error) {
	family := canvas.NewFontFamily(FamilyGoMono)
	if err := family.LoadFont(gomono.TTF, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("load builtin mono font: %w", err)
	}
	if err := family.LoadFont(gomonobold.TTF, 0, canvas.FontBold); err != nil {
		return nil, fmt.Errorf("load builtin mono bold font: %w", err)
	}
	return family, nil
}

func parseFontStyle(style string) canvas.FontStyle {
	if style == "" {
		return canvas.FontRegular
	}
	s := strings.ToLower(style)
	result := canvas.FontRegular
	switch {
	case strings.Contains(s, "black"):
		result = canvas.FontBlack
	case strings.Contains(s, "extrabold"):
		result = canvas.FontExtraBold
	case strings.Contains(s, "bold"):
		result = canvas.FontBold
	case strings.Contains(s, "semibold"), strings.Contains(s, "demibold"):
		result = canvas.FontSemiBold
	case strings.Contains(s, "medium"):
		result = canvas.FontMedium
	case strings.Contains(s, "light"):
		result = canvas.FontLight
	}
	if strings.Contains(s, "italic") || strings.Contains(s, "oblique") {
		result |= canvas.FontItalic
	}
	return result
}

// boldened returns the style string with bold forced on, for bold spans
// inside an otherwise regular run.
func boldened(style string) string {
	if strings.Contains(strings.ToLower(style), "bold") {
		return style
	}
	if style == "" {
		return "bold"
	}
	return style + " bold"
}
