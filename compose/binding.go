package compose

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ByLCY/carousel/design"
)

// Content fields may reference project data with ${path} placeholders, e.g.
// "follow ${author.handle}". Unknown paths keep the literal placeholder so a
// typo is visible instead of silently blank.

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// ProjectData exposes the bindable fields of a project as a lookup tree.
func ProjectData(p *design.Project) map[string]any {
	if p == nil {
		return nil
	}
	return map[string]any{
		"title": p.Title,
		"author": map[string]any{
			"name":   p.Author.Name,
			"handle": p.Author.Handle,
		},
		"slides": len(p.Slides),
	}
}

// Interpolate replaces ${path.to.value} placeholders with values from data.
func Interpolate(text string, data map[string]any) string {
	if data == nil || !strings.Contains(text, "${") {
		return text
	}
	return placeholderPattern.ReplaceAllStringFunc(text, func(match string) string {
		groups := placeholderPattern.FindStringSubmatch(match)
		if len(groups) < 2 {
			return match
		}
		path := strings.TrimSpace(groups[1])
		if path == "" {
			return match
		}
		val, ok := lookupPath(data, path)
		if !ok {
			return match
		}
		if _, isBranch := val.(map[string]any); isBranch {
			// Non-leaf paths stay literal, same as typos.
			return match
		}
		return fmt.Sprint(val)
	})
}

func lookupPath(data map[string]any, path string) (any, bool) {
	var current any = data
	for _, segment := range strings.Split(path, ".") {
		m, ok := current.(map[string]any)
		if !ok {
			return nil, false
		}
		current, ok = m[segment]
		if !ok {
			return nil, false
		}
	}
	return current, true
}
