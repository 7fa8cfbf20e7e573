package llm

import (
	"regexp"
	"strings"
	"time"
)

// PromptTemplate is a reusable prompt with {{name}} placeholders. Variables
// is always the deduplicated placeholder set extracted from Content; it is
// regenerated on every save, never trusted from the caller.
type PromptTemplate struct {
	ID          string    `json:"id"` // UUID
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Content     string    `json:"content"`
	Variables   []string  `json:"variables"`
	Category    string    `json:"category,omitempty"`
	Tags        []string  `json:"tags,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

var placeholderRe = regexp.MustCompile(`\{\{([^{}]*)\}\}`)

// ExtractVariables returns the placeholder names in content, in order of
// first appearance, deduplicated. Names are trimmed of surrounding
// whitespace; empty and whitespace-only placeholders are dropped.
func ExtractVariables(content string) []string {
	matches := placeholderRe.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return []string{}
	}

	seen := make(map[string]struct{}, len(matches))
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		name := strings.TrimSpace(m[1])
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		out = append(out, name)
	}
	return out
}

// RenderTemplate substitutes vars into content. Placeholders without a
// binding are left as-is so the gap is visible in the rendered prompt.
func RenderTemplate(content string, vars map[string]string) string {
	return placeholderRe.ReplaceAllStringFunc(content, func(match string) string {
		name := strings.TrimSpace(match[2 : len(match)-2])
		if v, ok := vars[name]; ok {
			return v
		}
		return match
	})
}
