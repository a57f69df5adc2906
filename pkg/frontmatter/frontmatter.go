// Package frontmatter parses and builds the YAML metadata block at the top
// of issue note files. Only the fields the issue manager consumes are
// modeled; unknown keys survive a parse but are not round-tripped.
package frontmatter

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

var frontmatterPattern = regexp.MustCompile(`(?s)^---\n(.*?)\n---\n?(.*)`)

// Frontmatter is the structured metadata of an issue note.
type Frontmatter struct {
	Title    string   `yaml:"title"`
	Tags     []string `yaml:"tags,flow,omitempty"`
	Created  string   `yaml:"created,omitempty"`
	Modified string   `yaml:"modified,omitempty"`
}

// Parse extracts frontmatter from content and returns it along with the body.
// Content without a frontmatter block returns a nil Frontmatter and the
// content unchanged.
func Parse(content string) (*Frontmatter, string, error) {
	matches := frontmatterPattern.FindStringSubmatch(content)
	if len(matches) != 3 {
		return nil, content, nil
	}

	var fm Frontmatter
	if err := yaml.Unmarshal([]byte(matches[1]), &fm); err != nil {
		return nil, content, fmt.Errorf("parse frontmatter: %w", err)
	}
	return &fm, matches[2], nil
}

// Build renders the frontmatter block, fields in a consistent order.
func Build(fm *Frontmatter) string {
	var sb strings.Builder

	sb.WriteString("---\n")
	sb.WriteString(fmt.Sprintf("title: %s\n", quoteIfNeeded(fm.Title)))
	if len(fm.Tags) > 0 {
		sb.WriteString(fmt.Sprintf("tags: %s\n", formatFlowArray(fm.Tags)))
	}
	if fm.Created != "" {
		sb.WriteString(fmt.Sprintf("created: %s\n", fm.Created))
	}
	if fm.Modified != "" {
		sb.WriteString(fmt.Sprintf("modified: %s\n", fm.Modified))
	}
	sb.WriteString("---")

	return sb.String()
}

// BuildContent combines frontmatter and body into a complete note.
func BuildContent(fm *Frontmatter, body string) string {
	block := Build(fm)
	if !strings.HasPrefix(body, "\n") {
		return block + "\n\n" + body
	}
	return block + "\n" + body
}

// FormatTimestamp renders a time in the standard frontmatter format.
func FormatTimestamp(t time.Time) string {
	return t.Format("2006-01-02 15:04:05")
}

// ParseTimestamp parses a frontmatter timestamp.
func ParseTimestamp(s string) (time.Time, error) {
	return time.Parse("2006-01-02 15:04:05", s)
}

func formatFlowArray(items []string) string {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = quoteIfNeeded(item)
	}
	return fmt.Sprintf("[%s]", strings.Join(quoted, ", "))
}

func quoteIfNeeded(s string) string {
	if strings.ContainsAny(s, ",:[]{}\"'#") {
		return fmt.Sprintf("%q", s)
	}
	return s
}
