package service

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/wedaren/issue-manager/pkg/frontmatter"
	"github.com/wedaren/issue-manager/pkg/issuetree"
)

// GenerateFilename creates a timestamped filename for a new issue note.
func GenerateFilename(title string) string {
	date := time.Now().Format("20060102")
	if slug := sanitizeFilename(title); slug != "" {
		return fmt.Sprintf("%s-%s.md", date, slug)
	}
	return fmt.Sprintf("%s-%s.md", date, time.Now().Format("150405"))
}

// sanitizeFilename makes a title safe to use as a filename component.
func sanitizeFilename(s string) string {
	s = strings.ReplaceAll(s, " ", "-")
	for _, char := range []string{"/", "\\", ":", "*", "?", `"`, "<", ">", "|", "#"} {
		s = strings.ReplaceAll(s, char, "")
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// CreateIssue writes a new note file under the root and inserts a node for
// it as the first child of parentID (or as a new root when parentID is
// empty). It returns the created node.
func (s *Service) CreateIssue(title, parentID string) (*issuetree.IssueNode, error) {
	relPath := GenerateFilename(title)
	absPath := filepath.Join(s.Config.Root, relPath)

	if _, err := os.Stat(absPath); err == nil {
		return nil, fmt.Errorf("note %s already exists", relPath)
	}

	now := frontmatter.FormatTimestamp(time.Now())
	content := frontmatter.BuildContent(&frontmatter.Frontmatter{
		Title:   title,
		Created: now,
	}, "")
	if err := os.WriteFile(absPath, []byte(content), 0644); err != nil {
		return nil, fmt.Errorf("write note: %w", err)
	}

	node, err := s.Engine.AddSubIssue(parentID, relPath)
	if err != nil {
		// The tree entry failed; keep the file, the user wrote nothing
		// into it yet but it is theirs now.
		return nil, fmt.Errorf("add issue to tree: %w", err)
	}
	return node, nil
}

// AdoptFile inserts a node for an existing note file without touching the
// file, as the first child of parentID (or as a new root when parentID is
// empty).
func (s *Service) AdoptFile(relPath, parentID string) (*issuetree.IssueNode, error) {
	rel := filepath.ToSlash(filepath.Clean(relPath))
	if strings.HasPrefix(rel, "..") || filepath.IsAbs(relPath) {
		return nil, fmt.Errorf("note path %q is outside the root", relPath)
	}
	if _, err := os.Stat(filepath.Join(s.Config.Root, rel)); err != nil {
		return nil, fmt.Errorf("note file: %w", err)
	}
	return s.Engine.AddSubIssue(parentID, rel)
}

// OpenInEditor opens a note file in the configured editor.
func (s *Service) OpenInEditor(relPath string) error {
	editor := s.Config.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		editor = "vim" // fallback
	}
	return runEditor(editor, filepath.Join(s.Config.Root, filepath.FromSlash(relPath)))
}
