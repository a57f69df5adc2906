package service

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
)

func runEditor(editor, path string) error {
	cmd := exec.Command(editor, path)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

// EditorCommand builds an un-started editor command for a note file, for
// callers that manage the terminal themselves (the TUI hands it to
// tea.ExecProcess).
func (s *Service) EditorCommand(relPath string) (*exec.Cmd, error) {
	editor := s.Config.Editor
	if editor == "" {
		editor = os.Getenv("EDITOR")
	}
	if editor == "" {
		return nil, errors.New("no editor configured")
	}
	return exec.Command(editor, filepath.Join(s.Config.Root, filepath.FromSlash(relPath))), nil
}
