//go:build integration

package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/wedaren/issue-manager/pkg/issuetree"
	"github.com/wedaren/issue-manager/pkg/service"
)

func TestIntegration(t *testing.T) {
	// Skip if not running integration tests
	if os.Getenv("RUN_INTEGRATION_TESTS") == "" {
		t.Skip("Skipping integration test. Set RUN_INTEGRATION_TESTS=1 to run.")
	}

	tmpDir := t.TempDir()
	cfg := &service.Config{
		Root:        filepath.Join(tmpDir, "notes"),
		DataDir:     filepath.Join(tmpDir, "data"),
		QuietPeriod: 20 * time.Millisecond,
	}

	svc, err := service.New(cfg, nil)
	if err != nil {
		t.Fatalf("Failed to create service: %v", err)
	}

	var parentID, childID string

	t.Run("CreateAndMove", func(t *testing.T) {
		parent, err := svc.CreateIssue("Release checklist", "")
		if err != nil {
			t.Fatalf("Failed to create issue: %v", err)
		}
		parentID = parent.ID

		child, err := svc.CreateIssue("Write changelog", "")
		if err != nil {
			t.Fatalf("Failed to create issue: %v", err)
		}
		childID = child.ID

		if err := svc.Engine.MoveTo([]string{childID}, parentID); err != nil {
			t.Fatalf("Failed to move issue: %v", err)
		}

		doc := svc.Store.Read()
		if len(doc.RootNodes) != 1 {
			t.Fatalf("Expected 1 root node, got %d", len(doc.RootNodes))
		}
		if len(doc.RootNodes[0].Children) != 1 {
			t.Fatalf("Expected 1 child, got %d", len(doc.RootNodes[0].Children))
		}
	})

	t.Run("CycleRejected", func(t *testing.T) {
		err := svc.Engine.MoveTo([]string{parentID}, childID)
		if err == nil {
			t.Fatal("Expected moving a parent under its child to fail")
		}
	})

	t.Run("FocusProjection", func(t *testing.T) {
		if err := svc.Focus.Add(childID); err != nil {
			t.Fatalf("Failed to focus issue: %v", err)
		}

		projected := issuetree.Project(svc.Store.Read(), svc.Focus.Read())
		if len(projected) != 1 {
			t.Fatalf("Expected 1 projected root, got %d", len(projected))
		}
		if issuetree.StripFocusedID(projected[0].ID) != childID {
			t.Errorf("Projected root should be the focused issue")
		}
	})

	t.Run("ExpandSyncFlush", func(t *testing.T) {
		svc.Sync.Record(parentID, true)
		if err := svc.Sync.Flush(); err != nil {
			t.Fatalf("Failed to flush expand state: %v", err)
		}

		n := issuetree.FindNode(svc.Store.Read().RootNodes, parentID)
		if n == nil || n.Expanded == nil || !*n.Expanded {
			t.Error("Expanded state did not persist")
		}
	})

	if err := svc.Close(); err != nil {
		t.Fatalf("Failed to close service: %v", err)
	}

	t.Run("Reopen", func(t *testing.T) {
		svc2, err := service.New(cfg, nil)
		if err != nil {
			t.Fatalf("Failed to reopen service: %v", err)
		}
		defer svc2.Close()

		doc := svc2.Store.Read()
		if issuetree.CountNodes(doc.RootNodes) != 2 {
			t.Errorf("Expected 2 nodes after reopen, got %d", issuetree.CountNodes(doc.RootNodes))
		}
		if len(svc2.Focus.Read()) != 1 {
			t.Errorf("Expected 1 focus marker after reopen, got %d", len(svc2.Focus.Read()))
		}
	})
}
