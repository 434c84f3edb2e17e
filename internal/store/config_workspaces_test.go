package store

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestWorkspaceDir_UnderConfigDir(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("VITAE_CONFIG_DIR", cfgDir)

	dir, err := WorkspaceDir(" personal ")
	if err != nil {
		t.Fatalf("WorkspaceDir: %v", err)
	}
	if want := filepath.Join(cfgDir, "workspaces", "personal"); dir != want {
		t.Fatalf("expected %q, got %q", want, dir)
	}
	if _, err := WorkspaceDir("../escape"); err == nil {
		t.Fatalf("expected path separators to be rejected")
	}
}

func TestListWorkspaces_OnlyDirectories(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("VITAE_CONFIG_DIR", cfgDir)

	got, err := ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces (empty): %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no workspaces, got %v", got)
	}

	root := filepath.Join(cfgDir, "workspaces")
	for _, name := range []string{"work", "default"} {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}
	if err := os.WriteFile(filepath.Join(root, "stray.txt"), []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	got, err = ListWorkspaces()
	if err != nil {
		t.Fatalf("ListWorkspaces: %v", err)
	}
	if want := []string{"default", "work"}; !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}
