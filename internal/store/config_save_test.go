package store

import (
	"os"
	"path/filepath"
	"sync"
	"testing"
)

func TestSaveConfig_RoundTripAndBackup(t *testing.T) {
	cfgDir := t.TempDir()
	t.Setenv("VITAE_CONFIG_DIR", cfgDir)

	if err := SaveConfig(&GlobalConfig{CurrentWorkspace: "a"}); err != nil {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := UpdateConfig(func(cfg *GlobalConfig) {
		cfg.SkipItemDeleteConfirmation = true
		cfg.Export = &ExportConfig{Bucket: "resumes", Region: "auto"}
	}); err != nil {
		t.Fatalf("UpdateConfig: %v", err)
	}

	cfg, err := LoadConfig()
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.CurrentWorkspace != "a" || !cfg.SkipItemDeleteConfirmation || cfg.Export == nil || cfg.Export.Bucket != "resumes" {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if _, err := os.Stat(filepath.Join(cfgDir, "config.json.bak")); err != nil {
		t.Fatalf("expected backup file: %v", err)
	}
}

func TestSaveConfig_ConcurrentWriters_DoesNotCorruptConfig(t *testing.T) {
	t.Setenv("VITAE_CONFIG_DIR", t.TempDir())
	if err := SaveConfig(&GlobalConfig{CurrentWorkspace: "seed"}); err != nil {
		t.Fatalf("SaveConfig(seed): %v", err)
	}

	const n = 32
	var wg sync.WaitGroup
	errCh := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			cfg := &GlobalConfig{CurrentWorkspace: "seed", SkipItemDeleteConfirmation: i%2 == 0}
			if err := SaveConfig(cfg); err != nil {
				errCh <- err
			}
		}(i)
	}
	wg.Wait()
	close(errCh)
	for err := range errCh {
		t.Fatalf("SaveConfig: %v", err)
	}
	if _, err := LoadConfig(); err != nil {
		t.Fatalf("config must stay valid JSON: %v", err)
	}
}

func TestNormalizeWorkspaceName(t *testing.T) {
	t.Parallel()
	if _, err := NormalizeWorkspaceName("  "); err == nil {
		t.Fatalf("expected error for empty name")
	}
	if _, err := NormalizeWorkspaceName("../x"); err == nil {
		t.Fatalf("expected error for path name")
	}
	if got, err := NormalizeWorkspaceName(" work "); err != nil || got != "work" {
		t.Fatalf("got %q %v", got, err)
	}
}
