package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(filepath.Join(t.TempDir(), SettingsFileName))
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	return store
}

func TestDefaultsSeeded(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	// The settings file exists after construction.
	if _, err := os.Stat(store.Path()); err != nil {
		t.Fatalf("settings file not created: %v", err)
	}

	v, err := store.Get(SectionUI, "pageSize")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if Int(v, 0) != 20 {
		t.Errorf("ui.pageSize default = %v, want 20", v)
	}

	v, _ = store.Get(SectionDB, "autoBackup")
	if !Bool(v, false) {
		t.Error("db.autoBackup default should be true")
	}
}

func TestSetPersistsAcrossReopen(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), SettingsFileName)

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	if err := store.Set(SectionUI, "theme", "dark"); err != nil {
		t.Fatalf("Set: %v", err)
	}

	reopened, err := NewStore(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	v, err := reopened.Get(SectionUI, "theme")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if String(v, "") != "dark" {
		t.Errorf("ui.theme after reopen = %v, want dark", v)
	}
}

func TestUnknownSectionRejected(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	if _, err := store.Get("bogus", "key"); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("Get(bogus) = %v, want ErrUnknownSection", err)
	}
	if err := store.Set("bogus", "key", 1); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("Set(bogus) = %v, want ErrUnknownSection", err)
	}
	if err := store.ResetSection("bogus"); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("ResetSection(bogus) = %v, want ErrUnknownSection", err)
	}
}

func TestSetSectionMerges(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	if err := store.SetSection(SectionUI, map[string]any{"pageSize": 50}); err != nil {
		t.Fatalf("SetSection: %v", err)
	}
	section, err := store.GetSection(SectionUI)
	if err != nil {
		t.Fatalf("GetSection: %v", err)
	}
	if Int(section["pageSize"], 0) != 50 {
		t.Errorf("pageSize = %v, want 50", section["pageSize"])
	}
	// Untouched keys keep their defaults.
	if _, ok := section["theme"]; !ok {
		t.Error("merge dropped untouched keys")
	}
}

func TestResetSectionRestoresDefaults(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	store.Set(SectionUI, "pageSize", 99)
	if err := store.ResetSection(SectionUI); err != nil {
		t.Fatalf("ResetSection: %v", err)
	}
	v, _ := store.Get(SectionUI, "pageSize")
	if Int(v, 0) != 20 {
		t.Errorf("pageSize after reset = %v, want 20", v)
	}
}

func TestResetAllLeavesDataBlobs(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	if err := store.SetData("llmConfigs", []string{"keep-me"}); err != nil {
		t.Fatalf("SetData: %v", err)
	}
	store.Set(SectionUI, "pageSize", 99)

	if err := store.ResetAll(); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}

	v, _ := store.Get(SectionUI, "pageSize")
	if Int(v, 0) != 20 {
		t.Errorf("pageSize after resetAll = %v, want 20", v)
	}

	var blob []string
	ok, err := store.GetData("llmConfigs", &blob)
	if err != nil || !ok {
		t.Fatalf("GetData after resetAll: ok=%v err=%v", ok, err)
	}
	if len(blob) != 1 || blob[0] != "keep-me" {
		t.Errorf("blob = %v, want [keep-me]", blob)
	}
}

func TestGetDataMissing(t *testing.T) {
	t.Parallel()
	store := newTestStore(t)

	var out []string
	ok, err := store.GetData("never-written", &out)
	if err != nil {
		t.Fatalf("GetData: %v", err)
	}
	if ok {
		t.Error("GetData for unwritten blob should report false")
	}
}

func TestUnknownSectionsOnDiskIgnored(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), SettingsFileName)
	content := `{"sections":{"ui":{"pageSize":33},"leftover":{"key":1}},"data":{}}`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	store, err := NewStore(path)
	if err != nil {
		t.Fatalf("NewStore: %v", err)
	}
	v, err := store.Get(SectionUI, "pageSize")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if Int(v, 0) != 33 {
		t.Errorf("pageSize = %v, want on-disk 33", v)
	}
	if _, err := store.Get("leftover", "key"); !errors.Is(err, ErrUnknownSection) {
		t.Errorf("unknown on-disk section should stay unknown, got %v", err)
	}
}

func TestHelperConversions(t *testing.T) {
	t.Parallel()

	if got := Int(float64(42), 0); got != 42 {
		t.Errorf("Int(float64) = %d", got)
	}
	if got := Int("nope", 7); got != 7 {
		t.Errorf("Int(string) fallback = %d", got)
	}
	if got := Bool(true, false); !got {
		t.Error("Bool(true) = false")
	}
	if got := Bool(nil, true); !got {
		t.Error("Bool(nil) fallback = false")
	}
	if got := String("x", "y"); got != "x" {
		t.Errorf("String = %q", got)
	}
	if got := String(3, "y"); got != "y" {
		t.Errorf("String(int) fallback = %q", got)
	}
}

func TestGetDataDirEnvOverride(t *testing.T) {
	dir := t.TempDir()
	t.Setenv(EnvDataDir, dir)
	if got := GetDataDir(); got != dir {
		t.Errorf("GetDataDir = %q, want %q", got, dir)
	}
}
