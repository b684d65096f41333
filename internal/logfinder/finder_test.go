package logfinder

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLog(t *testing.T, path string, age time.Duration) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("01|2024-01-15T20:00:00.0000000+09:00|4D9|Arena|\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	modTime := time.Now().Add(-age)
	if err := os.Chtimes(path, modTime, modTime); err != nil {
		t.Fatal(err)
	}
}

func mustFinder(t *testing.T, glob string) *Finder {
	t.Helper()
	f, err := New(glob)
	if err != nil {
		t.Fatalf("New(%q) error = %v", glob, err)
	}
	return f
}

func TestFindLatestLogFile(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "Network_26101_20240101.log"), 3*time.Hour)
	writeLog(t, filepath.Join(dir, "Network_26101_20240103.log"), time.Hour)
	writeLog(t, filepath.Join(dir, "Network_26101_20240102.log"), 2*time.Hour)
	writeLog(t, filepath.Join(dir, "notes.txt"), 0)

	got, err := mustFinder(t, "").FindLatestLogFile(dir)
	if err != nil {
		t.Fatalf("FindLatestLogFile() error = %v", err)
	}
	if want := "Network_26101_20240103.log"; filepath.Base(got) != want {
		t.Errorf("FindLatestLogFile() = %v, want %v", filepath.Base(got), want)
	}
}

func TestFindLatestLogFile_NoFiles(t *testing.T) {
	_, err := mustFinder(t, "").FindLatestLogFile(t.TempDir())
	if !errors.Is(err, ErrNoLogFiles) {
		t.Errorf("FindLatestLogFile() error = %v, want %v", err, ErrNoLogFiles)
	}
}

func TestList_RecursiveGlob(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "Network_top.log"), 2*time.Hour)
	writeLog(t, filepath.Join(dir, "2024", "01", "Network_nested.log"), time.Hour)
	if err := os.MkdirAll(filepath.Join(dir, "Network_dir.log"), 0o755); err != nil {
		t.Fatal(err)
	}

	flat, err := mustFinder(t, "").List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(flat) != 1 {
		t.Fatalf("List() flat = %d files, want 1", len(flat))
	}

	deep, err := mustFinder(t, "**/Network_*.log").List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(deep) != 2 {
		t.Fatalf("List() recursive = %d files, want 2", len(deep))
	}
	if filepath.Base(deep[0].Path) != "Network_nested.log" {
		t.Errorf("List()[0] = %s, want newest first", deep[0].Path)
	}
	if deep[0].Size == 0 {
		t.Error("List() did not record size")
	}
}

func TestList_SkipsSymlinks(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(t.TempDir(), "Network_target.log")
	writeLog(t, target, 0)
	if err := os.Symlink(target, filepath.Join(dir, "Network_link.log")); err != nil {
		t.Skip("symlinks unavailable:", err)
	}

	files, err := mustFinder(t, "").List(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 0 {
		t.Errorf("List() = %v, want symlink skipped", files)
	}
}

func TestNew_InvalidGlob(t *testing.T) {
	if _, err := New("Network_[.log"); err == nil {
		t.Error("New() expected error for invalid glob")
	}
}

func TestFindLogDir_EnvVar(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "Network_test.log"), 0)
	t.Setenv(EnvLogDir, dir)

	got, err := mustFinder(t, "").FindLogDir("")
	if err != nil {
		t.Fatalf("FindLogDir() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("FindLogDir() = %v, want %v", got, want)
	}
}

func TestFindLogDir_Explicit(t *testing.T) {
	dir := t.TempDir()
	writeLog(t, filepath.Join(dir, "Network_test.log"), 0)
	t.Setenv(EnvLogDir, "/some/other/path")

	got, err := mustFinder(t, "").FindLogDir(dir)
	if err != nil {
		t.Fatalf("FindLogDir() error = %v", err)
	}
	want, _ := filepath.EvalSymlinks(dir)
	if got != want {
		t.Errorf("FindLogDir() = %v, want %v", got, want)
	}
}

func TestFindLogDir_Invalid(t *testing.T) {
	tests := []struct {
		name     string
		explicit string
		env      string
	}{
		{"explicit missing", "/nonexistent/path", ""},
		{"explicit without logs", "", ""},
		{"env missing", "", "/nonexistent/path"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			explicit := tt.explicit
			if tt.name == "explicit without logs" {
				explicit = t.TempDir()
			}
			t.Setenv(EnvLogDir, tt.env)
			t.Setenv("APPDATA", "")
			t.Setenv("HOME", t.TempDir())

			_, err := mustFinder(t, "").FindLogDir(explicit)
			if !errors.Is(err, ErrLogDirNotFound) {
				t.Errorf("FindLogDir() error = %v, want %v", err, ErrLogDirNotFound)
			}
		})
	}
}
