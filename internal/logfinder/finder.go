// Package logfinder locates ACT network log directories and files.
package logfinder

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// EnvLogDir is the environment variable naming the log directory.
const EnvLogDir = "ACTLOG_LOGDIR"

// DefaultGlob matches the network logs ACT and IINACT write.
const DefaultGlob = "Network_*.log"

// Sentinel errors.
var (
	ErrLogDirNotFound = errors.New("log directory not found")
	ErrNoLogFiles     = errors.New("no log files found")
)

// DefaultLogDirs returns candidate log directories in priority order.
func DefaultLogDirs() []string {
	var dirs []string
	if appData := os.Getenv("APPDATA"); appData != "" {
		dirs = append(dirs, filepath.Join(appData, "Advanced Combat Tracker", "FFXIVLogs"))
	}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, "Documents", "IINACT"),
			filepath.Join(home, "AppData", "Roaming", "Advanced Combat Tracker", "FFXIVLogs"),
		)
	}
	return dirs
}

// Finder matches log files inside a directory with a doublestar pattern,
// so "**/Network_*.log" also finds logs in dated subdirectories.
type Finder struct {
	Glob string
}

// New returns a Finder for glob, or DefaultGlob when glob is empty.
func New(glob string) (*Finder, error) {
	if glob == "" {
		glob = DefaultGlob
	}
	if !doublestar.ValidatePattern(glob) {
		return nil, fmt.Errorf("invalid log glob %q", glob)
	}
	return &Finder{Glob: glob}, nil
}

// FindLogDir returns the log directory.
//
// Priority:
//  1. explicit (if non-empty)
//  2. ACTLOG_LOGDIR environment variable
//  3. the first of DefaultLogDirs holding a matching file
//
// The returned path has symlinks resolved.
func (f *Finder) FindLogDir(explicit string) (string, error) {
	if explicit != "" {
		if resolved := f.resolveLogDir(explicit); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: specified directory is invalid or contains no log files", ErrLogDirNotFound)
	}

	if envDir := os.Getenv(EnvLogDir); envDir != "" {
		if resolved := f.resolveLogDir(envDir); resolved != "" {
			return resolved, nil
		}
		return "", fmt.Errorf("%w: %s environment variable points to invalid directory", ErrLogDirNotFound, EnvLogDir)
	}

	for _, dir := range DefaultLogDirs() {
		if resolved := f.resolveLogDir(dir); resolved != "" {
			return resolved, nil
		}
	}
	return "", ErrLogDirNotFound
}

// LogFile is a matched log with the stat result taken while listing.
type LogFile struct {
	Path    string
	Size    int64
	ModTime int64 // unix nanoseconds
}

// List returns the regular files in dir matching the glob, newest first.
// Files that disappear or turn out not to be regular while listing are
// skipped.
func (f *Finder) List(dir string) ([]LogFile, error) {
	matches, err := doublestar.Glob(os.DirFS(dir), f.Glob, doublestar.WithFilesOnly())
	if err != nil {
		return nil, fmt.Errorf("globbing log files: %w", err)
	}

	files := make([]LogFile, 0, len(matches))
	for _, m := range matches {
		path := filepath.Join(dir, filepath.FromSlash(m))
		info, err := os.Lstat(path)
		if err != nil || !info.Mode().IsRegular() {
			continue
		}
		files = append(files, LogFile{
			Path:    path,
			Size:    info.Size(),
			ModTime: info.ModTime().UnixNano(),
		})
	}

	sort.SliceStable(files, func(i, j int) bool {
		if files[i].ModTime != files[j].ModTime {
			return files[i].ModTime > files[j].ModTime
		}
		return files[i].Path > files[j].Path
	})
	return files, nil
}

// FindLatestLogFile returns the most recently modified log in dir.
func (f *Finder) FindLatestLogFile(dir string) (string, error) {
	files, err := f.List(dir)
	if err != nil {
		return "", err
	}
	if len(files) == 0 {
		return "", ErrNoLogFiles
	}
	return files[0].Path, nil
}

// resolveLogDir resolves symlinks and returns the directory if it holds at
// least one matching file, or "" otherwise.
func (f *Finder) resolveLogDir(dir string) string {
	info, err := os.Stat(dir)
	if err != nil || !info.IsDir() {
		return ""
	}
	resolved, err := filepath.EvalSymlinks(dir)
	if err != nil {
		return ""
	}
	files, err := f.List(resolved)
	if err != nil || len(files) == 0 {
		return ""
	}
	return resolved
}
