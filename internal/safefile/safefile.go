// Package safefile opens and reads log and profile files without following
// symlinks or blocking on special files.
package safefile

import (
	"errors"
	"fmt"
	"io"
	"os"
)

var (
	// ErrNotRegularFile is returned for symlinks, FIFOs, devices, sockets and
	// directories.
	ErrNotRegularFile = errors.New("not a regular file")

	// ErrTooLarge is returned by ReadLimited when the file exceeds the limit.
	ErrTooLarge = errors.New("file too large")
)

// OpenRegular opens path after checking, both before and after the open,
// that it is a regular file. The first check uses Lstat so a symlink is
// rejected rather than followed; the second stats the descriptor in case the
// path was swapped in between.
//
// The caller must close the returned file.
func OpenRegular(path string) (*os.File, os.FileInfo, error) {
	linkInfo, err := os.Lstat(path)
	if err != nil {
		return nil, nil, err
	}
	if !linkInfo.Mode().IsRegular() {
		return nil, nil, ErrNotRegularFile
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, ErrNotRegularFile
	}
	return f, info, nil
}

// ReadLimited reads a regular file of at most limit bytes. A limit <= 0
// disables the check. The returned info is the one taken from the open
// descriptor, so its size and modification time describe the bytes read.
func ReadLimited(path string, limit int64) ([]byte, os.FileInfo, error) {
	f, info, err := OpenRegular(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	if limit > 0 && info.Size() > limit {
		return nil, nil, fmt.Errorf("%w: %d bytes (max %d)", ErrTooLarge, info.Size(), limit)
	}

	var r io.Reader = f
	if limit > 0 {
		// One extra byte detects growth between Stat and Read.
		r = io.LimitReader(f, limit+1)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, err
	}
	if limit > 0 && int64(len(data)) > limit {
		return nil, nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, limit)
	}
	return data, info, nil
}
