// Package fsutil provides the file system primitives edixml uses for inputs and outputs:
// reading interchanges with a content hash, atomic output writes, and sidecar backups
// of outputs that are about to be replaced.
package fsutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
)

// Sentinel errors for error categorization via errors.Is.
var (
	// ErrNotFound indicates the file does not exist.
	ErrNotFound = errors.New("file not found")

	// ErrPermissionDenied indicates a permission error.
	ErrPermissionDenied = errors.New("permission denied")

	// ErrIsDirectory indicates the path is a directory, not a file.
	ErrIsDirectory = errors.New("path is a directory")

	// ErrTooLarge indicates an input larger than the configured limit.
	ErrTooLarge = errors.New("file too large")
)

// StdinPath is the path name used for input read from standard input.
const StdinPath = "-"

// FileInfo describes an input at the time it was read.
type FileInfo struct {
	// Path is the path as given, or StdinPath.
	Path string

	// Mode is the file's permission and mode bits. Zero for stdin.
	Mode os.FileMode

	// ModTime is the file's modification time. Zero for stdin.
	ModTime time.Time

	// Size is the content size in bytes.
	Size int64

	// Hash is the SHA-256 hash of the content.
	Hash [32]byte
}

// HashHex returns the content hash as lowercase hex.
func (fi *FileInfo) HashHex() string {
	return hex.EncodeToString(fi.Hash[:])
}

// ReadFile reads an input file and returns its content along with metadata.
// maxSize limits the file size in bytes; 0 means no limit.
func ReadFile(ctx context.Context, path string, maxSize int64) ([]byte, *FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read file: %w", ctx.Err())
	default:
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}
	if maxSize > 0 && stat.Size() > maxSize {
		return nil, nil, fmt.Errorf("%w: %s is %d bytes, limit %d", ErrTooLarge, path, stat.Size(), maxSize)
	}

	content, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	info := &FileInfo{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    int64(len(content)),
		Hash:    sha256.Sum256(content),
	}

	return content, info, nil
}

// ReadAll reads an input stream such as stdin. The returned FileInfo has Path StdinPath.
func ReadAll(ctx context.Context, r io.Reader, maxSize int64) ([]byte, *FileInfo, error) {
	select {
	case <-ctx.Done():
		return nil, nil, fmt.Errorf("read input: %w", ctx.Err())
	default:
	}

	if maxSize > 0 {
		r = io.LimitReader(r, maxSize+1)
	}
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, nil, fmt.Errorf("read input: %w", err)
	}
	if maxSize > 0 && int64(len(content)) > maxSize {
		return nil, nil, fmt.Errorf("%w: input exceeds %d bytes", ErrTooLarge, maxSize)
	}

	return content, &FileInfo{
		Path: StdinPath,
		Size: int64(len(content)),
		Hash: sha256.Sum256(content),
	}, nil
}

func classify(path string, err error) error {
	switch {
	case os.IsNotExist(err):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case os.IsPermission(err):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
