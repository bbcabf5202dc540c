// Package atomicfile replaces files so readers never observe a partial write.
//
// Content goes to a hidden temporary file in the destination directory, is
// flushed and synced, and is then renamed over the destination. On failure
// the temporary file is removed and any previous destination is untouched.
package atomicfile

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// TempPattern is the name pattern of in-flight temporary files.
const TempPattern = ".tmp-*"

const bufferSize = 64 * 1024

// WriteFile atomically replaces path with data.
func WriteFile(ctx context.Context, path string, data []byte, perm os.FileMode) error {
	return Write(ctx, path, &byteReader{data: data}, perm)
}

// Write atomically replaces path with everything read from r.
// The parent directory is created if it does not exist.
func Write(ctx context.Context, path string, r io.Reader, perm os.FileMode) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, TempPattern)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()

	fail := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(tmpPath)
		return err
	}

	if err := tmp.Chmod(perm); err != nil {
		return fail(fmt.Errorf("chmod temp file: %w", err))
	}

	bw := bufio.NewWriterSize(tmp, bufferSize)
	if _, err := io.Copy(bw, &ctxReader{ctx: ctx, r: r}); err != nil {
		return fail(err)
	}
	if err := bw.Flush(); err != nil {
		return fail(fmt.Errorf("flush %s: %w", tmpPath, err))
	}
	if err := tmp.Sync(); err != nil {
		return fail(fmt.Errorf("sync %s: %w", tmpPath, err))
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close %s: %w", tmpPath, err)
	}

	if err := replace(tmpPath, path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("replace %s: %w", path, err)
	}

	// Best effort; the rename has already happened.
	_ = syncDir(dir)
	return nil
}

// ctxReader checks for cancellation before each read.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (cr *ctxReader) Read(p []byte) (int, error) {
	if err := cr.ctx.Err(); err != nil {
		return 0, err
	}
	return cr.r.Read(p)
}

type byteReader struct {
	data []byte
}

func (b *byteReader) Read(p []byte) (int, error) {
	if len(b.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, b.data)
	b.data = b.data[n:]
	return n, nil
}
