package fileutil

import (
	"io"
	"os"

	"github.com/thoreinstein/lidator/internal/errors"
)

// MaxFileSize is the largest document or rule set read by default (4MB).
const MaxFileSize = 4 << 20

// Stdin is the path that selects standard input in ReadInput.
const Stdin = "-"

// ErrFileTooLarge indicates that input exceeded its size limit.
var ErrFileTooLarge = errors.New("file exceeds maximum size")

// ReadFileWithLimit reads path, failing with ErrFileTooLarge beyond MaxFileSize.
func ReadFileWithLimit(path string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "opening file")
	}
	defer f.Close()

	if info, err := f.Stat(); err == nil && info.Size() > MaxFileSize {
		return nil, errors.Wrapf(ErrFileTooLarge, "%s is %d bytes, limit %d", path, info.Size(), MaxFileSize)
	}
	return ReadAllLimited(f, MaxFileSize)
}

// ReadAllLimited reads r to EOF, failing with ErrFileTooLarge past limit bytes.
func ReadAllLimited(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, errors.Wrap(err, "reading input")
	}
	if int64(len(data)) > limit {
		return nil, errors.Wrapf(ErrFileTooLarge, "limit %d bytes", limit)
	}
	return data, nil
}

// ReadInput reads path, or stdin when path is Stdin.
func ReadInput(path string, stdin io.Reader) ([]byte, error) {
	if path == Stdin {
		return ReadAllLimited(stdin, MaxFileSize)
	}
	return ReadFileWithLimit(path)
}
