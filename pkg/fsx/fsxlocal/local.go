package fsxlocal

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/proconsultancy/backend/pkg/fsx"
)

// LocalFileSystem guarda archivos en disco, para desarrollo
type LocalFileSystem struct {
	basePath string
}

func NewLocalFileSystem(basePath string) (*LocalFileSystem, error) {
	abs, err := filepath.Abs(basePath)
	if err != nil {
		return nil, fsx.ErrStorage().WithCause(err).WithDetail("path", basePath)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fsx.ErrStorage().WithCause(err).WithDetail("path", abs)
	}
	return &LocalFileSystem{basePath: abs}, nil
}

func (l *LocalFileSystem) GetBasePath() string {
	return l.basePath
}

// resolve protege contra path traversal fuera del directorio base
func (l *LocalFileSystem) resolve(path string) (string, error) {
	full := filepath.Join(l.basePath, filepath.Clean("/"+path))
	if !strings.HasPrefix(full, l.basePath) {
		return "", fsx.ErrStorage().WithDetail("path", path).WithMessage("path escapes storage root")
	}
	return full, nil
}

func (l *LocalFileSystem) Write(ctx context.Context, path string, r io.Reader, contentType string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fsx.ErrStorage().WithCause(err).WithDetail("path", path)
	}
	f, err := os.Create(full)
	if err != nil {
		return fsx.ErrStorage().WithCause(err).WithDetail("path", path)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		return fsx.ErrStorage().WithCause(err).WithDetail("path", path)
	}
	return nil
}

func (l *LocalFileSystem) Read(ctx context.Context, path string) (io.ReadCloser, error) {
	full, err := l.resolve(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(full)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fsx.ErrFileNotFound().WithDetail("path", path)
		}
		return nil, fsx.ErrStorage().WithCause(err).WithDetail("path", path)
	}
	return f, nil
}

func (l *LocalFileSystem) Delete(ctx context.Context, path string) error {
	full, err := l.resolve(path)
	if err != nil {
		return err
	}
	if err := os.Remove(full); err != nil {
		if os.IsNotExist(err) {
			return fsx.ErrFileNotFound().WithDetail("path", path)
		}
		return fsx.ErrStorage().WithCause(err).WithDetail("path", path)
	}
	return nil
}

func (l *LocalFileSystem) Exists(ctx context.Context, path string) (bool, error) {
	full, err := l.resolve(path)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(full); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, fsx.ErrStorage().WithCause(err).WithDetail("path", path)
	}
	return true, nil
}
