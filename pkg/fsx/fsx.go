package fsx

import (
	"context"
	"io"
	"net/http"

	"github.com/proconsultancy/backend/pkg/errx"
)

// FileSystem abstrae el almacenamiento de archivos (CVs, adjuntos).
// Implementaciones: fsxlocal (disco) y fsxs3 (AWS S3).
type FileSystem interface {
	Write(ctx context.Context, path string, r io.Reader, contentType string) error
	Read(ctx context.Context, path string) (io.ReadCloser, error)
	Delete(ctx context.Context, path string) error
	Exists(ctx context.Context, path string) (bool, error)
}

// ============================================================================
// Error Registry
// ============================================================================

var ErrRegistry = errx.NewRegistry("FSX")

var (
	CodeFileNotFound = ErrRegistry.Register("FILE_NOT_FOUND", errx.TypeNotFound, http.StatusNotFound, "File not found")
	CodeStorageError = ErrRegistry.Register("STORAGE_ERROR", errx.TypeInternal, http.StatusInternalServerError, "Storage operation failed")
)

func ErrFileNotFound() *errx.Error {
	return ErrRegistry.New(CodeFileNotFound)
}

func ErrStorage() *errx.Error {
	return ErrRegistry.New(CodeStorageError)
}
