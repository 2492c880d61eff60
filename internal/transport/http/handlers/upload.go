package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/vedran77/vidtube/internal/transport/http/response"
)

const multipartMemory = 32 << 20

// Uploader spools multipart file parts to local files so the media delegate
// can hand them to the object store.
type Uploader struct {
	dir     string
	maxSize int64
}

func NewUploader(dir string, maxSize int64) (*Uploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload dir: %w", err)
	}
	return &Uploader{dir: dir, maxSize: maxSize}, nil
}

// parseForm reads a multipart body. It answers 413 for oversized bodies and
// 400 for anything else that cannot be parsed.
func (u *Uploader) parseForm(w http.ResponseWriter, r *http.Request) bool {
	if u.maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, u.maxSize)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Error(w, http.StatusRequestEntityTooLarge, "Upload is too large")
			return false
		}
		response.Error(w, http.StatusBadRequest, "Expected a multipart form")
		return false
	}
	return true
}

// spool copies the file part named field into the upload dir. It returns ""
// when the part is absent.
func (u *Uploader) spool(r *http.Request, field string) (string, error) {
	file, header, err := r.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", field, err)
	}
	defer file.Close()

	path := filepath.Join(u.dir, uuid.NewString()+strings.ToLower(filepath.Ext(header.Filename)))
	dst, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("spooling %s: %w", field, err)
	}

	if _, err := io.Copy(dst, file); err != nil {
		dst.Close()
		os.Remove(path)
		return "", fmt.Errorf("spooling %s: %w", field, err)
	}
	if err := dst.Close(); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("spooling %s: %w", field, err)
	}
	return path, nil
}

// spoolAll spools each named field. On error every file already written is
// removed.
func (u *Uploader) spoolAll(r *http.Request, fields ...string) ([]string, error) {
	paths := make([]string, 0, len(fields))
	for _, field := range fields {
		path, err := u.spool(r, field)
		if err != nil {
			cleanup(paths...)
			return nil, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// cleanup removes spooled files the media delegate did not consume.
func cleanup(paths ...string) {
	for _, p := range paths {
		if p != "" {
			os.Remove(p)
		}
	}
}

// cleanupForm drops the temporary files net/http created while parsing.
func cleanupForm(r *http.Request) {
	if r.MultipartForm != nil {
		r.MultipartForm.RemoveAll()
	}
}
