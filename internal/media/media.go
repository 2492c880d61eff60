package media

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	gobreaker "github.com/sony/gobreaker/v2"

	"github.com/vedran77/vidtube/internal/logging"
	"github.com/vedran77/vidtube/internal/metrics"
)

var ErrUpload = errors.New("media upload failed")

type Asset struct {
	URL string `json:"url"`
	Key string `json:"key"`
}

// Store persists media objects under a key and maps keys to public URLs.
type Store interface {
	Put(ctx context.Context, key, localPath string) (string, error)
	Remove(ctx context.Context, key string) error
	KeyFromURL(url string) (string, bool)
}

// Delegate uploads local files to a Store and deletes them again. Calls go
// through a circuit breaker so a failing store is not hammered by every
// request.
type Delegate struct {
	store Store
	cb    *gobreaker.CircuitBreaker[string]
}

func NewDelegate(store Store, cfg BreakerConfig) *Delegate {
	return &Delegate{store: store, cb: newBreaker(cfg)}
}

// Upload stores the file at localPath and always removes the local copy.
func (d *Delegate) Upload(ctx context.Context, localPath string) (_ *Asset, err error) {
	defer func() { metrics.RecordMedia("upload", err) }()
	defer os.Remove(localPath)

	if localPath == "" {
		return nil, fmt.Errorf("%w: no file", ErrUpload)
	}

	key := uuid.NewString() + strings.ToLower(filepath.Ext(localPath))

	url, err := d.cb.Execute(func() (string, error) {
		return d.store.Put(ctx, key, localPath)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpload, err)
	}

	return &Asset{URL: url, Key: key}, nil
}

// Delete removes the object behind url. Failures are logged and swallowed.
func (d *Delegate) Delete(ctx context.Context, url string) {
	if url == "" {
		return
	}

	key, ok := d.store.KeyFromURL(url)
	if !ok {
		logging.Ctx(ctx).Warn().Str("url", url).Msg("media delete skipped: url not owned by store")
		return
	}

	_, err := d.cb.Execute(func() (string, error) {
		return "", d.store.Remove(ctx, key)
	})
	metrics.RecordMedia("delete", err)
	if err != nil {
		logging.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("media delete failed")
	}
}
