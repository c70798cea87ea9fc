package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/vidtube/backend/internal/logging"
)

// AssetStorage persists media assets remotely and serves them publicly.
type AssetStorage interface {
	Save(ctx context.Context, name string, r io.Reader) (string, error)
	Delete(ctx context.Context, key string) error
	BaseURL() string
}

// ErrStorageUnavailable indicates the object store is not configured.
var ErrStorageUnavailable = errors.New("asset storage unavailable")

// AssetType classifies an asset by its file extension.
type AssetType string

const (
	AssetTypeImage AssetType = "image"
	AssetTypeVideo AssetType = "video"
	AssetTypeOther AssetType = "other"
)

var imageExtensions = map[string]struct{}{
	".jpg": {}, ".jpeg": {}, ".png": {}, ".gif": {}, ".webp": {}, ".avif": {},
}

var videoExtensions = map[string]struct{}{
	".mp4": {}, ".mov": {}, ".webm": {}, ".mkv": {}, ".avi": {}, ".m4v": {},
}

// TypeOf infers the asset type from a path or URL extension.
func TypeOf(reference string) AssetType {
	ext := strings.ToLower(path.Ext(reference))
	if _, ok := imageExtensions[ext]; ok {
		return AssetTypeImage
	}
	if _, ok := videoExtensions[ext]; ok {
		return AssetTypeVideo
	}
	return AssetTypeOther
}

// Ingestor moves staged files into the object store and removes remote
// assets when their owning records go away.
type Ingestor struct {
	storage AssetStorage
	prober  *FFProbeProvider
	logger  *slog.Logger
}

// NewIngestor constructs an Ingestor over the provided storage and prober.
func NewIngestor(storage AssetStorage, prober *FFProbeProvider, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Ingestor{storage: storage, prober: prober, logger: logger}
}

// Commit uploads a staged file under the given key prefix and returns its
// public reference. The staged file is left in place; callers own cleanup.
func (i *Ingestor) Commit(ctx context.Context, stagedPath, keyPrefix string) (string, error) {
	if i.storage == nil {
		return "", ErrStorageUnavailable
	}

	ctx, span := logging.StartSpan(ctx, "media.commit")
	defer span.End()

	f, err := os.Open(stagedPath)
	if err != nil {
		return "", fmt.Errorf("open staged file: %w", err)
	}
	defer f.Close()

	key := path.Join(keyPrefix, filepath.Base(stagedPath))
	location, err := i.storage.Save(ctx, key, f)
	if err != nil {
		return "", fmt.Errorf("commit %s: %w", key, err)
	}

	return location, nil
}

// CommitVideo uploads a staged video and returns its public reference along
// with the probed duration in seconds.
func (i *Ingestor) CommitVideo(ctx context.Context, stagedPath, keyPrefix string) (string, float64, error) {
	if i.prober == nil {
		return "", 0, fmt.Errorf("duration prober unavailable")
	}

	ctx, span := logging.StartSpan(ctx, "media.commit_video")
	defer span.End()

	duration, err := i.prober.Duration(ctx, stagedPath)
	if err != nil {
		return "", 0, fmt.Errorf("probe duration: %w", err)
	}

	location, err := i.Commit(ctx, stagedPath, keyPrefix)
	if err != nil {
		return "", 0, err
	}

	return location, duration, nil
}

// DeleteRemote removes the asset behind a stored public reference,
// best-effort. It reports whether the removal succeeded; failures are
// logged, never raised, since an already-absent asset is an acceptable
// outcome.
func (i *Ingestor) DeleteRemote(ctx context.Context, reference string) bool {
	if i.storage == nil || strings.TrimSpace(reference) == "" {
		return false
	}

	key := i.keyFromReference(reference)
	if key == "" {
		i.logger.Warn("could not derive object key", "reference", reference)
		return false
	}

	if err := i.storage.Delete(ctx, key); err != nil {
		i.logger.Warn("remote asset delete failed", "key", key, "type", string(TypeOf(reference)), "error", err)
		return false
	}

	return true
}

// keyFromReference strips the public base URL (or URL scheme and host) from
// a stored reference, leaving the object key.
func (i *Ingestor) keyFromReference(reference string) string {
	if base := i.storage.BaseURL(); base != "" && strings.HasPrefix(reference, base) {
		return strings.TrimLeft(strings.TrimPrefix(reference, base), "/")
	}

	u, err := url.Parse(reference)
	if err != nil || u.Path == "" {
		return strings.TrimLeft(reference, "/")
	}
	return strings.TrimLeft(u.Path, "/")
}
