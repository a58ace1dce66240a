// Package service archives every saved catalog and weight document as an
// immutable object so earlier configurations can be inspected or restored.
package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"solar21_precheck/internal/adapters/storage"
	"solar21_precheck/internal/archive/transport"
	"solar21_precheck/internal/events"
	"solar21_precheck/platform/apperr"
	"solar21_precheck/platform/logger"

	"github.com/google/uuid"
)

const (
	contentTypeJSON = "application/json"
	defaultLimit    = 20
	keyTimeLayout   = "20060102T150405Z"

	metaReason = "Reason"
)

// Service writes snapshots to the archive bucket and lists them back.
type Service struct {
	storage storage.StorageService
	bucket  string
	log     *logger.Logger
	now     func() time.Time
	newID   func() string
}

// New creates an archive service writing into bucket.
func New(store storage.StorageService, bucket string, log *logger.Logger) *Service {
	return &Service{
		storage: store,
		bucket:  bucket,
		log:     log,
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
}

// Subscribe registers the service for catalog and weight save events.
func (s *Service) Subscribe(bus events.Bus) {
	bus.Subscribe(events.CatalogChanged{}.EventName(), s)
	bus.Subscribe(events.WeightsSaved{}.EventName(), s)
}

// Handle implements events.Handler.
func (s *Service) Handle(ctx context.Context, event events.Event) error {
	switch e := event.(type) {
	case events.CatalogChanged:
		return s.Archive(ctx, transport.KindCatalog, e.Catalog, e.Action)
	case events.WeightsSaved:
		return s.Archive(ctx, transport.KindWeights, e.Weights, e.Reason)
	default:
		return nil
	}
}

// Archive uploads doc under "<kind>/<timestamp>-<uuid>.json".
func (s *Service) Archive(ctx context.Context, kind string, doc any, reason string) error {
	body, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode %s snapshot: %w", kind, err)
	}

	key := s.objectKey(kind)
	var meta map[string]string
	if reason != "" {
		meta = map[string]string{metaReason: reason}
	}
	if err := s.storage.PutObject(ctx, s.bucket, key, contentTypeJSON, append(body, '\n'), meta); err != nil {
		s.log.StoreError("archive."+kind, err)
		return err
	}

	s.log.Info("config snapshot archived", "kind", kind, "key", key)
	return nil
}

// List returns the newest snapshots of a kind with short-lived download links.
func (s *Service) List(ctx context.Context, req transport.ListSnapshotsRequest) (transport.SnapshotListResponse, error) {
	limit := req.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	objects, err := s.storage.ListObjects(ctx, s.bucket, req.Kind+"/", limit)
	if err != nil {
		s.log.StoreError("archive.list", err)
		return transport.SnapshotListResponse{}, apperr.Wrap(apperr.KindUnavailable, "archive unavailable", err)
	}

	items := make([]transport.SnapshotResponse, 0, len(objects))
	for _, obj := range objects {
		link, err := s.storage.GenerateDownloadURL(ctx, s.bucket, obj.Key)
		if err != nil {
			return transport.SnapshotListResponse{}, apperr.Wrap(apperr.KindUnavailable, "archive unavailable", err)
		}
		items = append(items, transport.SnapshotResponse{
			Key:         obj.Key,
			Kind:        req.Kind,
			Size:        obj.Size,
			SavedAt:     savedAt(obj),
			Reason:      reasonOf(obj.Metadata),
			DownloadURL: link.URL,
			ExpiresAt:   link.ExpiresAt,
		})
	}
	return transport.SnapshotListResponse{Items: items, Total: len(items)}, nil
}

func (s *Service) objectKey(kind string) string {
	return fmt.Sprintf("%s/%s-%s.json", kind, s.now().UTC().Format(keyTimeLayout), s.newID())
}

// savedAt reads the save time from the key, falling back to LastModified.
func savedAt(obj storage.ObjectInfo) time.Time {
	name := obj.Key[strings.LastIndex(obj.Key, "/")+1:]
	if len(name) >= len(keyTimeLayout) {
		if t, err := time.Parse(keyTimeLayout, name[:len(keyTimeLayout)]); err == nil {
			return t
		}
	}
	return obj.LastModified.UTC()
}

func reasonOf(meta map[string]string) string {
	for k, v := range meta {
		if strings.EqualFold(k, metaReason) || strings.EqualFold(k, "X-Amz-Meta-"+metaReason) {
			return v
		}
	}
	return ""
}

var _ events.Handler = (*Service)(nil)
