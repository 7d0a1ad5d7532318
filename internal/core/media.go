package core

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"

	"go.uber.org/zap"

	"github.com/illarion/vaultpad/internal/storage"
)

// Encoding parameters applied to every uploaded photo
const (
	MaxImageDimension = 1600
	ImageQuality      = 0.85

	mediaIDPrefix     = "media"
	defaultMediaTitle = "Photo"
)

// ErrNoEncoder is reported per file when no image encoder is configured
var ErrNoEncoder = errors.New("no image encoder configured")

// QueuedFile is a candidate image staged for upload. Type is the declared MIME type.
type QueuedFile struct {
	Path string
	Name string
	Type string
}

// IsImage reports whether the declared type is an image type
func (f QueuedFile) IsImage() bool {
	return strings.HasPrefix(f.Type, "image/")
}

// ImageEncoder turns an image file into a bounded-size self-contained payload
type ImageEncoder interface {
	Encode(ctx context.Context, path string, quality float64, maxDimension int) (string, error)
}

// MediaStore is the part of the persistent store the media vault uses
type MediaStore interface {
	ReadMedia() ([]storage.MediaRecord, error)
	WriteMedia(list []storage.MediaRecord) error
}

// UploadResult describes what happened to each file of a batch
type UploadResult struct {
	Added   []storage.MediaRecord
	Skipped []string    // non-image files
	Errors  []FileError // files the encoder could not process
}

// MediaVault stages, stores and reveals photos
type MediaVault struct {
	gate    *Gate
	store   MediaStore
	encoder ImageEncoder
	clock   Clock
	newID   IDFunc
	log     *zap.Logger

	mu        sync.Mutex
	queued    []QueuedFile
	uploading atomic.Bool
}

// NewMediaVault creates a media vault
func NewMediaVault(gate *Gate, store MediaStore, encoder ImageEncoder, log *zap.Logger) *MediaVault {
	if log == nil {
		log = zap.NewNop()
	}
	return &MediaVault{
		gate:    gate,
		store:   store,
		encoder: encoder,
		clock:   systemClock{},
		newID:   newRecordID,
		log:     log,
	}
}

// Queue stages a batch, replacing any batch that was not uploaded
func (m *MediaVault) Queue(files []QueuedFile) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queued = append([]QueuedFile(nil), files...)
}

// Queued returns the number of staged files
func (m *MediaVault) Queued() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.queued)
}

// Upload encodes every staged image, appends the records and persists the
// collection once. Non-image files are skipped. A file that fails to encode is
// reported in the result and the rest of the batch continues. The staged
// batch is cleared on completion.
func (m *MediaVault) Upload(ctx context.Context) (*UploadResult, error) {
	if err := m.gate.RequireUnlocked(); err != nil {
		return nil, err
	}

	if !m.uploading.CompareAndSwap(false, true) {
		return nil, ErrUploadInProgress
	}
	defer m.uploading.Store(false)

	m.mu.Lock()
	batch := m.queued
	m.mu.Unlock()

	if len(batch) == 0 {
		return nil, ErrEmptySelection
	}

	list, err := m.store.ReadMedia()
	if err != nil {
		return nil, fmt.Errorf("failed to read media: %w", err)
	}

	result := &UploadResult{}
	for _, f := range batch {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if !f.IsImage() {
			result.Skipped = append(result.Skipped, f.Name)
			continue
		}

		payload, err := m.encode(ctx, f)
		if err != nil {
			m.log.Warn("image encode failed", zap.String("file", f.Name), zap.Error(err))
			result.Errors = append(result.Errors, FileError{Name: f.Name, Err: err})
			continue
		}

		title := f.Name
		if title == "" {
			title = defaultMediaTitle
		}
		rec := storage.MediaRecord{
			ID:        m.newID(mediaIDPrefix),
			Image:     payload,
			Title:     title,
			CreatedAt: m.clock.Now(),
		}
		list = append(list, rec)
		result.Added = append(result.Added, rec)
	}

	if err := m.store.WriteMedia(list); err != nil {
		return nil, fmt.Errorf("failed to store media: %w", err)
	}

	m.mu.Lock()
	m.queued = nil
	m.mu.Unlock()

	m.log.Info("upload finished",
		zap.Int("added", len(result.Added)),
		zap.Int("skipped", len(result.Skipped)),
		zap.Int("failed", len(result.Errors)))
	return result, nil
}

func (m *MediaVault) encode(ctx context.Context, f QueuedFile) (string, error) {
	if m.encoder == nil {
		return "", ErrNoEncoder
	}
	return m.encoder.Encode(ctx, f.Path, ImageQuality, MaxImageDimension)
}

// Reveal returns the stored photos, newest first. ErrSectionLocked means a
// reauth for SectionMedia must happen first.
func (m *MediaVault) Reveal() ([]storage.MediaRecord, error) {
	if err := m.gate.RequireSection(SectionMedia); err != nil {
		return nil, err
	}
	list, err := m.store.ReadMedia()
	if err != nil {
		return nil, fmt.Errorf("failed to read media: %w", err)
	}
	return storage.NewestMedia(list), nil
}

// Hide collapses the media section
func (m *MediaVault) Hide() {
	m.gate.Hide(SectionMedia)
}

// Open returns a single photo
func (m *MediaVault) Open(id string) (storage.MediaRecord, error) {
	if err := m.gate.RequireSection(SectionMedia); err != nil {
		return storage.MediaRecord{}, err
	}
	list, err := m.store.ReadMedia()
	if err != nil {
		return storage.MediaRecord{}, fmt.Errorf("failed to read media: %w", err)
	}
	rec, ok := storage.FindMedia(list, id)
	if !ok {
		return storage.MediaRecord{}, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return rec, nil
}

// Count returns the number of stored photos. It needs no unlock.
func (m *MediaVault) Count() (int, error) {
	list, err := m.store.ReadMedia()
	if err != nil {
		return 0, fmt.Errorf("failed to read media: %w", err)
	}
	return len(list), nil
}
