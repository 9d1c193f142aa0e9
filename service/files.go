package service

import (
	"bitwise74/resource-api/errs"
	"bitwise74/resource-api/model"
	"bitwise74/resource-api/repository"
	"bitwise74/resource-api/storage"
	"bitwise74/resource-api/validators"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
)

type FileMeta struct {
	ID        string    `json:"id"`
	Filename  string    `json:"filename"`
	MimeType  string    `json:"mimeType"`
	Size      int64     `json:"size"`
	Hash      string    `json:"hash"`
	URL       string    `json:"url"`
	CreatedAt time.Time `json:"createdAt"`
}

type Download struct {
	Filename string
	MimeType string
	Data     []byte
}

type Files struct {
	files FileStore
	// nil keeps the bytes in the database row
	blobs        BlobStore
	maxSize      int64
	allowedTypes []string
}

func NewFiles(files FileStore, blobs BlobStore, maxSize int64, allowedTypes []string) *Files {
	return &Files{
		files:        files,
		blobs:        blobs,
		maxSize:      maxSize,
		allowedTypes: allowedTypes,
	}
}

func metaOf(f *model.File) *FileMeta {
	return &FileMeta{
		ID:        f.ID,
		Filename:  f.Filename,
		MimeType:  f.MimeType,
		Size:      f.Size,
		Hash:      f.Hash,
		URL:       "/api/files/" + f.ID,
		CreatedAt: f.CreatedAt,
	}
}

// Upload stores data for the owner. Uploading bytes the owner already
// stored returns the existing file instead of a new one.
func (s *Files) Upload(ctx context.Context, ownerID string, data []byte, filename, mimeType string) (*FileMeta, error) {
	if len(data) == 0 {
		return nil, errs.BadRequest("No file provided")
	}

	if int64(len(data)) > s.maxSize {
		return nil, errs.TooLarge("File exceeds the maximum size of %d bytes", s.maxSize)
	}

	if err := validators.FileNameValidator(filename); err != nil {
		return nil, errs.Validation("file", err.Error())
	}

	if mimeType == "" || mimeType == "application/octet-stream" {
		mimeType = mimetype.Detect(data).String()
	}

	if err := validators.FileTypeValidator(mimeType, s.allowedTypes); err != nil {
		return nil, errs.BadRequest("File type %s is not allowed", mimeType)
	}

	sum := sha256.Sum256(data)
	hash := hex.EncodeToString(sum[:])

	existing, err := s.files.ByHash(ctx, ownerID, hash)
	if err == nil {
		return metaOf(existing), nil
	}

	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to look up file hash, %w", err)
	}

	f := &model.File{
		UserID:   ownerID,
		Filename: filename,
		MimeType: mimeType,
		Size:     int64(len(data)),
		Hash:     hash,
	}

	if s.blobs == nil {
		f.Data = data
	} else {
		f.StorageKey = ownerID + "/" + hash
		if err := s.blobs.Put(ctx, f.StorageKey, data, mimeType); err != nil {
			return nil, fmt.Errorf("failed to store file contents, %w", err)
		}
	}

	if err := s.files.Create(ctx, f); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Lost a race against an identical upload, the object key is
			// shared so the blob stays
			winner, err := s.files.ByHash(ctx, ownerID, hash)
			if err != nil {
				return nil, fmt.Errorf("failed to look up file hash, %w", err)
			}

			return metaOf(winner), nil
		}

		if f.StorageKey != "" {
			if derr := s.blobs.Delete(ctx, f.StorageKey); derr != nil {
				zap.L().Warn("Failed to remove orphaned file contents", zap.String("key", f.StorageKey), zap.Error(derr))
			}
		}

		return nil, fmt.Errorf("failed to save file, %w", err)
	}

	return metaOf(f), nil
}

func (s *Files) Meta(ctx context.Context, ownerID, id string) (*FileMeta, error) {
	f, err := s.files.Get(ctx, ownerID, id, false)
	if err != nil {
		return nil, notFoundOr(err, "File with ID %s not found", id)
	}

	return metaOf(f), nil
}

func (s *Files) Get(ctx context.Context, ownerID, id string) (*Download, error) {
	f, err := s.files.Get(ctx, ownerID, id, true)
	if err != nil {
		return nil, notFoundOr(err, "File with ID %s not found", id)
	}

	data := f.Data
	if f.StorageKey != "" {
		if s.blobs == nil {
			return nil, fmt.Errorf("file %s is kept in object storage which isn't configured", id)
		}

		data, err = s.blobs.Get(ctx, f.StorageKey)
		if err != nil {
			if errors.Is(err, storage.ErrNotFound) {
				return nil, errs.NotFound("File with ID %s not found", id)
			}

			return nil, fmt.Errorf("failed to read file contents, %w", err)
		}
	}

	return &Download{
		Filename: f.Filename,
		MimeType: f.MimeType,
		Data:     data,
	}, nil
}

// Delete removes the file. Resources that reference it are left alone.
func (s *Files) Delete(ctx context.Context, ownerID, id string) error {
	f, err := s.files.Get(ctx, ownerID, id, false)
	if err != nil {
		return notFoundOr(err, "File with ID %s not found", id)
	}

	if err := s.files.Delete(ctx, ownerID, id); err != nil {
		return notFoundOr(err, "File with ID %s not found", id)
	}

	if f.StorageKey != "" && s.blobs != nil {
		if err := s.blobs.Delete(ctx, f.StorageKey); err != nil {
			return fmt.Errorf("failed to delete file contents, %w", err)
		}
	}

	return nil
}
