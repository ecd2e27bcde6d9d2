package documents

import (
	"context"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/akjsdfklj/investor-intel-sub000/internal/shared/storage/object"
)

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
}

// Upload saves the file to object storage and records the document.
func (s *Service) Upload(ctx context.Context, userID, dealID, fileName string, r io.Reader) (Document, error) {
	if strings.TrimSpace(fileName) == "" {
		return Document{}, ErrInvalidInput
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, userID, fileName, r)
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		DealID:          dealID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       size,
		StorageProvider: "local",
		StorageKey:      storageKey,
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// RegisterFromS3 records a document that was uploaded directly to S3 via a
// presigned URL.
func (s *Service) RegisterFromS3(ctx context.Context, userID, dealID, fileName, s3Key, mimeType string, sizeBytes int64) (Document, error) {
	if strings.TrimSpace(fileName) == "" || strings.TrimSpace(s3Key) == "" {
		return Document{}, ErrInvalidInput
	}
	doc := Document{
		ID:              uuid.NewString(),
		UserID:          userID,
		DealID:          dealID,
		FileName:        fileName,
		MimeType:        mimeType,
		SizeBytes:       sizeBytes,
		StorageProvider: "s3",
		StorageKey:      s3Key,
		CreatedAt:       time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}
	return doc, nil
}

// Get fetches one document for a user.
func (s *Service) Get(ctx context.Context, userID, documentID string) (Document, error) {
	return s.Repo.GetByID(ctx, userID, documentID)
}

// List lists a user's documents, optionally scoped to a deal.
func (s *Service) List(ctx context.Context, userID, dealID string, limit, offset int) ([]Document, error) {
	return s.Repo.ListByUser(ctx, userID, dealID, limit, offset)
}
