package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/knowlab/knowlab-cli/internal/api"
	"github.com/knowlab/knowlab-cli/internal/domain"
	"github.com/knowlab/knowlab-cli/internal/store"
)

// Notifier surfaces per-file upload outcomes and the global auth prompt.
type Notifier interface {
	Success(message string)
	Failure(message string)
	AuthRequired()
}

// FileRef describes a file queued for upload. Open is called once, when
// the file's turn in the queue comes.
type FileRef struct {
	Name string
	Size int64
	Type string
	Open func() (io.ReadCloser, error)
}

// Uploader pushes files to the backend one at a time. Sequential issue is
// deliberate backpressure: file N+1 is not started until file N settles.
type Uploader struct {
	backend  Backend
	tokens   api.TokenSource
	uploads  *store.UploadList
	notifier Notifier
}

// NewUploader creates an upload queue.
func NewUploader(backend Backend, tokens api.TokenSource, uploads *store.UploadList, notifier Notifier) *Uploader {
	return &Uploader{
		backend:  backend,
		tokens:   tokens,
		uploads:  uploads,
		notifier: notifier,
	}
}

// Process uploads files in input order and returns the accepted ones. An
// empty list is a no-op. Without a stored token no upload is attempted
// and the auth prompt is signaled instead. An unauthorized rejection
// mid-queue stops processing without a failure popup (the auth prompt is
// already showing); any other failure is reported and the queue moves on.
func (u *Uploader) Process(ctx context.Context, files []FileRef) ([]domain.UploadedFile, error) {
	if len(files) == 0 {
		return nil, nil
	}

	if u.tokens == nil || u.tokens.Token() == "" {
		u.notifier.AuthRequired()
		return nil, domain.NewUnauthorizedError("sign in to upload documents")
	}

	var accepted []domain.UploadedFile
	for _, file := range files {
		uploaded, err := u.uploadOne(ctx, file)
		if err != nil {
			if domain.IsUnauthorized(err) {
				u.notifier.AuthRequired()
				return accepted, err
			}
			log.Error().Err(err).Str("file", file.Name).Msg("upload failed")
			u.notifier.Failure(fmt.Sprintf("%s failed to upload.", file.Name))
			continue
		}
		accepted = append(accepted, uploaded)
		u.notifier.Success(fmt.Sprintf("%s uploaded successfully!", file.Name))
	}
	return accepted, nil
}

func (u *Uploader) uploadOne(ctx context.Context, file FileRef) (domain.UploadedFile, error) {
	r, err := file.Open()
	if err != nil {
		return domain.UploadedFile{}, fmt.Errorf("failed to open %s: %w", file.Name, err)
	}
	defer r.Close()

	backendID, err := u.backend.Upload(ctx, file.Name, r)
	if err != nil {
		return domain.UploadedFile{}, err
	}

	uploaded := domain.UploadedFile{
		ID:        uuid.NewString(),
		BackendID: backendID,
		Name:      file.Name,
		Size:      file.Size,
		Type:      file.Type,
	}
	if u.uploads != nil {
		if err := u.uploads.Add(uploaded); err != nil {
			return domain.UploadedFile{}, fmt.Errorf("failed to stage upload: %w", err)
		}
	}
	return uploaded, nil
}
