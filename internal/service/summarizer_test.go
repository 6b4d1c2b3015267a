package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/knowlab/knowlab-cli/internal/api"
	"github.com/knowlab/knowlab-cli/internal/domain"
)

func instantSummarizer(backend Backend, tokens api.TokenSource, directory *Directory) *Summarizer {
	s := NewSummarizer(backend, tokens, directory)
	s.sleep = func(ctx context.Context, d time.Duration) error { return nil }
	return s
}

func stagedFiles() []domain.UploadedFile {
	return []domain.UploadedFile{
		{ID: "l1", BackendID: 11, Name: "notes.pdf"},
		{ID: "l2", BackendID: 12, Name: "slides.pdf"},
	}
}

func TestSummarizer_Summarize(t *testing.T) {
	ctx := context.Background()

	t.Run("empty batch is rejected locally", func(t *testing.T) {
		mockBackend := new(MockBackend)
		s := instantSummarizer(mockBackend, api.StaticToken("tok"), NewDirectory(nil, nil, nil, nil))

		_, err := s.Summarize(ctx, nil)
		assert.True(t, domain.IsValidation(err))
		assert.Equal(t, "Upload at least one file first!", domain.UserMessage(err, ""))
		mockBackend.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
	})

	t.Run("missing token is rejected locally", func(t *testing.T) {
		mockBackend := new(MockBackend)
		s := instantSummarizer(mockBackend, api.StaticToken(""), NewDirectory(nil, nil, nil, nil))

		_, err := s.Summarize(ctx, stagedFiles())
		assert.True(t, domain.IsUnauthorized(err))
		mockBackend.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
	})

	t.Run("success reconciles the session and prepends the result", func(t *testing.T) {
		mockBackend := new(MockBackend)
		mockBackend.On("Summarize", ctx, []int64{11, 12}).Return(&api.SummarizeResponse{
			Summary:   "the combined summary",
			SessionID: domain.SessionID("42"),
			Title:     "Quarterly notes",
		}, nil)

		directory := NewDirectory(nil, nil, nil, nil)
		s := instantSummarizer(mockBackend, api.StaticToken("tok"), directory)

		result, err := s.Summarize(ctx, stagedFiles())
		assert.NoError(t, err)
		assert.Equal(t, "42", result.ID)
		assert.Equal(t, "the combined summary", result.Content)

		active := directory.Active()
		assert.NotNil(t, active)
		assert.Equal(t, "42", active.ID)
		assert.Equal(t, "Quarterly notes", active.Title)
		assert.Equal(t, "the combined summary", active.SummaryText)

		results := s.Results()
		assert.Len(t, results, 1)
		assert.Equal(t, "42", results[0].ID)
		mockBackend.AssertExpectations(t)
	})

	t.Run("missing title falls back to the first file name", func(t *testing.T) {
		mockBackend := new(MockBackend)
		mockBackend.On("Summarize", ctx, mock.Anything).Return(&api.SummarizeResponse{
			Summary:   "summary",
			SessionID: domain.SessionID("7"),
		}, nil)

		directory := NewDirectory(nil, nil, nil, nil)
		s := instantSummarizer(mockBackend, api.StaticToken("tok"), directory)

		_, err := s.Summarize(ctx, stagedFiles())
		assert.NoError(t, err)
		assert.Equal(t, `Summarization "notes.pdf"`, directory.Active().Title)
	})

	t.Run("nested session shape resolves", func(t *testing.T) {
		mockBackend := new(MockBackend)
		resp := &api.SummarizeResponse{Summary: "summary"}
		resp.Session = &struct {
			ID        domain.SessionID `json:"id"`
			Title     string           `json:"title"`
			CreatedAt time.Time        `json:"created_at"`
		}{ID: "9", Title: "Nested"}
		mockBackend.On("Summarize", ctx, mock.Anything).Return(resp, nil)

		directory := NewDirectory(nil, nil, nil, nil)
		s := instantSummarizer(mockBackend, api.StaticToken("tok"), directory)

		result, err := s.Summarize(ctx, stagedFiles())
		assert.NoError(t, err)
		assert.Equal(t, "9", result.ID)
		assert.Equal(t, "Nested", directory.Active().Title)
	})

	t.Run("no session in response keeps a local result id", func(t *testing.T) {
		mockBackend := new(MockBackend)
		mockBackend.On("Summarize", ctx, mock.Anything).Return(&api.SummarizeResponse{
			Summary: "summary only",
		}, nil)

		directory := NewDirectory(nil, nil, nil, nil)
		s := instantSummarizer(mockBackend, api.StaticToken("tok"), directory)

		result, err := s.Summarize(ctx, stagedFiles())
		assert.NoError(t, err)
		assert.True(t, domain.Session{ID: result.ID}.IsPlaceholder())
		assert.Empty(t, directory.List())
	})

	t.Run("busy flag is raised during the call", func(t *testing.T) {
		mockBackend := new(MockBackend)
		s := NewSummarizer(mockBackend, api.StaticToken("tok"), NewDirectory(nil, nil, nil, nil))

		observed := make(chan bool, 1)
		s.sleep = func(ctx context.Context, d time.Duration) error {
			observed <- s.Busy()
			return nil
		}
		mockBackend.On("Summarize", mock.Anything, mock.Anything).Return(&api.SummarizeResponse{
			Summary: "summary",
		}, nil)

		_, err := s.Summarize(ctx, stagedFiles())
		assert.NoError(t, err)
		assert.True(t, <-observed)
		assert.False(t, s.Busy())
	})

	t.Run("minimum delay respects cancellation", func(t *testing.T) {
		mockBackend := new(MockBackend)
		s := NewSummarizer(mockBackend, api.StaticToken("tok"), NewDirectory(nil, nil, nil, nil))
		s.delayFloor = time.Hour

		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := s.Summarize(cancelled, stagedFiles())
		assert.ErrorIs(t, err, context.Canceled)
		mockBackend.AssertNotCalled(t, "Summarize", mock.Anything, mock.Anything)
	})
}

func TestSummarizer_Narrate(t *testing.T) {
	ctx := context.Background()

	t.Run("requires a session", func(t *testing.T) {
		s := instantSummarizer(new(MockBackend), api.StaticToken("tok"), nil)
		_, err := s.Narrate(ctx, "", "en")
		assert.True(t, domain.IsValidation(err))
	})

	t.Run("caches per session and language", func(t *testing.T) {
		mockBackend := new(MockBackend)
		mockBackend.On("Audio", ctx, "42", "en").
			Return(&api.AudioResponse{AudioURL: "https://cdn/42-en.mp3"}, nil).Once()
		mockBackend.On("Audio", ctx, "42", "id").
			Return(&api.AudioResponse{AudioURL: "https://cdn/42-id.mp3"}, nil).Once()

		s := instantSummarizer(mockBackend, api.StaticToken("tok"), nil)

		first, err := s.Narrate(ctx, "42", "en")
		assert.NoError(t, err)
		again, err := s.Narrate(ctx, "42", "en")
		assert.NoError(t, err)
		assert.Same(t, first, again)

		other, err := s.Narrate(ctx, "42", "id")
		assert.NoError(t, err)
		assert.NotEqual(t, first.AudioURL, other.AudioURL)
		mockBackend.AssertExpectations(t)
	})

	t.Run("defaults the language", func(t *testing.T) {
		mockBackend := new(MockBackend)
		mockBackend.On("Audio", ctx, "42", "en").
			Return(&api.AudioResponse{AudioURL: "url"}, nil).Once()

		s := instantSummarizer(mockBackend, api.StaticToken("tok"), nil)
		_, err := s.Narrate(ctx, "42", "")
		assert.NoError(t, err)
		mockBackend.AssertExpectations(t)
	})
}
