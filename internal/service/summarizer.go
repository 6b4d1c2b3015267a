package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"

	"github.com/knowlab/knowlab-cli/internal/api"
	"github.com/knowlab/knowlab-cli/internal/domain"
)

// minimumLoaderDelay keeps the loading indicator visible even when the
// backend answers (or fails) near-instantly.
const minimumLoaderDelay = time.Second

// Summarizer orchestrates the summarize call over a batch of uploaded
// documents and folds the resulting session into the directory.
type Summarizer struct {
	backend   Backend
	tokens    api.TokenSource
	directory *Directory

	mu      sync.Mutex
	busy    bool
	results []domain.Result

	narrations *gocache.Cache
	delayFloor time.Duration
	sleep      func(ctx context.Context, d time.Duration) error
}

// NewSummarizer creates a summarization orchestrator.
func NewSummarizer(backend Backend, tokens api.TokenSource, directory *Directory) *Summarizer {
	// Narrations are immutable per (session, language); cache them so
	// repeated playback does not re-synthesize.
	return &Summarizer{
		backend:    backend,
		tokens:     tokens,
		directory:  directory,
		narrations: gocache.New(1*time.Hour, 10*time.Minute),
		delayFloor: minimumLoaderDelay,
		sleep:      sleepCtx,
	}
}

// Busy reports whether a summarize call is in flight, for gating a
// loading indicator.
func (s *Summarizer) Busy() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.busy
}

// Results returns the transient result list, newest first.
func (s *Summarizer) Results() []domain.Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Result, len(s.results))
	copy(out, s.results)
	return out
}

// Summarize requests a combined summary over the staged files. It refuses
// locally on an empty batch or a missing token; otherwise the busy flag is
// raised for the whole call and a minimum delay keeps the indicator
// visible even on fast failures. On success the result is prepended and a
// returned session id is reconciled into the directory (which broadcasts
// it). There is no retry and no cancellation beyond ctx.
func (s *Summarizer) Summarize(ctx context.Context, files []domain.UploadedFile) (*domain.Result, error) {
	if len(files) == 0 {
		return nil, domain.NewValidationError("Upload at least one file first!")
	}
	if s.tokens == nil || s.tokens.Token() == "" {
		return nil, domain.NewUnauthorizedError("sign in to summarize documents")
	}

	s.setBusy(true)
	defer s.setBusy(false)

	if err := s.sleep(ctx, s.delayFloor); err != nil {
		return nil, err
	}

	fileIDs := make([]int64, len(files))
	for i, f := range files {
		fileIDs[i] = f.BackendID
	}

	resp, err := s.backend.Summarize(ctx, fileIDs)
	if err != nil {
		log.Error().Err(err).Ints64("files", fileIDs).Msg("summarize failed")
		return nil, err
	}

	result := domain.Result{
		ID:        domain.LocalIDPrefix + fmt.Sprint(time.Now().UnixMilli()),
		Title:     "Summary Result",
		Content:   resp.Summary,
		Timestamp: time.Now(),
	}

	if id, title, createdAt := resp.ResolvedSession(); id != "" {
		if title == "" {
			title = fmt.Sprintf("Summarization %q", files[0].Name)
		}
		if createdAt.IsZero() {
			createdAt = time.Now()
		}
		session := domain.Session{
			ID:          id,
			Title:       title,
			CreatedAt:   createdAt,
			SummaryText: resp.Summary,
		}
		s.directory.Reconcile(session)
		result.ID = id
	}

	s.mu.Lock()
	s.results = append([]domain.Result{result}, s.results...)
	s.mu.Unlock()

	return &result, nil
}

// Narrate fetches (or serves from cache) the spoken narration of a
// session's summary in the given language.
func (s *Summarizer) Narrate(ctx context.Context, sessionID, language string) (*api.AudioResponse, error) {
	if sessionID == "" {
		return nil, domain.NewValidationError("Please select or create a summarization session first")
	}
	if language == "" {
		language = "en"
	}

	cacheKey := sessionID + ":" + language
	if cached, found := s.narrations.Get(cacheKey); found {
		return cached.(*api.AudioResponse), nil
	}

	narrated, err := s.backend.Audio(ctx, sessionID, language)
	if err != nil {
		return nil, err
	}
	s.narrations.Set(cacheKey, narrated, gocache.DefaultExpiration)
	return narrated, nil
}

func (s *Summarizer) setBusy(busy bool) {
	s.mu.Lock()
	s.busy = busy
	s.mu.Unlock()
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
