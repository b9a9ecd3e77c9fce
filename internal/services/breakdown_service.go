// internal/services/breakdown_service.go
package services

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/labordacousins/scriptbreakdown/internal/config"
	apperrors "github.com/labordacousins/scriptbreakdown/internal/errors"
	"github.com/labordacousins/scriptbreakdown/internal/extractor"
	"github.com/labordacousins/scriptbreakdown/internal/models"
	"github.com/labordacousins/scriptbreakdown/internal/screenplay"
	"github.com/labordacousins/scriptbreakdown/internal/storage"
	"github.com/labordacousins/scriptbreakdown/internal/utils"
)

const breakdownsDir = "breakdowns"

// BreakdownService runs script analyses and persists the results. Whole-text
// analyses run in-process; texts above the chunk size are carved into chunks
// and dispatched to the configured extractor provider through a bounded
// worker pool. Repeated analyses of identical text are served from a
// content-hash cache.
type BreakdownService struct {
	Storage  *storage.FileStorage
	Progress *ProgressService
	Registry *extractor.Registry
	Tuning   config.Tuning

	provider  string
	chunkSize int
	workers   int

	semaphore chan struct{}
	cache     *breakdownCache
	logger    *utils.Logger
}

type breakdownCache struct {
	cache      map[string]*cachedBreakdown
	mutex      sync.RWMutex
	expiration time.Duration
}

type cachedBreakdown struct {
	doc       *models.BreakdownDocument
	timestamp time.Time
}

// NewBreakdownService wires the analysis pipeline against its collaborators.
func NewBreakdownService(cfg *config.Config, store *storage.FileStorage, progress *ProgressService, registry *extractor.Registry) *BreakdownService {
	return &BreakdownService{
		Storage:   store,
		Progress:  progress,
		Registry:  registry,
		Tuning:    config.DefaultTuning(),
		provider:  cfg.ExtractorProvider,
		chunkSize: cfg.ChunkSizeRunes,
		workers:   cfg.ChunkWorkers,
		semaphore: make(chan struct{}, 3),
		cache: &breakdownCache{
			cache:      make(map[string]*cachedBreakdown),
			expiration: 30 * time.Minute,
		},
		logger: utils.GetLogger(),
	}
}

// AnalyzeScript runs a full breakdown synchronously and returns the document.
// knownChars optionally names characters the caller already knows; they are
// never rejected by the name-validity rules. Structural failures come back as
// errors; per-chunk extraction failures are folded into the document as gaps.
func (s *BreakdownService) AnalyzeScript(ctx context.Context, text string, titleCandidates, knownChars []string) (*models.BreakdownDocument, error) {
	return s.analyze(ctx, text, titleCandidates, knownChars, nil)
}

// StartBreakdown launches an asynchronous analysis and returns a task ID for
// progress subscription. The finished document is persisted and its ID is
// reported in the completion message.
func (s *BreakdownService) StartBreakdown(text string, titleCandidates, knownChars []string) string {
	taskID := uuid.New().String()
	tracker := s.Progress.CreateTracker(taskID)

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Minute)
		defer cancel()

		doc, err := s.analyze(ctx, text, titleCandidates, knownChars, tracker)
		if err != nil {
			s.logger.Error("breakdown failed", map[string]interface{}{
				"task_id": taskID,
				"error":   err.Error(),
			})
			tracker.Fail(err.Error())
			return
		}

		if err := s.SaveBreakdown(doc); err != nil {
			tracker.Fail(fmt.Sprintf("saving breakdown: %v", err))
			return
		}
		tracker.Complete(doc.ID)
	}()

	return taskID
}

func (s *BreakdownService) analyze(ctx context.Context, text string, titleCandidates, knownChars []string, tracker *ProgressTracker) (*models.BreakdownDocument, error) {
	s.semaphore <- struct{}{}
	defer func() { <-s.semaphore }()

	cacheKey := s.cacheKey(text, knownChars)
	if doc := s.cache.get(cacheKey); doc != nil {
		report(tracker, 100, "served from cache")
		return doc, nil
	}

	// Known-character hints ride the tuning so every validity check along the
	// pipeline sees them.
	tuning := s.Tuning
	tuning.Identity.KnownCharacters = knownChars

	start := time.Now()
	var doc *models.BreakdownDocument
	var err error

	if len([]rune(text)) <= s.chunkSize {
		report(tracker, 10, "analyzing script")
		doc, err = screenplay.Analyze(text, titleCandidates, tuning)
	} else {
		doc, err = s.analyzeChunked(ctx, text, titleCandidates, knownChars, tuning, tracker)
	}
	if err != nil {
		return nil, err
	}

	s.logger.Info("breakdown complete", map[string]interface{}{
		"scenes":   doc.Counts.Scenes,
		"cast":     doc.Counts.CastCharactersTotal,
		"duration": time.Since(start).String(),
	})

	s.cache.put(cacheKey, doc)
	return doc, nil
}

// analyzeChunked dispatches chunks to the extractor provider, waits for every
// chunk to resolve, and consolidates. A failed chunk becomes a recorded gap.
func (s *BreakdownService) analyzeChunked(ctx context.Context, text string, titleCandidates, knownChars []string, tuning config.Tuning, tracker *ProgressTracker) (*models.BreakdownDocument, error) {
	ext, err := s.Registry.Get(s.provider)
	if err != nil {
		return nil, apperrors.NewProcessingError("resolving extractor provider", err)
	}

	chunks := extractor.Split(text, s.chunkSize)
	report(tracker, 5, fmt.Sprintf("dispatching %d chunks", len(chunks)))

	results := make([]models.ChunkResult, len(chunks))
	workers := make(chan struct{}, s.workers)
	var wg sync.WaitGroup
	var mu sync.Mutex
	resolved := 0

	for i, chunk := range chunks {
		wg.Add(1)
		go func(i int, chunk extractor.Chunk) {
			defer wg.Done()
			workers <- struct{}{}
			defer func() { <-workers }()

			partial, extractErr := ext.Extract(ctx, chunk.Text, chunk.Index, knownChars)
			if extractErr != nil {
				s.logger.Warn("chunk extraction failed", map[string]interface{}{
					"chunk": chunk.Index,
					"error": extractErr.Error(),
				})
				results[i] = models.ChunkResult{
					ChunkIndex: chunk.Index,
					Failure: &models.ExtractionFailure{
						ChunkIndex: chunk.Index,
						Reason:     extractErr.Error(),
					},
				}
			} else {
				results[i] = models.ChunkResult{ChunkIndex: chunk.Index, Partial: partial}
			}

			// The message reads resolved too, so it is built under the lock.
			mu.Lock()
			resolved++
			pct := 5 + resolved*85/len(chunks)
			msg := fmt.Sprintf("chunk %d of %d resolved", resolved, len(chunks))
			mu.Unlock()
			report(tracker, pct, msg)
		}(i, chunk)
	}
	wg.Wait()

	consolidation := screenplay.Consolidate(results, tuning)
	if len(consolidation.Scenes) == 0 {
		return nil, apperrors.NewStructuralFailure(
			"no scene structure recovered from any chunk", apperrors.ErrNoSceneStructure)
	}

	report(tracker, 95, "consolidating")
	return screenplay.Finish(consolidation, text, titleCandidates, tuning), nil
}

// SaveBreakdown assigns an ID and timestamp and persists the document.
func (s *BreakdownService) SaveBreakdown(doc *models.BreakdownDocument) error {
	if doc.ID == "" {
		doc.ID = uuid.New().String()
	}
	doc.CreatedAt = time.Now()

	return s.Storage.SaveJSONFile(fmt.Sprintf("%s/%s", breakdownsDir, doc.ID), "breakdown.json", doc)
}

// GetBreakdown loads a stored breakdown by ID.
func (s *BreakdownService) GetBreakdown(id string) (*models.BreakdownDocument, error) {
	if !s.Storage.FileExists(fmt.Sprintf("%s/%s", breakdownsDir, id), "breakdown.json") {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("breakdown not found: %s", id), nil)
	}

	var doc models.BreakdownDocument
	if err := s.Storage.LoadJSONFile(fmt.Sprintf("%s/%s", breakdownsDir, id), "breakdown.json", &doc); err != nil {
		return nil, apperrors.NewProcessingError("loading breakdown", err)
	}
	return &doc, nil
}

// ListBreakdowns returns the metadata of every stored breakdown, newest
// first.
func (s *BreakdownService) ListBreakdowns() ([]models.BreakdownMetadata, error) {
	ids, err := s.Storage.ListDirs(breakdownsDir)
	if err != nil {
		return nil, apperrors.NewProcessingError("listing breakdowns", err)
	}

	metas := make([]models.BreakdownMetadata, 0, len(ids))
	for _, id := range ids {
		doc, err := s.GetBreakdown(id)
		if err != nil {
			s.logger.Warn("skipping unreadable breakdown", map[string]interface{}{"id": id})
			continue
		}
		metas = append(metas, models.BreakdownMetadata{
			ID:         doc.ID,
			Title:      doc.Title,
			SceneCount: doc.Counts.Scenes,
			CreatedAt:  doc.CreatedAt,
		})
	}

	sort.Slice(metas, func(i, j int) bool {
		return metas[i].CreatedAt.After(metas[j].CreatedAt)
	})
	return metas, nil
}

// FindBreakdownsByTitle filters stored breakdowns by normalized title match,
// so "The Handoff", "THE HANDOFF" and "the-handoff-1997" all find the same
// document.
func (s *BreakdownService) FindBreakdownsByTitle(title string) ([]models.BreakdownMetadata, error) {
	metas, err := s.ListBreakdowns()
	if err != nil {
		return nil, err
	}

	key := screenplay.NormalizeTitleKey(title)
	matched := make([]models.BreakdownMetadata, 0, len(metas))
	for _, meta := range metas {
		if screenplay.NormalizeTitleKey(meta.Title) == key {
			matched = append(matched, meta)
		}
	}
	return matched, nil
}

// DeleteBreakdown removes a stored breakdown.
func (s *BreakdownService) DeleteBreakdown(id string) error {
	if !s.Storage.FileExists(fmt.Sprintf("%s/%s", breakdownsDir, id), "breakdown.json") {
		return apperrors.NewNotFoundError(fmt.Sprintf("breakdown not found: %s", id), nil)
	}
	return s.Storage.DeleteDir(fmt.Sprintf("%s/%s", breakdownsDir, id))
}

// cacheKey hashes everything that can change the result, so the same text
// with different known-character hints never collides.
func (s *BreakdownService) cacheKey(text string, knownChars []string) string {
	sum := md5.Sum([]byte(s.provider + "::" + s.Tuning.Version + "::" + strings.Join(knownChars, ",") + "::" + text))
	return hex.EncodeToString(sum[:])
}

func (c *breakdownCache) get(key string) *models.BreakdownDocument {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	entry, exists := c.cache[key]
	if !exists || time.Since(entry.timestamp) > c.expiration {
		return nil
	}
	return entry.doc
}

func (c *breakdownCache) put(key string, doc *models.BreakdownDocument) {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.cache[key] = &cachedBreakdown{doc: doc, timestamp: time.Now()}
}

func report(tracker *ProgressTracker, progress int, message string) {
	if tracker != nil {
		tracker.UpdateProgress(progress, message)
	}
}
