// internal/extractor/port.go
package extractor

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/labordacousins/scriptbreakdown/internal/models"
)

// Extractor is the port to the external, non-deterministic extraction
// collaborator. An implementation returns a chunk-local PartialExtraction or
// an error; the caller converts errors into explicit ExtractionFailure
// records, so one chunk never blocks the document.
type Extractor interface {
	// Extract analyzes one chunk of screenplay text. Scene numbers in the
	// result are chunk-local; consolidation renumbers them. knownCharacters
	// carries caller-supplied names the extractor must accept as characters;
	// it may be empty.
	Extract(ctx context.Context, chunkText string, chunkIndex int, knownCharacters []string) (*models.PartialExtraction, error)

	// Name identifies the provider.
	Name() string
}

// Registry keeps the available extractor providers.
type Registry struct {
	mu        sync.RWMutex
	providers map[string]Extractor
}

// NewRegistry creates an empty provider registry.
func NewRegistry() *Registry {
	return &Registry{providers: make(map[string]Extractor)}
}

// Register adds a provider under its name, replacing any previous one.
func (r *Registry) Register(e Extractor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.providers[e.Name()] = e
}

// Get returns a provider by name.
func (r *Registry) Get(name string) (Extractor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.providers[name]
	if !ok {
		return nil, fmt.Errorf("extractor provider not registered: %s", name)
	}
	return e, nil
}

// Names lists the registered providers.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.providers))
	for name := range r.providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
