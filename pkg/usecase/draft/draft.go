package draft

import (
	"github.com/m-mizutani/postforge/pkg/adapter"
	"github.com/m-mizutani/postforge/pkg/model"
	"github.com/m-mizutani/postforge/pkg/repository"
)

// UseCase provides the fetch -> retrieve -> generate pipeline
type UseCase struct {
	repo      repository.Repository
	gemini    adapter.Gemini
	extractor adapter.Extractor
	caps      model.Capabilities
	persona   *Persona

	retrieveLimit int
}

// Option is a functional option for UseCase
type Option func(*UseCase)

// WithPersona replaces the embedded default house style
func WithPersona(p *Persona) Option {
	return func(uc *UseCase) {
		uc.persona = p
	}
}

// WithRetrieveLimit sets how many past posts are retrieved as style examples
func WithRetrieveLimit(k int) Option {
	return func(uc *UseCase) {
		uc.retrieveLimit = k
	}
}

// WithExtractor sets the article content extractor
func WithExtractor(x adapter.Extractor) Option {
	return func(uc *UseCase) {
		uc.extractor = x
	}
}

// New creates a new draft UseCase instance. repo may be nil when the store
// is unavailable; retrieval then degrades to no examples.
func New(
	repo repository.Repository,
	gemini adapter.Gemini,
	caps model.Capabilities,
	opts ...Option,
) *UseCase {
	uc := &UseCase{
		repo:          repo,
		gemini:        gemini,
		caps:          caps,
		persona:       DefaultPersona(),
		retrieveLimit: 3,
	}

	for _, opt := range opts {
		opt(uc)
	}

	return uc
}
