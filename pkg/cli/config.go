package cli

import (
	"context"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/postforge/pkg/adapter"
	"github.com/m-mizutani/postforge/pkg/model"
	"github.com/m-mizutani/postforge/pkg/repository"
	"github.com/m-mizutani/postforge/pkg/usecase/draft"
	"github.com/m-mizutani/postforge/pkg/utils/logging"
	"github.com/urfave/cli/v3"
)

// config holds configuration values
type config struct {
	// Repository
	project  string
	database string

	// Adapters
	geminiProject  string
	geminiLocation string
	newsAPIKey     string

	// Generation
	personaFile string
}

// globalFlags returns common flags used across commands with destination config
func globalFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "project",
			Aliases:     []string{"p"},
			Usage:       "Google Cloud project ID",
			Sources:     cli.EnvVars("GOOGLE_CLOUD_PROJECT"),
			Destination: &cfg.project,
		},
		&cli.StringFlag{
			Name:        "database",
			Aliases:     []string{"d"},
			Usage:       "Firestore database ID",
			Value:       "(default)",
			Sources:     cli.EnvVars("FIRESTORE_DATABASE_ID"),
			Destination: &cfg.database,
		},
	}
}

// llmFlags returns flags for LLM-related configuration with destination config
func llmFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "gemini-project",
			Usage:       "Google Cloud project ID for Gemini",
			Sources:     cli.EnvVars("GEMINI_PROJECT_ID"),
			Destination: &cfg.geminiProject,
		},
		&cli.StringFlag{
			Name:        "gemini-location",
			Usage:       "Google Cloud location for Gemini",
			Value:       "us-central1",
			Sources:     cli.EnvVars("GEMINI_LOCATION"),
			Destination: &cfg.geminiLocation,
		},
		&cli.StringFlag{
			Name:        "persona",
			Usage:       "Path to YAML file overriding the default house style",
			Sources:     cli.EnvVars("POSTFORGE_PERSONA"),
			Destination: &cfg.personaFile,
		},
	}
}

// newsFlags returns flags for the headline service
func newsFlags(cfg *config) []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "news-api-key",
			Usage:       "News API key",
			Sources:     cli.EnvVars("NEWS_API_KEY"),
			Destination: &cfg.newsAPIKey,
		},
	}
}

// newRepository creates a new repository instance
func (cfg *config) newRepository(ctx context.Context) (repository.Repository, error) {
	if cfg.project == "" {
		return nil, goerr.New("project is required")
	}
	if cfg.database == "" {
		return nil, goerr.New("database is required")
	}

	repo, err := repository.New(ctx, cfg.project, cfg.database)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to create repository")
	}
	return repo, nil
}

// newGemini creates a new Gemini adapter instance
func (cfg *config) newGemini(ctx context.Context) (adapter.Gemini, error) {
	if cfg.geminiProject == "" {
		return nil, goerr.New("gemini-project is required")
	}
	if cfg.geminiLocation == "" {
		return nil, goerr.New("gemini-location is required")
	}
	return adapter.NewGemini(ctx, cfg.geminiProject, cfg.geminiLocation)
}

// newNewsAPI creates a new headline service client
func (cfg *config) newNewsAPI() (adapter.NewsAPI, error) {
	if cfg.newsAPIKey == "" {
		return nil, goerr.New("news-api-key is required")
	}
	return adapter.NewNewsAPI(cfg.newsAPIKey)
}

// newPersona loads the persona override if one was given
func (cfg *config) newPersona() (*draft.Persona, error) {
	if cfg.personaFile == "" {
		return draft.DefaultPersona(), nil
	}
	return draft.LoadPersona(cfg.personaFile)
}

// probeCapabilities checks external dependencies once at startup. Probe
// failures clear the corresponding flag so dependent operations degrade
// instead of attempting doomed network calls. repo may be nil.
func probeCapabilities(ctx context.Context, repo repository.Repository, gemini adapter.Gemini) model.Capabilities {
	logger := logging.From(ctx)
	var caps model.Capabilities

	if gemini != nil {
		if err := gemini.Probe(ctx); err != nil {
			logger.Error("generation service unavailable, drafting disabled", "error", err)
		} else {
			// One service backs both generation and embedding
			caps.Generation = true
			caps.Embedding = true
		}
	}

	if repo != nil {
		if count, err := repo.CountPosts(ctx); err != nil {
			logger.Warn("vector store unavailable, retrieval disabled", "error", err)
		} else {
			caps.Store = true
			logger.Info("connected to vector store", "posts", count)
		}
	}

	return caps
}
