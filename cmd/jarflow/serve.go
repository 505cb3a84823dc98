package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sixjars/jarflow/internal/classify"
	"github.com/sixjars/jarflow/internal/coach"
	"github.com/sixjars/jarflow/internal/config"
	"github.com/sixjars/jarflow/internal/genai"
	"github.com/sixjars/jarflow/internal/inference"
	"github.com/sixjars/jarflow/internal/knowledge"
	"github.com/sixjars/jarflow/internal/predict"
	"github.com/sixjars/jarflow/internal/server"
	"github.com/sixjars/jarflow/internal/service"
	"github.com/sixjars/jarflow/internal/storage"
	"github.com/sixjars/jarflow/internal/training"
)

func serveCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the MLOps HTTP API",
		RunE:  runServe,
	}

	cmd.Flags().Int("port", 0, "HTTP port (overrides config)")
	_ = viper.BindPFlag("server.port", cmd.Flags().Lookup("port"))

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	store, err := storage.NewSQLiteStorage(cfg.Database.Path)
	if err != nil {
		return fmt.Errorf("failed to open storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	deps := server.Deps{
		Feedback:  store,
		DB:        store,
		Endpoints: cfg.Endpoints,
	}

	// Classification engine, with the remote endpoint when configured.
	var remote classify.Classifier
	if cfg.Endpoints.Classification != "" {
		client := inference.NewClient(cfg.Endpoints.Classification, cfg.Endpoints)
		remote = inference.NewRemoteClassifier(client)
	} else {
		slog.Warn("classification endpoint not configured, using rule-based classifier only")
	}
	deps.Engine = classify.NewEngine(remote, classify.Config{
		ReviewThreshold:  cfg.Classification.ReviewThreshold,
		BatchConcurrency: cfg.Classification.BatchConcurrency,
		JarOverrides:     cfg.Classification.JarOverrides,
	})

	// Spending prediction.
	var forecaster *inference.Forecaster
	contexts := coach.StaticContextProvider{}
	if cfg.Endpoints.Prediction != "" {
		forecaster = inference.NewForecaster(inference.NewClient(cfg.Endpoints.Prediction, cfg.Endpoints))
		deps.Predictor = predict.NewService(forecaster, contexts, slog.Default())
	} else {
		slog.Warn("prediction endpoint not configured, prediction routes disabled")
	}

	// Coaching session store; the coach degrades without it.
	var sessions *coach.RedisSessionStore
	if cfg.Redis.URL != "" {
		sessions, err = coach.NewRedisSessionStore(ctx, cfg.Redis)
		if err != nil {
			slog.Warn("failed to connect to redis, continuing without session store", "error", err)
		} else {
			defer func() { _ = sessions.Close() }()
			deps.Redis = sessions
		}
	}

	// AI coach.
	if cfg.GenAI.APIKey != "" {
		textClient, err := genai.NewClient(cfg.GenAI)
		if err != nil {
			return fmt.Errorf("failed to create genai client: %w", err)
		}

		var kb *knowledge.Client
		if cfg.Knowledge.BaseURL != "" {
			kb, err = knowledge.NewClient(cfg.Knowledge)
			if err != nil {
				return fmt.Errorf("failed to create knowledge client: %w", err)
			}
			deps.Knowledge = kb
		}

		var kbSearcher coach.KnowledgeSearcher
		if kb != nil {
			kbSearcher = kb
		}
		var coachForecaster coach.Forecaster
		if forecaster != nil {
			coachForecaster = forecaster
		}
		var sessionStore service.SessionStore
		if sessions != nil {
			sessionStore = sessions
		}

		deps.Coach = coach.NewService(textClient, kbSearcher, coachForecaster, sessionStore, contexts, slog.Default())
	} else {
		slog.Warn("genai API key not configured, AI coach routes disabled")
	}

	// Training.
	if cfg.Endpoints.Training != "" {
		launcher := inference.NewTrainingLauncher(inference.NewClient(cfg.Endpoints.Training, cfg.Endpoints))
		deps.Trainer = training.NewService(store, store, launcher, slog.Default())
	} else {
		slog.Warn("training endpoint not configured, fine-tuning routes disabled")
	}

	srv := server.New(cfg.Server, deps)
	return srv.Run(ctx)
}
