package main

import (
	"context"
	"log"
	"os"

	"breathefree/internal/coach"
	"breathefree/internal/config"
	"breathefree/internal/craving"
	"breathefree/internal/gateway/handler"
	"breathefree/internal/gateway/server"
	"breathefree/internal/llm"
	"breathefree/internal/llmclient"
	"breathefree/internal/plangen"
	"breathefree/internal/repository/chatstore"
	"breathefree/internal/repository/export"
	"breathefree/internal/repository/profilestore"
	"breathefree/internal/repository/progressstore"
)

func main() {
	logger := log.New(os.Stderr, "", log.LstdFlags)

	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("load config: %v", err)
	}

	ctx := context.Background()

	base, err := llmclient.NewGeminiClient(ctx, cfg.PlanModel)
	if err != nil {
		logger.Fatalf("init gemini client: %v", err)
	}

	wrap := func(c llmclient.Client) llmclient.Client {
		return llm.Chain(c,
			llm.WithLogging(logger),
			llm.Retry(cfg.MaxRetries, cfg.RetryBase),
		)
	}
	planLLM := wrap(base)
	chatLLM := wrap(base.WithModel(cfg.ChatModel))
	sosLLM := wrap(base.WithModel(cfg.SOSModel))

	profiles := profilestore.NewFromEnv(cfg.ProfileFilePath, cfg.PostgresDSN)
	defer profiles.Close()
	progresses := progressstore.NewFromEnv(cfg.ProgressFilePath, cfg.PostgresDSN)
	defer progresses.Close()
	chats := chatstore.NewFromEnv(cfg.ChatFilePath, cfg.PostgresDSN)
	defer chats.Close()

	var exports export.Store
	if cfg.Export.Enabled {
		s3, err := export.NewS3Store(export.S3Config{
			Endpoint:  cfg.Export.Endpoint,
			Region:    cfg.Export.Region,
			AccessKey: cfg.Export.AccessKey,
			SecretKey: cfg.Export.SecretKey,
			Bucket:    cfg.Export.Bucket,
			UseSSL:    cfg.Export.UseSSL,
		})
		if err != nil {
			logger.Fatalf("init export store: %v", err)
		}
		exports = s3
	} else {
		exports = export.NewMemoryStore()
	}

	coachSvc := coach.New(sosLLM, chatLLM, logger)
	cravings := craving.NewManager(coachSvc, cfg.Cooldown)
	defer cravings.CloseAll()

	h := handler.New(handler.Deps{
		Profiles:   profiles,
		Progresses: progresses,
		Chats:      chats,
		Plans:      plangen.New(planLLM, 0),
		Coach:      coachSvc,
		ChatLLM:    chatLLM,
		Cravings:   cravings,
		Exports:    exports,
		TrialDays:  cfg.TrialDays,
		Logger:     logger,
	})

	mux := server.Routes(h)
	logger.Printf("Starting API server on %s (env=%s)", cfg.Port, cfg.Env)
	log.Fatal(server.ListenAndServe(cfg.Port, mux))
}
