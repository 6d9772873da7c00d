package main

import (
	"context"
	"log"
	"os/signal"
	"syscall"

	"companion-telegram-bot/internal/adapter/file"
	"companion-telegram-bot/internal/adapter/memory"
	"companion-telegram-bot/internal/adapter/openai"
	"companion-telegram-bot/internal/adapter/postgres"
	"companion-telegram-bot/internal/adapter/sqlite"
	"companion-telegram-bot/internal/adapter/telegram"
	"companion-telegram-bot/internal/auth"
	"companion-telegram-bot/internal/config"
	"companion-telegram-bot/internal/domain"
	"companion-telegram-bot/internal/usecase/chat"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(),
		syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var store domain.ConversationStore
	switch cfg.Storage {
	case config.StorageMemory:
		store = memory.NewStore()
	case config.StorageFile:
		st, err := file.NewStore(cfg.StoragePath)
		if err != nil {
			log.Fatalf("failed to init file store: %v", err)
		}
		store = st
	case config.StorageSQLite:
		st, err := sqlite.Open(cfg.StoragePath)
		if err != nil {
			log.Fatalf("failed to open sqlite store: %v", err)
		}
		defer st.Close()
		store = st
	case config.StoragePostgres:
		st, err := postgres.Open(ctx, cfg.PostgresURL)
		if err != nil {
			log.Fatalf("failed to open postgres store: %v", err)
		}
		defer st.Close()
		store = st
	}

	openAIClient := openai.NewClient(cfg.OpenAIKey)
	policy := auth.FromConfig(cfg.AllowedUserIDs)
	chatSvc := chat.NewService(store, openAIClient, policy, cfg)

	bot, err := telegram.NewBot(cfg, chatSvc)
	if err != nil {
		log.Fatalf("failed to init telegram bot: %v", err)
	}

	if err := bot.Run(ctx); err != nil {
		if ctx.Err() != nil {
			log.Printf("shutdown: %v", err)
			return
		}
		log.Fatalf("bot stopped with error: %v", err)
	}
}
