package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli/v2"

	"GoSpamGuard/app/allowlist"
	"GoSpamGuard/app/clients"
	"GoSpamGuard/app/configs"
	"GoSpamGuard/app/models"
	"GoSpamGuard/app/moderation"
	"GoSpamGuard/app/storage"
	"GoSpamGuard/app/utils"
)

func main() {
	app := &cli.App{
		Name:  "spamguard",
		Usage: "LLM-backed anti-spam moderation bot for group chats",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"SPAMGUARD_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "bot",
				Usage:  "run the moderation bot until interrupted",
				Action: runBot,
			},
			{
				Name:   "report",
				Usage:  "print per-chat moderation stats from the verdict log",
				Action: runReport,
			},
		},
		DefaultCommand: "bot",
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("❌ %v", err)
	}
}

func runBot(c *cli.Context) error {
	cfg, err := configs.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	store := allowlist.NewStore(cfg.AllowlistPath)
	log.Printf("📋 Allowlist loaded: %d users exempt from classification", store.Len())

	hub := &moderation.Hub{
		Classifier: models.NewLLMClient(cfg.Classifier.BaseURL, cfg.Classifier.APIKey, cfg.Classifier.Model),
		Allowlist:  store,
		Reputation: moderation.NewReputation(),
		Audit:      storage.NewSQLiteStorage(cfg.DBPath),
		Policy:     cfg.Policy(),
	}

	registry := clients.NewRegistry()
	started := 0
	for _, clientCfg := range cfg.Clients {
		if !clientCfg.Enabled {
			log.Printf("⏭️ Client %s is disabled, skipping", clientCfg.Type)
			continue
		}
		client, err := clients.CreateClient(clientCfg)
		if err != nil {
			return fmt.Errorf("create %s client: %w", clientCfg.Type, err)
		}
		if err = registry.Register(client, hub); err != nil {
			return fmt.Errorf("register %s client: %w", clientCfg.Type, err)
		}
		log.Printf("🔌 %s client registered", clientCfg.Type)
		started++
	}
	if started == 0 {
		return fmt.Errorf("no enabled clients in configs")
	}

	log.Println("🚀 Bot running. Waiting for messages...")
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Println("🛑 Shutting down...")
	registry.CloseAll()
	return nil
}

func runReport(c *cli.Context) error {
	cfg, err := configs.LoadConfig(c.String("config"))
	if err != nil {
		return err
	}

	db := storage.NewSQLiteStorage(cfg.DBPath)
	defer db.Close()

	stats, err := db.StatsByChat(context.Background())
	if err != nil {
		return fmt.Errorf("load stats: %w", err)
	}

	fmt.Print(utils.BuildStatsTree(stats))
	return nil
}
