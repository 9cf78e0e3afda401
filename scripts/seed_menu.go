package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"armancoffee/internal/database"
	"armancoffee/internal/models"
	"armancoffee/internal/service"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Seeds the catalog from a yaml file, replacing whatever is in the database.
// Useful for local development when the admin import endpoint is overkill.

type MenuConfig struct {
	Categories []models.MenuCategory `yaml:"categories"`
}

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()
	var (
		menuPath = flag.String("menu", "configs/menu.yaml", "path to menu.yaml")
		dbPath   = flag.String("db", "./data/armancoffee.db", "path to sqlite db")
	)
	flag.Parse()

	data, err := os.ReadFile(*menuPath)
	if err != nil {
		return fmt.Errorf("read menu: %w", err)
	}
	var cfg MenuConfig
	if err = yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("parse menu: %w", err)
	}
	if len(cfg.Categories) == 0 {
		return fmt.Errorf("no categories in yaml")
	}

	db, err := database.NewDB(*dbPath, &logger)
	if err != nil {
		return fmt.Errorf("open db: %w", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	menu := service.NewMenuService(db, &logger)
	if err := menu.Import(ctx, cfg.Categories); err != nil {
		return fmt.Errorf("import menu: %w", err)
	}

	items := 0
	for _, cat := range cfg.Categories {
		items += len(cat.Items)
	}
	logger.Info().Int("categories", len(cfg.Categories)).Int("items", items).Msg("menu seeded")
	return nil
}
