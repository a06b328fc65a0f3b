// Command seed loads portfolio content from a YAML file into the configured
// database, replacing the rows of every section present in the file. With
// -write-config it instead writes a starter config.yaml.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jackhellowin/portfolio-api/internal/config"
	"github.com/jackhellowin/portfolio-api/internal/models"
	"github.com/jackhellowin/portfolio-api/internal/services"
	"github.com/jackhellowin/portfolio-api/pkg/logger"
)

func main() {
	seedPath := flag.String("file", "seed.yaml", "path to the content seed file")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "path to config.yaml")
	writeConfig := flag.String("write-config", "", "write the effective configuration to this path and exit")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	logger.Init(cfg.Server.LogLevel)

	if *writeConfig != "" {
		if err := cfg.Save(*writeConfig); err != nil {
			logger.Fatalf("Failed to write config: %v", err)
		}
		fmt.Printf("Configuration written to %s\n", *writeConfig)
		return
	}

	seed, err := services.LoadContentSeed(*seedPath)
	if err != nil {
		logger.Fatalf("Failed to load seed: %v", err)
	}

	if err := models.InitDB(&cfg.Database, false); err != nil {
		logger.Fatalf("Failed to connect to database: %v", err)
	}
	defer models.Close()

	if err := models.AutoMigrate(); err != nil {
		logger.Fatalf("Failed to migrate database: %v", err)
	}

	result, err := services.SeedContent(context.Background(), models.GetDB(), seed)
	if err != nil {
		logger.Fatalf("Failed to seed content: %v", err)
	}

	fmt.Println("Seed completed:")
	fmt.Printf("  %-14s %d\n", "works", result.Works)
	fmt.Printf("  %-14s %d\n", "skills", result.Skills)
	fmt.Printf("  %-14s %d\n", "social media", result.SocialMedia)
	fmt.Printf("  %-14s %d\n", "self content", result.SelfContent)
}
