package main

import (
	"fmt"
	"log"
	"os"

	"github.com/foodlens/backend/config"
	httpDelivery "github.com/foodlens/backend/internal/delivery/http"
	"github.com/foodlens/backend/internal/infrastructure/cache"
	"github.com/foodlens/backend/internal/infrastructure/dataset"
	"github.com/foodlens/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	log.Printf("Starting FoodLens Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Dataset: %s", cfg.Dataset.Path)

	// Load the product catalog
	catalog, err := dataset.NewCatalog(cfg.Dataset.Path)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	log.Printf("Loaded %d products", catalog.Size())

	memoryCache := cache.NewMemoryCache()
	log.Printf("Cache TTL: %s", cfg.Cache.TTL)

	// Initialize usecase layer; fits the vector model over all product names
	searchService, err := usecase.NewSearchService(
		memoryCache,
		catalog,
		usecase.SearchServiceConfig{
			CacheTTL:            cfg.Cache.TTL,
			SimilarityThreshold: cfg.Matching.SimilarityThreshold,
			EnableDebugLogging:  cfg.Matching.EnableDebugLogging,
		},
	)
	if err != nil {
		log.Fatalf("Failed to initialize search service: %v", err)
	}

	log.Printf("Matching: threshold=%.2f, debug=%v",
		cfg.Matching.SimilarityThreshold,
		cfg.Matching.EnableDebugLogging)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(searchService)

	// Setup router
	router := httpDelivery.SetupRouter(cfg, handler)

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Server.Port)
	log.Printf("Server listening on %s", addr)

	if err := router.Run(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
}

func init() {
	// Set log flags for better debugging
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)
	log.SetOutput(os.Stdout)
}
