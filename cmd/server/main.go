package main

import (
	"fmt"
	"log"
	"os"

	"github.com/arbiscout/backend/config"
	httpDelivery "github.com/arbiscout/backend/internal/delivery/http"
	"github.com/arbiscout/backend/internal/infrastructure/cache"
	"github.com/arbiscout/backend/internal/infrastructure/imaging"
	"github.com/arbiscout/backend/internal/infrastructure/mercadolivre"
	"github.com/arbiscout/backend/internal/infrastructure/store"
	"github.com/arbiscout/backend/internal/usecase"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	debug := cfg.Server.Environment == "development"

	log.Printf("Starting ArbiScout Backend v1.0.0")
	log.Printf("Environment: %s", cfg.Server.Environment)
	log.Printf("Port: %s", cfg.Server.Port)
	log.Printf("Marketplace: %s (%s)", cfg.Marketplace.BaseURL, cfg.Marketplace.SiteID)

	// Initialize infrastructure dependencies
	memoryCache := cache.NewMemoryCache()
	decisionStore := store.NewMemoryStore()

	marketplaceClient := mercadolivre.NewClient(cfg.Marketplace.BaseURL, cfg.Marketplace.SiteID)
	marketplaceClient.SetDebug(debug)

	imageFetcher := imaging.NewFetcher()
	imageHasher := imaging.NewPHasher()

	// Initialize usecase layer
	quantFilter := usecase.NewQuantitativeFilter(usecase.QuantitativeConfig{
		SoftThreshold: cfg.Decision.SoftThreshold,
	})
	qualFilter := usecase.NewQualitativeFilter(nil, usecase.QualitativeConfig{
		EnableDebugLogging: debug,
	})
	matcher := usecase.NewMatcher(imageFetcher, imageHasher, nil, usecase.MatcherConfig{
		ImageThreshold:     cfg.Matching.ImageThreshold,
		SemanticThreshold:  cfg.Matching.SemanticThreshold,
		TextualThreshold:   cfg.Matching.TextualThreshold,
		MaxPriceDeviation:  cfg.Matching.MaxPriceDeviation,
		FxRate:             cfg.Margin.FxRate,
		EnableDebugLogging: debug,
	})
	marginCalc := usecase.NewMarginCalculator(usecase.MarginConfig{
		FxRate:             cfg.Margin.FxRate,
		ImportTaxRate:      cfg.Margin.ImportTaxRate,
		ShippingBase:       cfg.Margin.ShippingBase,
		MarketplaceFeeRate: cfg.Margin.MarketplaceFeeRate,
		MinMarginPct:       cfg.Margin.MinMarginPct,
		EnableDebugLogging: debug,
	})
	riskScorer := usecase.NewRiskScorer(usecase.RiskConfig{
		MediumThreshold:     cfg.Risk.MediumThreshold,
		HighThreshold:       cfg.Risk.HighThreshold,
		ReviewThreshold:     cfg.Risk.ReviewThreshold,
		MaxPriceDeviation:   cfg.Matching.MaxPriceDeviation,
		SuspiciousDeviation: cfg.Risk.SuspiciousDeviation,
		SuspiciousMarginPct: cfg.Risk.SuspiciousMarginPct,
		LowMarginFloor:      cfg.Risk.LowMarginFloor,
	})

	decisionService := usecase.NewDecisionService(
		quantFilter,
		qualFilter,
		matcher,
		marginCalc,
		riskScorer,
		marketplaceClient,
		memoryCache,
		usecase.DecisionConfig{
			QuantWeight:        cfg.Decision.QuantWeight,
			QualWeight:         cfg.Decision.QualWeight,
			MarginWeight:       cfg.Decision.MarginWeight,
			MinScore:           cfg.Decision.MinScore,
			MinCriteria:        cfg.Decision.MinCriteria,
			ContinueFloor:      cfg.Decision.ContinueFloor,
			CacheTTL:           cfg.Cache.TTL,
			EnableDebugLogging: debug,
		},
	)
	batchEvaluator := usecase.NewBatchEvaluator(decisionService, usecase.BatchConfig{
		Concurrency:        cfg.Batch.Concurrency,
		WaveDelay:          cfg.Batch.WaveDelay,
		CandidateTimeout:   cfg.Batch.CandidateTimeout,
		EnableDebugLogging: debug,
	})

	log.Printf("Matching: image=%.0f%%, semantic=%.0f, textual=%.0f, deviation cap=%.2fx",
		cfg.Matching.ImageThreshold,
		cfg.Matching.SemanticThreshold,
		cfg.Matching.TextualThreshold,
		cfg.Matching.MaxPriceDeviation)
	log.Printf("Margin: fx=%.2f, tax=%.0f%%, fee=%.0f%%, min margin=%.0f%%",
		cfg.Margin.FxRate,
		cfg.Margin.ImportTaxRate*100,
		cfg.Margin.MarketplaceFeeRate*100,
		cfg.Margin.MinMarginPct)

	// Create HTTP handler with dependencies
	handler := httpDelivery.NewHandler(decisionService, batchEvaluator, decisionStore)

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
