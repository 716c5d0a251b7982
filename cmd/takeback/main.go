package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/handiism/takeback/internal/config"
	"github.com/handiism/takeback/internal/session"
)

func main() {
	// Command line flags
	var (
		apiKeyFlag   = flag.String("api-key", "", "ElevenLabs API key (or set ELEVENLABS_API_KEY)")
		outputFlag   = flag.String("output", "", "Output directory (overrides config)")
		configFlag   = flag.String("config", "", "Path to config file")
		strategyFlag = flag.String("strategy", "", "Reconstruction strategy: positional or snippet")
		lookbackFlag = flag.Int("lookback", 0, "Lookback window in hours, 1-24 (snippet strategy only)")
		tagsFlag     = flag.Bool("tags", false, "Embed take metadata as ID3 tags")
		verboseFlag  = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag   = flag.Bool("dry-run", false, "Fetch and reconstruct without downloading")
	)

	flag.Parse()

	// Resolve credential
	apiKey := *apiKeyFlag
	if apiKey == "" {
		apiKey = os.Getenv("ELEVENLABS_API_KEY")
	}
	if apiKey == "" {
		fmt.Println("takeback - Recover your ElevenLabs takes, organized A / B / C")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  takeback -api-key <KEY> [options]")
		fmt.Println("  ELEVENLABS_API_KEY=<KEY> takeback [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: takeback-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *outputFlag != "" {
		settings.OutputPath = *outputFlag
	}
	if *strategyFlag != "" {
		if *strategyFlag != config.StrategyPositional && *strategyFlag != config.StrategySnippet {
			fmt.Fprintf(os.Stderr, "Unknown strategy %q (want positional or snippet)\n", *strategyFlag)
			os.Exit(1)
		}
		settings.Strategy = *strategyFlag
	}
	if *lookbackFlag != 0 {
		if *lookbackFlag < config.MinLookbackHours || *lookbackFlag > config.MaxLookbackHours {
			fmt.Fprintf(os.Stderr, "Lookback must be between %d and %d hours\n", config.MinLookbackHours, config.MaxLookbackHours)
			os.Exit(1)
		}
		settings.LookbackHours = *lookbackFlag
	}
	if *tagsFlag {
		settings.EmbedTakeTags = true
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	// Create manager with progress callback
	manager := session.NewManager(settings, func(event session.ProgressEvent) {
		if event.Level == session.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := ""
		switch event.Level {
		case session.LevelError:
			prefix = "❌ "
		case session.LevelWarning:
			prefix = "⚠️  "
		case session.LevelSuccess:
			prefix = "✅ "
		case session.LevelInfo:
			prefix = "ℹ️  "
		default:
			prefix = "   "
		}

		fmt.Println(prefix + event.Message)
	})

	fmt.Println("🎙 takeback")
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Println()

	if err := manager.Initialize(ctx, apiKey); err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing: %v\n", err)
		os.Exit(1)
	}

	if !manager.HasResults() {
		fmt.Println("\nNo audio found in your history. Nothing to recover.")
		return
	}

	if *dryRunFlag {
		fmt.Println("\n[Dry run - not downloading]")
		return
	}

	fmt.Println("\n📥 Starting downloads...")
	fmt.Println()

	if err := manager.StartDownloads(ctx); err != nil {
		if ctx.Err() != nil {
			fmt.Println("\nRecovery cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error during recovery: %v\n", err)
		os.Exit(1)
	}

	processed, total := manager.GetProgress()
	fmt.Println()
	fmt.Println("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	fmt.Printf("✨ Complete! Processed %d/%d items\n", processed, total)
	for _, artifact := range manager.Artifacts() {
		fmt.Printf("   %s: %d files → %s\n", artifact.Take, artifact.Count, artifact.Path)
	}
}
