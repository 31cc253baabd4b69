// Tower Defense Packet Server - Main Entry Point
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"td-game/internal/config"
	"td-game/internal/game"
	"td-game/internal/i18n"
	"td-game/internal/server"
	"td-game/pkg/logger"
)

var (
	version   = "1.0.0"
	buildTime = "dev"
)

func main() {
	// Load configuration
	cfg, err := config.Load(".env")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Parse command line flags
	flag.StringVar(&cfg.Port, "port", cfg.Port, "Server port")
	flag.StringVar(&cfg.Host, "host", cfg.Host, "Server host")
	flag.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Content data directory path")
	flag.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "Log level (DEBUG, INFO, WARN, ERROR)")
	flag.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "Log file path (optional)")
	flag.StringVar(&cfg.Locale, "locale", cfg.Locale, "Response locale (en-US, ko-KR)")
	flag.IntVar(&cfg.StartStage, "stage", cfg.StartStage, "Current stage id")
	help := flag.Bool("help", false, "Show help information")
	ver := flag.Bool("version", false, "Show version information")
	flag.Parse()

	// Show help
	if *help {
		showHelp()
		return
	}

	// Show version
	if *ver {
		showVersion()
		return
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logging
	if err := initLogging(cfg); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
		os.Exit(1)
	}
	defer logger.CloseAll()

	logger.Server.Info("Starting Tower Defense Packet Server v%s", version)

	// Load content; missing files leave empty tables and every spawn is rejected
	content := game.LoadContentStore(cfg.DataDir)

	// Load response texts
	bundle, err := i18n.LoadEmbedded()
	if err != nil {
		logger.Server.Fatal("Failed to load message catalogs: %v", err)
	}
	printer := bundle.Printer(cfg.Locale)
	logger.Server.Info("Responding in locale %s", printer.Locale())

	// Create game engine and dispatcher
	engine := game.NewEngine(content, game.Options{
		StageID: cfg.StartStage,
		BaseHP:  cfg.BaseHP,
	})
	dispatcher := server.NewDispatcher(engine, printer)

	// Create server
	gameServer := server.NewServer(cfg.Address(), dispatcher, server.Options{
		MaxPayload:   cfg.MaxFrameSize,
		IdleTimeout:  cfg.IdleTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})

	// Setup graceful shutdown
	setupGracefulShutdown(gameServer)

	// Start server
	logger.Server.Info("Starting server on %s (stage %d)", cfg.Address(), cfg.StartStage)
	if err := gameServer.Start(); err != nil {
		logger.Server.Fatal("Server failed to start: %v", err)
	}
}

// initLogging sets up the logging system
func initLogging(cfg config.Config) error {
	logger.SetGlobalLogLevel(logger.ParseLevel(cfg.LogLevel))

	if cfg.LogFile != "" {
		if err := logger.Server.SetFile(cfg.LogFile); err != nil {
			return fmt.Errorf("failed to set log file: %w", err)
		}
		logger.Server.Info("Logging to file: %s", cfg.LogFile)
		return nil
	}

	if err := logger.InitializeFileLogging("./logs"); err != nil {
		// console logging still works
		logger.Server.Warn("Could not initialize file logging: %v", err)
	}
	return nil
}

// setupGracefulShutdown handles graceful shutdown on interrupt signals
func setupGracefulShutdown(gameServer *server.Server) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		logger.Server.Info("Received shutdown signal, stopping server...")
		gameServer.Stop()
		logger.CloseAll()
		os.Exit(0)
	}()
}

// showHelp displays help information
func showHelp() {
	fmt.Printf(`Tower Defense Packet Server v%s

USAGE:
    %s [OPTIONS]

OPTIONS:
    -port string         Server port (default "5555", env TD_PORT)
    -host string         Server host (default "localhost", env TD_HOST)
    -data-dir string     Content data directory (default "data", env TD_DATA_DIR)
    -log-level string    Log level: DEBUG, INFO, WARN, ERROR (env TD_LOG_LEVEL)
    -log-file string     Log file path (optional, env TD_LOG_FILE)
    -locale string       Response locale: en-US, ko-KR (env TD_LOCALE)
    -stage int           Current stage id (default 101, env TD_START_STAGE)
    -help                Show this help message
    -version             Show version information

ENVIRONMENT:
    TD_BASE_HP           Starting base hp (default 100)
    TD_IDLE_TIMEOUT      Close clients idle this long (default 30m)
    TD_WRITE_TIMEOUT     Drop clients that cannot take a response this fast (default 10s)
    TD_MAX_FRAME_SIZE    Largest accepted payload in bytes (default 65536)

Settings may also be placed in a .env file in the working directory.

PACKETS:
    1  SPAWN_MONSTER_REQUEST       {monsterId, x, y}
    2  MONSTER_DEATH_NOTIFICATION  {monsterId}
    3  STATE_SYNC_NOTIFICATION     {}

Each response is one JSON line tagged with status OK, REJECTED or ERROR.
`, version, os.Args[0])
}

// showVersion displays version information
func showVersion() {
	fmt.Printf(`Tower Defense Packet Server
Version: %s
Build Time: %s
`, version, buildTime)
}
