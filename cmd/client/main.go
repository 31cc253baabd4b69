// Tower Defense Client - Main Entry Point
package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"td-game/internal/client"
	"td-game/pkg/logger"
)

var (
	version    = "1.0.0"
	serverAddr = flag.String("server", "localhost:5555", "Server address (host:port)")
	logLevel   = flag.String("log-level", "WARN", "Log level (DEBUG, INFO, WARN, ERROR)")
	logFile    = flag.String("log-file", "", "Log file path (optional)")
)

func main() {
	flag.Parse()

	logger.SetGlobalLogLevel(logger.ParseLevel(*logLevel))
	if *logFile != "" {
		if err := logger.Client.SetFile(*logFile); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to initialize logging: %v\n", err)
			os.Exit(1)
		}
	}

	logger.Client.Info("Starting Tower Defense Client v%s", version)

	gameClient := client.NewClient(*serverAddr, os.Stdin, os.Stdout)

	setupGracefulShutdown(gameClient)

	if err := gameClient.Start(); err != nil {
		logger.Client.Error("Client failed: %v", err)
		os.Exit(1)
	}

	logger.Client.Info("Client shutting down gracefully")
}

// setupGracefulShutdown handles graceful shutdown on interrupt signals
func setupGracefulShutdown(gameClient *client.Client) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		gameClient.Close()
		os.Exit(0)
	}()
}
