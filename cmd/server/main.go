package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/plainchat/plainchat/pkg/directory"
	"github.com/plainchat/plainchat/pkg/server"
)

var (
	// Version is set at build time via ldflags
	Version = "dev"
)

func main() {
	log.SetFlags(log.Ldate | log.Ltime)

	configPath := flag.String("config", "~/.plainchat/config.toml", "Path to config file")
	port := flag.Int("port", 0, "TCP port to listen on (overrides config)")
	accountsPath := flag.String("accounts", "", "Path to the account store (overrides config)")
	debug := flag.Bool("debug", false, "Enable debug logging")
	version := flag.Bool("version", false, "Show version information")
	flag.Parse()

	if *version {
		fmt.Printf("plainchat server %s\n", Version)
		os.Exit(0)
	}

	// Load configuration (creates default if not found)
	config, err := server.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// Command-line flags override config file
	if *port != 0 {
		config.Server.TCPPort = *port
	}
	if *accountsPath != "" {
		config.Server.AccountsPath = *accountsPath
	}

	serverConfig := config.ToServerConfig()
	resolvedAccountsPath, err := serverConfig.ResolveAccountsPath()
	if err != nil {
		log.Fatalf("Failed to resolve account store path: %v", err)
	}

	// Load the account directory; corrupt records are skipped, a missing
	// file just means an empty directory
	dir := directory.New()
	loaded, err := dir.LoadFile(resolvedAccountsPath)
	if err != nil {
		log.Fatalf("Failed to load account store: %v", err)
	}
	log.Printf("Account store: %s (%d accounts)", resolvedAccountsPath, loaded)

	srv := server.NewServer(dir, serverConfig)
	srv.SetMetrics(server.NewMetrics())

	if *debug {
		srv.EnableDebugLogging()
		log.Printf("Debug logging enabled")
	}

	log.Printf("My chat room server. Version Two.")

	if err := srv.Start(); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}
	log.Printf("plainchat server %s started successfully", Version)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down server...")
	if err := srv.Stop(); err != nil {
		log.Printf("Error during shutdown: %v", err)
	}

	// Flush the account set back to the durable store
	if err := srv.Directory().SaveFile(resolvedAccountsPath); err != nil {
		log.Printf("Error saving account store: %v", err)
	} else {
		log.Printf("Account store saved (%d accounts)", srv.Directory().Count())
	}
	log.Println("Server stopped")
}
