package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/BurntSushi/toml"
)

// Version is set at build time via -ldflags
var Version = "dev"

// Config is the optional TOML server configuration.
type Config struct {
	Port int        `toml:"port"`
	Auth AuthConfig `toml:"auth"`
}

func loadConfig(path string) (Config, error) {
	config := Config{Port: 5432}
	if path == "" {
		return config, nil
	}
	if _, err := toml.DecodeFile(path, &config); err != nil {
		return config, fmt.Errorf("failed to load config %s: %w", path, err)
	}
	return config, nil
}

func main() {
	port := flag.Int("port", 0, "TCP port to listen on (overrides config)")
	configFile := flag.String("config", "", "Path to TOML config file")
	jwtSecret := flag.String("jwtSecret", "", "JWT secret; enables authentication (overrides config)")
	showVersion := flag.Bool("version", false, "Show version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Printf("SessionVars Server v%s\n", Version)
		return
	}

	config, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("%v", err)
	}
	if *port != 0 {
		config.Port = *port
	}
	if *jwtSecret != "" {
		config.Auth.Enabled = true
		config.Auth.JWTSecret = *jwtSecret
	}

	var server *Server
	if config.Auth.Enabled {
		log.Println("JWT authentication enabled")
		server = NewServerWithAuth(&config.Auth)
	} else {
		server = NewServer()
	}

	addr := fmt.Sprintf(":%d", config.Port)
	if err := server.Start(addr); err != nil {
		log.Fatalf("Failed to start server: %v", err)
	}

	// Print banner
	fmt.Println()
	fmt.Println("╔═══════════════════════════════════════╗")
	fmt.Printf("║   SessionVars Server v%-15s ║\n", Version)
	fmt.Println("║   Transactional Session Variables     ║")
	fmt.Println("╚═══════════════════════════════════════╝")
	fmt.Println()
	fmt.Printf("Listening on port %d\n", config.Port)
	fmt.Println("Send statements (one per line), 'quit' to disconnect")
	fmt.Println()

	// Wait for shutdown signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Println("Shutting down...")
	server.Stop()
	log.Println("Server stopped")
}
