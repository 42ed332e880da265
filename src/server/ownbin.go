
// This file is part of OwnBin.

// OwnBin is free software released under the MIT License.
// See LICENSE.md file for details.

package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/casjay-forks/ownbin/src/apiv1"
	"github.com/casjay-forks/ownbin/src/config"
	"github.com/casjay-forks/ownbin/src/digestauth"
	"github.com/casjay-forks/ownbin/src/guard"
	"github.com/casjay-forks/ownbin/src/langreg"
	"github.com/casjay-forks/ownbin/src/metrics"
	"github.com/casjay-forks/ownbin/src/storage"
)

// Build info - set via -ldflags at build time
var (
	Version   = "unknown"
	CommitID  = "unknown"
	BuildDate = "unknown"
)

// getVersion reads version from release.txt or returns default
func getVersion() string {
	// If Version was set at build time (via -ldflags), use it
	if Version != "unknown" {
		return Version
	}

	data, err := os.ReadFile("release.txt")
	if err == nil {
		version := strings.TrimSpace(string(data))
		if version != "" {
			return version
		}
	}

	return "1.0.0"
}

func exitOnError(e error) {
	fmt.Fprintln(os.Stderr, "error:", e.Error())
	os.Exit(1)
}

// listenAddr resolves the configured listen address and port
func listenAddr(cfg *config.YAMLConfig) string {
	host := cfg.Server.Listen
	if host == "all" || host == "" {
		host = "::"
	}
	return net.JoinHostPort(host, cfg.Server.Port)
}

// printCredentialDigest handles the -a1 flag: computes the digest the
// auth.secret_digest config key expects from a user:realm:secret triple.
func printCredentialDigest(triple string) {
	parts := strings.SplitN(triple, ":", 3)
	if len(parts) != 3 {
		exitOnError(fmt.Errorf("-a1 expects username:realm:secret"))
	}
	fmt.Println(digestauth.CredentialDigest(parts[0], parts[1], parts[2]))
}

func main() {
	flagConfig := flag.String("config", "ownbin.yaml", "path to configuration file")
	flagGenConfig := flag.Bool("gen-config", false, "write a default configuration file and exit")
	flagA1 := flag.String("a1", "", "print the credential digest for 'username:realm:secret' and exit")
	flagVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *flagVersion {
		fmt.Println(config.Software, getVersion())
		return
	}

	if *flagA1 != "" {
		printCredentialDigest(*flagA1)
		return
	}

	if *flagGenConfig {
		if err := config.GenerateDefaultYAMLConfig(*flagConfig); err != nil {
			exitOnError(err)
		}
		fmt.Println("wrote", *flagConfig)
		return
	}

	yamlCfg, err := config.Load(*flagConfig)
	if err != nil {
		exitOnError(err)
	}

	cfg, err := config.Runtime(yamlCfg, getVersion())
	if err != nil {
		exitOnError(err)
	}

	log := cfg.Log

	// Storage
	if err := storage.InitDB(yamlCfg.Database.Driver, yamlCfg.Database.Source); err != nil {
		exitOnError(err)
	}

	db, err := storage.NewPool(
		yamlCfg.Database.Driver, yamlCfg.Database.Source,
		yamlCfg.Database.MaxOpenConns, yamlCfg.Database.MaxIdleConns)
	if err != nil {
		exitOnError(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		exitOnError(err)
	}
	log.Info("Connected to " + yamlCfg.Database.Driver + " database")

	// Wiring
	accessGuard := guard.New(db,
		cfg.AuthUsername, cfg.AuthSecretDigest, cfg.AuthRealm,
		cfg.BlockHits, cfg.BlockTimeout)

	api := apiv1.Load(db, accessGuard, langreg.New(), cfg)

	mux := http.NewServeMux()
	if yamlCfg.Server.Metrics.Enabled {
		mux.Handle(yamlCfg.Server.Metrics.Endpoint, metrics.Handler())
	}
	mux.HandleFunc("/", api.Hand)

	// Create HTTP server with timeouts
	srv := &http.Server{
		Addr:         listenAddr(yamlCfg),
		Handler:      mux,
		ReadTimeout:  time.Duration(yamlCfg.Server.Timeouts.Read) * time.Second,
		WriteTimeout: time.Duration(yamlCfg.Server.Timeouts.Write) * time.Second,
		IdleTimeout:  time.Duration(yamlCfg.Server.Timeouts.Idle) * time.Second,
	}

	// Setup signal handling for graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)

	httpErrors := make(chan error, 1)
	go func() {
		log.Info("Run HTTP server on " + srv.Addr)
		httpErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-httpErrors:
		if err != nil && err != http.ErrServerClosed {
			exitOnError(err)
		}

	case sig := <-sigChan:
		log.Info(fmt.Sprintf("Received signal %v, shutting down gracefully...", sig))

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			log.Error(fmt.Errorf("HTTP server shutdown error: %w", err))
			srv.Close()
		}

		log.Info("Server stopped")
	}
}
