package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/mdobak/go-xerrors"

	"github.com/sndercer/compressor-ai-diagnosis/configs"
	"github.com/sndercer/compressor-ai-diagnosis/utils"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Println("Expected 'serve' subcommand")
		os.Exit(1)
	}
	_ = godotenv.Load()

	switch os.Args[1] {
	case "serve":
		serveCmd := flag.NewFlagSet("serve", flag.ExitOnError)
		configFile := serveCmd.String("config", "", "Path to config file (YAML)")
		port := serveCmd.Int("p", 0, "Port to use (overrides config)")
		serveCmd.Parse(os.Args[2:])

		cfg, err := configs.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
			os.Exit(1)
		}
		if *port != 0 {
			cfg.Server.Port = *port
		}

		if err := utils.CreateFolder(cfg.DataDir); err != nil {
			logger := utils.GetLogger()
			logger.ErrorContext(context.Background(), "Failed to create data dir.",
				slog.Any("error", xerrors.New(err)))
		}

		serve(cfg)
	default:
		fmt.Println("Expected 'serve' subcommand")
		os.Exit(1)
	}
}
