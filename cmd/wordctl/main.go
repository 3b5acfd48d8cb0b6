// Command wordctl inspects and administers the word game's store directly,
// using the same environment as the server.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/BlueberryTheta/wordGame/internal/bootstrap"
	"github.com/BlueberryTheta/wordGame/internal/config"
	"github.com/BlueberryTheta/wordGame/internal/logger"
)

func main() {
	_ = godotenv.Load()
	log := logger.New("wordctl").Level(zerolog.WarnLevel)

	open := func(ctx context.Context) (*bootstrap.Game, error) {
		cfg, err := config.New()
		if err != nil {
			return nil, err
		}
		return bootstrap.New(ctx, cfg, log)
	}

	if err := newRootCmd(os.Stdout, open).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
