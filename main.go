package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fantasy-tiktok-engine/cmd"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if err := cmd.Execute(); err != nil {
		log.Fatal().Err(err).Msg("command failed")
	}
}
