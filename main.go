package main

import (
	"github.com/campus-events/api/app"
	"github.com/rs/zerolog/log"
)

func main() {
	// setup and run app
	if err := app.SetupAndRunServer(); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}
