package main

import (
	"os"

	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/drillcoach-backend/internal/database"
	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if err := newRootCmd(database.Open, config.Load).Execute(); err != nil {
		os.Exit(1)
	}
}
