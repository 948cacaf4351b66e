// cmd/versectl - Verse store maintenance: import datasets, look up passages, lint reference lists
package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

func main() {
	// .env is optional for the CLI
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		log.Printf("Error: %v", err)
		os.Exit(1)
	}
}
