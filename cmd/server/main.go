// Package main runs the blob trigger locally on the Functions Framework
// HTTP server, so storage events can be posted to it by hand or by an emulator.
package main

import (
	"errors"
	"io/fs"
	"log"
	"os"

	"github.com/GoogleCloudPlatform/functions-framework-go/funcframework"
	"github.com/joho/godotenv"

	blobtrigger "github.com/phrazzld/blob-trigger"
)

func main() {
	// Settings in .env are only a convenience for local runs; the function
	// itself reads local.settings.json and the environment.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: failed to load .env file: %v", err)
	}

	if os.Getenv("FUNCTION_TARGET") == "" {
		if err := os.Setenv("FUNCTION_TARGET", blobtrigger.FunctionName); err != nil {
			log.Fatalf("Failed to select function target: %v", err)
		}
	}

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Bind to localhost only when asked, e.g. to avoid firewall prompts.
	hostname := ""
	if os.Getenv("LOCAL_ONLY") == "true" {
		hostname = "127.0.0.1"
	}

	if err := funcframework.StartHostPort(hostname, port); err != nil {
		log.Fatalf("funcframework.StartHostPort: %v", err)
	}
}
