package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"radiomon/internal/di"
	"radiomon/internal/structures"
)

func main() {
	// Local overrides for tokens and webhooks; absence is not an error.
	_ = godotenv.Load()

	flags := &structures.CliFlags{}
	flag.StringVar(&flags.ConfigPath, "c", "config.yaml", "path to the config file")
	flag.BoolVar(&flags.DebugMode, "debug", false, "enable debug logging to stdout")
	flag.Parse()

	if _, err := di.InitApp(flags); err != nil {
		fmt.Fprintf(os.Stderr, "radiomon: %s\n", err)
		os.Exit(1)
	}
}
