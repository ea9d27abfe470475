// Package main is the entry point for the dna2midi API server
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/james-see/dna2midi/pkg/api"
	"github.com/james-see/dna2midi/pkg/config"
)

func main() {
	configFile := flag.String("config", "", "Config file")
	port := flag.Int("port", 0, "Server port (overrides server.port)")
	flag.Parse()

	v, err := config.New(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}
	if *port != 0 {
		v.Set("server.port", *port)
	}
	cfg, err := config.Load(v)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Starting dna2midi API server on port %d...\n", cfg.Server.Port)
	fmt.Printf("Swagger docs available at http://localhost:%d/swagger/index.html\n", cfg.Server.Port)

	if err := api.StartServer(cfg.Server.Port, cfg.MIDIOptions()); err != nil {
		fmt.Fprintf(os.Stderr, "Server error: %v\n", err)
		os.Exit(1)
	}
}
