package main

import (
	"log"
	"net/http"

	"videoInsight/config"
	"videoInsight/server"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		config.PrintConfigInstructions()
		log.Fatalf("invalid config: %v", err)
	}

	srv := server.New(cfg)
	mux := http.NewServeMux()
	srv.Routes(mux)

	log.Printf("LLM provider: %s, vector store: %s", cfg.LLMProvider, cfg.Store)
	addr := ":" + cfg.Port
	log.Printf("Server listening on %s", addr)
	log.Fatal(http.ListenAndServe(addr, mux))
}
