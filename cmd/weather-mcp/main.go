package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/goccy/go-json"
	"github.com/miyamo2/qilin"

	mcpapi "github.com/i474232898/weather-lookup/internal/api/mcp"
	"github.com/i474232898/weather-lookup/internal/app"
	"github.com/i474232898/weather-lookup/internal/config"
	"github.com/i474232898/weather-lookup/internal/tracing"
)

func main() {
	// stdout carries the MCP stream
	log.SetOutput(os.Stderr)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	shutdownTracing, err := tracing.Setup(cfg.ZipkinEndpoint, "weather-mcp")
	if err != nil {
		log.Fatalf("failed to set up tracing: %v", err)
	}
	defer shutdownTracing(context.Background())

	a, err := app.Build(cfg)
	if err != nil {
		log.Fatalf("failed to build app: %v", err)
	}
	defer a.Close()

	if err := a.Scheduler.Start(); err != nil {
		log.Fatalf("failed to start scheduler: %v", err)
	}

	q := qilin.New("weather-lookup",
		qilin.WithVersion("1.0.0"),
		qilin.WithJSONMarshalFunc(json.Marshal),
		qilin.WithJSONUnmarshalFunc(json.Unmarshal))
	mcpapi.NewTools(a.Service).Register(q)

	if err := q.Start(qilin.StartWithContext(ctx)); err != nil {
		log.Printf("mcp server stopped: %v", err)
	}
}
