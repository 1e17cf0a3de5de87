// Command conductor runs the Conference Workflow Orchestrator's HTTP API:
// the Conference Workflow Engine, the generic Execution Engine, and their
// shared Postgres-backed persistence layer. Adapted from the teacher's
// cmd/tarsy/main.go bootstrap shape (flag-driven config dir, godotenv,
// gin router) but wired to this system's engines instead of TARSy's
// session/chat services.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"

	"github.com/codeready-toolchain/tarsy/pkg/api"
	"github.com/codeready-toolchain/tarsy/pkg/config"
	"github.com/codeready-toolchain/tarsy/pkg/crawler"
	"github.com/codeready-toolchain/tarsy/pkg/events"
	"github.com/codeready-toolchain/tarsy/pkg/execution"
	"github.com/codeready-toolchain/tarsy/pkg/llm"
	"github.com/codeready-toolchain/tarsy/pkg/orchestrator"
	"github.com/codeready-toolchain/tarsy/pkg/qa"
	"github.com/codeready-toolchain/tarsy/pkg/research"
	"github.com/codeready-toolchain/tarsy/pkg/router"
	"github.com/codeready-toolchain/tarsy/pkg/social"
	"github.com/codeready-toolchain/tarsy/pkg/stages"
	"github.com/codeready-toolchain/tarsy/pkg/store"
	"github.com/codeready-toolchain/tarsy/pkg/version"
	"github.com/codeready-toolchain/tarsy/pkg/workflow"
)

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	configDir := flag.String("config-dir",
		getEnv("CONFIG_DIR", "./deploy/config"),
		"Path to configuration directory")
	flag.Parse()

	envPath := filepath.Join(*configDir, ".env")
	if err := godotenv.Load(envPath); err != nil {
		log.Printf("could not load %s: %v (continuing with existing environment)", envPath, err)
	}

	cfg, err := config.Load(filepath.Join(*configDir, "config.yaml"))
	if err != nil {
		log.Fatalf("load configuration: %v", err)
	}

	ctx := context.Background()

	dbClient, err := store.NewClient(ctx, cfg.Database)
	if err != nil {
		log.Fatalf("connect to database: %v", err)
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			log.Printf("error closing database client: %v", err)
		}
	}()
	log.Println("connected to postgres, migrations applied")

	repo := store.NewStore(dbClient)
	bus := events.NewBus()

	researchExecutor := stages.New(crawler.New(nil), research.New(), cfg.Workflow, cfg.Crawl)
	gate := qa.New(cfg.Workflow.QAApprovalThreshold)

	var llmClient llm.Client
	if cfg.LLM.GRPCAddr != "" {
		grpcClient, err := llm.NewGRPCClient(cfg.LLM.GRPCAddr)
		if err != nil {
			log.Fatalf("connect to llm service: %v", err)
		}
		defer grpcClient.Close()
		llmClient = grpcClient
	}
	parallelOrchestrator := orchestrator.New(llmClient, nil)
	scheduler := social.New()

	wfEngine := workflow.New(repo, researchExecutor, gate, parallelOrchestrator, scheduler, bus,
		cfg.Workflow.EnableParallelCreation, cfg.Workflow.AutoSchedulePosts)

	rtr := router.New(cfg.AgentDescriptors())
	researchAdapter := execution.NewResearchStageAdapter(researchExecutor)
	taskCreator := execution.NewBoardTaskCreator(repo)
	execEngine := execution.New(rtr, execution.NewArtifactStore(), bus, researchAdapter, taskCreator)

	healthCheck := func(ctx context.Context) error {
		status, err := dbClient.Health(ctx)
		if err != nil {
			return err
		}
		if status.Status != "healthy" {
			slog.Warn("database health degraded", "status", status.Status)
		}
		return nil
	}

	server := api.NewServer(wfEngine, execEngine, bus, healthCheck)

	httpPort := getEnv("HTTP_PORT", "8080")
	httpServer := &http.Server{
		Addr:         ":" + httpPort,
		Handler:      server.Handler(),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // the SSE event stream holds the connection open indefinitely
	}

	log.Printf("starting %s on :%s", version.Full(), httpPort)
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("http server: %v", err)
	}
}
