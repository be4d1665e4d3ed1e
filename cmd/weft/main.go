package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/weftworks/weft/internal/api"
	"github.com/weftworks/weft/internal/config"
	"github.com/weftworks/weft/internal/db"
	"github.com/weftworks/weft/internal/engine"
	"github.com/weftworks/weft/internal/extract"
	"github.com/weftworks/weft/internal/notify"
	"github.com/weftworks/weft/internal/provider"
	"github.com/weftworks/weft/internal/repository"
	"github.com/weftworks/weft/internal/sandbox"
	"github.com/weftworks/weft/internal/scheduler"
	"github.com/weftworks/weft/internal/tools"
	"github.com/weftworks/weft/internal/vector"
)

func main() {
	if len(os.Args) > 1 && os.Args[1] == "serve" {
		serve()
		return
	}
	fmt.Println("weft v0.1.0")
	fmt.Println("Usage: weft serve")
}

func serve() {
	cfg, err := config.LoadDefault()
	if err != nil {
		slog.Error("config error", "err", err)
		os.Exit(1)
	}

	ctx := context.Background()

	// Storage: memory-only unless a database URL is configured.
	var workflows repository.WorkflowRepository = repository.NewMemoryWorkflowRepository()
	var executions repository.ExecutionRepository = repository.NewMemoryExecutionRepository()
	if cfg.Database.URL != "" {
		database, err := db.New(ctx, cfg.Database.URL)
		if err != nil {
			slog.Error("database error", "err", err)
			os.Exit(1)
		}
		defer database.Close()
		if err := database.Migrate(ctx); err != nil {
			slog.Error("migration error", "err", err)
			os.Exit(1)
		}
		workflows = repository.NewPersistentWorkflowRepository(repository.NewMemoryWorkflowRepository(), database)
		executions = repository.NewPersistentExecutionRepository(repository.NewMemoryExecutionRepository(), database)
		slog.Info("using postgres storage")
	} else {
		slog.Info("using in-memory storage")
	}

	providers := provider.NewRegistry()
	for name, pc := range cfg.Providers {
		switch pc.Type {
		case "anthropic":
			providers.Register(provider.NewAnthropicProvider(name, pc.URL, pc.APIKey))
		case "openai", "":
			providers.Register(provider.NewOpenAIProvider(name, pc.URL, pc.APIKey))
		default:
			slog.Warn("unknown provider type", "name", name, "type", pc.Type)
		}
	}

	vectors := make(map[string]vector.Store)
	if vc, ok := cfg.Vector["pinecone"]; ok {
		vectors["pinecone"] = vector.NewPineconeStore(vc.URL, vc.APIKey)
	}
	if vc, ok := cfg.Vector["weaviate"]; ok {
		vectors["weaviate"] = vector.NewWeaviateStore(vc.URL, vc.APIKey)
	}

	toolReg := tools.NewRegistry()
	toolReg.Register(&tools.HTTPRequestTool{})
	toolReg.Register(&tools.RSSFeedTool{})
	if cfg.Search.URL != "" {
		toolReg.Register(&tools.WebSearchTool{BaseURL: cfg.Search.URL})
	}

	senders := notify.NewSenderRegistry()
	if cfg.SMTP.Host != "" {
		senders.Register(&notify.SMTPSender{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			From:     cfg.SMTP.From,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
		})
	}
	if cfg.Slack.WebhookURL != "" {
		senders.Register(&notify.SlackSender{WebhookURL: cfg.Slack.WebhookURL})
	}

	eng := engine.New(engine.Deps{
		Executions: executions,
		Providers:  providers,
		Extractor:  extract.New(),
		Vectors:    vectors,
		Tools:      toolReg,
		Sandboxes: map[string]sandbox.Runner{
			"javascript": &sandbox.JSRunner{},
			"python":     &sandbox.PythonRunner{},
		},
		Senders: senders,
		Timeout: cfg.Engine.Timeout,
	})

	limiter := scheduler.NewLimiter(cfg.Scheduler.GlobalMax, cfg.Scheduler.PerWorkflow)
	sched := scheduler.New(workflows, eng, limiter)
	if err := sched.Start(ctx); err != nil {
		slog.Error("scheduler error", "err", err)
		os.Exit(1)
	}
	defer sched.Stop()

	srv := api.NewServer(eng, workflows, executions)
	srv.SetScheduleSync(sched.Sync)
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	slog.Info("starting weft server", "addr", addr)
	if err := http.ListenAndServe(addr, srv.Handler()); err != nil {
		slog.Error("server error", "err", err)
		os.Exit(1)
	}
}
