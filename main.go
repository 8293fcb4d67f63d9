package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	_ "go.uber.org/automaxprocs"
	"golang.org/x/sync/errgroup"

	"github.com/th3jlux/toolsmith/internal/app"
	"github.com/th3jlux/toolsmith/internal/component"
	"github.com/th3jlux/toolsmith/internal/persistence"
	"github.com/th3jlux/toolsmith/internal/telemetry"
)

func config() app.Config {
	base := app.Config{
		Port:         "8000",
		OAIBaseUrl:   "https://api.openai.com/v1",
		Model:        "gpt-4o",
		WorkspaceDir: "workspace",
		RegistryPath: "data/toolsmith.db",
		PythonBin:    "python3",
	}

	configPath := os.Getenv("TOOLSMITH_CONFIG")
	if configPath == "" {
		configPath = "toolsmith.yaml"
	}

	fileConfig, err := app.LoadFileConfig(configPath)

	if err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}

	cfg := fileConfig.Apply(base)

	port := os.Getenv("GOPORT")
	if port != "" {
		cfg.Port = port
	}

	cfg.OAIApiKey = os.Getenv("OAI_API_KEY")
	if cfg.OAIApiKey == "" {
		slog.Error("OAI_API_KEY environment variable not set")
	}

	if os.Getenv("TOOLSMITH_ALLOW_INSTALL") == "true" {
		cfg.AllowInstall = true
	}

	return cfg
}

func main() {
	config := config()

	componentBuilder := app.ComponentBuilder{
		Home:  component.Home,
		Tool:  component.ToolPage,
		Error: component.ErrorPage,
	}

	registry, err := persistence.OpenRegistry(config.RegistryPath)

	if err != nil {
		log.Fatal(err)
	}
	defer registry.Close()

	workspace := persistence.Workspace{Dir: config.WorkspaceDir}

	if err := workspace.EnsureDirs(); err != nil {
		log.Fatal(err)
	}

	oaiRepo := persistence.OpenAIRepo{
		BaseHeaders: []string{
			"Content-Type:application/json",
			fmt.Sprintf("Authorization: Bearer %s", config.OAIApiKey)},
		BaseUrl: config.OAIBaseUrl,
		Model:   config.Model,
	}

	a := &app.App{
		ToolRepo:         registry,
		RunRepo:          registry,
		CodeStore:        workspace,
		Generator:        oaiRepo,
		ComponentBuilder: componentBuilder,
		Metrics:          telemetry.New(),
		Config:           config,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	group, ctx := errgroup.WithContext(ctx)

	group.Go(func() error { return a.Start(ctx) })
	group.Go(func() error { return persistence.WatchWorkspace(ctx, workspace, a.Reconcile) })

	if err := group.Wait(); err != nil {
		slog.Error(fmt.Sprintf("Error occured: %s", err.Error()))
	}
}
