package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/gin-gonic/gin"

	"github.com/saranshbhandari/TaskManagerUtil/config"
	"github.com/saranshbhandari/TaskManagerUtil/runtime"
	"github.com/saranshbhandari/TaskManagerUtil/server"
	"github.com/saranshbhandari/TaskManagerUtil/tasks/filereader"
	"github.com/saranshbhandari/TaskManagerUtil/tasks/httptask"
	"github.com/saranshbhandari/TaskManagerUtil/tasks/storedproc"
)

func main() {
	cfg, err := config.Load(".")
	if err != nil {
		log.Fatalf("Error loading config: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))

	container := runtime.NewContainer()
	httpTask, err := httptask.New(logger, httptask.Config{})
	if err != nil {
		log.Fatalf("Error configuring http task: %v", err)
	}
	container.SetTask("http", httpTask)
	container.SetTask("filereader", filereader.New(logger))
	if cfg.Database.DSN != "" {
		db, err := storedproc.Open(cfg.Database.DSN)
		if err != nil {
			log.Fatalf("Error opening database: %v", err)
		}
		defer db.Close()
		container.SetTask("storedproc", storedproc.New(logger, db))
	}

	e := runtime.NewExecution(context.Background(), cfg.Policy(), cfg.Properties)
	logger.Info("Engine started", "execution", e.ID, "policy", cfg.Policy().String())

	if cfg.Workflow != "" {
		w, err := runtime.LoadWorkflow(cfg.Workflow)
		if err != nil {
			log.Fatalf("Error loading workflow: %v", err)
		}
		executor := runtime.NewExecutor(logger, container)
		if err := executor.ExecuteTasks(e, w); err != nil {
			log.Fatalf("Error executing workflow: %v", err)
		}
	}

	g := gin.Default()
	server.New(logger, e.Vars).Register(g)

	if err := g.Run(":" + cfg.Server.Port); err != nil {
		log.Fatalf("Error running server: %v", err)
	}
}
