package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"chronoplan/internal/config"
	"chronoplan/internal/db"
	"chronoplan/internal/genai"
	"chronoplan/internal/planner"
	"chronoplan/internal/session"
	"chronoplan/internal/task"

	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting chronoplan...")

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if cfg.UserID == "" {
		log.Fatalf("user_id must be configured for a local session")
	}

	database, err := db.New(cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The local session stands in for the external auth collaborator.
	auth := session.NewStaticProvider(session.User{ID: cfg.UserID, Name: cfg.UserName})
	sess := session.New(auth, database)
	defer sess.Close()

	tasks := task.NewStore(database, sess)
	tasks.Start(ctx)
	defer tasks.Close()

	if err := sess.Start(ctx); err != nil {
		log.Fatalf("Failed to start session: %v", err)
	}

	gen := genai.New(cfg.Gemini.APIKey)
	if cfg.Gemini.Model != "" {
		gen.Model = cfg.Gemini.Model
	}
	svc := planner.NewService(gen, database, sess, cfg.Planner.Language)
	_ = svc // driven by the UI layer; kept alive with the session

	for _, t := range tasks.List() {
		state := " "
		if t.Completed {
			state = "x"
		}
		log.Printf("task [%s] %s", state, t.Description)
	}

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, os.Interrupt, syscall.SIGTERM)
	s := <-signals
	log.Printf("Received signal: %v", s)

	log.Println("Application shutdown complete")
}
