package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/shelfrag/bookrag/internal/adapters/embedding"
	"github.com/shelfrag/bookrag/internal/adapters/filewatcher"
	"github.com/shelfrag/bookrag/internal/adapters/llm"
	"github.com/shelfrag/bookrag/internal/adapters/loader"
	"github.com/shelfrag/bookrag/internal/adapters/vectordb"
	"github.com/shelfrag/bookrag/internal/config"
	"github.com/shelfrag/bookrag/internal/domain/ports"
	"github.com/shelfrag/bookrag/internal/domain/usecases"
	"github.com/shelfrag/bookrag/internal/infrastructure/cli"
	httpserver "github.com/shelfrag/bookrag/internal/infrastructure/http"
)

func main() {
	godotenv.Load()

	configPath := flag.String("config", "config.yaml", "path to configuration file")
	serveAddr := flag.String("serve", "", "serve an HTTP API on this address instead of the chat loop")
	watch := flag.Bool("watch", false, "rebuild the index when the source file changes")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if err := run(cfg, *serveAddr, *watch); err != nil {
		log.Fatalf("%v", err)
	}
}

func run(cfg *config.Config, serveAddr string, watch bool) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))

	store, err := newStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer store.Close()

	embedder := embedding.NewOllamaAdapter(cfg.Ollama.BaseURL, cfg.Ollama.EmbedModel)
	generator := llm.NewOllamaAdapter(cfg.Ollama.BaseURL, cfg.Ollama.LLMModel, cfg.Ollama.NumThread)

	catalog := loader.NewJSONLLoader(cfg.ChunkSize)
	indexer := usecases.NewIndexer(embedder, store, logger)

	records, err := catalog.Load(ctx, cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	documents := usecases.Synthesize(records)

	if _, err := indexer.BuildOrLoad(ctx, documents); err != nil {
		return fmt.Errorf("failed to prepare index: %w", err)
	}

	retriever := usecases.NewRetriever(embedder, store, cfg.Retriever.TopK)
	answerer := usecases.NewAnswerUseCase(generator)
	ask := usecases.NewAskUseCase(retriever, answerer, logger)

	if watch {
		if err := watchCatalog(ctx, cfg, catalog, indexer, logger); err != nil {
			return err
		}
	}

	if serveAddr != "" {
		server := httpserver.NewServer(ask, store, serveAddr)
		return server.Start(ctx)
	}

	chat := cli.New(ask, os.Stdin, os.Stdout)
	return chat.Run(ctx)
}

func newStore(cfg *config.Config) (ports.VectorStore, error) {
	switch cfg.Index.Backend {
	case "memory":
		return vectordb.NewInMemoryStore(), nil
	case "qdrant":
		return vectordb.NewQdrantStore(cfg.Index.Qdrant.Addr, cfg.Index.Qdrant.Collection)
	case "sqlite":
		return vectordb.NewSQLiteStore(cfg.Index.Location)
	default:
		return nil, fmt.Errorf("unknown index backend %q", cfg.Index.Backend)
	}
}

// watchCatalog rebuilds the index whenever the source file changes.
func watchCatalog(ctx context.Context, cfg *config.Config, catalog ports.CatalogLoader, indexer *usecases.Indexer, logger *slog.Logger) error {
	watcher, err := filewatcher.NewFSNotifyWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	events, err := watcher.Watch(ctx, cfg.Source)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", cfg.Source, err)
	}

	go func() {
		defer watcher.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case event, ok := <-events:
				if !ok {
					return
				}
				if event.Operation == ports.FileDeleted {
					continue
				}
				logger.Info("source changed, rebuilding index", "path", event.Path)
				records, err := catalog.Load(ctx, cfg.Source)
				if err != nil {
					logger.Error("reload failed", "error", err)
					continue
				}
				if err := indexer.Rebuild(ctx, usecases.Synthesize(records)); err != nil {
					logger.Error("rebuild failed", "error", err)
				}
			}
		}
	}()
	return nil
}
