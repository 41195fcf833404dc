package main

import (
	"context"
	"fmt"
	"log"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"alfredoptarigan/interview-prep/internal/config"
	"alfredoptarigan/interview-prep/internal/repositories"
	"alfredoptarigan/interview-prep/internal/services"
)

var reindexCmd = &cobra.Command{
	Use:   "reindex",
	Short: "Re-embed every saved session into the question index",
	RunE:  runReindex,
}

var (
	reindexParallel int
	reindexPending  bool
)

func init() {
	reindexCmd.Flags().IntVarP(&reindexParallel, "parallel", "p", 4, "Sessions indexed concurrently")
	reindexCmd.Flags().BoolVar(&reindexPending, "pending", false, "Only sessions that were never indexed")

	rootCmd.AddCommand(reindexCmd)
}

func runReindex(cmd *cobra.Command, _ []string) error {
	cfg := config.Load()
	if !cfg.IndexEnabled() {
		return fmt.Errorf("QDRANT_URL and GEMINI_API_KEY are required to reindex")
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return err
	}
	sessionRepo := repositories.NewSessionRepository(db)

	embedder, err := services.NewGeminiService(cfg.AI.GeminiAPIKey, cfg.AI.EmbeddingModel, cfg.AI.RequestTimeout)
	if err != nil {
		return err
	}

	index, err := services.NewQdrantIndex(cfg.Qdrant.URL, cfg.Qdrant.APIKey, cfg.Qdrant.Collection, cfg.Qdrant.VectorSize)
	if err != nil {
		return err
	}

	ctx := context.Background()
	if err := index.InitCollection(ctx); err != nil {
		return err
	}

	search := services.NewSearchService(sessionRepo, embedder, index)

	ids, err := sessionIDs(sessionRepo)
	if err != nil {
		return err
	}
	log.Printf("🚀 Reindexing %d sessions (%d in parallel)\n", len(ids), reindexParallel)

	var indexed atomic.Int64
	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(max(reindexParallel, 1))

	for _, id := range ids {
		g.Go(func() error {
			n, err := search.IndexSession(gCtx, id)
			if err != nil {
				return fmt.Errorf("session %s: %w", id, err)
			}
			indexed.Add(int64(n))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "✅ Indexed %d questions across %d sessions\n", indexed.Load(), len(ids))
	return nil
}

func sessionIDs(repo repositories.SessionRepository) ([]uuid.UUID, error) {
	if !reindexPending {
		return repo.ListIDs()
	}

	sessions, err := repo.FindUnindexed(10000)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(sessions))
	for _, s := range sessions {
		ids = append(ids, s.ID)
	}
	return ids, nil
}
