package services

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"

	"alfredoptarigan/interview-prep/internal/repositories"
)

type IndexWorker interface {
	Start(ctx context.Context)
	Stop()
	Enqueue(sessionID uuid.UUID)
}

type indexWorker struct {
	sessions     repositories.SessionRepository
	search       SearchService
	queue        chan uuid.UUID
	concurrency  int
	pollInterval time.Duration
	wg           sync.WaitGroup
	stopChan     chan struct{}
	stopOnce     sync.Once
}

func NewIndexWorker(
	sessions repositories.SessionRepository,
	search SearchService,
	concurrency int,
	pollInterval time.Duration,
) IndexWorker {
	if concurrency < 1 {
		concurrency = 1
	}
	return &indexWorker{
		sessions:     sessions,
		search:       search,
		queue:        make(chan uuid.UUID, 100),
		concurrency:  concurrency,
		pollInterval: pollInterval,
		stopChan:     make(chan struct{}),
	}
}

// Start implements IndexWorker.
func (w *indexWorker) Start(ctx context.Context) {
	log.Printf("🚀 Starting index worker with %d goroutines\n", w.concurrency)

	for i := 0; i < w.concurrency; i++ {
		w.wg.Add(1)
		go w.process(ctx, i+1)
	}

	if w.pollInterval > 0 {
		w.wg.Add(1)
		go w.pollUnindexed(ctx)
	}
}

// Stop implements IndexWorker.
func (w *indexWorker) Stop() {
	w.stopOnce.Do(func() {
		log.Println("🛑 Stopping index worker...")
		close(w.stopChan)
		w.wg.Wait()
		log.Println("✅ Index worker stopped")
	})
}

// Enqueue never blocks; a dropped session is picked up by the poller later.
func (w *indexWorker) Enqueue(sessionID uuid.UUID) {
	select {
	case <-w.stopChan:
		log.Printf("⚠️  Index worker stopped, cannot enqueue session %s\n", sessionID)
		return
	default:
	}

	select {
	case w.queue <- sessionID:
		log.Printf("📥 Session %s enqueued for indexing\n", sessionID)
	default:
		log.Printf("⚠️  Index queue full, session %s left for the poller\n", sessionID)
	}
}

func (w *indexWorker) process(ctx context.Context, workerID int) {
	defer w.wg.Done()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case sessionID := <-w.queue:
			if _, err := w.search.IndexSession(ctx, sessionID); err != nil {
				log.Printf("❌ Index worker #%d failed on session %s: %v\n", workerID, sessionID, err)
			}
		}
	}
}

func (w *indexWorker) pollUnindexed(ctx context.Context) {
	defer w.wg.Done()
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopChan:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			sessions, err := w.sessions.FindUnindexed(10)
			if err != nil {
				log.Printf("⚠️  Failed to fetch unindexed sessions: %v\n", err)
				continue
			}

			if len(sessions) > 0 {
				log.Printf("📋 Found %d unindexed sessions\n", len(sessions))
			}
			for _, s := range sessions {
				w.Enqueue(s.ID)
			}
		}
	}
}
