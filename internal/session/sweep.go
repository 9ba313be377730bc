package session

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// Pruner is implemented by stores that hold expired entries until asked to drop them.
type Pruner interface {
	Prune(ctx context.Context) (int64, error)
}

// Sweep prunes p every interval until ctx is done.
func Sweep(ctx context.Context, p Pruner, interval time.Duration, logger *log.Logger) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := p.Prune(ctx)
			if err != nil {
				logger.Warn("session sweep failed", "error", err)
				continue
			}
			if n > 0 {
				logger.Debug("swept expired sessions", "count", n)
			}
		}
	}
}

var (
	_ Pruner = (*MemoryStore)(nil)
	_ Pruner = (*SQLiteStore)(nil)
)
