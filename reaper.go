package tripshare

import (
	"context"
	"time"
)

// DefaultReaperInterval is how often expired verification records are swept.
const DefaultReaperInterval = 15 * time.Minute

// Reaper periodically deletes expired verification records. Expired rows are
// harmless (redemption rejects them) but accumulate forever otherwise.
type Reaper struct {
	verifier *Verifier
	interval time.Duration
	logger   Logger
}

func NewReaper(verifier *Verifier, interval time.Duration, logger Logger) *Reaper {
	if interval <= 0 {
		interval = DefaultReaperInterval
	}
	if logger == nil {
		logger = defLogger{}
	}
	return &Reaper{
		verifier: verifier,
		interval: interval,
		logger:   logger,
	}
}

// Run blocks until the context is cancelled, sweeping on every tick.
func (r *Reaper) Run(ctx context.Context) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			swept, err := r.verifier.SweepExpired(ctx)
			if err != nil {
				r.logger.Error("verification sweep failed: %v", err)
				continue
			}
			if swept > 0 {
				r.logger.Debug("swept %d expired verification records", swept)
			}
		}
	}
}
