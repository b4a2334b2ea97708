package treasury

import (
	"context"
	"time"

	"github.com/abya-university/ABYA-Ecosystem-sub001/logx"
)

// RunExpirySweeper calls SweepExpired every interval until ctx is done
func (s *Service) RunExpirySweeper(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		logx.Warn("TREASURY", "expiry sweeper disabled")
		return
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logx.Info("TREASURY", "expiry sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.SweepExpired(); err != nil {
				logx.Error("TREASURY", "expiry sweep failed: ", err)
			}
		}
	}
}
