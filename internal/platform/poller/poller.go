package poller

import (
	"context"
	"time"

	"github.com/aws/aws-xray-sdk-go/xray"

	"disaster-response/internal/domain"
	"disaster-response/internal/ports"
)

type Refresher interface {
	Refresh(ctx context.Context) (domain.NewsSnapshot, error)
}

// Poller refreshes the news snapshot on a fixed interval. Failures are logged
// and retried on the next tick only.
type Poller struct {
	refresher Refresher
	interval  time.Duration
	logger    ports.Logger
}

func New(refresher Refresher, interval time.Duration, logger ports.Logger) *Poller {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &Poller{refresher: refresher, interval: interval, logger: logger}
}

// Run polls immediately and then on every tick until ctx is cancelled.
func (p *Poller) Run(ctx context.Context) {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.logger.Info(ctx, "news poller started", "interval", p.interval.String())
	p.poll(ctx)
	for {
		select {
		case <-ctx.Done():
			p.logger.Info(context.WithoutCancel(ctx), "news poller stopped")
			return
		case <-ticker.C:
			p.poll(ctx)
		}
	}
}

func (p *Poller) poll(ctx context.Context) {
	ctx, seg := xray.BeginSegment(ctx, "news-poller")
	snapshot, err := p.refresher.Refresh(ctx)
	seg.Close(err)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		p.logger.Error(ctx, "news refresh failed", "error", err)
		return
	}
	if len(snapshot.Errors) > 0 {
		p.logger.Warn(ctx, "news refresh partially failed", "failed_sources", len(snapshot.Errors))
	}
}
