package app

import (
	"context"
	"time"

	"github.com/jwulff/countdown-go/internal/domain"
	"github.com/jwulff/countdown-go/internal/render"
)

// pushTimeout bounds one frame upload.
const pushTimeout = 5 * time.Second

// FrameSender uploads a frame to a device. *pixoo.Client satisfies it.
type FrameSender interface {
	Push(ctx context.Context, frame *domain.Frame) error
}

// RunPixoo sends the compact frame now and then at every wall-clock second
// on which its content changed, until ctx is done or the app is closed. A
// failed upload is reported and retried on the next second. onSent may be
// nil.
func (a *App) RunPixoo(ctx context.Context, sender FrameSender, onSent func(render.PixooContent, error)) error {
	var (
		last render.PixooContent
		sent bool
	)
	for {
		frame, content := a.PixooFrame(a.clock())
		if !sent || content != last {
			pctx, cancel := context.WithTimeout(ctx, pushTimeout)
			err := sender.Push(pctx, frame)
			cancel()
			if err != nil {
				a.logger.Warn("pixoo push failed", "error", err)
			}
			sent = err == nil
			last = content
			if onSent != nil {
				onSent(content, err)
			}
		}

		now := a.clock()
		wait := now.Truncate(time.Second).Add(time.Second).Sub(now)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-a.closed:
			return nil
		case <-a.after(wait):
		}
	}
}
