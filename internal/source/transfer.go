package source

import (
	"context"
	"io"

	"golang.org/x/time/rate"

	"mediagrab/internal/media"
)

// rateLimitedReader throttles reads through a limiter shared by every
// transfer of the run.
type rateLimitedReader struct {
	ctx     context.Context
	reader  io.Reader
	limiter *rate.Limiter
}

func (r *rateLimitedReader) Read(p []byte) (int, error) {
	if burst := r.limiter.Burst(); len(p) > burst {
		p = p[:burst]
	}
	n, err := r.reader.Read(p)
	if n > 0 {
		if waitErr := r.limiter.WaitN(r.ctx, n); waitErr != nil {
			return n, waitErr
		}
	}
	return n, err
}

// progressWriter counts down the bytes left on one stream.
type progressWriter struct {
	track     media.Track
	remaining int64
	report    func(media.Progress)
}

func (w *progressWriter) Write(p []byte) (int, error) {
	w.remaining -= int64(len(p))
	if w.remaining < 0 {
		w.remaining = 0
	}
	if w.report != nil {
		w.report(media.Progress{Track: w.track, Remaining: w.remaining})
	}
	return len(p), nil
}

// newLimiter returns a limiter for bytesPerSecond, or nil for no limit.
func newLimiter(bytesPerSecond int64) *rate.Limiter {
	if bytesPerSecond <= 0 {
		return nil
	}
	return rate.NewLimiter(rate.Limit(bytesPerSecond), int(bytesPerSecond))
}
