package detector

import (
	"context"
	"time"

	"DrunkDetect/internal/entity"
)

const DefaultInterval = 2 * time.Second

// Run calls d every interval until ctx is done, handing each result to emit.
// Failed detections are skipped; the next tick tries again.
func Run(ctx context.Context, d Detector, interval time.Duration, emit func(entity.DetectionResult)) {
	if interval <= 0 {
		interval = DefaultInterval
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			result, err := d.Detect(ctx)
			if err != nil {
				continue
			}
			if ctx.Err() != nil {
				return
			}
			emit(result)
		}
	}
}
