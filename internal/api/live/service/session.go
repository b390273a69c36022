package liveService

import (
	"sync"
	"time"

	"DrunkDetect/internal/api/live"
	"DrunkDetect/internal/entity"
	"DrunkDetect/pkg/camera"
	"DrunkDetect/pkg/detector"
	"DrunkDetect/pkg/overlay"
	"DrunkDetect/pkg/tracking"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const subscriberBuffer = 32

// session is one camera run. The detection and frame loops share only ctx;
// everything they publish goes through mu.
type session struct {
	log *logrus.Entry

	mu   sync.RWMutex
	info entity.LiveSession

	stream   camera.Stream
	canvas   *overlay.Canvas
	animator *tracking.Animator
	detector detector.Detector

	ctx      context.Context
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	stopOnce sync.Once
	now      func() time.Time

	subsMu  sync.Mutex
	subs    map[int]chan live.Event
	nextSub int
	closed  bool
}

func (s *session) snapshot() entity.LiveSession {
	s.mu.RLock()
	defer s.mu.RUnlock()

	info := s.info
	if info.StoppedAt != nil {
		stoppedAt := *info.StoppedAt
		info.StoppedAt = &stoppedAt
	}
	return info
}

func (s *session) start(frameInterval, detectionInterval time.Duration) {
	s.wg.Add(2)

	go func() {
		defer s.wg.Done()
		detector.Run(s.ctx, s.detector, detectionInterval, s.onDetection)
	}()

	go func() {
		defer s.wg.Done()
		s.runFrames(frameInterval)
	}()
}

func (s *session) onDetection(result entity.DetectionResult) {
	s.mu.Lock()
	s.info.Detection = result
	s.mu.Unlock()

	s.publish(live.Event{Type: live.EventDetection, Detection: &result})
}

func (s *session) runFrames(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.ctx.Done():
			return
		case <-ticker.C:
			s.step()
		}
	}
}

func (s *session) step() {
	width, height := s.stream.Dimensions()

	frame, ok := s.animator.Step(width, height, s.canvas)
	if !ok {
		return
	}

	s.mu.Lock()
	if s.ctx.Err() != nil {
		s.mu.Unlock()
		return
	}
	becameActive := s.info.State == entity.LiveSessionStarting
	s.info.State = entity.LiveSessionActive
	s.info.CameraWidth, s.info.CameraHeight = width, height
	s.mu.Unlock()

	if becameActive {
		s.publishState()
	}

	s.publish(live.Event{
		Type:  live.EventFrame,
		Frame: &live.Frame{Tracking: frame, Ops: s.canvas.Ops()},
	})
}

func (s *session) setDimensions(width, height int) error {
	sink, ok := s.stream.(camera.MetadataSink)
	if !ok {
		return live.ErrMetadataNotAccepted
	}

	s.mu.RLock()
	stopped := s.info.State == entity.LiveSessionStopped
	s.mu.RUnlock()
	if stopped {
		return live.ErrSessionStopped
	}

	if err := sink.SetDimensions(width, height); err != nil {
		return live.ErrSessionStopped
	}

	s.mu.Lock()
	s.info.CameraWidth, s.info.CameraHeight = width, height
	s.mu.Unlock()

	return nil
}

// stop halts both loops and waits for them before resetting state, so no
// frame or detection can land after the reset. Later calls are no-ops.
func (s *session) stop(reason string) {
	s.stopOnce.Do(func() {
		s.cancel()
		s.wg.Wait()

		s.canvas.Clear()
		s.animator.Reset()

		if err := s.stream.Close(); err != nil {
			s.log.WithError(err).Warn("Failed to release camera")
		}

		now := s.now()
		s.mu.Lock()
		s.info.State = entity.LiveSessionStopped
		s.info.Detection = entity.AnalyzingResult()
		s.info.StoppedAt = &now
		s.mu.Unlock()

		s.log.WithField("reason", reason).Info("Live session stopped")

		s.publishState()
		s.closeSubscribers()
	})
}

func (s *session) publishState() {
	info := s.snapshot()
	s.publish(live.Event{Type: live.EventState, Session: &info})
}

// publish never blocks; a subscriber that falls behind misses events.
func (s *session) publish(event live.Event) {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for _, ch := range s.subs {
		select {
		case ch <- event:
		default:
		}
	}
}

// subscribe registers a listener whose first event is the current state. On
// a stopped session the channel holds that one event and is already closed.
func (s *session) subscribe() (<-chan live.Event, func()) {
	ch := make(chan live.Event, subscriberBuffer)

	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	info := s.snapshot()
	ch <- live.Event{Type: live.EventState, Session: &info}

	if s.closed {
		close(ch)
		return ch, func() {}
	}

	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.subsMu.Lock()
			defer s.subsMu.Unlock()

			if c, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(c)
			}
		})
	}
}

func (s *session) closeSubscribers() {
	s.subsMu.Lock()
	defer s.subsMu.Unlock()

	for id, ch := range s.subs {
		close(ch)
		delete(s.subs, id)
	}
	s.closed = true
}
