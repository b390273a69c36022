package liveService

import (
	"errors"
	"io"

	"DrunkDetect/internal/api/live"
	"DrunkDetect/internal/entity"
	"DrunkDetect/pkg/camera"
	"DrunkDetect/pkg/log"
	"DrunkDetect/pkg/overlay"
	"DrunkDetect/pkg/tracking"

	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

func (s *liveService) StartSession(ctx context.Context, req live.StartSessionRequest) (*entity.LiveSession, error) {
	logger := log.WithRequestID(ctx)

	stream, err := s.device.Open(ctx, camera.Constraints{
		Width:       req.Width,
		Height:      req.Height,
		Consent:     req.Consent,
		ClientError: req.ClientError,
	})
	if err != nil {
		logger.WithError(err).WithField("source", s.device.Name()).Warn("Camera acquisition failed")
		return nil, mapCameraError(err)
	}

	now := s.now()
	id, err := s.utils.NewULIDFromTimestamp(now)
	if err != nil {
		_ = stream.Close()
		logger.WithError(err).Error("[liveService.StartSession] failed to generate session id")
		return nil, live.ErrInternalServerError
	}

	// The loops outlive the request, so they hang off a fresh context.
	loopCtx, cancel := context.WithCancel(context.Background())

	sess := &session{
		log: s.log.WithFields(logrus.Fields{
			"session_id": id,
			"source":     s.device.Name(),
		}),
		info: entity.LiveSession{
			ID:        id,
			State:     entity.LiveSessionStarting,
			Source:    s.device.Name(),
			Detection: entity.AnalyzingResult(),
			StartedAt: now,
		},
		stream:   stream,
		canvas:   overlay.NewCanvas(),
		animator: tracking.NewAnimator(s.newSource()),
		detector: s.newDetector(),
		ctx:      loopCtx,
		cancel:   cancel,
		now:      s.now,
		subs:     make(map[int]chan live.Event),
	}

	if w, h := stream.Dimensions(); w > 0 && h > 0 {
		sess.info.CameraWidth, sess.info.CameraHeight = w, h
	}

	s.sessions.SetDefault(id, sess)
	sess.start(s.cfg.FrameInterval, s.cfg.DetectionInterval)

	sess.log.Info("Live session started")

	info := sess.snapshot()
	return &info, nil
}

func (s *liveService) GetSession(ctx context.Context, id string) (*entity.LiveSession, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	info := sess.snapshot()
	return &info, nil
}

func (s *liveService) ReportMetadata(ctx context.Context, id string, width, height int) (*entity.LiveSession, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	if err := sess.setDimensions(width, height); err != nil {
		return nil, err
	}

	info := sess.snapshot()
	return &info, nil
}

func (s *liveService) StopSession(ctx context.Context, id string) (*entity.LiveSession, error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, err
	}

	sess.stop("requested")

	info := sess.snapshot()
	return &info, nil
}

func (s *liveService) RenderOverlay(ctx context.Context, id string, w io.Writer) error {
	sess, err := s.lookup(id)
	if err != nil {
		return err
	}

	if err := sess.canvas.EncodePNG(w); err != nil {
		if errors.Is(err, overlay.ErrEmptyCanvas) {
			return live.ErrOverlayEmpty
		}
		return err
	}
	return nil
}

func (s *liveService) Subscribe(ctx context.Context, id string) (<-chan live.Event, func(), error) {
	sess, err := s.lookup(id)
	if err != nil {
		return nil, nil, err
	}

	events, cancel := sess.subscribe()
	return events, cancel, nil
}

// Shutdown stops every session still registered.
func (s *liveService) Shutdown() {
	for id, item := range s.sessions.Items() {
		if sess, ok := item.Object.(*session); ok {
			sess.stop("shutdown")
		}
		s.sessions.Delete(id)
	}
}

// lookup also refreshes the session's expiry.
func (s *liveService) lookup(id string) (*session, error) {
	value, ok := s.sessions.Get(id)
	if !ok {
		return nil, live.ErrSessionNotFound
	}

	sess := value.(*session)
	s.sessions.SetDefault(id, sess)
	return sess, nil
}

func mapCameraError(err error) error {
	switch camera.Category(err) {
	case camera.ErrPermissionDenied:
		return live.ErrCameraPermissionDenied
	case camera.ErrNotFound:
		return live.ErrCameraNotFound
	default:
		return live.ErrCameraUnavailable
	}
}
