package liveHandler

import (
	"time"

	"DrunkDetect/internal/api/live"
	"DrunkDetect/internal/middleware"
	contextPkg "DrunkDetect/pkg/context"
	"DrunkDetect/pkg/handlerUtil"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/websocket/v2"
	"github.com/sirupsen/logrus"
	"golang.org/x/net/context"
)

const writeWait = 10 * time.Second

// wsMiddleware rejects plain HTTP and unknown sessions before the upgrade.
func (h *LiveHandler) wsMiddleware(ctx *fiber.Ctx) error {
	if !websocket.IsWebSocketUpgrade(ctx) {
		return fiber.ErrUpgradeRequired
	}

	requestID := h.middleware.GetRequestID(ctx)
	if _, err := h.liveService.GetSession(contextPkg.FromFiberCtx(ctx), ctx.Params("id")); err != nil {
		return handlerUtil.New(h.log).Handle(ctx, requestID, err, ctx.Path(), "upgrade_live_stream")
	}

	return ctx.Next()
}

// handleStream forwards session events to the socket and applies the
// client's metadata and stop messages. This goroutine is the only writer.
func (h *LiveHandler) handleStream(c *websocket.Conn) {
	id := c.Params("id")
	requestID, _ := c.Locals(middleware.RequestIDKey).(string)
	ctx := contextPkg.WithRequestID(context.Background(), requestID)

	logger := h.log.WithFields(logrus.Fields{
		"request_id": requestID,
		"session_id": id,
	})
	logger.Info("Live stream client connected")
	defer logger.Info("Live stream client disconnected")

	c.SetPingHandler(func(data string) error {
		if err := c.WriteControl(websocket.PongMessage, []byte(data), time.Now().Add(5*time.Second)); err != nil {
			logger.Errorf("Error sending pong: %v", err)
		}
		return nil
	})

	events, unsubscribe, err := h.liveService.Subscribe(ctx, id)
	if err != nil {
		_ = c.WriteJSON(live.Event{Type: live.EventError, Error: err.Error()})
		return
	}
	defer unsubscribe()

	replies := make(chan live.Event, 4)
	readerDone := make(chan struct{})

	go func() {
		defer close(readerDone)
		h.readClientMessages(ctx, c, id, replies, logger)
	}()

	for {
		select {
		case ev, ok := <-events:
			if !ok {
				_ = c.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session stopped"),
					time.Now().Add(writeWait))
				return
			}
			if err := h.write(c, ev); err != nil {
				logger.Errorf("Error writing event: %v", err)
				return
			}
		case ev := <-replies:
			if err := h.write(c, ev); err != nil {
				logger.Errorf("Error writing reply: %v", err)
				return
			}
		case <-readerDone:
			return
		}
	}
}

func (h *LiveHandler) write(c *websocket.Conn, ev live.Event) error {
	if err := c.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.WriteJSON(ev)
}

func (h *LiveHandler) readClientMessages(ctx context.Context, c *websocket.Conn, id string, replies chan<- live.Event, logger *logrus.Entry) {
	reply := func(ev live.Event) {
		select {
		case replies <- ev:
		default:
		}
	}

	for {
		var msg live.ClientMessage
		if err := c.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				logger.Warnf("Live stream read error: %v", err)
			}
			return
		}

		switch msg.Type {
		case live.ClientMetadata:
			req := live.MetadataRequest{Width: msg.Width, Height: msg.Height}
			if err := h.validator.Struct(req); err != nil {
				reply(live.Event{Type: live.EventError, Error: "Validation failed: " + err.Error()})
				continue
			}

			session, err := h.liveService.ReportMetadata(ctx, id, msg.Width, msg.Height)
			if err != nil {
				reply(live.Event{Type: live.EventError, Error: err.Error()})
				continue
			}
			reply(live.Event{Type: live.EventState, Session: session})
		case live.ClientStop:
			if _, err := h.liveService.StopSession(ctx, id); err != nil {
				reply(live.Event{Type: live.EventError, Error: err.Error()})
			}
		default:
			reply(live.Event{Type: live.EventError, Error: "unknown message type"})
		}
	}
}
