package ws

import (
	"context"
	"net/http"

	"github.com/coder/websocket"
	"go.uber.org/zap"

	"github.com/HerbHall/printwatch/internal/fleet"
	"github.com/HerbHall/printwatch/pkg/plugin"
)

// Handler provides the WebSocket endpoint for real-time fleet updates.
type Handler struct {
	hub    *Hub
	bus    plugin.EventBus
	logger *zap.Logger
}

// Compile-time check that Handler implements the server interface.
var _ interface {
	RegisterRoutes(mux *http.ServeMux)
} = (*Handler)(nil)

// NewHandler creates a WebSocket handler and subscribes to fleet events.
func NewHandler(bus plugin.EventBus, logger *zap.Logger) *Handler {
	h := &Handler{
		hub:    NewHub(logger),
		bus:    bus,
		logger: logger,
	}
	h.subscribeToEvents()
	return h
}

// RegisterRoutes registers WebSocket routes on the server mux.
func (h *Handler) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /api/v1/ws/fleet", h.handleFleetStream)
}

// handleFleetStream upgrades the connection and streams fleet events until
// the client disconnects.
func (h *Handler) handleFleetStream(w http.ResponseWriter, r *http.Request) {
	conn, err := websocket.Accept(w, r, nil)
	if err != nil {
		h.logger.Error("websocket accept failed", zap.Error(err))
		return
	}

	client := &Client{
		conn:   conn,
		remote: r.RemoteAddr,
		send:   make(chan Message, 256),
		logger: h.logger,
	}

	h.hub.Register(client)

	ctx := r.Context()
	done := make(chan struct{})
	go func() {
		client.writePump(ctx)
		close(done)
	}()

	// readPump blocks until client disconnects.
	client.readPump(ctx)

	h.hub.Unregister(client)
	conn.Close(websocket.StatusNormalClosure, "")
	<-done
}

// subscribeToEvents forwards fleet bus events to every connected client.
func (h *Handler) subscribeToEvents() {
	if h.bus == nil {
		return
	}

	h.bus.Subscribe(fleet.TopicSweepStarted, func(_ context.Context, event plugin.Event) {
		payload, ok := event.Payload.(fleet.SweepStartedPayload)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageSweepStarted,
			Timestamp: event.Timestamp,
			Data:      SweepStartedData{Printers: payload.Printers},
		})
	})

	h.bus.Subscribe(fleet.TopicSweepCompleted, func(_ context.Context, event plugin.Event) {
		payload, ok := event.Payload.(fleet.SweepCompletedPayload)
		if !ok {
			return
		}
		h.hub.Broadcast(Message{
			Type:      MessageSweepCompleted,
			Timestamp: event.Timestamp,
			Data: SweepCompletedData{
				Printers:   payload.Printers,
				Errors:     payload.Errors,
				DurationMS: float64(payload.Duration.Milliseconds()),
			},
		})
	})

	forward := func(topic string, msgType MessageType) {
		h.bus.Subscribe(topic, func(_ context.Context, event plugin.Event) {
			payload, ok := event.Payload.(fleet.PrinterPayload)
			if !ok {
				return
			}
			h.hub.Broadcast(Message{
				Type:      msgType,
				Timestamp: event.Timestamp,
				Data:      PrinterData{Printer: payload.Printer},
			})
		})
	}
	forward(fleet.TopicPrinterUpdated, MessagePrinterUpdate)
	forward(fleet.TopicPrinterEnrolled, MessagePrinterAdded)
	forward(fleet.TopicPrinterDeleted, MessagePrinterRemoved)

	h.logger.Info("subscribed to fleet events for WebSocket broadcasting")
}
