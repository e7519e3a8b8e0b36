package handlers

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/tidwall/gjson"

	"github.com/maldun/UltraMekCore/messages"
	"github.com/maldun/UltraMekCore/network"
)

// ClientHandler manages a single client connection
type ClientHandler struct {
	conn          *network.Connection
	router        *Router
	clientManager *ClientManager
	logger        *slog.Logger
}

// HandleClientConnection serves one websocket client until it disconnects
func HandleClientConnection(wsConn *websocket.Conn, router *Router, clientManager *ClientManager, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}

	conn := network.NewConnection(wsConn, logger)
	handler := &ClientHandler{
		conn:          conn,
		router:        router,
		clientManager: clientManager,
		logger:        logger.With("conn_id", conn.ID),
	}

	clientManager.AddClient(conn.ID, handler)
	router.Metrics.ConnectionOpened()
	handler.logger.Info("client connected", "remote", wsConn.RemoteAddr().String())

	// Start the write pump in a goroutine
	go conn.WritePump()

	// Handle the read pump in the current goroutine
	conn.ReadPump(handler)

	clientManager.RemoveClient(conn.ID)
	router.Metrics.ConnectionClosed()
	handler.logger.Info("client disconnected")
}

// WebSocketHandler upgrades requests and serves them with HandleClientConnection
func WebSocketHandler(upgrader *websocket.Upgrader, router *Router, clientManager *ClientManager, logger *slog.Logger) http.HandlerFunc {
	if logger == nil {
		logger = slog.Default()
	}
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Warn("failed to upgrade connection", "error", err)
			return
		}
		defer conn.Close()

		HandleClientConnection(conn, router, clientManager, logger)
	}
}

// HandleMessage handles incoming messages from the client. Every request
// gets exactly one reply carrying the request id; requests without an id
// are assigned one.
func (h *ClientHandler) HandleMessage(conn *network.Connection, message []byte) {
	if !gjson.ValidBytes(message) {
		h.logger.Warn("invalid message", "bytes", len(message))
		h.sendError("", messages.CodeBadRequest, "message is not valid JSON")
		return
	}

	envelope := gjson.ParseBytes(message)
	msgType := messages.MessageType(envelope.Get("type").String())
	id := envelope.Get("id").String()
	if id == "" {
		id = uuid.NewString()
	}

	result, err := h.router.Route(msgType, envelope.Get("payload"))
	h.router.Metrics.RecordRequest(string(msgType), err)
	if err != nil {
		code := ErrorCode(err)
		h.logger.Info("request failed", "type", msgType, "id", id, "code", code, "error", err)
		h.sendError(id, code, err.Error())
		return
	}

	reply := messages.BaseMessage{
		Type:    msgType,
		ID:      id,
		Payload: result,
	}
	if err := conn.SendMessage(reply); err != nil {
		h.logger.Warn("error sending reply", "type", msgType, "id", id, "error", err)
	}
}

func (h *ClientHandler) sendError(id, code, message string) {
	errMsg := messages.BaseMessage{
		Type: messages.MessageTypeError,
		ID:   id,
		Payload: messages.ErrorMessage{
			Code:    code,
			Message: message,
		},
	}
	if err := h.conn.SendMessage(errMsg); err != nil {
		h.logger.Warn("error sending error reply", "code", code, "error", err)
	}
}
