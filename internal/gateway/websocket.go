package gateway

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/ammybawa/Azure-Integration-App/internal/conversation"
	"github.com/ammybawa/Azure-Integration-App/internal/models"
)

var wsTracer = otel.Tracer("websocket-chat")

const (
	wsWriteTimeout = 10 * time.Second
	wsIdleTimeout  = 10 * time.Minute
)

// ChatSocket serves the conversation over a WebSocket so clients get
// each turn without polling.
type ChatSocket struct {
	engine         *conversation.Engine
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
	tracer         trace.Tracer
}

// NewChatSocket creates a WebSocket chat endpoint. Connections from
// origins outside the allowed list are rejected; an empty list allows
// same-host clients only.
func NewChatSocket(engine *conversation.Engine, allowedOrigins []string) *ChatSocket {
	origins := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		origins[o] = true
	}

	s := &ChatSocket{
		engine:         engine,
		allowedOrigins: origins,
		tracer:         wsTracer,
	}
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" {
				return true
			}
			if len(s.allowedOrigins) == 0 {
				return origin == "http://"+r.Host || origin == "https://"+r.Host
			}
			return s.allowedOrigins[origin]
		},
	}
	return s
}

type wsInbound struct {
	Message string `json:"message"`
}

// Stream handles WebSocket /api/ws/chat/:session_id
// @Summary Stream the provisioning conversation
// @Description WebSocket endpoint; each inbound {"message": "..."} frame yields one ChatResponse frame
// @Tags chat
// @Param session_id path string true "Session ID"
// @Success 101 "Switching Protocols"
// @Failure 400 {object} map[string]string
// @Router /ws/chat/{session_id} [get]
func (s *ChatSocket) Stream(c *gin.Context) {
	ctx, span := s.tracer.Start(c.Request.Context(), "websocket.chat_stream")
	defer span.End()

	sessionID := c.Param("session_id")
	if sessionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing session id"})
		return
	}
	span.SetAttributes(attribute.String("session.id", sessionID))

	conn, err := s.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		span.RecordError(err)
		log.Printf(`{"level":"warn","message":"WebSocket upgrade failed","session_id":"%s","error":"%v"}`, sessionID, err)
		return
	}
	defer conn.Close()

	log.Printf(`{"level":"info","message":"WebSocket chat connected","session_id":"%s"}`, sessionID)

	for {
		conn.SetReadDeadline(time.Now().Add(wsIdleTimeout))

		var in wsInbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				span.RecordError(err)
				log.Printf(`{"level":"warn","message":"WebSocket read error","session_id":"%s","error":"%v"}`, sessionID, err)
			}
			return
		}

		resp, err := s.engine.ProcessMessage(ctx, sessionID, in.Message)
		if err != nil {
			span.RecordError(err)
			log.Printf(`{"level":"error","message":"WebSocket chat processing failed","session_id":"%s","error":"%v"}`, sessionID, err)
			resp = &models.ChatResponse{
				SessionID: sessionID,
				Message:   "Something went wrong processing your message. Please try again.",
				Error:     err.Error(),
			}
		}

		conn.SetWriteDeadline(time.Now().Add(wsWriteTimeout))
		if err := conn.WriteJSON(resp); err != nil {
			span.RecordError(err)
			log.Printf(`{"level":"warn","message":"WebSocket write error","session_id":"%s","error":"%v"}`, sessionID, err)
			return
		}
	}
}
