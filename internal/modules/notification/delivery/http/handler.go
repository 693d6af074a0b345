package http

import (
	"log/slog"
	"net/http"

	notifService "anoa.com/weddingsalon/internal/modules/notification/service"
	"anoa.com/weddingsalon/pkg/apperror"
	"anoa.com/weddingsalon/pkg/response"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
)

type InventoryFeedHandler struct {
	redisClient *redis.Client
	upgrader    websocket.Upgrader
}

func NewInventoryFeedHandler(redisClient *redis.Client, allowedOrigins []string) *InventoryFeedHandler {
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = struct{}{}
	}

	return &InventoryFeedHandler{
		redisClient: redisClient,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				_, ok := allowed[origin]
				return ok
			},
		},
	}
}

// HandleWebSocket streams inventory events to the caller until either side
// closes the connection.
func (h *InventoryFeedHandler) HandleWebSocket(c *gin.Context) {
	if h.redisClient == nil {
		response.ResponseError(c, apperror.New(http.StatusServiceUnavailable, "inventory feed is not configured", apperror.ErrUnavailable))
		return
	}

	ctx := c.Request.Context()

	pubsub := h.redisClient.Subscribe(ctx, notifService.Channel)
	defer pubsub.Close()

	// Wait for confirmation that subscription is created
	if _, err := pubsub.Receive(ctx); err != nil {
		response.ResponseError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.WarnContext(ctx, "failed to upgrade websocket", "error", err)
		return
	}
	defer conn.Close()

	clientClosed := make(chan struct{})
	go func() {
		defer close(clientClosed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ch := pubsub.Channel()
	for {
		select {
		case msg, ok := <-ch:
			if !ok {
				return
			}
			// payload is already a JSON encoded InventoryEvent
			if err := conn.WriteMessage(websocket.TextMessage, []byte(msg.Payload)); err != nil {
				slog.WarnContext(ctx, "failed to write inventory event", "error", err)
				return
			}
		case <-clientClosed:
			return
		case <-ctx.Done():
			return
		}
	}
}
