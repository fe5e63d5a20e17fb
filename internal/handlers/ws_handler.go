package handlers

import (
	"net/http"
	"time"

	"github.com/campusnet-app/backend/internal/fanout"
	"github.com/campusnet-app/backend/internal/models"
	"github.com/golang-jwt/jwt/v4"
	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog/log"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingPeriod = 45 * time.Second
)

// WSHandler upgrades clients to WebSocket sessions and bridges them to the
// fanout broker.
type WSHandler struct {
	broker    *fanout.Broker
	jwtSecret string
	upgrader  websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(broker *fanout.Broker, jwtSecret string) *WSHandler {
	return &WSHandler{
		broker:    broker,
		jwtSecret: jwtSecret,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

// Serve authenticates the client, upgrades the connection and pumps broker
// events to it until the connection drops. Browsers cannot set headers on
// WebSocket requests, so the JWT arrives as a query parameter.
func (h *WSHandler) Serve(c echo.Context) error {
	tokenString := c.QueryParam("token")
	if tokenString == "" {
		return echo.NewHTTPError(http.StatusUnauthorized, "Missing token")
	}

	claims := &models.JwtCustomClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(h.jwtSecret), nil
	})
	if err != nil || !token.Valid {
		return echo.NewHTTPError(http.StatusUnauthorized, "Invalid token")
	}

	conn, err := h.upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}

	ch := fanout.NewChannel(claims.UserID)
	h.broker.Register(claims.UserID, ch)

	go h.writePump(conn, ch)
	go h.readPump(conn, ch)
	return nil
}

// writePump drains the channel into the connection. A single goroutine per
// connection keeps per-channel FIFO order intact.
func (h *WSHandler) writePump(conn *websocket.Conn, ch *fanout.Channel) {
	ticker := time.NewTicker(wsPingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case payload, ok := <-ch.Out():
			if !ok {
				// channel closed by unregister or eviction
				conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
					time.Now().Add(wsWriteWait))
				return
			}
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				log.Debug().Err(err).Str("channel_id", ch.ID()).Msg("websocket write failed")
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump discards inbound frames and unregisters the channel when the
// connection drops. Clients receive pushes; they do not send over this
// socket.
func (h *WSHandler) readPump(conn *websocket.Conn, ch *fanout.Channel) {
	defer func() {
		h.broker.Unregister(ch)
		conn.Close()
	}()

	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(wsPongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(wsPongWait))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
	}
}

// RegisterWSRoutes registers the realtime endpoint.
func (h *WSHandler) RegisterWSRoutes(e *echo.Echo) {
	e.GET("/ws", h.Serve)
}
