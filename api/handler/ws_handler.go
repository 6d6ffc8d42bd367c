package handler

import (
	"errors"
	"net/http"

	"attendo/api/middleware"
	"attendo/internal/ws"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/sirupsen/logrus"
)

type WSHandler struct {
	Hub      *ws.Hub
	Upgrader websocket.Upgrader
	Logger   *logrus.Logger
}

func NewWSHandler(hub *ws.Hub, logger *logrus.Logger) *WSHandler {
	if logger == nil {
		logger = logrus.New()
	}
	return &WSHandler{
		Hub: hub,
		Upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
		Logger: logger,
	}
}

// Connect upgrades the request and parks the connection in the hub until
// the client goes away. The server never reads application data from the
// socket; the read pump exists only to detect disconnects.
func (h *WSHandler) Connect(c echo.Context) error {
	employeeID, ok := middleware.EmployeeIDFromContext(c)
	if !ok {
		return echo.NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	conn, err := h.Upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		return err
	}
	h.Hub.Register(employeeID, conn)

	go func() {
		defer func() {
			h.Hub.Unregister(employeeID, conn)
			_ = conn.Close()
		}()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				if !errors.Is(err, websocket.ErrCloseSent) && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					h.Logger.WithError(err).WithField("employee_id", employeeID).Debug("websocket closed")
				}
				return
			}
		}
	}()
	return nil
}
