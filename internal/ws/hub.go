package ws

import (
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Event types pushed to clients.
const (
	EventForceLogout        = "force_logout"
	EventLoginRequestResult = "login_request_result"
)

type Event struct {
	Type    string `json:"type"`
	Message string `json:"message,omitempty"`
	Status  string `json:"status,omitempty"`
}

// Conn is the slice of a websocket connection the hub needs. It is
// satisfied by *websocket.Conn and by test doubles.
type Conn interface {
	WriteJSON(v any) error
	Close() error
}

// Hub maps each employee to their live connections (one per device or
// tab). It is mutated only by Register/Unregister; fan-out takes a
// snapshot under a read lock. Delivery is best-effort and at most once
// per connection; events for unconnected employees are dropped.
//
// Websocket connections allow a single concurrent writer, and the sweep,
// an admin force-logout and an approval resolution can all target the
// same employee at once, so every connection carries its own write lock.
type Hub struct {
	mu     sync.RWMutex
	conns  map[uuid.UUID]map[Conn]*sync.Mutex
	logger *logrus.Logger
}

func NewHub(logger *logrus.Logger) *Hub {
	if logger == nil {
		logger = logrus.New()
	}
	return &Hub{
		conns:  make(map[uuid.UUID]map[Conn]*sync.Mutex),
		logger: logger,
	}
}

func (h *Hub) Register(employeeID uuid.UUID, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[employeeID]
	if !ok {
		set = make(map[Conn]*sync.Mutex)
		h.conns[employeeID] = set
	}
	if _, ok := set[conn]; !ok {
		set[conn] = &sync.Mutex{}
	}
}

func (h *Hub) Unregister(employeeID uuid.UUID, conn Conn) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.conns[employeeID]
	if !ok {
		return
	}
	delete(set, conn)
	if len(set) == 0 {
		delete(h.conns, employeeID)
	}
}

// ConnectionCount reports the number of live connections for an employee.
func (h *Hub) ConnectionCount(employeeID uuid.UUID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns[employeeID])
}

func (h *Hub) NotifyForcedLogout(employeeID uuid.UUID, message string) {
	h.broadcast(employeeID, Event{Type: EventForceLogout, Message: message})
}

func (h *Hub) NotifyLoginRequestResult(employeeID uuid.UUID, status string) {
	h.broadcast(employeeID, Event{Type: EventLoginRequestResult, Status: status})
}

type target struct {
	conn    Conn
	writeMu *sync.Mutex
}

func (h *Hub) broadcast(employeeID uuid.UUID, event Event) {
	h.mu.RLock()
	targets := make([]target, 0, len(h.conns[employeeID]))
	for conn, writeMu := range h.conns[employeeID] {
		targets = append(targets, target{conn: conn, writeMu: writeMu})
	}
	h.mu.RUnlock()

	for _, t := range targets {
		t.writeMu.Lock()
		err := t.conn.WriteJSON(event)
		t.writeMu.Unlock()
		if err != nil {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"employee_id": employeeID,
				"event":       event.Type,
			}).Debug("dropping undeliverable notification")
		}
	}
}
