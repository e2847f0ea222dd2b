package api

import (
	"net/http"
	"sync"

	"github.com/jamesjt/Tirs-sub000/internal/constants"
	"github.com/jamesjt/Tirs-sub000/internal/logging"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

// Relay fans player action messages between the sockets attached to one
// match. Payloads are forwarded verbatim; authoritative state always comes
// from the HTTP endpoints, so the relay never interprets what it carries.
type Relay struct {
	mu    sync.Mutex
	rooms map[uint]map[*websocket.Conn]bool
}

func NewRelay() *Relay {
	return &Relay{rooms: map[uint]map[*websocket.Conn]bool{}}
}

func (r *Relay) register(id uint, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	room := r.rooms[id]
	if room == nil {
		room = map[*websocket.Conn]bool{}
		r.rooms[id] = room
	}
	room[conn] = true
}

func (r *Relay) unregister(id uint, conn *websocket.Conn) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok := r.rooms[id]; ok {
		delete(room, conn)
		if len(room) == 0 {
			delete(r.rooms, id)
		}
	}
}

// broadcast forwards one message to every other socket in the room. Sockets
// that fail to accept the write are dropped from the room.
func (r *Relay) broadcast(id uint, from *websocket.Conn, messageType int, payload []byte) {
	r.mu.Lock()
	conns := make([]*websocket.Conn, 0, len(r.rooms[id]))
	for conn := range r.rooms[id] {
		if conn != from {
			conns = append(conns, conn)
		}
	}
	r.mu.Unlock()

	for _, conn := range conns {
		if err := conn.WriteMessage(messageType, payload); err != nil {
			r.unregister(id, conn)
			_ = conn.Close()
		}
	}
}

// Handle upgrades the request and pumps messages until the peer disconnects.
func (r *Relay) Handle(c *gin.Context) {
	id, ok := matchID(c)
	if !ok {
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logging.Error("websocket upgrade failed", err, logging.Fields{constants.LogFieldMatchID: id})
		return
	}
	r.register(id, conn)
	defer func() {
		r.unregister(id, conn)
		_ = conn.Close()
	}()

	for {
		messageType, payload, err := conn.ReadMessage()
		if err != nil {
			return
		}
		r.broadcast(id, conn, messageType, payload)
	}
}
