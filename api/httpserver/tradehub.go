package httpserver

import (
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"vela/service"
)

// TradeHub fans executed trades out to websocket subscribers. Each
// client gets a buffered send queue; a client that falls behind is
// dropped rather than allowed to stall the submission path.
type TradeHub struct {
	mu      sync.Mutex
	clients map[*client]struct{}
	log     *zap.Logger
}

type client struct {
	conn *websocket.Conn
	send chan service.TradeEvent
}

const clientQueueSize = 64

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

func NewTradeHub(log *zap.Logger) *TradeHub {
	return &TradeHub{
		clients: make(map[*client]struct{}),
		log:     log,
	}
}

// Publish implements service.TradeSink. Never blocks.
func (h *TradeHub) Publish(ev service.TradeEvent) {
	h.mu.Lock()
	defer h.mu.Unlock()
	for c := range h.clients {
		select {
		case c.send <- ev:
		default:
			// slow client: close and forget
			delete(h.clients, c)
			close(c.send)
		}
	}
}

// Serve upgrades the request and streams trade events until the peer
// goes away.
func (h *TradeHub) Serve(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	cl := &client{
		conn: conn,
		send: make(chan service.TradeEvent, clientQueueSize),
	}

	h.mu.Lock()
	h.clients[cl] = struct{}{}
	h.mu.Unlock()

	go h.writeLoop(cl)
	h.readLoop(cl)
}

func (h *TradeHub) writeLoop(cl *client) {
	defer cl.conn.Close()
	for ev := range cl.send {
		if err := cl.conn.WriteJSON(ev); err != nil {
			h.remove(cl)
			return
		}
	}
}

// readLoop only exists to notice the peer closing.
func (h *TradeHub) readLoop(cl *client) {
	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			h.remove(cl)
			return
		}
	}
}

func (h *TradeHub) remove(cl *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if _, ok := h.clients[cl]; ok {
		delete(h.clients, cl)
		close(cl.send)
	}
}
