package signal

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/vkoval/watchparty/internal/app"
	"github.com/vkoval/watchparty/internal/config"
	"github.com/vkoval/watchparty/internal/core"
	"github.com/vkoval/watchparty/internal/domain"
)

var ErrBackpressure = errors.New("backpressure")

type Controller struct {
	Orch *app.Orchestrator
	cfg  *config.Config
}

func NewController(orch *app.Orchestrator, cfg *config.Config) *Controller {
	return &Controller{Orch: orch, cfg: cfg}
}

// WsConn wraps a gorilla connection with a buffered outbound channel.
// TrySend never blocks: a full buffer is reported as backpressure and the
// frame is dropped for that member.
type WsConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return errors.New("connection closed")
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsConn) Close() {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return
	}
	c.closed = true
	close(c.send)
	_ = c.conn.Close()
	c.mu.Unlock()
}

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin:     func(r *http.Request) bool { return true },
}

// HandleWS upgrades the request and starts the session pumps.
// Each connection gets a fresh session id; the browser-scoped client
// token only travels in logs.
func (ctl *Controller) HandleWS(ctx context.Context, c *gin.Context) {
	sid := core.SessionID(uuid.NewString())
	log.Info().Str("module", "signal").Str("sid", string(sid)).Str("client", c.GetString("client_token")).Msg("new WS connection")

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}

	conn := &WsConn{
		conn: ws,
		send: make(chan core.Frame, ctl.cfg.SendBuffer),
	}

	meta, _ := domain.NewParticipant(string(sid), "guest")
	sess := core.NewMemberSession(meta, conn)
	ctx, cancel := context.WithCancel(ctx)
	ctl.Orch.Sessions.Bind(sid, sess, cancel)

	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, sid, conn)
}
