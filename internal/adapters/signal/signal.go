package signal

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lobby/internal/adapters/errcode"
	"github.com/dkeye/Lobby/internal/adapters/identity"
	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

var (
	ErrBackpressure = errors.New("backpressure")
	ErrClosed       = errors.New("connection closed")
)

type Options struct {
	ReadLimit    int64
	PingPeriod   time.Duration
	SendBuffer   int
	AutoCreate   bool
	ChatLimit    int
	ChatInterval time.Duration
}

func (o *Options) withDefaults() {
	if o.ReadLimit <= 0 {
		o.ReadLimit = 32 << 10
	}
	if o.PingPeriod <= 0 {
		o.PingPeriod = 54 * time.Second
	}
	if o.SendBuffer <= 0 {
		o.SendBuffer = 32
	}
	if o.ChatLimit <= 0 {
		o.ChatLimit = 5
	}
	if o.ChatInterval <= 0 {
		o.ChatInterval = 3 * time.Second
	}
}

type handlerFunc func(s *session, data []byte) error

type SignalWSController struct {
	Orch *orch.Orchestrator

	opts     Options
	chat     *RoomRateLimiter
	validate *validator.Validate
	handlers map[string]handlerFunc
}

func NewSignalWSController(o *orch.Orchestrator, opts Options) *SignalWSController {
	opts.withDefaults()
	ctl := &SignalWSController{
		Orch:     o,
		opts:     opts,
		chat:     NewRoomRateLimiter(opts.ChatLimit, opts.ChatInterval),
		validate: validator.New(),
	}
	ctl.handlers = map[string]handlerFunc{
		"moveTeam":   ctl.handleMoveTeam,
		"teamStatus": ctl.handleTeamStatus,
		"roomUpdate": ctl.handleRoomUpdate,
		"start":      ctl.handleStart,
		"chat":       ctl.handleChat,
		"ping":       ctl.handlePing,
		"whoami":     ctl.handleWhoAmI,
	}
	return ctl
}

// WsSignalConn is the non-blocking send side of one websocket.
type WsSignalConn struct {
	conn *websocket.Conn
	send chan core.Frame

	mu     sync.RWMutex
	closed bool
}

func (c *WsSignalConn) TrySend(f core.Frame) error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return ErrClosed
	}
	select {
	case c.send <- f:
	default:
		return ErrBackpressure
	}
	return nil
}

func (c *WsSignalConn) Close() {
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

// session is one subscribed socket of one player.
type session struct {
	roomID domain.RoomID
	sid    core.SessionID
	player domain.Player
	conn   *WsSignalConn
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// HandleSignal upgrades GET /api/ws/room/:id and subscribes the socket to
// the room. Unknown rooms are refused before the upgrade.
func (ctl *SignalWSController) HandleSignal(ctx context.Context, c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errcode.Status{Code: errcode.BadPayload, Message: "invalid room id"})
		return
	}
	roomID := domain.RoomID(id)

	player, ok := identity.FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errcode.Status{Code: errcode.BadPayload, Message: "no player identity"})
		return
	}

	if ctl.opts.AutoCreate {
		_, _, err = ctl.Orch.EnsureRoom(roomID)
	} else {
		_, err = ctl.Orch.Snapshot(roomID)
	}
	if err != nil {
		st := errcode.Of(err)
		c.JSON(st.HTTP, st)
		return
	}

	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Error().Err(err).Str("module", "signal").Msg("ws upgrade")
		return
	}
	ws.SetReadLimit(ctl.opts.ReadLimit)

	conn := &WsSignalConn{
		conn: ws,
		send: make(chan core.Frame, ctl.opts.SendBuffer),
	}
	s := &session{
		roomID: roomID,
		sid:    core.SessionID(uuid.NewString()),
		player: player,
		conn:   conn,
	}
	log.Info().Str("module", "signal").Str("sid", string(s.sid)).Int64("room", id).Str("player", string(player.ID)).Msg("new WS connection")

	if _, err := ctl.Orch.Join(roomID, s.sid, core.NewSubscriber(player, conn)); err != nil {
		// No pump is running yet, so the error is written directly.
		if frame, ferr := errorFrame(err); ferr == nil {
			_ = ws.SetWriteDeadline(time.Now().Add(writeWait))
			_ = ws.WriteMessage(websocket.TextMessage, frame)
		}
		conn.Close()
		return
	}

	ctx, cancel := context.WithCancel(ctx)
	go ctl.writePump(ctx, conn)
	go ctl.readPump(ctx, cancel, s)
}
