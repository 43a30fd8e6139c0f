package app_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

const (
	roomID domain.RoomID = 1
	teamA  domain.TeamID = 1
	teamB  domain.TeamID = 2
)

var (
	playerP = domain.Player{ID: "p", Name: "P"}
	playerQ = domain.Player{ID: "q", Name: "Q"}
	playerR = domain.Player{ID: "r", Name: "R"}
)

type lobby struct {
	rooms    *core.Registry
	teams    *app.TeamAssignmentService
	ready    *app.ReadinessService
	settings *app.RoomConfigService
}

func newLobby(t *testing.T, cfg domain.RoomConfig) *lobby {
	t.Helper()
	rooms := core.NewRegistry(nil)
	_, err := rooms.Create(roomID, cfg, 2)
	require.NoError(t, err)
	return &lobby{
		rooms:    rooms,
		teams:    app.NewTeamAssignmentService(rooms),
		ready:    app.NewReadinessService(rooms),
		settings: app.NewRoomConfigService(rooms),
	}
}

func defaultConfig() domain.RoomConfig {
	return domain.RoomConfig{Name: "lobby", Mode: "classic"}
}

func (l *lobby) snapshot(t *testing.T) app.RoomView {
	t.Helper()
	view, err := app.Snapshot(l.rooms, roomID)
	require.NoError(t, err)
	return view
}

func (l *lobby) assign(t *testing.T, p domain.Player, team domain.TeamID) {
	t.Helper()
	_, err := l.teams.MoveTeam(roomID, p, domain.Unassigned, team)
	require.NoError(t, err)
}

func memberIDs(v app.TeamView) []domain.PlayerID {
	out := make([]domain.PlayerID, 0, len(v.Members))
	for _, m := range v.Members {
		out = append(out, m.ID)
	}
	return out
}

// fakeConn records frames and can simulate a full send buffer.
type fakeConn struct {
	mu     sync.Mutex
	frames []core.Frame
	full   bool
	closed bool
}

var errFull = errors.New("full")

func (c *fakeConn) TrySend(f core.Frame) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.full {
		return errFull
	}
	c.frames = append(c.frames, f)
	return nil
}

func (c *fakeConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
}

func (c *fakeConn) sent() []core.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]core.Frame(nil), c.frames...)
}

func (c *fakeConn) isClosed() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.closed
}
