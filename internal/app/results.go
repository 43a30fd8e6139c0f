package app

import (
	"encoding/json"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

// Event names published to room subscribers.
const (
	EventRoomState   = "room_state"
	EventMoveTeam    = "move_team"
	EventTeamStatus  = "team_status"
	EventRoomStatus  = "room_status"
	EventRoomStarted = "room_started"
	EventChat        = "chat"
)

// ChatSent is the status pair attached to every relayed chat message.
const (
	ChatSentCode = 1001
	ChatSentMsg  = "room chat sent"
)

type MemberView struct {
	ID    domain.PlayerID `json:"id"`
	Name  string          `json:"name"`
	Ready bool            `json:"ready"`
}

type TeamView struct {
	ID      domain.TeamID `json:"team_id"`
	Ready   bool          `json:"ready"`
	Size    int           `json:"size"`
	Members []MemberView  `json:"members"`
}

type RoomView struct {
	ID     domain.RoomID     `json:"room_id"`
	Status domain.RoomStatus `json:"status"`
	Config domain.RoomConfig `json:"config"`
	Teams  []TeamView        `json:"teams"`
}

// MoveTeamResult carries both rosters touched by a move. From is nil for a
// first assignment, To is nil for a leave.
type MoveTeamResult struct {
	RoomID  domain.RoomID `json:"room_id"`
	Player  domain.Player `json:"player"`
	From    *TeamView     `json:"from,omitempty"`
	To      *TeamView     `json:"to,omitempty"`
	Changed bool          `json:"changed"`
}

type TeamStatusResult struct {
	RoomID domain.RoomID `json:"room_id"`
	Player domain.Player `json:"player"`
	Team   TeamView      `json:"team"`
}

type RoomStatusResult struct {
	RoomID domain.RoomID     `json:"room_id"`
	Status domain.RoomStatus `json:"status"`
	Config domain.RoomConfig `json:"config"`
}

type ChatMessage struct {
	RoomID  domain.RoomID `json:"room_id"`
	Sender  domain.Player `json:"sender"`
	Message string        `json:"message"`
	Code    int           `json:"code"`
	Msg     string        `json:"msg"`
}

// Envelope is the frame layout every subscriber receives.
type Envelope struct {
	Type string `json:"type"`
	Data any    `json:"data"`
}

func Encode(event string, v any) (core.Frame, error) {
	b, err := json.Marshal(Envelope{Type: event, Data: v})
	if err != nil {
		return nil, err
	}
	return core.Frame(b), nil
}

func teamView(t *core.Team) TeamView {
	members := t.Members()
	out := TeamView{
		ID:      t.ID,
		Ready:   t.Ready(),
		Size:    len(members),
		Members: make([]MemberView, 0, len(members)),
	}
	for _, m := range members {
		out.Members = append(out.Members, MemberView{ID: m.Player.ID, Name: m.Player.Name, Ready: m.Ready})
	}
	return out
}

func teamViewPtr(s *core.State, id domain.TeamID) *TeamView {
	t, ok := s.Team(id)
	if !ok {
		return nil
	}
	v := teamView(t)
	return &v
}

func roomView(s *core.State) RoomView {
	out := RoomView{
		ID:     s.ID,
		Status: s.Status,
		Config: s.Config,
		Teams:  make([]TeamView, 0, len(s.Teams)),
	}
	for _, t := range s.Teams {
		out.Teams = append(out.Teams, teamView(t))
	}
	return out
}

func roomStatus(s *core.State) RoomStatusResult {
	return RoomStatusResult{RoomID: s.ID, Status: s.Status, Config: s.Config}
}

// Snapshot returns a consistent view of a room.
func Snapshot(rooms *core.Registry, id domain.RoomID) (RoomView, error) {
	room, err := rooms.Get(id)
	if err != nil {
		return RoomView{}, err
	}
	var out RoomView
	room.View(func(s *core.State) { out = roomView(s) })
	return out, nil
}
