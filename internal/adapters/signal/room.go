package signal

import (
	"github.com/dkeye/Lobby/internal/adapters/errcode"
	"github.com/dkeye/Lobby/internal/domain"
)

type moveTeamPayload struct {
	FromTeamID *int `json:"from_team_id" validate:"required,gte=0"`
	ToTeamID   *int `json:"to_team_id" validate:"required,gte=0"`
}

// handleMoveTeam covers join (from 0), switch and leave (to 0).
func (ctl *SignalWSController) handleMoveTeam(s *session, data []byte) error {
	var p moveTeamPayload
	if err := ctl.decode(data, &p); err != nil {
		return err
	}
	_, err := ctl.Orch.MoveTeam(s.roomID, s.player, domain.TeamID(*p.FromTeamID), domain.TeamID(*p.ToTeamID))
	return err
}

type teamStatusPayload struct {
	TeamID int   `json:"team_id" validate:"gte=1"`
	Ready  *bool `json:"ready"`
}

// handleTeamStatus sets the sender's ready flag, or toggles it when ready
// is omitted.
func (ctl *SignalWSController) handleTeamStatus(s *session, data []byte) error {
	var p teamStatusPayload
	if err := ctl.decode(data, &p); err != nil {
		return err
	}
	_, err := ctl.Orch.SetReady(s.roomID, s.player, domain.TeamID(p.TeamID), p.Ready)
	return err
}

type roomUpdatePayload struct {
	Name         string `json:"name" validate:"required,max=36"`
	Mode         string `json:"mode" validate:"max=32"`
	Capacity     int    `json:"capacity" validate:"gte=0"`
	TeamCapacity int    `json:"team_capacity" validate:"gte=0"`
}

func (ctl *SignalWSController) handleRoomUpdate(s *session, data []byte) error {
	var p roomUpdatePayload
	if err := ctl.decode(data, &p); err != nil {
		return err
	}
	_, err := ctl.Orch.UpdateConfig(s.roomID, s.player, domain.RoomConfig{
		Name:         p.Name,
		Mode:         p.Mode,
		Capacity:     p.Capacity,
		TeamCapacity: p.TeamCapacity,
	})
	return err
}

func (ctl *SignalWSController) handleStart(s *session, _ []byte) error {
	_, err := ctl.Orch.Start(s.roomID, s.player)
	return err
}

type chatPayload struct {
	Message string `json:"message" validate:"required,max=500"`
}

func (ctl *SignalWSController) handleChat(s *session, data []byte) error {
	var p chatPayload
	if err := ctl.decode(data, &p); err != nil {
		return err
	}
	if !ctl.chat.Allow(s.player.ID) {
		return errcode.ErrRateLimited
	}
	_, err := ctl.Orch.Chat(s.roomID, s.player, p.Message)
	return err
}
