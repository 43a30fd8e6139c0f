package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/domain"
)

func (o *Orchestrator) MoveTeam(roomID domain.RoomID, p domain.Player, from, to domain.TeamID) (app.MoveTeamResult, error) {
	res, err := o.Teams.MoveTeam(roomID, p, from, to)
	if err != nil {
		return res, o.rejected("move_team", roomID, p.ID, err)
	}
	log.Info().Str("module", "orch").Int64("room", int64(roomID)).Str("player", string(p.ID)).Int("from", int(from)).Int("to", int(to)).Bool("changed", res.Changed).Msg("move team")
	return res, nil
}

// SetReady sets the caller's flag; a nil ready toggles it.
func (o *Orchestrator) SetReady(roomID domain.RoomID, p domain.Player, teamID domain.TeamID, ready *bool) (app.TeamStatusResult, error) {
	var (
		res app.TeamStatusResult
		err error
	)
	if ready == nil {
		res, err = o.Ready.ToggleReady(roomID, p, teamID)
	} else {
		res, err = o.Ready.SetReady(roomID, p, teamID, *ready)
	}
	if err != nil {
		return res, o.rejected("team_status", roomID, p.ID, err)
	}
	log.Debug().Str("module", "orch").Int64("room", int64(roomID)).Str("player", string(p.ID)).Int("team", int(teamID)).Bool("team_ready", res.Team.Ready).Msg("team status")
	return res, nil
}

func (o *Orchestrator) UpdateConfig(roomID domain.RoomID, p domain.Player, cfg domain.RoomConfig) (app.RoomStatusResult, error) {
	res, err := o.Settings.UpdateConfig(roomID, cfg)
	if err != nil {
		return res, o.rejected("room_update", roomID, p.ID, err)
	}
	log.Info().Str("module", "orch").Int64("room", int64(roomID)).Str("player", string(p.ID)).Str("name", cfg.Name).Msg("room config updated")
	return res, nil
}

func (o *Orchestrator) Start(roomID domain.RoomID, p domain.Player) (app.RoomStatusResult, error) {
	res, err := o.Settings.Start(roomID, p)
	if err != nil {
		return res, o.rejected("start", roomID, p.ID, err)
	}
	log.Info().Str("module", "orch").Int64("room", int64(roomID)).Str("player", string(p.ID)).Msg("room started")
	return res, nil
}

// Chat relays a message verbatim. It touches no room state.
func (o *Orchestrator) Chat(roomID domain.RoomID, p domain.Player, message string) (app.ChatMessage, error) {
	if _, err := o.Rooms.Get(roomID); err != nil {
		return app.ChatMessage{}, o.rejected("chat", roomID, p.ID, err)
	}
	msg := app.ChatMessage{
		RoomID:  roomID,
		Sender:  p,
		Message: message,
		Code:    app.ChatSentCode,
		Msg:     app.ChatSentMsg,
	}
	o.Hub.Broadcast(roomID, app.EventChat, msg)
	return msg, nil
}
