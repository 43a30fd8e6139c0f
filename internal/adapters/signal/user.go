package signal

import (
	"github.com/dkeye/Lobby/internal/domain"
)

func (ctl *SignalWSController) handleWhoAmI(s *session, _ []byte) error {
	resp := struct {
		Type   string        `json:"type"`
		Player domain.Player `json:"player"`
		Room   domain.RoomID `json:"room"`
		Team   domain.TeamID `json:"team"`
	}{
		Type:   "whoami",
		Player: s.player,
		Room:   s.roomID,
	}
	if view, err := ctl.Orch.Snapshot(s.roomID); err == nil {
		for _, t := range view.Teams {
			for _, m := range t.Members {
				if m.ID == s.player.ID {
					resp.Team = t.ID
				}
			}
		}
	}
	ctl.sendJSON(s.conn, resp)
	return nil
}
