package app

import (
	"fmt"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

// ReadinessService keeps per-member ready flags. A team is ready when it
// has members and all of them are ready.
type ReadinessService struct {
	rooms *core.Registry
}

func NewReadinessService(rooms *core.Registry) *ReadinessService {
	return &ReadinessService{rooms: rooms}
}

func (s *ReadinessService) SetReady(roomID domain.RoomID, p domain.Player, teamID domain.TeamID, ready bool) (TeamStatusResult, error) {
	return s.update(roomID, p, teamID, func(bool) bool { return ready })
}

// ToggleReady flips the caller's flag.
func (s *ReadinessService) ToggleReady(roomID domain.RoomID, p domain.Player, teamID domain.TeamID) (TeamStatusResult, error) {
	return s.update(roomID, p, teamID, func(cur bool) bool { return !cur })
}

func (s *ReadinessService) update(roomID domain.RoomID, p domain.Player, teamID domain.TeamID, next func(bool) bool) (TeamStatusResult, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return TeamStatusResult{}, err
	}

	var res TeamStatusResult
	err = room.Do(func(st *core.State) error {
		if st.Started() {
			return fmt.Errorf("room %d: %w", roomID, domain.ErrRoomAlreadyStarted)
		}
		team, ok := st.Team(teamID)
		if !ok {
			return fmt.Errorf("room %d team %d: %w", roomID, teamID, domain.ErrTeamNotFound)
		}
		m, ok := team.Member(p.ID)
		if !ok {
			return fmt.Errorf("room %d: player %s not in team %d: %w", roomID, p.ID, teamID, domain.ErrPlayerNotInTeam)
		}
		m.Ready = next(m.Ready)
		res = TeamStatusResult{RoomID: roomID, Player: m.Player, Team: teamView(team)}
		st.Emit(EventTeamStatus, res)
		return nil
	})
	if err != nil {
		return TeamStatusResult{}, err
	}
	return res, nil
}
