package app

import (
	"fmt"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

// TeamAssignmentService moves players between the teams of a room.
type TeamAssignmentService struct {
	rooms *core.Registry
}

func NewTeamAssignmentService(rooms *core.Registry) *TeamAssignmentService {
	return &TeamAssignmentService{rooms: rooms}
}

// MoveTeam moves p from one team to another in a single critical section.
// from == Unassigned is a first assignment, to == Unassigned is a leave.
// Moving to the team p already occupies succeeds without changes.
func (s *TeamAssignmentService) MoveTeam(roomID domain.RoomID, p domain.Player, from, to domain.TeamID) (MoveTeamResult, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return MoveTeamResult{}, err
	}

	res := MoveTeamResult{RoomID: roomID, Player: p}
	err = room.Do(func(st *core.State) error {
		if st.Started() {
			return fmt.Errorf("room %d: %w", roomID, domain.ErrRoomAlreadyStarted)
		}
		for _, id := range []domain.TeamID{from, to} {
			if id == domain.Unassigned {
				continue
			}
			if _, ok := st.Team(id); !ok {
				return fmt.Errorf("room %d team %d: %w", roomID, id, domain.ErrTeamNotFound)
			}
		}

		cur, err := st.Locate(p.ID)
		if err != nil {
			return err
		}
		if cur == to {
			res.To = teamViewPtr(st, to)
			st.Emit(EventMoveTeam, res)
			return nil
		}
		if cur != from {
			return fmt.Errorf("room %d: player %s not in team %d: %w", roomID, p.ID, from, domain.ErrPlayerNotInTeam)
		}
		if err := checkCapacity(st, to, from == domain.Unassigned); err != nil {
			return err
		}

		st.Move(p, from, to)
		res.Changed = true
		res.From = teamViewPtr(st, from)
		res.To = teamViewPtr(st, to)
		st.Emit(EventMoveTeam, res)
		return nil
	})
	if err != nil {
		return MoveTeamResult{}, err
	}
	return res, nil
}

// Leave takes p out of whatever team it is in. moved is false when p held
// no team.
func (s *TeamAssignmentService) Leave(roomID domain.RoomID, p domain.Player) (MoveTeamResult, bool, error) {
	return s.leave(roomID, p, nil)
}

// ReleaseSeat is Leave for a closed connection. keep is evaluated under the
// room lock; when it reports true the seat is kept.
func (s *TeamAssignmentService) ReleaseSeat(roomID domain.RoomID, p domain.Player, keep func() bool) (MoveTeamResult, bool, error) {
	return s.leave(roomID, p, keep)
}

func (s *TeamAssignmentService) leave(roomID domain.RoomID, p domain.Player, keep func() bool) (res MoveTeamResult, moved bool, err error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return MoveTeamResult{}, false, err
	}

	res = MoveTeamResult{RoomID: roomID, Player: p}
	err = room.Do(func(st *core.State) error {
		if st.Started() {
			return fmt.Errorf("room %d: %w", roomID, domain.ErrRoomAlreadyStarted)
		}
		cur, err := st.Locate(p.ID)
		if err != nil || cur == domain.Unassigned {
			return err
		}
		if keep != nil && keep() {
			return nil
		}
		st.Move(p, cur, domain.Unassigned)
		res.Changed = true
		res.From = teamViewPtr(st, cur)
		st.Emit(EventMoveTeam, res)
		return nil
	})
	if err != nil {
		return MoveTeamResult{}, false, err
	}
	return res, res.Changed, nil
}

func checkCapacity(st *core.State, to domain.TeamID, entering bool) error {
	if to == domain.Unassigned {
		return nil
	}
	dst, _ := st.Team(to)
	if limit := st.Config.TeamCapacity; limit > 0 && dst.Len() >= limit {
		return fmt.Errorf("room %d team %d: %w", st.ID, to, domain.ErrTeamFull)
	}
	if limit := st.Config.Capacity; entering && limit > 0 && st.PlayerCount() >= limit {
		return fmt.Errorf("room %d: %w", st.ID, domain.ErrRoomFull)
	}
	return nil
}
