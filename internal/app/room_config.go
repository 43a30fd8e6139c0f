package app

import (
	"fmt"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

// RoomConfigService owns room settings and the WAITING -> STARTED transition.
type RoomConfigService struct {
	rooms *core.Registry
}

func NewRoomConfigService(rooms *core.Registry) *RoomConfigService {
	return &RoomConfigService{rooms: rooms}
}

// UpdateConfig replaces the whole config. Limits below the current
// occupancy are rejected rather than evicting players.
func (s *RoomConfigService) UpdateConfig(roomID domain.RoomID, cfg domain.RoomConfig) (RoomStatusResult, error) {
	if err := cfg.Validate(); err != nil {
		return RoomStatusResult{}, err
	}
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return RoomStatusResult{}, err
	}

	var res RoomStatusResult
	err = room.Do(func(st *core.State) error {
		if st.Started() {
			return fmt.Errorf("room %d: %w", roomID, domain.ErrRoomAlreadyStarted)
		}
		if cfg.Capacity > 0 && st.PlayerCount() > cfg.Capacity {
			return fmt.Errorf("%w: capacity %d below %d players", domain.ErrInvalidConfig, cfg.Capacity, st.PlayerCount())
		}
		for _, t := range st.Teams {
			if cfg.TeamCapacity > 0 && t.Len() > cfg.TeamCapacity {
				return fmt.Errorf("%w: team capacity %d below team %d size %d", domain.ErrInvalidConfig, cfg.TeamCapacity, t.ID, t.Len())
			}
		}
		st.SetConfig(cfg)
		res = roomStatus(st)
		st.Emit(EventRoomStatus, res)
		return nil
	})
	if err != nil {
		return RoomStatusResult{}, err
	}
	return res, nil
}

// Start moves the room to STARTED. Only an assigned player may start it.
func (s *RoomConfigService) Start(roomID domain.RoomID, p domain.Player) (RoomStatusResult, error) {
	room, err := s.rooms.Get(roomID)
	if err != nil {
		return RoomStatusResult{}, err
	}

	var res RoomStatusResult
	err = room.Do(func(st *core.State) error {
		if st.Started() {
			return fmt.Errorf("room %d: %w", roomID, domain.ErrRoomAlreadyStarted)
		}
		cur, err := st.Locate(p.ID)
		if err != nil {
			return err
		}
		if cur == domain.Unassigned {
			return fmt.Errorf("room %d: player %s holds no team: %w", roomID, p.ID, domain.ErrPlayerNotInTeam)
		}
		st.Start()
		res = roomStatus(st)
		st.Emit(EventRoomStarted, res)
		return nil
	})
	if err != nil {
		return RoomStatusResult{}, err
	}
	return res, nil
}
