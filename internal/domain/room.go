package domain

import (
	"fmt"
	"strings"
)

type (
	RoomID int64
	TeamID int
)

// Unassigned is the team id of a player that belongs to no team yet.
// It is the source of a first assignment and the destination of a leave.
const Unassigned TeamID = 0

type RoomStatus string

const (
	StatusWaiting RoomStatus = "WAITING"
	StatusStarted RoomStatus = "STARTED"
)

const (
	MaxRoomNameLen = 36
	MaxModeLen     = 32
	MaxTeams       = 16
)

// RoomConfig holds the room-level settings that may change while WAITING.
// Zero capacities mean unlimited.
type RoomConfig struct {
	Name         string `json:"name" mapstructure:"name"`
	Mode         string `json:"mode" mapstructure:"mode"`
	Capacity     int    `json:"capacity" mapstructure:"capacity"`
	TeamCapacity int    `json:"team_capacity" mapstructure:"team_capacity"`
}

func (c RoomConfig) Validate() error {
	switch {
	case len(strings.TrimSpace(c.Name)) == 0:
		return fmt.Errorf("%w: empty name", ErrInvalidConfig)
	case len(c.Name) > MaxRoomNameLen:
		return fmt.Errorf("%w: name longer than %d", ErrInvalidConfig, MaxRoomNameLen)
	case len(c.Mode) > MaxModeLen:
		return fmt.Errorf("%w: mode longer than %d", ErrInvalidConfig, MaxModeLen)
	case c.Capacity < 0:
		return fmt.Errorf("%w: negative capacity", ErrInvalidConfig)
	case c.TeamCapacity < 0:
		return fmt.Errorf("%w: negative team capacity", ErrInvalidConfig)
	}
	return nil
}
