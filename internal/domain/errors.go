package domain

import (
	"errors"
	"fmt"
)

// Business rule rejections. Each one rejects a single operation and leaves
// the room untouched.
var (
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomExists         = errors.New("room already exists")
	ErrRoomAlreadyStarted = errors.New("room already started")
	ErrPlayerNotInTeam    = errors.New("player not in team")
	ErrTeamNotFound       = errors.New("team not found")
	ErrTeamFull           = errors.New("team full")
	ErrRoomFull           = errors.New("room full")
	ErrInvalidConfig      = errors.New("invalid room config")
)

// InvariantError reports a broken room invariant. It is a defect, not a
// user error, and must not be presented as one.
type InvariantError struct {
	Room   RoomID
	Detail string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("room %d invariant violated: %s", e.Room, e.Detail)
}

func IsInvariant(err error) bool {
	var ie *InvariantError
	return errors.As(err, &ie)
}
