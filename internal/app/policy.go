package app

import (
	"fmt"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

type BackpressureAction int

const (
	NoAction BackpressureAction = iota
	KickMember
	DropFrame
)

type Policy interface {
	OnBackPressure(room domain.RoomID, sid core.SessionID) BackpressureAction
}

type SimplePolicy struct{}

func (SimplePolicy) OnBackPressure(room domain.RoomID, sid core.SessionID) BackpressureAction {
	return KickMember
}

// TolerantPolicy drops the frame for a slow subscriber and keeps it.
type TolerantPolicy struct{}

func (TolerantPolicy) OnBackPressure(room domain.RoomID, sid core.SessionID) BackpressureAction {
	return DropFrame
}

// ParsePolicy resolves the backpressure config key: "kick" or "drop".
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "", "kick":
		return SimplePolicy{}, nil
	case "drop":
		return TolerantPolicy{}, nil
	}
	return nil, fmt.Errorf("unknown backpressure policy %q", name)
}
