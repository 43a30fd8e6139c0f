package core

import "github.com/dkeye/Lobby/internal/domain"

// Frame is a raw payload fanned out to room subscribers.
type Frame []byte

type SessionID string

// SignalConnection abstracts for a system messaging transport
// Owned by the adapter; the adapter must Close() it.
type SignalConnection interface {
	TrySend(Frame) error
	Close()
}

// Subscriber binds a player identity and its transport endpoint.
// This is what a room's subscriber set stores and fans out to.
type Subscriber interface {
	Player() domain.Player
	Signal() SignalConnection
}

// Sink receives the events of committed room operations. It is called
// with the room lock held and must not block or call back into the room.
type Sink interface {
	Broadcast(room domain.RoomID, event string, data any)
}

// PublishResult reports delivery stats/backpressure to orchestrator.
type PublishResult struct {
	SendTo  int
	Dropped []SessionID
}

type RoomInfo struct {
	ID      domain.RoomID     `json:"id"`
	Name    string            `json:"name"`
	Mode    string            `json:"mode"`
	Status  domain.RoomStatus `json:"status"`
	Players int               `json:"players"`
}
