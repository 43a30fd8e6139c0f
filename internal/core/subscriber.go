package core

import "github.com/dkeye/Lobby/internal/domain"

// subscriber implements Subscriber by pairing identity + transport.
type subscriber struct {
	player domain.Player
	signal SignalConnection
}

func NewSubscriber(p domain.Player, sc SignalConnection) Subscriber {
	return &subscriber{player: p, signal: sc}
}

func (s *subscriber) Player() domain.Player    { return s.player }
func (s *subscriber) Signal() SignalConnection { return s.signal }
