package app

import (
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

// Hub is the broadcast boundary: per-room subscriber sets and fan-out.
// It never closes a connection it was not told to drop.
type Hub struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomID]map[core.SessionID]core.Subscriber
	policy Policy
}

func NewHub(policy Policy) *Hub {
	if policy == nil {
		policy = SimplePolicy{}
	}
	return &Hub{
		rooms:  make(map[domain.RoomID]map[core.SessionID]core.Subscriber),
		policy: policy,
	}
}

func (h *Hub) Subscribe(room domain.RoomID, sid core.SessionID, sub core.Subscriber) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[room]
	if !ok {
		subs = make(map[core.SessionID]core.Subscriber)
		h.rooms[room] = subs
	}
	subs[sid] = sub
}

// Join subscribes sub to the room and hands it the current room_state
// under the room lock, so the snapshot precedes every later event.
func (h *Hub) Join(rooms *core.Registry, roomID domain.RoomID, sid core.SessionID, sub core.Subscriber) (RoomView, error) {
	room, err := rooms.Get(roomID)
	if err != nil {
		return RoomView{}, err
	}

	var view RoomView
	room.View(func(st *core.State) {
		if cur, gerr := rooms.Get(roomID); gerr != nil || cur != room {
			err = fmt.Errorf("room %d: %w", roomID, domain.ErrRoomNotFound)
			return
		}
		view = roomView(st)
		var frame core.Frame
		if frame, err = Encode(EventRoomState, view); err != nil {
			return
		}
		if err = sub.Signal().TrySend(frame); err != nil {
			return
		}
		h.Subscribe(roomID, sid, sub)
	})
	if err != nil {
		return RoomView{}, err
	}
	return view, nil
}

// Broadcast encodes an event and publishes it. Rooms call it on commit.
func (h *Hub) Broadcast(room domain.RoomID, event string, data any) {
	frame, err := Encode(event, data)
	if err != nil {
		log.Error().Err(err).Str("module", "hub").Int64("room", int64(room)).Str("event", event).Msg("encode broadcast")
		return
	}
	res := h.Publish(room, frame)
	log.Debug().Str("module", "hub").Int64("room", int64(room)).Str("event", event).Int("sent_to", res.SendTo).Int("dropped", len(res.Dropped)).Msg("broadcast result")
}

var _ core.Sink = (*Hub)(nil)

func (h *Hub) Unsubscribe(room domain.RoomID, sid core.SessionID) (core.Subscriber, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	subs, ok := h.rooms[room]
	if !ok {
		return nil, false
	}
	sub, ok := subs[sid]
	if !ok {
		return nil, false
	}
	delete(subs, sid)
	if len(subs) == 0 {
		delete(h.rooms, room)
	}
	return sub, true
}

func (h *Hub) Count(room domain.RoomID) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[room])
}

// Watching reports whether pid still has a subscription to room.
func (h *Hub) Watching(room domain.RoomID, pid domain.PlayerID) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for _, sub := range h.rooms[room] {
		if sub.Player().ID == pid {
			return true
		}
	}
	return false
}

// Publish sends frame to every subscriber of room and applies the
// back-pressure policy to the ones that could not keep up.
func (h *Hub) Publish(room domain.RoomID, frame core.Frame) core.PublishResult {
	res := core.PublishResult{}
	var slow []core.Subscriber
	h.mu.RLock()
	for sid, sub := range h.rooms[room] {
		if err := sub.Signal().TrySend(frame); err != nil {
			res.Dropped = append(res.Dropped, sid)
			slow = append(slow, sub)
			continue
		}
		res.SendTo++
	}
	h.mu.RUnlock()

	// A kicked subscriber stays registered. Its adapter sees the closed
	// connection and disconnects it, which also releases the team seat.
	for i, sid := range res.Dropped {
		switch h.policy.OnBackPressure(room, sid) {
		case KickMember:
			slow[i].Signal().Close()
		case DropFrame, NoAction:
		}
	}
	return res
}

// CloseRoom drops every subscriber of room and closes their connections.
func (h *Hub) CloseRoom(room domain.RoomID) int {
	h.mu.Lock()
	subs := h.rooms[room]
	delete(h.rooms, room)
	h.mu.Unlock()

	for _, sub := range subs {
		sub.Signal().Close()
	}
	return len(subs)
}
