package orch

import (
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

// CreateRoom registers a room. Zero id and team count fall back to an
// auto-assigned id and the default team count.
func (o *Orchestrator) CreateRoom(id domain.RoomID, cfg domain.RoomConfig, teamCount int) (app.RoomView, error) {
	if teamCount == 0 {
		teamCount = o.Defaults.TeamCount
	}
	room, err := o.Rooms.Create(id, cfg, teamCount)
	if err != nil {
		return app.RoomView{}, err
	}
	log.Info().Str("module", "orch").Int64("room", int64(room.ID())).Str("name", cfg.Name).Int("teams", teamCount).Msg("room created")
	return app.Snapshot(o.Rooms, room.ID())
}

// EnsureRoom creates the room with default settings on first reference.
func (o *Orchestrator) EnsureRoom(id domain.RoomID) (app.RoomView, bool, error) {
	cfg := o.Defaults.Config
	if cfg.Name == "" {
		cfg.Name = fmt.Sprintf("room %d", id)
	}
	room, created, err := o.Rooms.GetOrCreate(id, cfg, o.Defaults.TeamCount)
	if err != nil {
		return app.RoomView{}, false, err
	}
	if created {
		log.Info().Str("module", "orch").Int64("room", int64(id)).Msg("room created on first reference")
	}
	view, err := app.Snapshot(o.Rooms, room.ID())
	return view, created, err
}

func (o *Orchestrator) Snapshot(id domain.RoomID) (app.RoomView, error) {
	return app.Snapshot(o.Rooms, id)
}

// Join subscribes a connection to a room. The connection receives the
// room_state it starts from before any other event.
func (o *Orchestrator) Join(roomID domain.RoomID, sid core.SessionID, sub core.Subscriber) (app.RoomView, error) {
	view, err := o.Hub.Join(o.Rooms, roomID, sid, sub)
	if err != nil {
		return app.RoomView{}, err
	}
	log.Info().Str("module", "orch").Int64("room", int64(roomID)).Str("sid", string(sid)).Str("player", string(sub.Player().ID)).Msg("subscribed")
	return view, nil
}

// Disconnect drops a subscription. When the player has no other
// subscription to a waiting room it also gives up its team seat.
func (o *Orchestrator) Disconnect(roomID domain.RoomID, sid core.SessionID) {
	sub, ok := o.Hub.Unsubscribe(roomID, sid)
	if !ok {
		return
	}
	p := sub.Player()
	log.Info().Str("module", "orch").Int64("room", int64(roomID)).Str("sid", string(sid)).Str("player", string(p.ID)).Msg("unsubscribed")
	// Joins subscribe under the room lock, so checking inside the leave
	// closure cannot miss a tab opened meanwhile.
	res, moved, err := o.Teams.ReleaseSeat(roomID, p, func() bool {
		return o.Hub.Watching(roomID, p.ID)
	})
	if err != nil {
		// Started or evicted rooms keep their rosters.
		log.Debug().Err(err).Str("module", "orch").Int64("room", int64(roomID)).Str("player", string(p.ID)).Msg("leave skipped")
		return
	}
	if moved {
		log.Info().Str("module", "orch").Int64("room", int64(roomID)).Str("player", string(p.ID)).Int("from", int(res.From.ID)).Msg("seat released")
	}
}

// EvictRoom removes a room and closes its subscribers.
func (o *Orchestrator) EvictRoom(id domain.RoomID) bool {
	if !o.Rooms.Remove(id) {
		return false
	}
	closed := o.Hub.CloseRoom(id)
	log.Info().Str("module", "orch").Int64("room", int64(id)).Int("subscribers", closed).Msg("room evicted")
	return true
}

// Sweep evicts rooms that are started or empty and idle for idleTTL.
func (o *Orchestrator) Sweep(now time.Time, idleTTL time.Duration) []domain.RoomID {
	removed := o.Rooms.Sweep(now, idleTTL)
	for _, id := range removed {
		closed := o.Hub.CloseRoom(id)
		log.Info().Str("module", "orch").Int64("room", int64(id)).Int("subscribers", closed).Msg("idle room swept")
	}
	return removed
}

func (o *Orchestrator) List() []core.RoomInfo {
	return o.Rooms.List()
}
