package core

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
)

// Registry maps room ids to rooms. Its lock guards the map only; room
// state is guarded by each room's own lock.
type Registry struct {
	mu     sync.RWMutex
	rooms  map[domain.RoomID]*Room
	lastID domain.RoomID
	sink   Sink
}

// NewRegistry builds an empty registry. sink may be nil.
func NewRegistry(sink Sink) *Registry {
	return &Registry{rooms: make(map[domain.RoomID]*Room), sink: sink}
}

func (r *Registry) Get(id domain.RoomID) (*Room, error) {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("room %d: %w", id, domain.ErrRoomNotFound)
	}
	return room, nil
}

// Create registers a new room. id 0 picks the next free id.
func (r *Registry) Create(id domain.RoomID, cfg domain.RoomConfig, teamCount int) (*Room, error) {
	if err := validateRoom(cfg, teamCount); err != nil {
		return nil, err
	}
	if id < 0 {
		return nil, fmt.Errorf("%w: negative room id", domain.ErrInvalidConfig)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if id == 0 {
		id = r.nextIDLocked()
	}
	if _, ok := r.rooms[id]; ok {
		return nil, fmt.Errorf("room %d: %w", id, domain.ErrRoomExists)
	}
	return r.insertLocked(id, cfg, teamCount), nil
}

// GetOrCreate returns the room for id, creating it on first reference.
// The bool reports whether this call created it.
func (r *Registry) GetOrCreate(id domain.RoomID, cfg domain.RoomConfig, teamCount int) (*Room, bool, error) {
	r.mu.RLock()
	room, ok := r.rooms[id]
	r.mu.RUnlock()
	if ok {
		return room, false, nil
	}
	if id <= 0 {
		return nil, false, fmt.Errorf("%w: room id must be positive", domain.ErrInvalidConfig)
	}
	if err := validateRoom(cfg, teamCount); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if room, ok = r.rooms[id]; ok {
		return room, false, nil
	}
	return r.insertLocked(id, cfg, teamCount), true, nil
}

func (r *Registry) Remove(id domain.RoomID) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.rooms[id]; !ok {
		return false
	}
	delete(r.rooms, id)
	return true
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.rooms)
}

// List returns room summaries ordered by id.
func (r *Registry) List() []RoomInfo {
	r.mu.RLock()
	rooms := make([]*Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		rooms = append(rooms, room)
	}
	r.mu.RUnlock()

	out := make([]RoomInfo, 0, len(rooms))
	for _, room := range rooms {
		out = append(out, room.Info())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Sweep removes rooms that are started or empty and idle for at least ttl.
// It returns the removed ids.
func (r *Registry) Sweep(now time.Time, ttl time.Duration) []domain.RoomID {
	r.mu.RLock()
	var candidates []*Room
	for _, room := range r.rooms {
		candidates = append(candidates, room)
	}
	r.mu.RUnlock()

	var removed []domain.RoomID
	for _, room := range candidates {
		if !room.evictable(now, ttl) {
			continue
		}
		r.mu.Lock()
		// The id may have been removed and reused since the scan.
		if cur, ok := r.rooms[room.id]; ok && cur == room {
			delete(r.rooms, room.id)
			removed = append(removed, room.id)
		}
		r.mu.Unlock()
	}
	sort.Slice(removed, func(i, j int) bool { return removed[i] < removed[j] })
	return removed
}

func (r *Registry) insertLocked(id domain.RoomID, cfg domain.RoomConfig, teamCount int) *Room {
	room := NewRoom(id, cfg, teamCount, time.Now())
	room.sink = r.sink
	r.rooms[id] = room
	if id > r.lastID {
		r.lastID = id
	}
	return room
}

func (r *Registry) nextIDLocked() domain.RoomID {
	id := r.lastID + 1
	for {
		if _, ok := r.rooms[id]; !ok {
			return id
		}
		id++
	}
}

func validateRoom(cfg domain.RoomConfig, teamCount int) error {
	if teamCount < 1 || teamCount > domain.MaxTeams {
		return fmt.Errorf("%w: team count must be between 1 and %d", domain.ErrInvalidConfig, domain.MaxTeams)
	}
	return cfg.Validate()
}
