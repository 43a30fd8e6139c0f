package core

import (
	"fmt"
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
)

// State is the mutable part of a room. It is only handed out inside
// Room.Do and Room.View, never stored by callers.
type State struct {
	ID     domain.RoomID
	Status domain.RoomStatus
	Config domain.RoomConfig
	Teams  []*Team

	pending []event
}

type event struct {
	name string
	data any
}

// Emit queues a broadcast. Queued events reach the sink only if the
// operation commits, and in commit order.
func (s *State) Emit(name string, data any) {
	s.pending = append(s.pending, event{name: name, data: data})
}

func (s *State) Started() bool { return s.Status == domain.StatusStarted }

func (s *State) Team(id domain.TeamID) (*Team, bool) {
	for _, t := range s.Teams {
		if t.ID == id {
			return t, true
		}
	}
	return nil, false
}

// Locate returns the team holding pid, or Unassigned. A player found in
// more than one team is reported as an invariant violation.
func (s *State) Locate(pid domain.PlayerID) (domain.TeamID, error) {
	found := domain.Unassigned
	for _, t := range s.Teams {
		if !t.Has(pid) {
			continue
		}
		if found != domain.Unassigned {
			return domain.Unassigned, &domain.InvariantError{
				Room:   s.ID,
				Detail: fmt.Sprintf("player %s in teams %d and %d", pid, found, t.ID),
			}
		}
		found = t.ID
	}
	return found, nil
}

func (s *State) PlayerCount() int {
	n := 0
	for _, t := range s.Teams {
		n += t.Len()
	}
	return n
}

// Move takes p out of from and puts a fresh, not ready member into to.
// Either side may be Unassigned. Rule checks belong to the caller.
func (s *State) Move(p domain.Player, from, to domain.TeamID) {
	if t, ok := s.Team(from); ok {
		t.remove(p.ID)
	}
	if t, ok := s.Team(to); ok {
		t.add(domain.NewMember(p))
	}
}

func (s *State) Start() { s.Status = domain.StatusStarted }

func (s *State) SetConfig(cfg domain.RoomConfig) { s.Config = cfg }

// savepoint is a copy of everything an operation may change.
type savepoint struct {
	status  domain.RoomStatus
	config  domain.RoomConfig
	members [][]domain.Member
}

func (s *State) save() savepoint {
	sp := savepoint{status: s.Status, config: s.Config, members: make([][]domain.Member, len(s.Teams))}
	for i, t := range s.Teams {
		sp.members[i] = t.Members()
	}
	return sp
}

func (s *State) restore(sp savepoint) {
	s.Status = sp.status
	s.Config = sp.config
	for i, t := range s.Teams {
		t.members = t.members[:0]
		for _, m := range sp.members[i] {
			m := m
			t.members = append(t.members, &m)
		}
	}
}

// CheckInvariants verifies unique membership and team capacity.
func (s *State) CheckInvariants() error {
	seen := make(map[domain.PlayerID]domain.TeamID)
	for _, t := range s.Teams {
		if s.Config.TeamCapacity > 0 && t.Len() > s.Config.TeamCapacity {
			return &domain.InvariantError{
				Room:   s.ID,
				Detail: fmt.Sprintf("team %d has %d members, capacity %d", t.ID, t.Len(), s.Config.TeamCapacity),
			}
		}
		for _, m := range t.members {
			if prev, dup := seen[m.Player.ID]; dup {
				return &domain.InvariantError{
					Room:   s.ID,
					Detail: fmt.Sprintf("player %s in teams %d and %d", m.Player.ID, prev, t.ID),
				}
			}
			seen[m.Player.ID] = t.ID
		}
	}
	return nil
}

// Room is a threadsafe in-memory room. All reads and writes of its state
// go through one mutex, so operations on the same room form a total order
// while different rooms never contend.
type Room struct {
	id   domain.RoomID
	sink Sink

	mu         sync.Mutex
	state      State
	lastActive time.Time
}

func NewRoom(id domain.RoomID, cfg domain.RoomConfig, teamCount int, now time.Time) *Room {
	teams := make([]*Team, 0, teamCount)
	for i := 1; i <= teamCount; i++ {
		teams = append(teams, newTeam(domain.TeamID(i)))
	}
	return &Room{
		id: id,
		state: State{
			ID:     id,
			Status: domain.StatusWaiting,
			Config: cfg,
			Teams:  teams,
		},
		lastActive: now,
	}
}

func (r *Room) ID() domain.RoomID { return r.id }

// Do runs fn with exclusive access to the room state. Guard checks made
// inside fn and the mutation that follows them are one atomic step.
// If fn fails or leaves an invariant broken, the state is rolled back.
// Events emitted by fn are delivered before the lock is released.
func (r *Room) Do(fn func(s *State) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.state.pending = nil }()

	sp := r.state.save()
	if err := fn(&r.state); err != nil {
		r.state.restore(sp)
		return err
	}
	if err := r.state.CheckInvariants(); err != nil {
		r.state.restore(sp)
		return err
	}
	r.lastActive = time.Now()
	if r.sink != nil {
		for _, ev := range r.state.pending {
			r.sink.Broadcast(r.id, ev.name, ev.data)
		}
	}
	return nil
}

// View runs fn under the room lock without marking the room active.
// Events emitted inside View are dropped.
func (r *Room) View(fn func(s *State)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	defer func() { r.state.pending = nil }()
	fn(&r.state)
}

func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		ID:      r.id,
		Name:    r.state.Config.Name,
		Mode:    r.state.Config.Mode,
		Status:  r.state.Status,
		Players: r.state.PlayerCount(),
	}
}

// evictable reports whether the room is finished or abandoned and has
// been idle for longer than ttl.
func (r *Room) evictable(now time.Time, ttl time.Duration) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if now.Sub(r.lastActive) < ttl {
		return false
	}
	return r.state.Started() || r.state.PlayerCount() == 0
}
