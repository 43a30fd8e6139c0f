package core

import "github.com/dkeye/Lobby/internal/domain"

// Team is an ordered member list. It is only reachable through a room's
// State, so every access happens under that room's lock.
type Team struct {
	ID      domain.TeamID
	members []*domain.Member
}

func newTeam(id domain.TeamID) *Team {
	return &Team{ID: id}
}

func (t *Team) Len() int { return len(t.members) }

func (t *Team) Has(pid domain.PlayerID) bool { return t.index(pid) >= 0 }

func (t *Team) Member(pid domain.PlayerID) (*domain.Member, bool) {
	if i := t.index(pid); i >= 0 {
		return t.members[i], true
	}
	return nil, false
}

// Members returns a copy safe to hand out after the lock is released.
func (t *Team) Members() []domain.Member {
	out := make([]domain.Member, 0, len(t.members))
	for _, m := range t.members {
		out = append(out, *m)
	}
	return out
}

// Ready reports the team aggregate: at least one member and all members ready.
func (t *Team) Ready() bool {
	if len(t.members) == 0 {
		return false
	}
	for _, m := range t.members {
		if !m.Ready {
			return false
		}
	}
	return true
}

func (t *Team) index(pid domain.PlayerID) int {
	for i, m := range t.members {
		if m.Player.ID == pid {
			return i
		}
	}
	return -1
}

func (t *Team) add(m *domain.Member) {
	t.members = append(t.members, m)
}

func (t *Team) remove(pid domain.PlayerID) *domain.Member {
	i := t.index(pid)
	if i < 0 {
		return nil
	}
	m := t.members[i]
	t.members = append(t.members[:i], t.members[i+1:]...)
	return m
}
