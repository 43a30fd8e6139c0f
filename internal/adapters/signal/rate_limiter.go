package signal

import (
	"sync"
	"time"

	"github.com/dkeye/Lobby/internal/domain"
)

// RoomRateLimiter is a sliding window limiter keyed by player.
type RoomRateLimiter struct {
	mu       sync.Mutex
	history  map[domain.PlayerID][]time.Time
	limit    int
	interval time.Duration
	now      func() time.Time
}

func NewRoomRateLimiter(limit int, interval time.Duration) *RoomRateLimiter {
	return &RoomRateLimiter{
		history:  make(map[domain.PlayerID][]time.Time),
		limit:    limit,
		interval: interval,
		now:      time.Now,
	}
}

func (rl *RoomRateLimiter) Allow(pid domain.PlayerID) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	windowStart := now.Add(-rl.interval)

	attempts := rl.history[pid]
	fresh := make([]time.Time, 0, len(attempts))
	for _, t := range attempts {
		if t.After(windowStart) {
			fresh = append(fresh, t)
		}
	}

	if len(fresh) >= rl.limit {
		rl.history[pid] = fresh
		return false
	}

	rl.history[pid] = append(fresh, now)
	return true
}

// Prune drops players whose attempts have all left the window. Players
// still inside their window keep their history across reconnects.
func (rl *RoomRateLimiter) Prune() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	windowStart := rl.now().Add(-rl.interval)
	for pid, attempts := range rl.history {
		if len(attempts) == 0 || !attempts[len(attempts)-1].After(windowStart) {
			delete(rl.history, pid)
		}
	}
}
