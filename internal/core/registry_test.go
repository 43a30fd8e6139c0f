package core_test

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

func lobbyConfig() domain.RoomConfig {
	return domain.RoomConfig{Name: "lobby", Mode: "classic", Capacity: 8, TeamCapacity: 4}
}

func TestRegistry_GetMissing(t *testing.T) {
	reg := core.NewRegistry(nil)

	room, err := reg.Get(42)
	assert.Nil(t, room)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
}

func TestRegistry_Create(t *testing.T) {
	tests := []struct {
		name      string
		id        domain.RoomID
		cfg       domain.RoomConfig
		teamCount int
		wantErr   error
	}{
		{name: "explicit id", id: 7, cfg: lobbyConfig(), teamCount: 2},
		{name: "auto id", id: 0, cfg: lobbyConfig(), teamCount: 2},
		{name: "no teams", id: 8, cfg: lobbyConfig(), teamCount: 0, wantErr: domain.ErrInvalidConfig},
		{name: "too many teams", id: 9, cfg: lobbyConfig(), teamCount: domain.MaxTeams + 1, wantErr: domain.ErrInvalidConfig},
		{name: "empty name", id: 10, cfg: domain.RoomConfig{}, teamCount: 2, wantErr: domain.ErrInvalidConfig},
		{name: "negative id", id: -1, cfg: lobbyConfig(), teamCount: 2, wantErr: domain.ErrInvalidConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := core.NewRegistry(nil)
			room, err := reg.Create(tt.id, tt.cfg, tt.teamCount)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Zero(t, reg.Len())
				return
			}
			require.NoError(t, err)
			if tt.id != 0 {
				assert.Equal(t, tt.id, room.ID())
			} else {
				assert.Equal(t, domain.RoomID(1), room.ID())
			}

			got, err := reg.Get(room.ID())
			require.NoError(t, err)
			assert.Same(t, room, got)

			room.View(func(s *core.State) {
				assert.Equal(t, domain.StatusWaiting, s.Status)
				assert.Len(t, s.Teams, tt.teamCount)
				assert.Equal(t, domain.TeamID(1), s.Teams[0].ID)
			})
		})
	}
}

func TestRegistry_CreateDuplicate(t *testing.T) {
	reg := core.NewRegistry(nil)
	_, err := reg.Create(3, lobbyConfig(), 2)
	require.NoError(t, err)

	_, err = reg.Create(3, lobbyConfig(), 2)
	assert.ErrorIs(t, err, domain.ErrRoomExists)
}

func TestRegistry_AutoIDSkipsTaken(t *testing.T) {
	reg := core.NewRegistry(nil)
	_, err := reg.Create(1, lobbyConfig(), 2)
	require.NoError(t, err)
	_, err = reg.Create(2, lobbyConfig(), 2)
	require.NoError(t, err)

	room, err := reg.Create(0, lobbyConfig(), 2)
	require.NoError(t, err)
	assert.Equal(t, domain.RoomID(3), room.ID())
}

func TestRegistry_GetOrCreate(t *testing.T) {
	reg := core.NewRegistry(nil)

	first, created, err := reg.GetOrCreate(5, lobbyConfig(), 2)
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := reg.GetOrCreate(5, lobbyConfig(), 3)
	require.NoError(t, err)
	assert.False(t, created)
	assert.Same(t, first, second)

	_, _, err = reg.GetOrCreate(0, lobbyConfig(), 2)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestRegistry_GetOrCreateConcurrent(t *testing.T) {
	reg := core.NewRegistry(nil)

	const workers = 50
	rooms := make([]*core.Room, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			room, _, err := reg.GetOrCreate(11, lobbyConfig(), 2)
			assert.NoError(t, err)
			rooms[i] = room
		}(i)
	}
	wg.Wait()

	for _, room := range rooms {
		assert.Same(t, rooms[0], room)
	}
	assert.Equal(t, 1, reg.Len())
}

func TestRegistry_ListAndRemove(t *testing.T) {
	reg := core.NewRegistry(nil)
	for _, id := range []domain.RoomID{3, 1, 2} {
		cfg := lobbyConfig()
		cfg.Name = fmt.Sprintf("room-%d", id)
		_, err := reg.Create(id, cfg, 2)
		require.NoError(t, err)
	}

	list := reg.List()
	require.Len(t, list, 3)
	assert.Equal(t, domain.RoomID(1), list[0].ID)
	assert.Equal(t, "room-1", list[0].Name)
	assert.Equal(t, domain.RoomID(3), list[2].ID)

	assert.True(t, reg.Remove(2))
	assert.False(t, reg.Remove(2))
	_, err := reg.Get(2)
	assert.ErrorIs(t, err, domain.ErrRoomNotFound)
	assert.Equal(t, 2, reg.Len())
}

func TestRegistry_Sweep(t *testing.T) {
	reg := core.NewRegistry(nil)

	empty, err := reg.Create(1, lobbyConfig(), 2)
	require.NoError(t, err)

	busy, err := reg.Create(2, lobbyConfig(), 2)
	require.NoError(t, err)
	require.NoError(t, busy.Do(func(s *core.State) error {
		s.Move(domain.Player{ID: "p1", Name: "one"}, domain.Unassigned, 1)
		return nil
	}))

	started, err := reg.Create(3, lobbyConfig(), 2)
	require.NoError(t, err)
	require.NoError(t, started.Do(func(s *core.State) error {
		s.Move(domain.Player{ID: "p2", Name: "two"}, domain.Unassigned, 1)
		s.Start()
		return nil
	}))

	// Nothing is idle long enough yet.
	assert.Empty(t, reg.Sweep(time.Now(), time.Hour))

	removed := reg.Sweep(time.Now().Add(2*time.Hour), time.Hour)
	assert.Equal(t, []domain.RoomID{empty.ID(), started.ID()}, removed)

	_, err = reg.Get(busy.ID())
	assert.NoError(t, err)
	assert.Equal(t, 1, reg.Len())
}
