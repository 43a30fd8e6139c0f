package app_test

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dkeye/Lobby/internal/domain"
)

func TestUpdateConfig(t *testing.T) {
	l := newLobby(t, defaultConfig())

	cfg := domain.RoomConfig{Name: "finals", Mode: "ranked", Capacity: 6, TeamCapacity: 3}
	res, err := l.settings.UpdateConfig(roomID, cfg)
	require.NoError(t, err)
	assert.Equal(t, cfg, res.Config)
	assert.Equal(t, domain.StatusWaiting, res.Status)
	assert.Equal(t, cfg, l.snapshot(t).Config)
}

func TestUpdateConfig_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(t *testing.T, l *lobby)
		room    domain.RoomID
		cfg     domain.RoomConfig
		wantErr error
	}{
		{name: "room not found", room: 3, cfg: defaultConfig(), wantErr: domain.ErrRoomNotFound},
		{name: "empty name", cfg: domain.RoomConfig{Mode: "x"}, wantErr: domain.ErrInvalidConfig},
		{name: "negative capacity", cfg: domain.RoomConfig{Name: "a", Capacity: -1}, wantErr: domain.ErrInvalidConfig},
		{
			name: "capacity below players",
			setup: func(t *testing.T, l *lobby) {
				l.assign(t, playerP, teamA)
				l.assign(t, playerQ, teamB)
			},
			cfg:     domain.RoomConfig{Name: "a", Capacity: 1},
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name: "team capacity below team size",
			setup: func(t *testing.T, l *lobby) {
				l.assign(t, playerP, teamA)
				l.assign(t, playerQ, teamA)
			},
			cfg:     domain.RoomConfig{Name: "a", TeamCapacity: 1},
			wantErr: domain.ErrInvalidConfig,
		},
		{
			name: "room started",
			setup: func(t *testing.T, l *lobby) {
				l.assign(t, playerP, teamA)
				_, err := l.settings.Start(roomID, playerP)
				require.NoError(t, err)
			},
			cfg:     domain.RoomConfig{Name: "late"},
			wantErr: domain.ErrRoomAlreadyStarted,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := newLobby(t, defaultConfig())
			if tt.setup != nil {
				tt.setup(t, l)
			}
			room := tt.room
			if room == 0 {
				room = roomID
			}
			before := l.snapshot(t)

			_, err := l.settings.UpdateConfig(room, tt.cfg)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, before, l.snapshot(t))
		})
	}
}

func TestUpdateConfig_NoTornReads(t *testing.T) {
	l := newLobby(t, defaultConfig())

	configs := []domain.RoomConfig{
		{Name: "alpha", Mode: "alpha", Capacity: 10, TeamCapacity: 5},
		{Name: "beta", Mode: "beta", Capacity: 20, TeamCapacity: 10},
	}

	var wg sync.WaitGroup
	stop := make(chan struct{})
	for _, cfg := range configs {
		wg.Add(1)
		go func(cfg domain.RoomConfig) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				_, err := l.settings.UpdateConfig(roomID, cfg)
				assert.NoError(t, err)
			}
		}(cfg)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			select {
			case <-stop:
				return
			default:
			}
			got := l.snapshot(t).Config
			if got.Name == "lobby" {
				continue
			}
			assert.Contains(t, configs, got, "config fields must never mix")
		}
	}()

	wg.Wait()
	close(stop)
	<-done
}

func TestStart(t *testing.T) {
	l := newLobby(t, defaultConfig())

	_, err := l.settings.Start(roomID, playerP)
	assert.ErrorIs(t, err, domain.ErrPlayerNotInTeam, "unassigned players cannot start")

	l.assign(t, playerP, teamA)
	res, err := l.settings.Start(roomID, playerP)
	require.NoError(t, err)
	assert.Equal(t, domain.StatusStarted, res.Status)

	_, err = l.settings.Start(roomID, playerP)
	assert.ErrorIs(t, err, domain.ErrRoomAlreadyStarted)
}

func TestStart_FreezesRoom(t *testing.T) {
	l := newLobby(t, defaultConfig())
	l.assign(t, playerP, teamA)
	l.assign(t, playerQ, teamB)
	_, err := l.settings.Start(roomID, playerP)
	require.NoError(t, err)
	frozen := l.snapshot(t)

	_, err = l.ready.SetReady(roomID, playerP, teamA, true)
	assert.ErrorIs(t, err, domain.ErrRoomAlreadyStarted)
	_, err = l.teams.MoveTeam(roomID, playerP, teamA, teamB)
	assert.ErrorIs(t, err, domain.ErrRoomAlreadyStarted)
	_, _, err = l.teams.Leave(roomID, playerQ)
	assert.ErrorIs(t, err, domain.ErrRoomAlreadyStarted)
	_, err = l.settings.UpdateConfig(roomID, domain.RoomConfig{Name: "changed"})
	assert.ErrorIs(t, err, domain.ErrRoomAlreadyStarted)

	assert.Equal(t, frozen, l.snapshot(t))
}

func TestStart_RacesWithMutations(t *testing.T) {
	l := newLobby(t, defaultConfig())
	l.assign(t, playerP, teamA)
	l.assign(t, playerQ, teamB)

	var wg sync.WaitGroup
	started := make(chan struct{})
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, err := l.settings.Start(roomID, playerP)
		assert.NoError(t, err)
		close(started)
	}()

	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for r := 0; r < 100; r++ {
				_, _ = l.ready.ToggleReady(roomID, playerQ, teamB)
				_, _ = l.settings.UpdateConfig(roomID, domain.RoomConfig{Name: "racing"})
			}
		}()
	}

	<-started
	frozen := l.snapshot(t)
	wg.Wait()

	assert.Equal(t, domain.StatusStarted, frozen.Status)
	assert.Equal(t, frozen, l.snapshot(t), "nothing may change after start")
}
