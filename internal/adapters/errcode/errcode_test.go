package errcode_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dkeye/Lobby/internal/adapters/errcode"
	"github.com/dkeye/Lobby/internal/domain"
)

func TestOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code string
		http int
	}{
		{"room not found", fmt.Errorf("room 3: %w", domain.ErrRoomNotFound), errcode.RoomNotFound, http.StatusNotFound},
		{"already started", domain.ErrRoomAlreadyStarted, errcode.RoomAlreadyStarted, http.StatusConflict},
		{"not in team", domain.ErrPlayerNotInTeam, errcode.PlayerNotInTeam, http.StatusForbidden},
		{"team not found", domain.ErrTeamNotFound, errcode.TeamNotFound, http.StatusNotFound},
		{"team full", domain.ErrTeamFull, errcode.TeamFull, http.StatusConflict},
		{"room full", domain.ErrRoomFull, errcode.RoomFull, http.StatusConflict},
		{"invalid config", domain.ErrInvalidConfig, errcode.InvalidConfig, http.StatusBadRequest},
		{"rate limited", errcode.ErrRateLimited, errcode.RateLimited, http.StatusTooManyRequests},
		{"unknown", errors.New("boom"), errcode.Internal, http.StatusInternalServerError},
		{"invariant", &domain.InvariantError{Room: 1, Detail: "dup"}, errcode.Internal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := errcode.Of(tt.err)
			assert.Equal(t, tt.code, st.Code)
			assert.Equal(t, tt.http, st.HTTP)
		})
	}
}

func TestOf_HidesInternalDetails(t *testing.T) {
	st := errcode.Of(&domain.InvariantError{Room: 1, Detail: "player p in teams 1 and 2"})
	assert.Equal(t, "internal error", st.Message)
}
