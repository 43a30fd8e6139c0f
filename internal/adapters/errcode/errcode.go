// Package errcode maps core errors to the codes and statuses clients see.
package errcode

import (
	"errors"
	"net/http"

	"github.com/dkeye/Lobby/internal/domain"
)

// Transport level rejections.
var (
	ErrBadPayload   = errors.New("bad payload")
	ErrUnknownEvent = errors.New("unknown event")
	ErrRateLimited  = errors.New("rate limited")
)

const (
	RoomNotFound       = "ROOM_NOT_FOUND"
	RoomExists         = "ROOM_EXISTS"
	RoomAlreadyStarted = "ROOM_ALREADY_STARTED"
	PlayerNotInTeam    = "PLAYER_NOT_IN_TEAM"
	TeamNotFound       = "TEAM_NOT_FOUND"
	TeamFull           = "TEAM_FULL"
	RoomFull           = "ROOM_FULL"
	InvalidConfig      = "INVALID_CONFIG"
	BadPayload         = "BAD_PAYLOAD"
	UnknownEvent       = "UNKNOWN_EVENT"
	RateLimited        = "RATE_LIMITED"
	Internal           = "INTERNAL"
)

type Status struct {
	Code    string `json:"code"`
	HTTP    int    `json:"-"`
	Message string `json:"message"`
}

var table = []struct {
	err  error
	code string
	http int
}{
	{domain.ErrRoomNotFound, RoomNotFound, http.StatusNotFound},
	{domain.ErrRoomExists, RoomExists, http.StatusConflict},
	{domain.ErrRoomAlreadyStarted, RoomAlreadyStarted, http.StatusConflict},
	{domain.ErrPlayerNotInTeam, PlayerNotInTeam, http.StatusForbidden},
	{domain.ErrTeamNotFound, TeamNotFound, http.StatusNotFound},
	{domain.ErrTeamFull, TeamFull, http.StatusConflict},
	{domain.ErrRoomFull, RoomFull, http.StatusConflict},
	{domain.ErrInvalidConfig, InvalidConfig, http.StatusBadRequest},
	{domain.ErrNameEmpty, BadPayload, http.StatusBadRequest},
	{domain.ErrNameTooLong, BadPayload, http.StatusBadRequest},
	{ErrBadPayload, BadPayload, http.StatusBadRequest},
	{ErrUnknownEvent, UnknownEvent, http.StatusBadRequest},
	{ErrRateLimited, RateLimited, http.StatusTooManyRequests},
}

// Of classifies err. Anything unknown, including invariant violations, is
// reported as an internal error without its details.
func Of(err error) Status {
	if !domain.IsInvariant(err) {
		for _, e := range table {
			if errors.Is(err, e.err) {
				return Status{Code: e.code, HTTP: e.http, Message: err.Error()}
			}
		}
	}
	return Status{Code: Internal, HTTP: http.StatusInternalServerError, Message: "internal error"}
}
