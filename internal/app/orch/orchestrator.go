package orch

import (
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lobby/internal/app"
	"github.com/dkeye/Lobby/internal/core"
	"github.com/dkeye/Lobby/internal/domain"
)

// Defaults are applied to rooms created without explicit settings.
type Defaults struct {
	Config    domain.RoomConfig
	TeamCount int
}

// Orchestrator runs one core operation per inbound request. Results reach
// subscribers through the hub, which the registry holds as its sink.
type Orchestrator struct {
	Rooms    *core.Registry
	Hub      *app.Hub
	Teams    *app.TeamAssignmentService
	Ready    *app.ReadinessService
	Settings *app.RoomConfigService
	Defaults Defaults
}

func New(rooms *core.Registry, hub *app.Hub, defaults Defaults) *Orchestrator {
	if defaults.TeamCount == 0 {
		defaults.TeamCount = 2
	}
	return &Orchestrator{
		Rooms:    rooms,
		Hub:      hub,
		Teams:    app.NewTeamAssignmentService(rooms),
		Ready:    app.NewReadinessService(rooms),
		Settings: app.NewRoomConfigService(rooms),
		Defaults: defaults,
	}
}

// rejected logs a failed operation. Invariant violations are defects and
// logged as errors; business rejections are routine.
func (o *Orchestrator) rejected(op string, roomID domain.RoomID, pid domain.PlayerID, err error) error {
	ev := log.Debug()
	if domain.IsInvariant(err) {
		ev = log.Error()
	}
	ev.Err(err).Str("module", "orch").Str("op", op).Int64("room", int64(roomID)).Str("player", string(pid)).Msg("operation rejected")
	return err
}
