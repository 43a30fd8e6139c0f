package http

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/dkeye/Lobby/internal/adapters/errcode"
	"github.com/dkeye/Lobby/internal/adapters/identity"
	"github.com/dkeye/Lobby/internal/app/orch"
	"github.com/dkeye/Lobby/internal/domain"
)

type roomHandlers struct {
	orch *orch.Orchestrator
}

type CreateRoomRequest struct {
	ID           int64  `json:"id" binding:"gte=0"`
	Name         string `json:"name" binding:"required,max=36"`
	Mode         string `json:"mode" binding:"max=32"`
	Capacity     int    `json:"capacity" binding:"gte=0"`
	TeamCapacity int    `json:"team_capacity" binding:"gte=0"`
	Teams        int    `json:"teams" binding:"gte=0,lte=16"`
}

func writeError(c *gin.Context, err error) {
	st := errcode.Of(err)
	c.JSON(st.HTTP, st)
}

func roomParam(c *gin.Context) (domain.RoomID, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, fmt.Errorf("%w: invalid room id %q", errcode.ErrBadPayload, c.Param("id")))
		return 0, false
	}
	return domain.RoomID(id), true
}

func (h *roomHandlers) list(c *gin.Context) {
	c.JSON(http.StatusOK, h.orch.List())
}

func (h *roomHandlers) create(c *gin.Context) {
	var req CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, fmt.Errorf("%w: %v", errcode.ErrBadPayload, err))
		return
	}
	view, err := h.orch.CreateRoom(domain.RoomID(req.ID), domain.RoomConfig{
		Name:         req.Name,
		Mode:         req.Mode,
		Capacity:     req.Capacity,
		TeamCapacity: req.TeamCapacity,
	}, req.Teams)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *roomHandlers) ensure(c *gin.Context) {
	id, ok := roomParam(c)
	if !ok {
		return
	}
	view, created, err := h.orch.EnsureRoom(id)
	if err != nil {
		writeError(c, err)
		return
	}
	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	c.JSON(status, view)
}

func (h *roomHandlers) snapshot(c *gin.Context) {
	id, ok := roomParam(c)
	if !ok {
		return
	}
	view, err := h.orch.Snapshot(id)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *roomHandlers) evict(c *gin.Context) {
	id, ok := roomParam(c)
	if !ok {
		return
	}
	if !h.orch.EvictRoom(id) {
		writeError(c, fmt.Errorf("room %d: %w", id, domain.ErrRoomNotFound))
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *roomHandlers) start(c *gin.Context) {
	id, ok := roomParam(c)
	if !ok {
		return
	}
	p, _ := identity.FromContext(c)
	res, err := h.orch.Start(id, p)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
