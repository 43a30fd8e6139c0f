// Package identity resolves the caller of a request into a domain.Player.
// Credentials are checked upstream; an X-Player-ID header is trusted as is.
package identity

import (
	"net/http"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/dkeye/Lobby/internal/adapters/errcode"
	"github.com/dkeye/Lobby/internal/domain"
)

const (
	HeaderPlayerID   = "X-Player-ID"
	HeaderPlayerName = "X-Player-Name"

	tokenCookie = "ct"
	sessionName = "name"
	contextKey  = "player"
)

func genClientToken() string {
	return uuid.NewString()
}

// Middleware puts the caller into the gin context. It must run after the
// sessions middleware.
func Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(HeaderPlayerID)
		if len(id) > domain.MaxPlayerIDLen {
			c.AbortWithStatusJSON(http.StatusBadRequest, errcode.Status{Code: errcode.BadPayload, Message: "player id too long"})
			return
		}
		if id == "" {
			id, _ = c.Cookie(tokenCookie)
		}
		if id == "" {
			id = genClientToken()
			c.SetCookie(tokenCookie, id, 3600*24*7, "/", "", false, true)
		}

		name := c.GetHeader(HeaderPlayerName)
		if name == "" {
			if v, ok := sessions.Default(c).Get(sessionName).(string); ok {
				name = v
			}
		}
		if domain.ValidateName(name) != nil {
			name = domain.DefaultName
		}

		c.Set(contextKey, domain.Player{ID: domain.PlayerID(id), Name: name})
		c.Next()
	}
}

// FromContext returns the caller resolved by Middleware.
func FromContext(c *gin.Context) (domain.Player, bool) {
	v, ok := c.Get(contextKey)
	if !ok {
		return domain.Player{}, false
	}
	p, ok := v.(domain.Player)
	return p, ok
}

// WhoAmI answers GET /api/me.
func WhoAmI(c *gin.Context) {
	p, ok := FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errcode.Status{Code: errcode.BadPayload, Message: "no identity"})
		return
	}
	c.JSON(http.StatusOK, p)
}

type renameRequest struct {
	Name string `json:"name" binding:"required"`
}

// Rename answers PUT /api/me and keeps the display name in the session.
func Rename(c *gin.Context) {
	p, ok := FromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, errcode.Status{Code: errcode.BadPayload, Message: "no identity"})
		return
	}
	var req renameRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, errcode.Status{Code: errcode.BadPayload, Message: err.Error()})
		return
	}
	if err := p.SetName(req.Name); err != nil {
		st := errcode.Of(err)
		c.JSON(st.HTTP, st)
		return
	}

	s := sessions.Default(c)
	s.Set(sessionName, p.Name)
	if err := s.Save(); err != nil {
		log.Error().Err(err).Str("module", "identity").Str("player", string(p.ID)).Msg("save session")
		c.JSON(http.StatusInternalServerError, errcode.Status{Code: errcode.Internal, Message: "internal error"})
		return
	}
	c.Set(contextKey, p)
	log.Info().Str("module", "identity").Str("player", string(p.ID)).Str("name", p.Name).Msg("rename")
	c.JSON(http.StatusOK, p)
}
