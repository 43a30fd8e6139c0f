// Package domain contains entity without logic, just meta-data
package domain

import (
	"errors"
	"strings"

	"github.com/google/uuid"
)

const (
	MaxPlayerIDLen   = 64
	MaxPlayerNameLen = 36
	DefaultName      = "guest"
)

var (
	ErrNameTooLong = errors.New("name too long")
	ErrNameEmpty   = errors.New("name empty")
)

type PlayerID string

// Player is the caller identity handed over by the identity layer.
// The core only uses ID for membership bookkeeping.
type Player struct {
	ID   PlayerID `json:"id"`
	Name string   `json:"name"`
}

// NewPlayer builds a player with a fresh id.
func NewPlayer(name string) (Player, error) {
	if err := ValidateName(name); err != nil {
		return Player{}, err
	}
	return Player{ID: PlayerID(uuid.NewString()), Name: name}, nil
}

func ValidateName(name string) error {
	if len(strings.TrimSpace(name)) == 0 {
		return ErrNameEmpty
	}
	if len(name) > MaxPlayerNameLen {
		return ErrNameTooLong
	}
	return nil
}

func (p *Player) SetName(name string) error {
	if err := ValidateName(name); err != nil {
		return err
	}
	p.Name = name
	return nil
}
