package domain

// Member represents player's participation meta for a team.
// No transport or lifecycle logic here.
type Member struct {
	Player Player
	Ready  bool
}

// NewMember avoids raw literals in services and keeps construction obvious.
func NewMember(p Player) *Member {
	return &Member{Player: p}
}
