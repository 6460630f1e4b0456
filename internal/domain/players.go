package domain

// Player is a canonical player record.
type Player struct {
	ID        int    `json:"id"`
	FullName  string `json:"fullname"`
	FirstName string `json:"firstname,omitempty"`
	LastName  string `json:"lastname,omitempty"`
	Image     string `json:"image_path,omitempty"`
	Country   string `json:"country,omitempty"`
	Role      string `json:"role,omitempty"`
}

// positionRoles is the fixed mapping from the upstream numeric position id
// to a coarse role label.
var positionRoles = map[int]string{
	1: "batsman",
	2: "bowler",
	3: "allrounder",
	4: "wicketkeeper",
}

// RoleForPosition returns the role label for a position id, or "" when the
// code is unknown.
func RoleForPosition(position int) string {
	return positionRoles[position]
}
