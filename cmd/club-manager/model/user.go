package model

type Role string

var (
	RoleAdmin    Role = "admin"
	RoleClubHead Role = "club_head"
	RoleMember   Role = "member" // legacy name for club_head
	RoleStudent  Role = "student"
)

// Normalize folds the legacy "member" role into club_head.
func (r Role) Normalize() Role {
	if r == RoleMember {
		return RoleClubHead
	}
	return r
}

func (r Role) Valid() bool {
	switch r.Normalize() {
	case RoleAdmin, RoleClubHead, RoleStudent:
		return true
	}
	return false
}

type User struct {
	ID           string `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"passwordHash"`
	Role         Role   `json:"role"`
	Name         string `json:"name"`
}

func (u User) Actor() Actor {
	return Actor{
		ID:       u.ID,
		Username: u.Username,
		Name:     u.Name,
		Role:     u.Role.Normalize(),
	}
}

// Actor is the identity every service call runs as.
type Actor struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Name     string `json:"name"`
	Role     Role   `json:"role"`
}

func (a Actor) IsAdmin() bool {
	return a.Role.Normalize() == RoleAdmin
}

func (a Actor) IsClubHead() bool {
	return a.Role.Normalize() == RoleClubHead
}
