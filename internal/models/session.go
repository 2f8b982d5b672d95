package models

type Role string

const (
	RoleInstructor  Role = "instructor"
	RoleCoordinator Role = "coordinator"
	RoleApprentice  Role = "apprentice"
)

// Session - результат успешного входа.
// FichaID и Apprentice заполнены только для роли apprentice.
type Session struct {
	Role       Role        `json:"role"`
	Username   string      `json:"username"`
	FichaID    string      `json:"ficha_id,omitempty"`
	Apprentice *Apprentice `json:"apprentice,omitempty"`
}

// CanManage reports whether the role may inspect any apprentice.
func (s Session) CanManage() bool {
	return s.Role == RoleInstructor || s.Role == RoleCoordinator
}
