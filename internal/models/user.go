package models

type Role string

const (
	RoleAdmin   Role = "admin"
	RoleTeacher Role = "teacher"
	RoleStudent Role = "student"
)

type User struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
	Name         string `json:"name"`
	Role         Role   `json:"role"`
	IsSuperuser  bool   `json:"is_superuser"`
	IsActive     bool   `json:"is_active"`
}

// HasAdminAccess — единственное место, где живёт проверка "админ или суперюзер".
func (u *User) HasAdminAccess() bool {
	return u.IsSuperuser || u.Role == RoleAdmin
}

// CanEdit — право редактировать дашборд (админ или учитель).
func (u *User) CanEdit() bool {
	return u.HasAdminAccess() || u.Role == RoleTeacher
}
