package model

type UserRole string

const (
	RoleUser  UserRole = "user"
	RoleAdmin UserRole = "admin"
)

// swagger:model User
type User struct {
	RecordBase
	Name     string   `gorm:"size:100" json:"name"`
	Email    string   `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Password string   `gorm:"size:100;not null" json:"-"`
	Role     UserRole `gorm:"size:20;default:'user';not null" json:"role"`
}

func (User) TableName() string {
	return "users"
}

// DisplayName is the name shown on certificates; the email stands in when no name was given.
func (u *User) DisplayName() string {
	if u.Name != "" {
		return u.Name
	}
	return u.Email
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
