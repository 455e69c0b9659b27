package models

import (
	"time"
)

// Role IDs used across route guards. Kept in sync with the roles table seed.
const (
	RoleIntern     = 1
	RoleSupervisor = 2
	RoleAdmin      = 3
)

type User struct {
	UserID       int        `gorm:"primaryKey;column:user_id" json:"user_id"`
	UserFname    string     `gorm:"column:user_fname" json:"user_fname"`
	UserLname    string     `gorm:"column:user_lname" json:"user_lname"`
	Email        string     `gorm:"column:email;unique" json:"email"`
	Password     string     `gorm:"column:password" json:"-"`
	RoleID       int        `gorm:"column:role_id" json:"role_id"`
	SpecialtyID  *int       `gorm:"column:specialty_id" json:"specialty_id,omitempty"`
	SupervisorID *int       `gorm:"column:supervisor_id" json:"supervisor_id,omitempty"`
	Phone        *string    `gorm:"column:phone" json:"phone,omitempty"`
	StartDate    *time.Time `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate      *time.Time `gorm:"column:end_date" json:"end_date,omitempty"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt     *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	Role       Role       `gorm:"foreignKey:RoleID" json:"role,omitempty"`
	Specialty  *Specialty `gorm:"foreignKey:SpecialtyID" json:"specialty,omitempty"`
	Supervisor *User      `gorm:"foreignKey:SupervisorID" json:"supervisor,omitempty"`
}

type Role struct {
	RoleID   int        `gorm:"primaryKey;column:role_id" json:"role_id"`
	Role     string     `gorm:"column:role" json:"role"`
	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// Specialty is the field of study an intern is placed under.
type Specialty struct {
	SpecialtyID   int        `gorm:"primaryKey;column:specialty_id" json:"specialty_id"`
	SpecialtyName string     `gorm:"column:specialty_name" json:"specialty_name"`
	Description   *string    `gorm:"column:description" json:"description,omitempty"`
	CreateAt      *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt      *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt      *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (User) TableName() string {
	return "users"
}

func (Role) TableName() string {
	return "roles"
}

func (Specialty) TableName() string {
	return "specialties"
}

func (u *User) FullName() string {
	return u.UserFname + " " + u.UserLname
}

func (u *User) IsIntern() bool {
	return u.RoleID == RoleIntern
}

func (u *User) IsSupervisor() bool {
	return u.RoleID == RoleSupervisor
}

func (u *User) IsAdmin() bool {
	return u.RoleID == RoleAdmin
}
