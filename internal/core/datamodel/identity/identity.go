package identity

import (
	"database/sql"
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID           int64     `gorm:"primaryKey"`
	Username     string    `gorm:"column:username;size:50;uniqueIndex;not null"`
	Email        string    `gorm:"column:email;size:100;uniqueIndex;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	FullName     string    `gorm:"column:full_name;size:100;not null"`
	IsActive     bool      `gorm:"column:is_active;not null"`
	StudentCode  *string   `gorm:"column:student_code;size:20;index"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`

	Roles []Role `gorm:"many2many:user_roles;joinForeignKey:UserID;joinReferences:RoleName"`
}

func (User) TableName() string { return "users" }

type Role struct {
	Name        string `gorm:"column:name;size:50;primaryKey"`
	Description string `gorm:"column:description;size:255"`

	Permissions []Permission `gorm:"many2many:role_permissions;joinForeignKey:RoleName;joinReferences:PermissionName"`
}

func (Role) TableName() string { return "roles" }

type Permission struct {
	Name        string `gorm:"column:name;size:100;primaryKey"`
	Description string `gorm:"column:description;size:255"`
}

func (Permission) TableName() string { return "permissions" }

// UserRole is the user_roles join row.
type UserRole struct {
	UserID   int64  `gorm:"column:user_id;primaryKey"`
	RoleName string `gorm:"column:role_name;size:50;primaryKey"`
}

func (UserRole) TableName() string { return "user_roles" }

// RolePermission is the role_permissions join row.
type RolePermission struct {
	RoleName       string `gorm:"column:role_name;size:50;primaryKey"`
	PermissionName string `gorm:"column:permission_name;size:100;primaryKey"`
}

func (RolePermission) TableName() string { return "role_permissions" }

// Models lists the tables in dependency order for AutoMigrate.
func Models() []interface{} {
	return []interface{}{&Permission{}, &Role{}, &User{}, &UserRole{}, &RolePermission{}}
}

// SnapshotTxOptions returns options for a read transaction in which the
// preload queries of a user graph all observe the same snapshot.
func SnapshotTxOptions(db *gorm.DB) *sql.TxOptions {
	if db.Dialector != nil && db.Dialector.Name() == "postgres" {
		return &sql.TxOptions{Isolation: sql.LevelRepeatableRead, ReadOnly: true}
	}
	return nil
}

// WithGraph eager-loads roles and their permissions.
func WithGraph(db *gorm.DB) *gorm.DB {
	return db.Preload("Roles.Permissions")
}
