// Package seed bootstraps the permission catalogue, the roles and a set of
// sample accounts on an empty database.
package seed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/frahmantamala/evaluation-platform/internal/core/datamodel/identity"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type permissionSeed struct {
	Name        string
	Description string
}

type roleSeed struct {
	Name        string
	Description string
	Permissions []string
}

type userSeed struct {
	Username    string
	Email       string
	Password    string
	FullName    string
	StudentCode string
	Roles       []string
}

var permissions = []permissionSeed{
	{"STUDENT:READ_OWN", "View own student record"},
	{"STUDENT:READ_ALL", "View all student records"},
	{"STUDENT:UPDATE_OWN", "Edit own student record"},
	{"STUDENT:CREATE", "Create students"},
	{"STUDENT:DELETE", "Delete students"},
	{"EVALUATION:CREATE", "Create training point evaluations"},
	{"EVALUATION:READ_OWN", "View own evaluations"},
	{"EVALUATION:READ_ALL", "View all evaluations"},
	{"EVALUATION:UPDATE_OWN", "Update own evaluations"},
	{"EVALUATION:SUBMIT", "Submit evaluations"},
	{"EVALUATION:APPROVE", "Approve evaluations"},
	{"EVALUATION:REJECT", "Reject evaluations"},
	{"RUBRIC:READ", "View evaluation rubrics"},
	{"RUBRIC:MANAGE", "Manage rubrics"},
	{"CRITERIA:READ", "View evaluation criteria"},
	{"CRITERIA:MANAGE", "Manage criteria"},
	{"USER:MANAGE", "Manage users"},
	{"SYSTEM:MANAGE", "Administer the system"},
}

var (
	studentGrants  = []string{"STUDENT:READ_OWN", "EVALUATION:CREATE", "EVALUATION:READ_OWN", "EVALUATION:UPDATE_OWN", "EVALUATION:SUBMIT", "RUBRIC:READ", "CRITERIA:READ"}
	classGrants    = append(append([]string{}, studentGrants...), "EVALUATION:READ_ALL", "EVALUATION:APPROVE", "EVALUATION:REJECT")
	reviewerGrants = []string{"STUDENT:READ_ALL", "EVALUATION:READ_ALL", "EVALUATION:APPROVE", "EVALUATION:REJECT", "RUBRIC:READ", "CRITERIA:READ"}
)

var roles = []roleSeed{
	{"STUDENT", "Student", studentGrants},
	{"CLASS_MONITOR", "Class monitor", classGrants},
	{"UNION_REPRESENTATIVE", "Union representative", classGrants},
	{"ADVISOR", "Academic advisor", reviewerGrants},
	{"FACULTY_INSTRUCTOR", "Faculty instructor", reviewerGrants},
	{"CTSV_STAFF", "Student affairs staff", reviewerGrants},
	{"INSTITUTE_COUNCIL", "Institute council", []string{"STUDENT:READ_ALL", "EVALUATION:READ_ALL", "EVALUATION:APPROVE", "RUBRIC:READ", "CRITERIA:READ"}},
	{"INSTRUCTOR", "Instructor", reviewerGrants},
	{"ADMIN", "Administrator", []string{
		"STUDENT:READ_ALL", "STUDENT:CREATE", "STUDENT:DELETE",
		"EVALUATION:READ_ALL", "EVALUATION:APPROVE", "EVALUATION:REJECT",
		"RUBRIC:MANAGE", "CRITERIA:MANAGE", "USER:MANAGE", "SYSTEM:MANAGE",
	}},
}

var users = []userSeed{
	{"admin", "admin@ptit.edu.vn", "Admin123!", "Administrator", "", []string{"ADMIN"}},
	{"student", "n21dccn002@student.ptithcm.edu.vn", "Student123!", "Tran Thi Binh", "N21DCCN002", []string{"STUDENT"}},
	{"classmonitor", "n21dccn001@student.ptithcm.edu.vn", "Monitor123!", "Nguyen Van An", "N21DCCN001", []string{"STUDENT", "CLASS_MONITOR"}},
	{"unionrep", "n21dccn050@student.ptithcm.edu.vn", "Union123!", "Le Van Cuong", "N21DCCN050", []string{"STUDENT", "UNION_REPRESENTATIVE"}},
	{"advisor", "advisor@ptit.edu.vn", "Advisor123!", "Academic Advisor", "", []string{"ADVISOR"}},
	{"faculty", "faculty@ptit.edu.vn", "Faculty123!", "Faculty Instructor", "", []string{"FACULTY_INSTRUCTOR"}},
	{"ctsv", "ctsv@ptit.edu.vn", "Ctsv123!", "Student Affairs Staff", "", []string{"CTSV_STAFF"}},
	{"council", "council@ptit.edu.vn", "Council123!", "Institute Council", "", []string{"INSTITUTE_COUNCIL"}},
	{"instructor", "instructor@ptit.edu.vn", "Instructor123!", "Sample Instructor", "", []string{"INSTRUCTOR"}},
}

type Seeder struct {
	db         *gorm.DB
	bcryptCost int
	logger     *slog.Logger
}

func NewSeeder(db *gorm.DB, bcryptCost int, logger *slog.Logger) *Seeder {
	if bcryptCost == 0 {
		bcryptCost = bcrypt.DefaultCost
	}
	return &Seeder{db: db, bcryptCost: bcryptCost, logger: logger}
}

// Run seeds an empty database in one transaction. It reports false without
// touching anything when any role already exists.
func (s *Seeder) Run(ctx context.Context) (bool, error) {
	var existing int64
	if err := s.db.WithContext(ctx).Model(&identity.Role{}).Count(&existing).Error; err != nil {
		return false, fmt.Errorf("seed: count roles: %w", err)
	}
	if existing > 0 {
		s.logger.InfoContext(ctx, "database already seeded", "roles", existing)
		return false, nil
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := seedPermissions(tx); err != nil {
			return err
		}
		if err := seedRoles(tx); err != nil {
			return err
		}
		return s.seedUsers(tx)
	})
	if err != nil {
		return false, err
	}

	s.logger.InfoContext(ctx, "database seeded",
		"permissions", len(permissions),
		"roles", len(roles),
		"users", len(users),
	)
	return true, nil
}

func seedPermissions(tx *gorm.DB) error {
	rows := make([]identity.Permission, 0, len(permissions))
	for _, p := range permissions {
		rows = append(rows, identity.Permission{Name: p.Name, Description: p.Description})
	}
	if err := tx.Create(&rows).Error; err != nil {
		return fmt.Errorf("seed: permissions: %w", err)
	}
	return nil
}

func seedRoles(tx *gorm.DB) error {
	for _, r := range roles {
		role := identity.Role{Name: r.Name, Description: r.Description}
		if err := tx.Omit(clause.Associations).Create(&role).Error; err != nil {
			return fmt.Errorf("seed: role %s: %w", r.Name, err)
		}

		grants := make([]identity.RolePermission, 0, len(r.Permissions))
		for _, p := range r.Permissions {
			grants = append(grants, identity.RolePermission{RoleName: r.Name, PermissionName: p})
		}
		if err := tx.Create(&grants).Error; err != nil {
			return fmt.Errorf("seed: grants of %s: %w", r.Name, err)
		}
	}
	return nil
}

func (s *Seeder) seedUsers(tx *gorm.DB) error {
	for _, u := range users {
		hash, err := bcrypt.GenerateFromPassword([]byte(u.Password), s.bcryptCost)
		if err != nil {
			return fmt.Errorf("seed: hash password of %s: %w", u.Username, err)
		}

		row := identity.User{
			Username:     u.Username,
			Email:        u.Email,
			PasswordHash: string(hash),
			FullName:     u.FullName,
			IsActive:     true,
		}
		if u.StudentCode != "" {
			code := u.StudentCode
			row.StudentCode = &code
		}
		if err := tx.Omit(clause.Associations).Create(&row).Error; err != nil {
			return fmt.Errorf("seed: user %s: %w", u.Username, err)
		}

		links := make([]identity.UserRole, 0, len(u.Roles))
		for _, name := range u.Roles {
			links = append(links, identity.UserRole{UserID: row.ID, RoleName: name})
		}
		if err := tx.Create(&links).Error; err != nil {
			return fmt.Errorf("seed: roles of %s: %w", u.Username, err)
		}
	}
	return nil
}
