package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/core/datamodel/identity"
	"github.com/frahmantamala/evaluation-platform/internal/user"
	"gorm.io/gorm"
)

type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) List(ctx context.Context, f user.ListFilter) ([]identity.User, int64, error) {
	var (
		users []identity.User
		total int64
	)

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := r.filtered(tx, f)
		if err := q.Count(&total).Error; err != nil {
			return err
		}
		return identity.WithGraph(r.filtered(tx, f)).
			Order("created_at DESC").Order("id DESC").
			Offset(f.Page * f.Size).Limit(f.Size).
			Find(&users).Error
	}, identity.SnapshotTxOptions(r.db))
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

func (r *UserRepository) filtered(tx *gorm.DB, f user.ListFilter) *gorm.DB {
	q := tx.Model(&identity.User{})
	if f.Search != "" {
		like := "%" + strings.ToLower(f.Search) + "%"
		q = q.Where("LOWER(username) LIKE ? OR LOWER(email) LIKE ? OR LOWER(full_name) LIKE ? OR LOWER(COALESCE(student_code, '')) LIKE ?",
			like, like, like, like)
	}
	if f.Role != "" {
		q = q.Where("id IN (?)", tx.Model(&identity.UserRole{}).Select("user_id").Where("role_name = ?", f.Role))
	}
	if f.IsActive != nil {
		q = q.Where("is_active = ?", *f.IsActive)
	}
	return q
}

func (r *UserRepository) GetByID(ctx context.Context, id int64) (*identity.User, error) {
	var u identity.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return identity.WithGraph(tx).First(&u, id).Error
	}, identity.SnapshotTxOptions(r.db))
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internal.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *UserRepository) SetActive(ctx context.Context, id int64, active bool) error {
	res := r.db.WithContext(ctx).Model(&identity.User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

// ReplaceRoles swaps the user's role rows in one transaction. Every name
// must exist.
func (r *UserRepository) ReplaceRoles(ctx context.Context, id int64, roleNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var exists int64
		if err := tx.Model(&identity.User{}).Where("id = ?", id).Count(&exists).Error; err != nil {
			return err
		}
		if exists == 0 {
			return internal.ErrUserNotFound
		}

		var found int64
		if err := tx.Model(&identity.Role{}).Where("name IN ?", roleNames).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(roleNames)) {
			return internal.ErrRoleNotFound
		}

		if err := tx.Where("user_id = ?", id).Delete(&identity.UserRole{}).Error; err != nil {
			return err
		}

		rows := make([]identity.UserRole, 0, len(roleNames))
		for _, name := range roleNames {
			rows = append(rows, identity.UserRole{UserID: id, RoleName: name})
		}
		return tx.Create(&rows).Error
	})
}

func (r *UserRepository) RoleNames(ctx context.Context) ([]string, error) {
	var names []string
	err := r.db.WithContext(ctx).Model(&identity.Role{}).Order("name").Pluck("name", &names).Error
	return names, err
}

// ActiveIDs returns active user ids in ascending order, optionally limited
// to holders of role.
func (r *UserRepository) ActiveIDs(ctx context.Context, role string) ([]int64, error) {
	active := true
	var ids []int64
	err := r.filtered(r.db.WithContext(ctx), user.ListFilter{Role: role, IsActive: &active}).
		Order("id").
		Pluck("id", &ids).Error
	return ids, err
}
