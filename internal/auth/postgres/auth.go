package postgres

import (
	"context"
	"errors"
	"strings"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/auth"
	"github.com/frahmantamala/evaluation-platform/internal/core/datamodel/identity"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		db: db,
	}
}

// FindByLogin matches the email exactly when login looks like one, and the
// username case-insensitively otherwise.
func (r *Repository) FindByLogin(ctx context.Context, login string) (*identity.User, error) {
	if strings.Contains(login, "@") {
		return r.findOne(ctx, "email = ?", login)
	}
	return r.findOne(ctx, "LOWER(username) = LOWER(?)", login)
}

func (r *Repository) FindByID(ctx context.Context, id int64) (*identity.User, error) {
	return r.findOne(ctx, "id = ?", id)
}

func (r *Repository) FindByEmail(ctx context.Context, email string) (*identity.User, error) {
	return r.findOne(ctx, "LOWER(email) = LOWER(?)", email)
}

func (r *Repository) ExistsByUsername(ctx context.Context, username string) (bool, error) {
	return r.exists(ctx, "LOWER(username) = LOWER(?)", username)
}

func (r *Repository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER(?)", email)
}

// CreateWithRoles inserts u and its role rows atomically. Every role must
// already exist.
func (r *Repository) CreateWithRoles(ctx context.Context, u *identity.User, roleNames []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var found int64
		if err := tx.Model(&identity.Role{}).Where("name IN ?", roleNames).Count(&found).Error; err != nil {
			return err
		}
		if found != int64(len(roleNames)) {
			return internal.ErrRoleNotFound
		}

		if err := tx.Omit(clause.Associations).Create(u).Error; err != nil {
			return err
		}

		rows := make([]identity.UserRole, 0, len(roleNames))
		for _, name := range roleNames {
			rows = append(rows, identity.UserRole{UserID: u.ID, RoleName: name})
		}
		if len(rows) == 0 {
			return nil
		}
		return tx.Create(&rows).Error
	})
}

func (r *Repository) UpdatePassword(ctx context.Context, userID int64, passwordHash string) error {
	res := r.db.WithContext(ctx).Model(&identity.User{}).Where("id = ?", userID).Update("password_hash", passwordHash)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return internal.ErrUserNotFound
	}
	return nil
}

func (r *Repository) findOne(ctx context.Context, query string, args ...interface{}) (*identity.User, error) {
	var u identity.User
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return identity.WithGraph(tx).Where(query, args...).First(&u).Error
	}, identity.SnapshotTxOptions(r.db))
	return userOrNotFound(&u, err)
}

func (r *Repository) exists(ctx context.Context, query string, args ...interface{}) (bool, error) {
	var n int64
	if err := r.db.WithContext(ctx).Model(&identity.User{}).Where(query, args...).Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

func userOrNotFound(u *identity.User, err error) (*identity.User, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, internal.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

var _ auth.RepositoryAPI = (*Repository)(nil)
