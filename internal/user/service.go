package user

import (
	"context"
	"log/slog"
	"strings"

	"github.com/frahmantamala/evaluation-platform/internal"
	"github.com/frahmantamala/evaluation-platform/internal/core/datamodel/identity"
	"github.com/frahmantamala/evaluation-platform/internal/core/events"
)

// Repository is the admin view of the credential store.
type Repository interface {
	List(ctx context.Context, f ListFilter) ([]identity.User, int64, error)
	GetByID(ctx context.Context, id int64) (*identity.User, error)
	SetActive(ctx context.Context, id int64, active bool) error
	ReplaceRoles(ctx context.Context, id int64, roleNames []string) error
	RoleNames(ctx context.Context) ([]string, error)
	ActiveIDs(ctx context.Context, role string) ([]int64, error)
}

type ServiceAPI interface {
	List(ctx context.Context, f ListFilter) (*Page, error)
	GetByID(ctx context.Context, id int64) (*View, error)
	Activate(ctx context.Context, id, actorID int64) (*View, error)
	Deactivate(ctx context.Context, id, actorID int64) (*View, error)
	UpdateRoles(ctx context.Context, id int64, dto UpdateRolesDTO, actorID int64) (*View, error)
	RoleNames(ctx context.Context) ([]string, error)
	ActiveUserIDs(ctx context.Context, role string) ([]int64, error)
}

type Service struct {
	repo   Repository
	events events.Publisher
	logger *slog.Logger
}

func NewService(repo Repository, publisher events.Publisher, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		events: publisher,
		logger: logger,
	}
}

func (s *Service) List(ctx context.Context, f ListFilter) (*Page, error) {
	f = f.Normalize()

	users, total, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, internal.NewInternalError("failed to list users", err)
	}

	items := make([]*View, 0, len(users))
	for i := range users {
		items = append(items, FromDataModel(&users[i]))
	}
	return NewPage(items, f, total), nil
}

func (s *Service) GetByID(ctx context.Context, id int64) (*View, error) {
	u, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return FromDataModel(u), nil
}

// Activate and Deactivate flip the flag only. Tokens already issued stay
// valid until they expire.
func (s *Service) Activate(ctx context.Context, id, actorID int64) (*View, error) {
	return s.setActive(ctx, id, true, actorID)
}

func (s *Service) Deactivate(ctx context.Context, id, actorID int64) (*View, error) {
	return s.setActive(ctx, id, false, actorID)
}

func (s *Service) setActive(ctx context.Context, id int64, active bool, actorID int64) (*View, error) {
	if err := s.repo.SetActive(ctx, id, active); err != nil {
		return nil, err
	}

	view, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	eventType := events.EventTypeUserDeactivated
	if active {
		eventType = events.EventTypeUserActivated
	}
	s.publish(ctx, events.NewUserEvent(eventType, view.ID, view.Username, actorID))

	s.logger.InfoContext(ctx, "user active flag changed", "user_id", id, "is_active", active, "actor_id", actorID)
	return view, nil
}

// UpdateRoles replaces the role set. New permissions reach the user's tokens
// on the next login or refresh.
func (s *Service) UpdateRoles(ctx context.Context, id int64, dto UpdateRolesDTO, actorID int64) (*View, error) {
	if err := dto.Validate(); err != nil {
		return nil, err
	}

	if err := s.repo.ReplaceRoles(ctx, id, dto.Roles); err != nil {
		return nil, err
	}

	view, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewRolesUpdatedEvent(id, view.Roles, actorID))
	s.logger.InfoContext(ctx, "user roles replaced", "user_id", id, "roles", view.Roles, "actor_id", actorID)
	return view, nil
}

func (s *Service) RoleNames(ctx context.Context) ([]string, error) {
	names, err := s.repo.RoleNames(ctx)
	if err != nil {
		return nil, internal.NewInternalError("failed to list roles", err)
	}
	return names, nil
}

// ActiveUserIDs lists the ids of active accounts, restricted to holders of
// role when it is not empty. Notification fan-out in the evaluation service
// depends on it.
func (s *Service) ActiveUserIDs(ctx context.Context, role string) ([]int64, error) {
	role = strings.ToUpper(strings.TrimSpace(role))
	ids, err := s.repo.ActiveIDs(ctx, role)
	if err != nil {
		return nil, internal.NewInternalError("failed to list user ids", err)
	}
	if ids == nil {
		ids = []int64{}
	}
	return ids, nil
}

func (s *Service) publish(ctx context.Context, e events.Event) {
	if s.events == nil {
		return
	}
	if err := s.events.Publish(ctx, e); err != nil {
		s.logger.WarnContext(ctx, "failed to publish event", "event_type", e.EventType(), "error", err)
	}
}
