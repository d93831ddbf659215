package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
	"github.com/secmon-lab/dinewise/pkg/utils/logging"
)

// UpdateUserInput changes a user's standing location and preferences.
// Nil fields are left as they are.
type UpdateUserInput struct {
	Location    *string
	Preferences *model.Preferences
}

type UserUseCase struct {
	repo interfaces.Repository
	now  func() time.Time
}

func NewUserUseCase(repo interfaces.Repository, now func() time.Time) *UserUseCase {
	if now == nil {
		now = time.Now
	}
	return &UserUseCase{repo: repo, now: now}
}

func (uc *UserUseCase) Get(ctx context.Context, userID int64) (*model.User, error) {
	user, err := uc.repo.User().Get(ctx, userID)
	if err != nil {
		return nil, storeError(err, "failed to get user", goerr.V(UserIDKey, userID))
	}
	return user, nil
}

func (uc *UserUseCase) UpdatePreferences(ctx context.Context, userID int64, input UpdateUserInput) (*model.User, error) {
	if input.Preferences != nil && input.Preferences.PriceRange != "" && !input.Preferences.PriceRange.IsValid() {
		return nil, fail(ErrInvalidRequest, nil, "invalid price range", goerr.V("price_range", input.Preferences.PriceRange))
	}

	user, err := uc.Get(ctx, userID)
	if err != nil {
		return nil, err
	}

	if input.Location != nil {
		user.Location = strings.TrimSpace(*input.Location)
	}
	if input.Preferences != nil {
		user.Preferences = input.Preferences.Clone()
	}

	updated, err := uc.repo.User().Update(ctx, user)
	if err != nil {
		return nil, storeError(err, "failed to update user", goerr.V(UserIDKey, userID))
	}

	logging.From(ctx).Info("user preferences updated", "user_id", userID)
	return updated, nil
}

// Seed creates the fixture users when the store holds no user yet. It
// returns the users present after seeding.
func (uc *UserUseCase) Seed(ctx context.Context, fixtures []*model.User) ([]*model.User, error) {
	existing, err := uc.repo.User().List(ctx)
	if err != nil {
		return nil, storeError(err, "failed to list users")
	}
	if len(existing) > 0 {
		return existing, nil
	}

	created := make([]*model.User, 0, len(fixtures))
	for _, f := range fixtures {
		u := f.Clone()
		if u.Username == "" {
			return nil, fail(ErrInvalidRequest, nil, "fixture user needs a username")
		}
		if u.CreatedAt.IsZero() {
			u.CreatedAt = uc.now().UTC()
		}
		stored, err := uc.repo.User().Create(ctx, u)
		if err != nil {
			return nil, storeError(err, "failed to create fixture user", goerr.V("username", u.Username))
		}
		created = append(created, stored)
	}

	logging.From(ctx).Info("fixture users created", "count", len(created))
	return created, nil
}
