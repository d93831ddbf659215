package usecase

import (
	"context"
	"errors"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/dinewise/pkg/domain/interfaces"
	"github.com/secmon-lab/dinewise/pkg/domain/model"
)

// ValidationIssue is a dangling reference found during the DB consistency check
type ValidationIssue struct {
	UserID   int64
	Kind     string // record kind holding the reference
	RecordID int64
	Message  string
}

// ValidationResult holds the results of DB validation
type ValidationResult struct {
	Users  int
	Issues []ValidationIssue
}

// HasIssues returns true if there are any validation issues
func (r *ValidationResult) HasIssues() bool {
	return len(r.Issues) > 0
}

// AddIssue adds a validation issue to the result
func (r *ValidationResult) AddIssue(issue ValidationIssue) {
	r.Issues = append(r.Issues, issue)
}

// ValidateDB checks that conversations, reservations and favorites of every
// user only reference records that exist and belong to that user. It does
// NOT modify any data.
func (uc *UseCases) ValidateDB(ctx context.Context) (*ValidationResult, error) {
	users, err := uc.repo.User().List(ctx)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to list users")
	}

	v := &dbValidator{repo: uc.repo, result: &ValidationResult{Users: len(users)}, restaurants: map[int64]bool{}}
	for _, user := range users {
		if err := v.checkUser(ctx, user); err != nil {
			return nil, goerr.Wrap(err, "failed to validate user records", goerr.V(UserIDKey, user.ID))
		}
	}
	return v.result, nil
}

type dbValidator struct {
	repo        interfaces.Repository
	result      *ValidationResult
	restaurants map[int64]bool
}

func (v *dbValidator) restaurantExists(ctx context.Context, id int64) (bool, error) {
	if ok, seen := v.restaurants[id]; seen {
		return ok, nil
	}
	_, err := v.repo.Restaurant().Get(ctx, id)
	switch {
	case err == nil:
		v.restaurants[id] = true
	case errors.Is(err, interfaces.ErrNotFound):
		v.restaurants[id] = false
	default:
		return false, goerr.Wrap(err, "failed to get restaurant", goerr.V(RestaurantIDKey, id))
	}
	return v.restaurants[id], nil
}

func (v *dbValidator) checkUser(ctx context.Context, user *model.User) error {
	convs, err := v.repo.Conversation().ListByUser(ctx, user.ID)
	if err != nil {
		return goerr.Wrap(err, "failed to list conversations")
	}
	owned := make(map[int64]bool, len(convs))
	for _, c := range convs {
		owned[c.ID] = true
	}

	reservations, err := v.repo.Reservation().ListByUser(ctx, user.ID)
	if err != nil {
		return goerr.Wrap(err, "failed to list reservations")
	}
	reserved := make(map[int64]bool, len(reservations))
	for _, r := range reservations {
		reserved[r.ID] = true

		ok, err := v.restaurantExists(ctx, r.RestaurantID)
		if err != nil {
			return err
		}
		if !ok {
			v.result.AddIssue(ValidationIssue{UserID: user.ID, Kind: "reservation", RecordID: r.ID,
				Message: fmt.Sprintf("restaurant %d does not exist", r.RestaurantID)})
		}
		if r.ConversationID != 0 && !owned[r.ConversationID] {
			v.result.AddIssue(ValidationIssue{UserID: user.ID, Kind: "reservation", RecordID: r.ID,
				Message: fmt.Sprintf("conversation %d is not owned by the user", r.ConversationID)})
		}
	}

	for _, c := range convs {
		if id := c.Context.ActiveReservationID; id != 0 && !reserved[id] {
			v.result.AddIssue(ValidationIssue{UserID: user.ID, Kind: "conversation", RecordID: c.ID,
				Message: fmt.Sprintf("active reservation %d is not owned by the user", id)})
		}
		for _, id := range c.Context.LastRecommendations {
			ok, err := v.restaurantExists(ctx, id)
			if err != nil {
				return err
			}
			if !ok {
				v.result.AddIssue(ValidationIssue{UserID: user.ID, Kind: "conversation", RecordID: c.ID,
					Message: fmt.Sprintf("recommended restaurant %d does not exist", id)})
			}
		}
	}

	favs, err := v.repo.Favorite().ListByUser(ctx, user.ID)
	if err != nil {
		return goerr.Wrap(err, "failed to list favorites")
	}
	for _, f := range favs {
		ok, err := v.restaurantExists(ctx, f.RestaurantID)
		if err != nil {
			return err
		}
		if !ok {
			v.result.AddIssue(ValidationIssue{UserID: user.ID, Kind: "favorite", RecordID: f.ID,
				Message: fmt.Sprintf("restaurant %d does not exist", f.RestaurantID)})
		}
	}
	return nil
}
