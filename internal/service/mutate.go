package service

import (
	"context"
	"errors"

	"github.com/socialhub/internal/models"
)

// maxUpdateAttempts bounds how often a user mutation is re-applied after
// losing an optimistic version race.
const maxUpdateAttempts = 3

// mutateUser loads the user, applies mutate and writes it back. When another
// request wrote the row in between, the user is reloaded and mutate applied
// again to the fresh copy.
func mutateUser(ctx context.Context, users UserStore, id uint, mutate func(*models.User)) (*models.User, error) {
	for attempt := 1; ; attempt++ {
		user, err := users.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}

		mutate(user)

		err = users.Update(ctx, user)
		if err == nil {
			return user, nil
		}
		if !errors.Is(err, ErrVersionConflict) || attempt >= maxUpdateAttempts {
			return nil, err
		}
	}
}
