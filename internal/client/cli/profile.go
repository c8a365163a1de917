package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/swapmarket/internal/client/api"
	"github.com/dmitrijs2005/swapmarket/internal/client/services"
	"github.com/dmitrijs2005/swapmarket/internal/common"
)

// Profile opens a user profile, loading the follow button state for the
// subsequent "follow" command.
func (a *App) Profile(ctx context.Context, userID string) error {
	svc := services.NewFollowService(a.client, a.engine, a.log, userID)
	if err := svc.Refresh(ctx); err != nil {
		printlnFn("Could not load profile:", api.AlertMessage(err))
		return err
	}
	a.follow = svc
	a.printProfile()
	return nil
}

// Follow toggles the follow edge of the open profile. The optimistic flip is
// already rendered by the service; a rejected toggle rolls back and the
// server message is shown.
func (a *App) Follow(ctx context.Context) error {
	if a.follow == nil {
		printlnFn("Open a profile first: profile <userId>")
		return common.ErrNotFound
	}

	err := a.follow.Toggle(ctx)
	switch {
	case errors.Is(err, common.ErrSelfFollow):
		printlnFn("This is your own profile")
		return err
	case err != nil:
		printlnFn("Follow failed:", api.AlertMessage(err))
		a.printProfile()
		return err
	}

	a.printProfile()
	return nil
}

func (a *App) printProfile() {
	p, ok := a.follow.Profile()
	if !ok {
		return
	}
	printlnFn(fmt.Sprintf("%s: %d followers, %d following", p.Nickname, p.FollowerCount, p.FollowingCount))
	if label := a.follow.ButtonLabel(); label != "" {
		printlnFn("[" + label + "]")
	}
	if a.sess.Owns(p.UserID) {
		printlnFn("(you can edit your posts here)")
	}
}
