package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/accounts"
	"github.com/dmitrijs2005/recipekeeper/internal/auth"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
)

// ViewAllUsers lists every other account. Admin only.
func (a *App) ViewAllUsers(ctx context.Context) error {
	list, err := a.session.ListUsers(ctx)
	if err != nil {
		if stop := a.sessionFailed(ctx, err); stop != nil {
			return stop
		}
		if errors.Is(err, common.ErrorForbidden) {
			fmt.Fprintln(a.out, "You do not have permission to view all users.")
			return nil
		}
		a.logger.Error(ctx, "list users", "error", err)
		return nil
	}

	fmt.Fprintln(a.out, "All users:")
	for _, acc := range list {
		fmt.Fprintf(a.out, "Email: %s, Admin: %t\n", acc.Email, acc.Admin)
	}
	return nil
}

// DeleteUser removes an account after confirmation. Admin only; standard
// users are refused before being asked for an email.
func (a *App) DeleteUser(ctx context.Context) error {
	if err := a.session.Check(ctx, auth.ActionDeleteUser); err != nil {
		return a.userFailed(ctx, "", err)
	}

	email, err := GetSimpleText(a.reader, "Enter the email of the user to delete: ", a.out)
	if err != nil {
		return err
	}
	if _, err := a.session.FindUser(ctx, email); err != nil {
		return a.userFailed(ctx, email, err)
	}

	confirmed, err := GetYesNo(a.reader, "Are you certain you want to delete? (yes/no): ", a.out)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(a.out, "You have changed your mind")
		return nil
	}

	if err := a.session.DeleteUser(ctx, email); err != nil {
		return a.userFailed(ctx, email, err)
	}
	fmt.Fprintf(a.out, "User %s deleted successfully.\n", email)

	if a.session.Ended() {
		fmt.Fprintln(a.out, "Your own account was deleted. Logging out.")
		return errLoggedOut
	}
	return nil
}

func (a *App) userFailed(ctx context.Context, email string, err error) error {
	if stop := a.sessionFailed(ctx, err); stop != nil {
		return stop
	}
	switch {
	case errors.Is(err, common.ErrorForbidden):
		fmt.Fprintln(a.out, "You do not have permission to delete a user.")
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintf(a.out, "User %s not found.\n", email)
	case errors.Is(err, accounts.ErrLastAdmin):
		fmt.Fprintln(a.out, "Cannot delete the last admin account.")
	default:
		a.logger.Error(ctx, "delete user", "email", email, "error", err)
		fmt.Fprintln(a.out, "Something went wrong, please try again.")
	}
	return nil
}
