package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/accounts"
	"github.com/dmitrijs2005/recipekeeper/internal/auth"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/metrics"
	"github.com/dmitrijs2005/recipekeeper/internal/session"
)

// Login asks for credentials and, on success, runs the session menu until
// the user logs out. The password is wiped before returning.
func (a *App) Login(ctx context.Context) error {
	fmt.Fprintln(a.out, "Please log in:")

	email, err := GetSimpleText(a.reader, "Please enter your email address: ", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Please enter your password: ", a.out, a.ttyFd)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	acc, err := a.dir.Authenticate(ctx, email, password)
	a.metrics.Login(err == nil)
	if err != nil {
		fmt.Fprintln(a.out, "Login failed. Please try again.")
		return nil
	}

	s, err := session.New(session.Params{
		Directory: a.dir,
		Account:   acc,
		Secret:    a.secret,
		TTL:       a.ttl,
		Logger:    a.logger,
		Metrics:   a.metrics,
	})
	if err != nil {
		a.logger.Error(ctx, "open session", "email", acc.Email, "error", err)
		fmt.Fprintln(a.out, "Login failed. Please try again.")
		return nil
	}

	fmt.Fprintln(a.out, "Login successful.")
	a.session = s
	defer a.Logout(ctx)

	return runSessionMenu(ctx, a, a.reader, a.out)
}

// Logout drops the current session.
func (a *App) Logout(ctx context.Context) {
	if a.session == nil {
		return
	}
	a.logger.Info(ctx, "logged out", "email", a.session.Account().Email)
	a.session = nil
}

// CreateAccount registers a standard account. A duplicate email is reported
// and the user is sent back to the startup menu to try again.
func (a *App) CreateAccount(ctx context.Context) error {
	fmt.Fprintln(a.out, "Creating a new account...")

	email, err := GetEmail(a.reader, a.out)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, accounts.PasswordRules)
	password, confirm, err := GetNewPassword(a.reader, a.out, a.ttyFd)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	defer common.WipeByteArray(confirm)

	_, err = a.dir.Create(ctx, accounts.Signup{
		Email:    email,
		Password: string(password),
		Confirm:  string(confirm),
	})
	switch {
	case err == nil:
		a.metrics.Signup(metrics.OutcomeOK)
		fmt.Fprintln(a.out, "Account created successfully.")
		fmt.Fprintln(a.out, "Please log in to access the menu:")
		return nil
	case errors.Is(err, common.ErrorAlreadyExists):
		a.metrics.Signup(metrics.OutcomeConflict)
		fmt.Fprintln(a.out, "Email already exists.")
	case errors.Is(err, common.ErrorValidation):
		a.metrics.Signup(metrics.OutcomeInvalid)
		fmt.Fprintln(a.out, validationMessage(err))
	default:
		a.metrics.Signup(metrics.OutcomeFailed)
		a.logger.Error(ctx, "create account", "email", email, "error", err)
	}
	fmt.Fprintln(a.out, "Account creation failed. Please try again.")
	return nil
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, accounts.ErrInvalidEmail):
		return "Please ensure you enter a valid email address."
	case errors.Is(err, accounts.ErrPasswordMismatch):
		return "Passwords do not match. Try again."
	case errors.Is(err, accounts.ErrWeakPassword):
		return "Password does not meet the requirements."
	default:
		return "Email and password are required."
	}
}

// sessionFailed reports errors that end the session. It returns
// errLoggedOut for those and nil for everything else, which the caller
// handles itself.
func (a *App) sessionFailed(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, auth.ErrTokenExpired):
		fmt.Fprintln(a.out, "Your session has expired. Please log in again.")
	case errors.Is(err, auth.ErrInvalidToken):
		a.logger.Error(ctx, "session token rejected", "error", err)
		fmt.Fprintln(a.out, "Your session is no longer valid. Please log in again.")
	case errors.Is(err, session.ErrEnded):
		fmt.Fprintln(a.out, "Your session has ended.")
	default:
		return nil
	}
	return errLoggedOut
}
