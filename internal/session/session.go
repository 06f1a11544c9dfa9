// Package session is the logged-in side of recipekeeper. A Session binds one
// authenticated account to the directory and checks every action against the
// account's signed session token before running it. Recipe actions are open
// to every role; listing and deleting users is admin-only.
package session

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/accounts"
	"github.com/dmitrijs2005/recipekeeper/internal/auth"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/dmitrijs2005/recipekeeper/internal/metrics"
	"github.com/dmitrijs2005/recipekeeper/internal/recipes"
)

// ErrEnded is returned once the session's own account has been removed.
var ErrEnded = errors.New("session ended")

type Params struct {
	Directory *accounts.Directory
	Account   *accounts.Account
	Secret    []byte
	TTL       time.Duration
	Logger    logging.Logger
	Metrics   *metrics.Recorder
}

type Session struct {
	dir     *accounts.Directory
	account *accounts.Account
	token   string
	secret  []byte
	logger  logging.Logger
	metrics *metrics.Recorder
	ended   bool
}

// New issues a session token for p.Account.
func New(p Params) (*Session, error) {
	if p.Directory == nil || p.Account == nil {
		return nil, fmt.Errorf("session needs a directory and an account: %w", common.ErrorInternal)
	}
	if len(p.Secret) == 0 {
		return nil, fmt.Errorf("empty session secret: %w", common.ErrorInternal)
	}

	token, err := auth.GenerateToken(p.Account.ID, p.Account.Email, p.Account.Admin, p.Secret, p.TTL)
	if err != nil {
		return nil, fmt.Errorf("issue session token: %w", err)
	}

	s := &Session{
		dir:     p.Directory,
		account: p.Account,
		token:   token,
		secret:  p.Secret,
		logger:  p.Logger,
		metrics: p.Metrics,
	}
	if s.logger == nil {
		s.logger = logging.Discard()
	}
	if s.metrics == nil {
		s.metrics = metrics.NewRecorder()
	}
	s.logger = s.logger.With("email", p.Account.Email, "role", p.Account.Role())
	return s, nil
}

// Account returns the logged-in account.
func (s *Session) Account() *accounts.Account {
	return s.account
}

// Token returns the signed session token.
func (s *Session) Token() string {
	return s.token
}

// Ended reports whether the session can no longer be used.
func (s *Session) Ended() bool {
	return s.ended
}

// Authorize validates the session token and checks that its role may
// perform action.
func (s *Session) Authorize(ctx context.Context, action auth.Action) error {
	if s.ended {
		return ErrEnded
	}
	claims, err := auth.ParseToken(s.token, s.secret)
	if err != nil {
		return err
	}
	if claims.Subject != s.account.ID {
		return auth.ErrInvalidToken
	}
	if !auth.CanAccess(claims.Admin, action) {
		s.logger.Warn(ctx, "permission denied", "action", string(action))
		return fmt.Errorf("%s: %w", action, common.ErrorForbidden)
	}
	return nil
}

// Check is Authorize for callers that ask the user for input before the
// action runs. A refusal is counted like a refused action.
func (s *Session) Check(ctx context.Context, action auth.Action) error {
	err := s.Authorize(ctx, action)
	if err != nil {
		s.metrics.Action(string(action), outcomeOf(err))
	}
	return err
}

// do authorizes action, runs fn and records the outcome.
func (s *Session) do(ctx context.Context, action auth.Action, fn func() error) error {
	err := s.Authorize(ctx, action)
	if err == nil {
		err = fn()
	}
	s.metrics.Action(string(action), outcomeOf(err))
	return err
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return metrics.OutcomeOK
	case errors.Is(err, common.ErrorForbidden):
		return metrics.OutcomeDenied
	case errors.Is(err, common.ErrorNotFound):
		return metrics.OutcomeNotFound
	case errors.Is(err, common.ErrorValidation):
		return metrics.OutcomeInvalid
	default:
		return metrics.OutcomeFailed
	}
}

// CreateRecipe adds a recipe to the account's store.
func (s *Session) CreateRecipe(ctx context.Context, title, ingredients, instructions string) (recipes.Recipe, error) {
	var r recipes.Recipe
	err := s.do(ctx, auth.ActionCreateRecipe, func() (err error) {
		r, err = s.account.Recipes.Create(title, ingredients, instructions)
		return err
	})
	if err == nil {
		s.logger.Info(ctx, "recipe created", "recipe_id", r.ID)
	}
	return r, err
}

// Recipes lists the account's recipes in insertion order.
func (s *Session) Recipes(ctx context.Context) ([]recipes.Recipe, error) {
	var list []recipes.Recipe
	err := s.do(ctx, auth.ActionReadRecipes, func() error {
		list = s.account.Recipes.List()
		return nil
	})
	return list, err
}

// Recipe returns a single recipe. It is the existence check run before
// asking the user what to change, so it is not counted as an action.
func (s *Session) Recipe(ctx context.Context, id int) (recipes.Recipe, error) {
	if err := s.Authorize(ctx, auth.ActionUpdateRecipe); err != nil {
		return recipes.Recipe{}, err
	}
	return s.account.Recipes.Get(id)
}

// UpdateRecipe applies u to recipe id.
func (s *Session) UpdateRecipe(ctx context.Context, id int, u recipes.RecipeUpdate) (recipes.Recipe, error) {
	var r recipes.Recipe
	err := s.do(ctx, auth.ActionUpdateRecipe, func() (err error) {
		r, err = s.account.Recipes.Update(id, u)
		return err
	})
	if err == nil {
		s.logger.Info(ctx, "recipe updated", "recipe_id", id)
	}
	return r, err
}

// DeleteRecipe removes recipe id.
func (s *Session) DeleteRecipe(ctx context.Context, id int) error {
	err := s.do(ctx, auth.ActionDeleteRecipe, func() error {
		return s.account.Recipes.Delete(id)
	})
	if err == nil {
		s.logger.Info(ctx, "recipe deleted", "recipe_id", id)
	}
	return err
}

// ListUsers returns every other account. Admin only.
func (s *Session) ListUsers(ctx context.Context) ([]*accounts.Account, error) {
	var list []*accounts.Account
	err := s.do(ctx, auth.ActionViewAllUsers, func() error {
		list = s.dir.ListExcluding(s.account)
		return nil
	})
	return list, err
}

// FindUser looks an account up by email for the delete-user flow. Admin only.
func (s *Session) FindUser(ctx context.Context, email string) (*accounts.Account, error) {
	if err := s.Authorize(ctx, auth.ActionDeleteUser); err != nil {
		return nil, err
	}
	return s.dir.FindByEmail(email)
}

// DeleteUser removes the account with email. Admin only. Removing the
// session's own account ends the session.
func (s *Session) DeleteUser(ctx context.Context, email string) error {
	err := s.do(ctx, auth.ActionDeleteUser, func() error {
		return s.dir.Remove(ctx, email)
	})
	if err != nil {
		return err
	}
	if email == s.account.Email {
		s.ended = true
	}
	return nil
}
