// Package accounts holds user accounts and the directory that owns them:
// signup validation, lookup, removal and password authentication.
package accounts

import (
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/recipes"
)

// Account is a user identity. Each account exclusively owns one recipe store,
// created together with the account and dropped when it is removed.
type Account struct {
	ID           string
	Email        string
	Salt         []byte
	PasswordHash []byte
	Admin        bool
	CreatedAt    time.Time

	Recipes *recipes.Store
}

// Role returns "admin" or "standard".
func (a *Account) Role() string {
	if a.Admin {
		return "admin"
	}
	return "standard"
}
