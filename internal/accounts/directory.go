package accounts

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/cryptox"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/dmitrijs2005/recipekeeper/internal/recipes"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// ErrLastAdmin is returned when removing an account would leave the
// directory without an admin.
var ErrLastAdmin = errors.New("cannot remove the last admin account")

// Option configures a Directory.
type Option func(*Directory)

// WithHasher replaces the default argon2id hasher.
func WithHasher(h cryptox.Hasher) Option {
	return func(d *Directory) {
		d.hasher = h
	}
}

// WithIDPolicy sets the numbering policy for recipe stores of new accounts.
func WithIDPolicy(p recipes.IDPolicy) Option {
	return func(d *Directory) {
		d.policy = p
	}
}

// WithLogger sets the directory logger.
func WithLogger(l logging.Logger) Option {
	return func(d *Directory) {
		d.logger = l
	}
}

// Directory is the process-wide set of accounts. Emails are unique and
// compared case-sensitively. It is safe for concurrent use; the uniqueness
// check and the insert in Create happen under one lock.
type Directory struct {
	mu       sync.RWMutex
	accounts []*Account

	hasher   cryptox.Hasher
	validate *validator.Validate
	policy   recipes.IDPolicy
	logger   logging.Logger

	// dummySalt keeps Authenticate doing the same work for unknown emails.
	dummySalt []byte
	now       func() time.Time
}

// NewDirectory returns an empty directory.
func NewDirectory(opts ...Option) *Directory {
	d := &Directory{
		hasher:    cryptox.NewArgon2Hasher(),
		validate:  newValidator(),
		policy:    recipes.IDPolicyCounter,
		logger:    logging.Discard(),
		dummySalt: cryptox.NewSalt(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

func (d *Directory) newAccount(email, password string, admin bool) *Account {
	salt := cryptox.NewSalt()
	pw := []byte(password)
	defer common.WipeByteArray(pw)

	return &Account{
		ID:           uuid.NewString(),
		Email:        email,
		Salt:         salt,
		PasswordHash: d.hasher.Hash(pw, salt),
		Admin:        admin,
		CreatedAt:    d.now(),
		Recipes:      recipes.NewStore(d.policy),
	}
}

// findLocked scans for email. Callers must hold d.mu.
func (d *Directory) findLocked(email string) (int, *Account) {
	for i, a := range d.accounts {
		if a.Email == email {
			return i, a
		}
	}
	return -1, nil
}

// FindByEmail returns the account with exactly this email.
func (d *Directory) FindByEmail(email string) (*Account, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if _, a := d.findLocked(email); a != nil {
		return a, nil
	}
	return nil, fmt.Errorf("account %s: %w", email, common.ErrorNotFound)
}

func (d *Directory) insert(ctx context.Context, s Signup, admin bool) (*Account, error) {
	if err := d.validate.Struct(s); err != nil {
		return nil, validationError(err)
	}

	// hash outside the lock, it is the slow part
	acc := d.newAccount(s.Email, s.Password, admin)

	d.mu.Lock()
	defer d.mu.Unlock()

	if _, existing := d.findLocked(s.Email); existing != nil {
		return nil, fmt.Errorf("account %s: %w", s.Email, common.ErrorAlreadyExists)
	}
	d.accounts = append(d.accounts, acc)

	d.logger.Info(ctx, "account created", "email", acc.Email, "role", acc.Role(), "id", acc.ID)
	return acc, nil
}

// Create registers a standard account.
func (d *Directory) Create(ctx context.Context, s Signup) (*Account, error) {
	return d.insert(ctx, s, false)
}

// Bootstrap registers the admin account the directory starts with.
func (d *Directory) Bootstrap(ctx context.Context, email, password string) (*Account, error) {
	return d.insert(ctx, Signup{Email: email, Password: password, Confirm: password}, true)
}

// Remove deletes the account with email together with its recipes.
// The last remaining admin cannot be removed.
func (d *Directory) Remove(ctx context.Context, email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	i, acc := d.findLocked(email)
	if acc == nil {
		return fmt.Errorf("account %s: %w", email, common.ErrorNotFound)
	}
	if acc.Admin && d.adminCountLocked() == 1 {
		return ErrLastAdmin
	}

	d.accounts = append(d.accounts[:i], d.accounts[i+1:]...)
	d.logger.Info(ctx, "account removed", "email", acc.Email, "id", acc.ID, "recipes", acc.Recipes.Len())
	return nil
}

func (d *Directory) adminCountLocked() int {
	n := 0
	for _, a := range d.accounts {
		if a.Admin {
			n++
		}
	}
	return n
}

// ListExcluding returns every account except self, in signup order.
func (d *Directory) ListExcluding(self *Account) []*Account {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]*Account, 0, len(d.accounts))
	for _, a := range d.accounts {
		if a != self {
			out = append(out, a)
		}
	}
	return out
}

// Len returns the number of accounts.
func (d *Directory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.accounts)
}

// Authenticate returns the account whose email and password both match.
// Any mismatch yields common.ErrorUnauthorized, whatever the cause.
func (d *Directory) Authenticate(ctx context.Context, email string, password []byte) (*Account, error) {
	d.mu.RLock()
	_, acc := d.findLocked(email)
	d.mu.RUnlock()

	if acc == nil {
		_ = d.hasher.Hash(password, d.dummySalt)
		d.logLoginFailure(ctx, email)
		return nil, common.ErrorUnauthorized
	}
	if !d.hasher.Verify(password, acc.Salt, acc.PasswordHash) {
		d.logLoginFailure(ctx, email)
		return nil, common.ErrorUnauthorized
	}

	d.logger.Info(ctx, "login succeeded", "email", acc.Email, "role", acc.Role())
	return acc, nil
}

func (d *Directory) logLoginFailure(ctx context.Context, email string) {
	d.logger.Warn(ctx, "login failed", "email", email)
}
