package accounts

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"testing"

	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/dmitrijs2005/recipekeeper/internal/recipes"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastHasher keeps tests quick; argon2 is covered in cryptox.
type fastHasher struct{}

func (fastHasher) Hash(password, salt []byte) []byte {
	sum := sha256.Sum256(append(append([]byte(nil), salt...), password...))
	return sum[:]
}

func (h fastHasher) Verify(password, salt, digest []byte) bool {
	return subtle.ConstantTimeCompare(h.Hash(password, salt), digest) == 1
}

func newTestDirectory(t *testing.T, opts ...Option) *Directory {
	t.Helper()
	d := NewDirectory(append([]Option{WithHasher(fastHasher{})}, opts...)...)
	_, err := d.Bootstrap(context.Background(), "admin@example.com", "Password123")
	require.NoError(t, err)
	return d
}

func signup(email string) Signup {
	return Signup{Email: email, Password: "Secret123", Confirm: "Secret123"}
}

func TestBootstrap_CreatesSingleAdmin(t *testing.T) {
	d := newTestDirectory(t)

	require.Equal(t, 1, d.Len())
	admin, err := d.FindByEmail("admin@example.com")
	require.NoError(t, err)
	assert.True(t, admin.Admin)
	assert.Equal(t, "admin", admin.Role())
	assert.NotEmpty(t, admin.ID)
	assert.NotNil(t, admin.Recipes)
	assert.Equal(t, 0, admin.Recipes.Len())
	assert.NotEqual(t, []byte("Password123"), admin.PasswordHash)
}

func TestAuthenticate_BootstrapAdmin(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	acc, err := d.Authenticate(ctx, "admin@example.com", []byte("Password123"))
	require.NoError(t, err)
	assert.Equal(t, "admin@example.com", acc.Email)
	assert.True(t, acc.Admin)

	_, err = d.Authenticate(ctx, "admin@example.com", []byte("wrong"))
	assert.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticate_WithArgon2(t *testing.T) {
	d := NewDirectory()
	ctx := context.Background()
	_, err := d.Bootstrap(ctx, "admin@example.com", "Password123")
	require.NoError(t, err)

	_, err = d.Authenticate(ctx, "admin@example.com", []byte("Password123"))
	require.NoError(t, err)
	_, err = d.Authenticate(ctx, "admin@example.com", []byte("Password124"))
	require.ErrorIs(t, err, common.ErrorUnauthorized)
}

func TestAuthenticate_FailuresAreIndistinguishable(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	_, err := d.Create(ctx, signup("bob@example.com"))
	require.NoError(t, err)

	_, errUnknown := d.Authenticate(ctx, "nobody@example.com", []byte("Secret123"))
	_, errWrongPw := d.Authenticate(ctx, "bob@example.com", []byte("Secret124"))

	require.ErrorIs(t, errUnknown, common.ErrorUnauthorized)
	require.ErrorIs(t, errWrongPw, common.ErrorUnauthorized)
	assert.Equal(t, errUnknown.Error(), errWrongPw.Error())

	acc, err := d.Authenticate(ctx, "bob@example.com", []byte("Secret123"))
	require.NoError(t, err)
	assert.False(t, acc.Admin)
}

func TestEmailComparisonIsCaseSensitive(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.FindByEmail("Admin@Example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = d.Authenticate(ctx, "ADMIN@example.com", []byte("Password123"))
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	// a differently-cased email is a different account
	_, err = d.Create(ctx, signup("Admin@example.com"))
	require.NoError(t, err)
	assert.Equal(t, 2, d.Len())
}

func TestCreate_DuplicateEmailFails(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Create(ctx, signup("bob@example.com"))
	require.NoError(t, err)
	require.Equal(t, 2, d.Len())

	_, err = d.Create(ctx, signup("bob@example.com"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, 2, d.Len())

	_, err = d.Create(ctx, signup("admin@example.com"))
	require.ErrorIs(t, err, common.ErrorAlreadyExists)
	assert.Equal(t, 2, d.Len())
}

func TestCreate_ValidationFailuresLeaveDirectoryUnchanged(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	_, err := d.Create(ctx, Signup{Email: "not-an-email", Password: "Secret123", Confirm: "Secret123"})
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = d.Create(ctx, Signup{Email: "bob@example.com", Password: "weak", Confirm: "weak"})
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = d.Create(ctx, Signup{Email: "bob@example.com", Password: "Secret123", Confirm: "Secret321"})
	assert.ErrorIs(t, err, ErrPasswordMismatch)

	assert.Equal(t, 1, d.Len())
}

func TestCreate_StandardAccountWithOwnStore(t *testing.T) {
	d := newTestDirectory(t, WithIDPolicy(recipes.IDPolicySize))
	ctx := context.Background()

	bob, err := d.Create(ctx, signup("bob@example.com"))
	require.NoError(t, err)
	alice, err := d.Create(ctx, signup("alice@example.com"))
	require.NoError(t, err)

	assert.False(t, bob.Admin)
	assert.Equal(t, "standard", bob.Role())
	assert.Equal(t, recipes.IDPolicySize, bob.Recipes.Policy())
	assert.NotSame(t, bob.Recipes, alice.Recipes)
	assert.NotEqual(t, bob.ID, alice.ID)

	_, err = bob.Recipes.Create("Soup", "Water", "Boil")
	require.NoError(t, err)
	assert.Equal(t, 1, bob.Recipes.Len())
	assert.Equal(t, 0, alice.Recipes.Len())
}

func TestCreate_ConcurrentSameEmailOnlyOneWins(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	var (
		wg  sync.WaitGroup
		mu  sync.Mutex
		oks int
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := d.Create(ctx, signup("race@example.com")); err == nil {
				mu.Lock()
				oks++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, oks)
	assert.Equal(t, 2, d.Len())
}

func TestRemove(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	_, err := d.Create(ctx, signup("bob@example.com"))
	require.NoError(t, err)

	require.NoError(t, d.Remove(ctx, "bob@example.com"))
	assert.Equal(t, 1, d.Len())

	_, err = d.FindByEmail("bob@example.com")
	assert.ErrorIs(t, err, common.ErrorNotFound)

	_, err = d.Authenticate(ctx, "bob@example.com", []byte("Secret123"))
	assert.ErrorIs(t, err, common.ErrorUnauthorized)

	assert.ErrorIs(t, d.Remove(ctx, "bob@example.com"), common.ErrorNotFound)
}

func TestRemove_LastAdminRefused(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()

	err := d.Remove(ctx, "admin@example.com")
	require.ErrorIs(t, err, ErrLastAdmin)
	assert.Equal(t, 1, d.Len())

	// with a second admin the first one can go
	_, err = d.Bootstrap(ctx, "root@example.com", "Password123")
	require.NoError(t, err)
	require.NoError(t, d.Remove(ctx, "admin@example.com"))
	assert.ErrorIs(t, d.Remove(ctx, "root@example.com"), ErrLastAdmin)
}

func TestListExcluding(t *testing.T) {
	d := newTestDirectory(t)
	ctx := context.Background()
	admin, _ := d.FindByEmail("admin@example.com")

	assert.Empty(t, d.ListExcluding(admin))

	for i := 0; i < 3; i++ {
		_, err := d.Create(ctx, signup(fmt.Sprintf("user%d@example.com", i)))
		require.NoError(t, err)
	}

	others := d.ListExcluding(admin)
	require.Len(t, others, 3)
	for i, a := range others {
		assert.Equal(t, fmt.Sprintf("user%d@example.com", i), a.Email)
	}

	all := d.ListExcluding(nil)
	assert.Len(t, all, 4)
}

func TestDirectory_LogsWithoutPassword(t *testing.T) {
	var buf bytes.Buffer
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	d := newTestDirectory(t, WithLogger(log))
	ctx := context.Background()

	_, _ = d.Authenticate(ctx, "admin@example.com", []byte("Password123"))
	_, _ = d.Authenticate(ctx, "admin@example.com", []byte("Wrong999"))

	out := buf.String()
	assert.Contains(t, out, "login succeeded")
	assert.Contains(t, out, "login failed")
	assert.NotContains(t, out, "Password123")
	assert.NotContains(t, out, "Wrong999")
	assert.NotContains(t, out, "pw_fp")
	for _, line := range strings.Split(strings.TrimSpace(out), "\n") {
		if strings.Contains(line, "login failed") {
			assert.NotRegexp(t, `[0-9a-f]{8,}`, line, "failed login lines carry no password-derived digest")
		}
	}
}
