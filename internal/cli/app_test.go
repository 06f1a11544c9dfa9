package cli

import (
	"bytes"
	"context"
	"crypto/sha256"
	"crypto/subtle"
	"strings"
	"testing"
	"time"

	"github.com/dmitrijs2005/recipekeeper/internal/accounts"
	"github.com/dmitrijs2005/recipekeeper/internal/config"
	"github.com/dmitrijs2005/recipekeeper/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fastHasher struct{}

func (fastHasher) Hash(password, salt []byte) []byte {
	sum := sha256.Sum256(append(append([]byte(nil), salt...), password...))
	return sum[:]
}

func (h fastHasher) Verify(password, salt, digest []byte) bool {
	return subtle.ConstantTimeCompare(h.Hash(password, salt), digest) == 1
}

type harness struct {
	app  *App
	out  *bytes.Buffer
	logs *bytes.Buffer
}

func newHarness(t *testing.T, input string, mutate ...func(*config.Config)) *harness {
	t.Helper()

	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.SecretKey = "test-secret"
	for _, m := range mutate {
		m(cfg)
	}

	logs := &bytes.Buffer{}
	logger, err := logging.New("debug", false, logs)
	require.NoError(t, err)

	out := &bytes.Buffer{}
	app, err := NewApp(context.Background(), cfg, logger, strings.NewReader(input), out, accounts.WithHasher(fastHasher{}))
	require.NoError(t, err)

	return &harness{app: app, out: out, logs: logs}
}

func (h *harness) run(t *testing.T) string {
	t.Helper()
	require.NoError(t, h.app.Run(context.Background()))
	return h.out.String()
}

var (
	loginAdmin = []string{"1", "admin@example.com", "Password123"}
	signupBob  = []string{"2", "bob@example.com", "Secret123", "Secret123"}
	loginBob   = []string{"1", "bob@example.com", "Secret123"}
)

func script(parts ...[]string) string {
	var all []string
	for _, p := range parts {
		all = append(all, p...)
	}
	return lines(all...)
}

func createRecipe(title string) []string {
	return []string{"1", title, "water, salt", "Boil", "Serve", ""}
}

func TestNewApp_RejectsBadConfig(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.RecipeIDPolicy = "random"

	_, err := NewApp(context.Background(), cfg, logging.Discard(), strings.NewReader(""), &bytes.Buffer{})
	assert.Error(t, err)
}

func TestNewApp_RejectsWeakAdminPassword(t *testing.T) {
	cfg := &config.Config{}
	cfg.LoadDefaults()
	cfg.AdminPassword = "short"

	_, err := NewApp(context.Background(), cfg, logging.Discard(), strings.NewReader(""), &bytes.Buffer{}, accounts.WithHasher(fastHasher{}))
	assert.ErrorIs(t, err, accounts.ErrWeakPassword)
}

func TestApp_LoginAndRecipeLifecycle(t *testing.T) {
	h := newHarness(t, script(
		loginAdmin,
		[]string{"2"},
		createRecipe("Soup"),
		createRecipe("Bread"),
		[]string{"2"},
		[]string{"5", "3"},
	))

	out := h.run(t)

	assert.Contains(t, out, "Login successful.")
	assert.Contains(t, out, "There are no recipes to display")
	assert.Contains(t, out, "Recipe 'Soup', with ID 1 created successfully!")
	assert.Contains(t, out, "Recipe 'Bread', with ID 2 created successfully!")
	assert.Contains(t, out, "Favourite recipes: ")
	assert.Contains(t, out, "ID: 2, Title: Bread, Ingredients: water, salt\nInstructions:\nBoil\nServe")
	assert.False(t, h.app.isLoggedIn())
}

func TestApp_LoginFailed(t *testing.T) {
	h := newHarness(t, script(
		[]string{"1", "admin@example.com", "wrong"},
		[]string{"1", "ADMIN@example.com", "Password123"},
		[]string{"3"},
	))

	out := h.run(t)

	assert.Equal(t, 2, strings.Count(out, "Login failed. Please try again."))
	assert.NotContains(t, out, "Login successful.")
	assert.NotContains(t, h.logs.String(), "wrong")
}

func TestApp_CreateAccountThenStandardUserIsDenied(t *testing.T) {
	h := newHarness(t, script(
		signupBob,
		loginBob,
		[]string{"6", "7"},
		createRecipe("Cake"),
		[]string{"5", "3"},
	))

	out := h.run(t)

	assert.Contains(t, out, accounts.PasswordRules)
	assert.Contains(t, out, "Account created successfully.")
	assert.Contains(t, out, "You do not have permission to view all users.")
	assert.Contains(t, out, "You do not have permission to delete a user.")
	assert.NotContains(t, out, "Enter the email of the user to delete")
	assert.Contains(t, out, "Recipe 'Cake', with ID 1 created successfully!")
	assert.Equal(t, 2, h.app.dir.Len())
}

func TestApp_CreateAccountDuplicate(t *testing.T) {
	h := newHarness(t, script(
		[]string{"2", "admin@example.com", "Secret123", "Secret123"},
		[]string{"3"},
	))

	out := h.run(t)

	assert.Contains(t, out, "Email already exists.")
	assert.Contains(t, out, "Account creation failed. Please try again.")
	assert.Equal(t, 1, h.app.dir.Len())
}

func TestApp_UpdateRecipe(t *testing.T) {
	h := newHarness(t, script(
		loginAdmin,
		[]string{"3"},
		createRecipe("Soup"),
		[]string{"3", "abc"},
		[]string{"3", "9"},
		[]string{"3", "1", "yes", "Tomato Soup", "no", "yes", "Simmer", ""},
		[]string{"2"},
		[]string{"5", "3"},
	))

	out := h.run(t)

	assert.Contains(t, out, "There are no recipes to update")
	assert.Contains(t, out, "Please enter a valid recipe ID.")
	assert.Contains(t, out, "Recipe with ID: 9 not found.")
	assert.Contains(t, out, "Recipe updated successfully!")
	assert.Contains(t, out, "ID: 1, Title: Tomato Soup, Ingredients: water, salt\nInstructions:\nSimmer")
}

func TestApp_DeleteRecipe(t *testing.T) {
	h := newHarness(t, script(
		loginAdmin,
		[]string{"4"},
		createRecipe("Soup"),
		[]string{"4", "1", "no"},
		[]string{"4", "7", "yes"},
		[]string{"4", "1", "yes"},
		[]string{"2"},
		[]string{"5", "3"},
	))

	out := h.run(t)

	assert.Contains(t, out, "There are no recipes to delete")
	assert.Contains(t, out, "Deletion cancelled.")
	assert.Contains(t, out, "Recipe with ID: 7 not found.")
	assert.Contains(t, out, "Recipe with ID 1 deleted successfully!")
	assert.Contains(t, out, "There are no recipes to display")
}

func TestApp_SizePolicyReproducesDuplicateIDs(t *testing.T) {
	h := newHarness(t, script(
		loginAdmin,
		createRecipe("Soup"),
		createRecipe("Bread"),
		[]string{"4", "1", "yes"},
		createRecipe("Cake"),
		[]string{"5", "3"},
	), func(c *config.Config) { c.RecipeIDPolicy = "size" })

	out := h.run(t)

	assert.Contains(t, out, "Recipe 'Bread', with ID 2 created successfully!")
	assert.Contains(t, out, "Recipe 'Cake', with ID 2 created successfully!")
}

func TestApp_AdminManagesUsers(t *testing.T) {
	h := newHarness(t, script(
		signupBob,
		loginAdmin,
		[]string{"6"},
		[]string{"7", "nobody@example.com"},
		[]string{"7", "bob@example.com", "no"},
		[]string{"7", "admin@example.com", "yes"},
		[]string{"7", "bob@example.com", "yes"},
		[]string{"5", "3"},
	))

	out := h.run(t)

	assert.Contains(t, out, "All users:\nEmail: bob@example.com, Admin: false\n")
	assert.NotContains(t, out, "Email: admin@example.com")
	assert.Contains(t, out, "User nobody@example.com not found.")
	assert.Contains(t, out, "You have changed your mind")
	assert.Contains(t, out, "Cannot delete the last admin account.")
	assert.Contains(t, out, "User bob@example.com deleted successfully.")
	assert.Equal(t, 1, h.app.dir.Len())
}

func TestApp_ExpiredSessionLogsOut(t *testing.T) {
	h := newHarness(t, script(
		loginAdmin,
		[]string{"2"},
		[]string{"3"},
	))
	h.app.ttl = -time.Minute

	out := h.run(t)

	assert.Contains(t, out, "Login successful.")
	assert.Contains(t, out, "Your session has expired. Please log in again.")
	assert.Contains(t, out, "Exiting...")
	assert.False(t, h.app.isLoggedIn())
}

func TestApp_ExpiredSessionAsksNothing(t *testing.T) {
	tests := []struct {
		name   string
		choice string
		prompt string
	}{
		{name: "create", choice: "1", prompt: "Enter recipe title"},
		{name: "update", choice: "3", prompt: "Enter the ID of the recipe to update"},
		{name: "delete", choice: "4", prompt: "Enter recipe ID to delete"},
		{name: "delete user", choice: "7", prompt: "Enter the email of the user to delete"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newHarness(t, script(loginAdmin, []string{tt.choice, "3"}))
			h.app.ttl = -time.Minute

			out := h.run(t)

			assert.Contains(t, out, "Your session has expired. Please log in again.")
			assert.NotContains(t, out, tt.prompt)
			assert.NotContains(t, out, "Invalid input")
		})
	}
}

func TestApp_StandardUserDeleteUserIsCounted(t *testing.T) {
	h := newHarness(t, script(signupBob, loginBob, []string{"7", "5", "3"}))

	h.run(t)

	assert.Contains(t, h.logs.String(), `recipekeeper_actions_total{action=\"delete_user\",outcome=\"denied\"}`)
}

func TestApp_EndOfInputMidSession(t *testing.T) {
	h := newHarness(t, script(loginAdmin, []string{"1", "Soup"}))

	out := h.run(t)

	assert.Contains(t, out, "Login successful.")
	assert.False(t, h.app.isLoggedIn())
}

func TestApp_LogsStatisticsAtExit(t *testing.T) {
	h := newHarness(t, script(
		[]string{"1", "admin@example.com", "nope"},
		loginAdmin,
		createRecipe("Soup"),
		[]string{"6"},
		[]string{"5", "3"},
	))

	h.run(t)

	logs := h.logs.String()
	assert.Contains(t, logs, "session statistics")
	assert.Contains(t, logs, `recipekeeper_logins_total{outcome=\"failed\"}`)
	assert.Contains(t, logs, `recipekeeper_actions_total{action=\"create_recipe\",outcome=\"ok\"}`)
	assert.NotContains(t, logs, "nope")
}
