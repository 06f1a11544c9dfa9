// Package auth contains the permission model and the signed session tokens
// issued after a successful login.
package auth

// Action names an operation a logged-in user can request.
type Action string

const (
	ActionCreateRecipe Action = "create_recipe"
	ActionReadRecipes  Action = "read_recipes"
	ActionUpdateRecipe Action = "update_recipe"
	ActionDeleteRecipe Action = "delete_recipe"
	ActionExit         Action = "exit"
	ActionViewAllUsers Action = "view_all_users"
	ActionDeleteUser   Action = "delete_user"
)

// sessionMenu is the numbering of the session menu, starting at 1.
var sessionMenu = []Action{
	ActionCreateRecipe,
	ActionReadRecipes,
	ActionUpdateRecipe,
	ActionDeleteRecipe,
	ActionExit,
	ActionViewAllUsers,
	ActionDeleteUser,
}

// MenuSize is the highest valid session menu choice.
const MenuSize = 7

// ActionForChoice maps a session menu choice to its action.
func ActionForChoice(n int) (Action, bool) {
	if n < 1 || n > len(sessionMenu) {
		return "", false
	}
	return sessionMenu[n-1], true
}

// adminOnly lists the actions a standard account may not perform.
var adminOnly = map[Action]struct{}{
	ActionViewAllUsers: {},
	ActionDeleteUser:   {},
}

// CanAccess reports whether an account with the given role may perform
// action. Admins may do anything; standard accounts everything except the
// admin-only actions, including actions this package does not know about.
func CanAccess(admin bool, action Action) bool {
	if admin {
		return true
	}
	_, denied := adminOnly[action]
	return !denied
}

// AdminOnly reports whether action is restricted to admins.
func AdminOnly(action Action) bool {
	_, ok := adminOnly[action]
	return ok
}
