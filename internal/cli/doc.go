// Package cli is the console front end of recipekeeper.
//
// The startup menu offers login, account creation and exit. A successful
// login opens the session menu:
//
//	1. Create a new recipe
//	2. Read all recipes
//	3. Update a recipe
//	4. Delete a recipe
//	5. Log out and exit
//	6. View all users (Admin only)
//	7. Delete a user (Admin only)
//
// Anything other than a listed number is rejected and the menu asks again.
// End of input leaves the program cleanly from any prompt.
package cli
