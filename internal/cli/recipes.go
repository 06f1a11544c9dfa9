package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/recipekeeper/internal/auth"
	"github.com/dmitrijs2005/recipekeeper/internal/common"
	"github.com/dmitrijs2005/recipekeeper/internal/recipes"
)

const instructionsPrompt = `Please enter your instructions line by line.
Once you are done, enter an empty line to finish:
Example:
1. Chop onions
2. Peel potatoes`

// recipeFailed prints the user-facing message for a failed recipe action.
func (a *App) recipeFailed(ctx context.Context, id int, err error) error {
	if stop := a.sessionFailed(ctx, err); stop != nil {
		return stop
	}
	switch {
	case errors.Is(err, common.ErrorNotFound):
		fmt.Fprintf(a.out, "Recipe with ID: %d not found.\n\n", id)
	case errors.Is(err, common.ErrorValidation):
		fmt.Fprintln(a.out, "Recipe fields must not be blank.")
	default:
		a.logger.Error(ctx, "recipe action failed", "recipe_id", id, "error", err)
		fmt.Fprintln(a.out, "Something went wrong, please try again.")
	}
	return nil
}

// CreateRecipe checks the session before asking for any field, so an
// expired session never collects a recipe it cannot store.
func (a *App) CreateRecipe(ctx context.Context) error {
	if err := a.session.Check(ctx, auth.ActionCreateRecipe); err != nil {
		return a.recipeFailed(ctx, 0, err)
	}

	title, err := GetNonBlank(a.reader, "Enter recipe title: ", "Please ensure you enter a title", a.out)
	if err != nil {
		return err
	}
	ingredients, err := GetNonBlank(a.reader, "Enter ingredients (separate each ingredient with a comma): ", "Please ensure you enter ingredients.", a.out)
	if err != nil {
		return err
	}
	instructions, err := GetNonBlankMultiline(a.reader, instructionsPrompt, "Please ensure you enter instructions", a.out)
	if err != nil {
		return err
	}

	r, err := a.session.CreateRecipe(ctx, title, ingredients, instructions)
	if err != nil {
		return a.recipeFailed(ctx, 0, err)
	}
	fmt.Fprintf(a.out, "Recipe '%s', with ID %d created successfully!\n\n", r.Title, r.ID)
	return nil
}

func (a *App) ReadRecipes(ctx context.Context) error {
	list, err := a.session.Recipes(ctx)
	if err != nil {
		return a.recipeFailed(ctx, 0, err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "There are no recipes to display")
		return nil
	}

	fmt.Fprintln(a.out, "Favourite recipes: ")
	for _, r := range list {
		fmt.Fprintln(a.out, r.String())
	}
	fmt.Fprintln(a.out)
	return nil
}

// hasRecipes prints advisory when the store is empty.
func (a *App) hasRecipes(ctx context.Context, advisory string) (bool, error) {
	list, err := a.session.Recipes(ctx)
	if err != nil {
		return false, a.recipeFailed(ctx, 0, err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, advisory)
		return false, nil
	}
	return true, nil
}

// readRecipeID reads an id; a malformed one is reported and ok is false.
func (a *App) readRecipeID(prompt string) (id int, ok bool, err error) {
	id, err = GetInt(a.reader, prompt, a.out)
	if errors.Is(err, errBadNumber) {
		fmt.Fprintln(a.out, "Please enter a valid recipe ID.")
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// UpdateRecipe asks per field whether it should change, so only the
// chosen fields are replaced.
func (a *App) UpdateRecipe(ctx context.Context) error {
	ok, err := a.hasRecipes(ctx, "There are no recipes to update")
	if !ok || err != nil {
		return err
	}
	id, ok, err := a.readRecipeID("Enter the ID of the recipe to update: ")
	if !ok || err != nil {
		return err
	}
	if _, err := a.session.Recipe(ctx, id); err != nil {
		return a.recipeFailed(ctx, id, err)
	}

	var u recipes.RecipeUpdate
	if u.Title, err = a.askField("Would you like to change the title? (yes/no): ", func() (string, error) {
		return GetNonBlank(a.reader, "Enter a new title: ", "Please input a valid title.", a.out)
	}); err != nil {
		return err
	}
	if u.Ingredients, err = a.askField("Would you like to change the ingredients? (yes/no): ", func() (string, error) {
		return GetNonBlank(a.reader, "Enter new ingredients: ", "Please ensure you enter ingredients.", a.out)
	}); err != nil {
		return err
	}
	if u.Instructions, err = a.askField("Would you like to change the instructions? (yes/no): ", func() (string, error) {
		return GetNonBlankMultiline(a.reader, "Enter new instructions line by line. Enter an empty line to finish updating your instructions:", "Please ensure you enter instructions", a.out)
	}); err != nil {
		return err
	}

	if _, err := a.session.UpdateRecipe(ctx, id, u); err != nil {
		return a.recipeFailed(ctx, id, err)
	}
	fmt.Fprint(a.out, "Recipe updated successfully!\n\n")
	return nil
}

// askField returns nil when the user keeps the field as it is.
func (a *App) askField(question string, read func() (string, error)) (*string, error) {
	change, err := GetYesNo(a.reader, question, a.out)
	if err != nil || !change {
		return nil, err
	}
	v, err := read()
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func (a *App) DeleteRecipe(ctx context.Context) error {
	ok, err := a.hasRecipes(ctx, "There are no recipes to delete")
	if !ok || err != nil {
		return err
	}
	id, ok, err := a.readRecipeID("Enter recipe ID to delete: ")
	if !ok || err != nil {
		return err
	}

	confirmed, err := GetYesNo(a.reader, "Are you sure you want to delete this recipe? (yes/no): ", a.out)
	if err != nil {
		return err
	}
	if !confirmed {
		fmt.Fprintln(a.out, "Deletion cancelled.")
		return nil
	}

	if err := a.session.DeleteRecipe(ctx, id); err != nil {
		return a.recipeFailed(ctx, id, err)
	}
	fmt.Fprintf(a.out, "Recipe with ID %d deleted successfully!\n\n", id)
	return nil
}
