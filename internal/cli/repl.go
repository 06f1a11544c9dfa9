package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/dmitrijs2005/recipekeeper/internal/auth"
)

// errLoggedOut tells the session loop that the session cannot continue.
var errLoggedOut = errors.New("logged out")

// startupExec is what the startup menu dispatches to. App satisfies it;
// tests provide a stub.
type startupExec interface {
	Login(ctx context.Context) error
	CreateAccount(ctx context.Context) error
}

// sessionExec is what the session menu dispatches to.
type sessionExec interface {
	CreateRecipe(ctx context.Context) error
	ReadRecipes(ctx context.Context) error
	UpdateRecipe(ctx context.Context) error
	DeleteRecipe(ctx context.Context) error
	ViewAllUsers(ctx context.Context) error
	DeleteUser(ctx context.Context) error
}

const startupMenuSize = 3

func printStartupMenu(w io.Writer) {
	fmt.Fprintln(w, "Welcome to Recipe Keeper!")
	fmt.Fprintln(w, "1. Log in")
	fmt.Fprintln(w, "2. Create an account")
	fmt.Fprintln(w, "3. Exit")
}

func printSessionMenu(w io.Writer) {
	fmt.Fprintln(w, "\nMenu:")
	fmt.Fprintln(w, "1. Create a new recipe")
	fmt.Fprintln(w, "2. Read all recipes")
	fmt.Fprintln(w, "3. Update a recipe")
	fmt.Fprintln(w, "4. Delete a recipe")
	fmt.Fprintln(w, "5. Log out and exit")
	fmt.Fprintln(w, "6. View all users (Admin only)")
	fmt.Fprintln(w, "7. Delete a user (Admin only)")
}

// runStartup loops over the startup menu. It returns nil when the user
// exits or input ends; other errors come from the handlers.
func runStartup(ctx context.Context, a startupExec, reader *bufio.Reader, w io.Writer) error {
	for {
		printStartupMenu(w)
		choice, err := GetChoice(reader, startupMenuSize, w)
		if err != nil {
			return endOfInput(err)
		}

		switch choice {
		case 1:
			err = a.Login(ctx)
		case 2:
			err = a.CreateAccount(ctx)
		case 3:
			fmt.Fprintln(w, "Exiting...")
			return nil
		}
		if err != nil {
			return endOfInput(err)
		}
	}
}

// runSessionMenu loops over the session menu until the user logs out, the
// session ends or input runs out. io.EOF is passed through so the caller
// can stop the whole program.
func runSessionMenu(ctx context.Context, a sessionExec, reader *bufio.Reader, w io.Writer) error {
	for {
		printSessionMenu(w)
		choice, err := GetChoice(reader, auth.MenuSize, w)
		if err != nil {
			return err
		}

		action, _ := auth.ActionForChoice(choice)
		switch action {
		case auth.ActionCreateRecipe:
			err = a.CreateRecipe(ctx)
		case auth.ActionReadRecipes:
			err = a.ReadRecipes(ctx)
		case auth.ActionUpdateRecipe:
			err = a.UpdateRecipe(ctx)
		case auth.ActionDeleteRecipe:
			err = a.DeleteRecipe(ctx)
		case auth.ActionExit:
			fmt.Fprintln(w, "Exiting...")
			return nil
		case auth.ActionViewAllUsers:
			err = a.ViewAllUsers(ctx)
		case auth.ActionDeleteUser:
			err = a.DeleteUser(ctx)
		}

		if errors.Is(err, errLoggedOut) {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func endOfInput(err error) error {
	if errors.Is(err, io.EOF) {
		return nil
	}
	return err
}
