package cli

import (
	"context"
	"errors"

	"github.com/bennieslab/threatwatch/internal/client/api"
	"github.com/bennieslab/threatwatch/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and exchanges them for a bearer token,
// which is persisted in the session store.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username (email)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}

	if err := a.client.Login(ctx, username, password); err != nil {
		// guidance replaces the error: the command itself still succeeds
		if errors.Is(err, common.ErrUnauthorized) {
			a.printf("Login failed. Please check your credentials.\n")
			return nil
		}
		if errors.Is(err, common.ErrUnavailable) {
			a.printf("A network error occurred. Please try again.\n")
			return nil
		}
		return err
	}

	a.printf("Login successful.\n")
	return nil
}

// Register prompts for the account fields and creates a new account.
// Username mirrors the email address, as the signup form does.
func (a *App) Register(ctx context.Context) error {
	firstName, err := getSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return err
	}
	lastName, err := getSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return err
	}
	email, err := getSimpleText(a.reader, "Email", a.out)
	if err != nil {
		return err
	}
	phone, err := getSimpleText(a.reader, "Phone number", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.out, "Enter password")
	if err != nil {
		return err
	}
	confirm, err := getPassword(a.out, "Confirm password")
	if err != nil {
		return err
	}

	if firstName == "" || lastName == "" || email == "" || password == "" {
		a.printf("Please fill in all required fields.\n")
		return nil
	}
	if password != confirm {
		a.printf("Passwords do not match.\n")
		return nil
	}

	err = a.client.Register(ctx, api.RegisterRequest{
		Username:  email,
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Phone:     phone,
		Password:  password,
	})
	if err != nil {
		var se *api.StatusError
		if errors.As(err, &se) {
			a.printf("Registration failed: %s\n", se.Detail)
			return nil
		}
		if errors.Is(err, common.ErrUnavailable) {
			a.printf("A network error occurred. Please try again.\n")
			return nil
		}
		return err
	}

	a.printf("Account created. You can now log in.\n")
	return nil
}

// Logout clears the stored credential.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Clear(); err != nil {
		return err
	}
	a.printf("You have been logged out.\n")
	return nil
}

// Whoami prints the current session identity and, when readable, the
// credential's expiry.
func (a *App) Whoami(ctx context.Context) error {
	if _, ok := a.store.Token(); !ok {
		a.printf("You are not logged in.\n")
		return nil
	}

	identity, err := a.client.CurrentUser(ctx)
	if err != nil {
		if errors.Is(err, common.ErrUnauthorized) {
			// the expiry hook already printed the re-login guidance
			return nil
		}
		return err
	}

	a.printf("%s %s\n", identity.FirstName, identity.LastName)
	a.printf("Email: %s\n", identity.Email)
	a.printf("Phone: %s\n", identity.Phone)
	if exp, ok := a.store.TokenExpiry(); ok {
		a.printf("Session expires: %s\n", exp.Local().Format("2006-01-02 15:04:05"))
	}
	return nil
}

// requireIdentity fetches the session identity, guiding the user to log in
// when no credential is stored.
func (a *App) requireIdentity(ctx context.Context) (*api.Identity, error) {
	if _, ok := a.store.Token(); !ok {
		a.printf("You are not logged in. Please log in first.\n")
		return nil, common.ErrUnauthorized
	}
	return a.client.CurrentUser(ctx)
}
