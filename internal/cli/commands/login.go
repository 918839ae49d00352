package commands

import (
	"context"
	"fmt"
	"strings"

	"Portal/internal/cli/bootstrap"
)

type loginCmd struct{}

func (loginCmd) Name() string        { return "login" }
func (loginCmd) Description() string { return "Login and store the session" }
func (loginCmd) Usage() string       { return "login [<username> [<password>]]" }

func (loginCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) > 2 {
		return ErrUsage
	}
	var username, password string
	var err error
	if len(args) > 0 {
		username = args[0]
	} else if username, err = prompt("Username: "); err != nil {
		return fmt.Errorf("read username: %w", err)
	}
	if len(args) > 1 {
		password = args[1]
	} else {
		fmt.Fprint(Out, "Password: ")
		if password, err = readPassword(); err != nil {
			return fmt.Errorf("read password: %w", err)
		}
	}
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return ErrUsage
	}

	profile, err := app.Auth.Login(ctx, username, password)
	if err != nil {
		return err
	}
	if profile != nil && profile.Name != "" {
		fmt.Fprintf(Out, "Logged in as %s (%s)\n", profile.Name, profile.Login)
		return nil
	}
	fmt.Fprintln(Out, "Logged in successfully")
	return nil
}

func init() { RegisterCmd(loginCmd{}) }
