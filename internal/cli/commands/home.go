package commands

import (
	"context"
	"fmt"

	"Portal/internal/cli/bootstrap"
)

type homeCmd struct{}

func (homeCmd) Name() string        { return "home" }
func (homeCmd) Description() string { return "Show the current user (requires login)" }
func (homeCmd) Usage() string       { return "home" }

func (homeCmd) Run(_ context.Context, app *bootstrap.App, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	profile, ok := app.Auth.CurrentUser()
	if !ok {
		return ErrNotLoggedIn
	}
	if profile == nil {
		fmt.Fprintln(Out, "Logged in (no profile)")
		return nil
	}
	fmt.Fprintf(Out, "Welcome, %s\n", displayName(profile.Name, profile.Login))
	rows := [][2]string{
		{"Login", profile.Login},
		{"Name", profile.Name},
		{"Sex", profile.Sex},
		{"Created", profile.DateDat},
		{"Updated", profile.UpdateDat},
	}
	for _, r := range rows {
		if r[1] == "" {
			continue
		}
		fmt.Fprintf(Out, "  %-8s %s\n", r[0]+":", r[1])
	}
	return nil
}

func displayName(name, login string) string {
	if name != "" {
		return name
	}
	if login != "" {
		return login
	}
	return "user"
}

func init() { RegisterCmd(homeCmd{}) }
