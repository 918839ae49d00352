package commands

import (
	"context"
	"errors"
	"fmt"

	"Portal/internal/cli/bootstrap"
	"Portal/internal/cli/service"
)

type logoutCmd struct{}

func (logoutCmd) Name() string        { return "logout" }
func (logoutCmd) Description() string { return "Logout and clear the stored session" }
func (logoutCmd) Usage() string       { return "logout" }

func (logoutCmd) Run(ctx context.Context, app *bootstrap.App, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	if _, ok := app.Auth.CurrentUser(); !ok {
		fmt.Fprintln(Out, "Not logged in")
		return nil
	}
	err := app.Auth.Logout(ctx)
	var sessErr *service.SessionError
	if errors.As(err, &sessErr) {
		// сохранённая запись осталась и восстановится при следующем запуске
		return err
	}
	fmt.Fprintln(Out, "Logged out")
	return err
}

func init() { RegisterCmd(logoutCmd{}) }
