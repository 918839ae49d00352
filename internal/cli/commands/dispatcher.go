package commands

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"Portal/internal/cli/api"
	"Portal/internal/cli/bootstrap"
	"Portal/internal/cli/service"
)

// Dispatch is the single entry point to execute CLI commands.
// It prints help and usage messages and returns a process exit code.
func Dispatch(ctx context.Context, app *bootstrap.App, args []string) int {
	// If user passed global --help after flags parsing, show global usage
	for _, a := range os.Args[1:] {
		if a == "--help" || a == "-h" {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
	}

	if len(args) == 0 {
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	name := strings.ToLower(args[0])
	if name == "help" { // portal help [command]
		if len(args) == 1 {
			fmt.Fprint(Out, FormatGlobalUsage())
			return 0
		}
		if c, ok := Get(args[1]); ok {
			fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
			return 0
		}
		fmt.Fprintf(Out, "Unknown command: %s\n\n", args[1])
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	c, ok := Get(name)
	if !ok {
		fmt.Fprintf(Out, "Unknown command: %s\n\n", name)
		fmt.Fprint(Out, FormatGlobalUsage())
		return 2
	}

	err := c.Run(ctx, app, args[1:])
	var (
		reqErr  *api.RequestError
		sessErr *service.SessionError
	)
	switch {
	case err == nil:
		return 0
	case errors.Is(err, ErrUsage):
		fmt.Fprintf(Out, "Usage: %s\n", c.Usage())
		return 2
	case errors.As(err, &sessErr):
		// ошибку запроса (если была) уже показал notifier, локальную показываем здесь
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), sessErr)
		return 1
	case errors.As(err, &reqErr):
		// сообщение уже показано пользователю через notifier
		return 1
	default:
		fmt.Fprintf(Out, "%s error: %v\n", c.Name(), err)
		return 1
	}
}
