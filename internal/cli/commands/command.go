package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"Portal/internal/cli/bootstrap"
)

// ErrUsage is returned by a command when arguments are invalid and usage should be shown.
var ErrUsage = errors.New("usage")

// ErrNotLoggedIn is returned by commands that need an established session.
var ErrNotLoggedIn = errors.New("not logged in: run `login` first")

// Command represents a CLI subcommand.
type Command interface {
	// Name returns the command name as typed by the user, e.g. "login".
	Name() string
	// Description is a short human-readable description shown in help.
	Description() string
	// Usage returns the exact usage string, e.g. "login <username> [password]".
	Usage() string
	// Run executes the command with provided args (without the command name).
	Run(ctx context.Context, app *bootstrap.App, args []string) error
}

// registry holds available commands by name.
var registry = map[string]Command{}

// routes maps application paths to the commands that render them.
var routes = map[string]string{
	"/login": "login",
	"/":      "home",
}

// Out: общий writer для вывода CLI. По умолчанию os.Stdout, но в тестах может переназначаться.
var Out io.Writer = os.Stdout

// RegisterCmd adds a command to the registry. Should be called from init() of each command.
func RegisterCmd(cmd Command) {
	registry[cmd.Name()] = cmd
}

// Get returns a command by name or by route path.
func Get(name string) (Command, bool) {
	if n, ok := routes[name]; ok {
		name = n
	}
	c, ok := registry[name]
	return c, ok
}

// List returns all registered commands sorted by name.
func List() []Command {
	list := make([]Command, 0, len(registry))
	for _, c := range registry {
		list = append(list, c)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name() < list[j].Name() })
	return list
}

// FormatGlobalUsage builds a help text for all commands.
func FormatGlobalUsage() string {
	lines := []string{
		"Portal CLI",
		"",
		"Usage:",
		"  portal [--base-url URL] [--session-backend fs|sqlite|memory] <command> [args]",
		"",
		"Commands:",
	}
	for _, c := range List() {
		lines = append(lines, fmt.Sprintf("  %-32s %s", c.Usage(), c.Description()))
	}
	paths := make([]string, 0, len(routes))
	for p := range routes {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	lines = append(lines, "", "Routes:")
	for _, p := range paths {
		lines = append(lines, fmt.Sprintf("  %-32s %s", p, routes[p]))
	}
	return strings.Join(lines, "\n") + "\n"
}
