package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/dmitrijs2005/streamstock/internal/client/client"
	"github.com/dmitrijs2005/streamstock/internal/client/media"
	"github.com/dmitrijs2005/streamstock/internal/common"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

type access int

const (
	anyone access = iota
	signedIn
	signedOut
)

// command is one REPL verb. areas limits it to the named areas; an empty
// list means every area.
type command struct {
	name    string
	aliases []string
	usage   string
	areas   []string
	access  access
	run     func(ctx context.Context, args []string) error
}

func (c command) matches(word string) bool {
	return c.name == word || slices.Contains(c.aliases, word)
}

func (c command) availableIn(area string, loggedIn bool) bool {
	if len(c.areas) > 0 && !slices.Contains(c.areas, area) {
		return false
	}
	switch c.access {
	case signedIn:
		return loggedIn
	case signedOut:
		return !loggedIn
	}
	return true
}

// execIface defines the minimal surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	areaName() string
	commands() []command
}

// runREPL starts a simple read-eval-print loop.
//
// It reads a line from reader, parses the first token as the command and
// dispatches to the matching entry of a.commands(). The loop exits on EOF or
// when the user types "exit" or "quit".
//
// "help" lists the commands available in the current area and session
// state. A command that exists but is unavailable right now is reported
// instead of run. Errors returned by commands are printed in a user-facing
// form and never stop the loop.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("ss> %s > ", statusFn()))
		line, err := reader.ReadString('\n')
		if err != nil && line == "" {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			if err != nil {
				return
			}
			continue
		}
		cmd, args := parts[0], parts[1:]

		switch cmd {
		case "help":
			printlnFn("Available commands: " + strings.Join(available(a), ", ") + ", exit")

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			dispatch(ctx, a, cmd, args)
		}

		if err != nil {
			return
		}
	}
}

func available(a execIface) []string {
	var names []string
	for _, c := range a.commands() {
		if c.availableIn(a.areaName(), a.isLoggedIn()) {
			names = append(names, c.name)
		}
	}
	return names
}

func dispatch(ctx context.Context, a execIface, cmd string, args []string) {
	for _, c := range a.commands() {
		if !c.matches(cmd) {
			continue
		}
		if !c.availableIn(a.areaName(), a.isLoggedIn()) {
			switch {
			case len(c.areas) > 0 && !slices.Contains(c.areas, a.areaName()):
				printlnFn(fmt.Sprintf("%s is not available in the %s area", cmd, a.areaName()))
			case c.access == signedIn:
				printlnFn("Please login first")
			default:
				printlnFn("Please logout first")
			}
			return
		}
		if err := c.run(ctx, args); err != nil {
			printlnFn(describeError(err, c.usage))
		}
		return
	}
	printlnFn("Unknown command:", cmd)
}

var errUsage = errors.New("usage")

// describeError maps an API or input error to a line for the user.
func describeError(err error, usage string) string {
	switch {
	case errors.Is(err, errUsage):
		return "Usage: " + usage
	case errors.Is(err, client.ErrRoleMismatch):
		return "This account cannot use this area."
	case errors.Is(err, client.ErrUnauthorized):
		return "Not authorized, please login again."
	case errors.Is(err, client.ErrForbidden):
		return "Access denied."
	case errors.Is(err, client.ErrNotFound):
		return "Not found."
	case errors.Is(err, client.ErrUnavailable):
		return "Server unavailable, try again later."
	case errors.Is(err, media.ErrDisabled):
		return "Image upload is not configured; enter an image URL instead."
	case errors.Is(err, common.ErrorValidation), errors.Is(err, client.ErrBadRequest):
		return "Invalid input: " + err.Error()
	case errors.Is(err, io.EOF):
		return "Input closed."
	}
	return "Error: " + err.Error()
}
