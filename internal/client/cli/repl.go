package cli

import (
	"bufio"
	"context"
	"fmt"
	"strings"
)

// printlnFn is a test seam for user-facing output. In tests, replace it with a stub.
var printlnFn = fmt.Println

// execIface defines the minimal command surface the REPL needs to operate.
// The real App type satisfies this interface; tests can provide a lightweight stub.
type execIface interface {
	isLoggedIn() bool
	Activity(source string)
	Register(ctx context.Context) error
	Verify(ctx context.Context, code string) error
	Resend(ctx context.Context) error
	Login(ctx context.Context) error
	Logout(ctx context.Context) error
	SwitchRole(ctx context.Context, role string) error
	WhoAmI(ctx context.Context) error
	Status(ctx context.Context) error
	Acknowledge(ctx context.Context) error
}

// runREPL starts a simple read–eval–print loop for the jobhub CLI.
//
// It reads a line from reader, reports it as user activity, parses the first
// token as the command, and dispatches to methods on 'a'. Unknown commands
// are reported back to the user. The loop exits on EOF or when the user
// types "exit" or "quit".
//
// Prompt & Commands
//
// The prompt shows the current status (from statusFn) and accepts commands:
//
//	Not logged in:
//	  - help           show available commands
//	  - register       create an account (sends a verification code)
//	  - verify <code>  confirm the emailed code
//	  - resend         request a new code once the cooldown is over
//	  - login          authenticate
//	  - status         verification and idle state
//	  - exit | quit    leave the program
//
//	Logged in:
//	  - help           show available commands
//	  - whoami         show the signed-in account
//	  - role <name>    switch the active role
//	  - ok             dismiss the inactivity warning
//	  - status         verification and idle state
//	  - logout         log out
//	  - exit | quit    leave the program
//
// Any errors returned by command handlers are ignored here; handlers print
// their own errors. This keeps the REPL loop resilient and focused on I/O.
func runREPL(ctx context.Context, a execIface, statusFn func() string, reader *bufio.Reader) {
	for {
		printlnFn(fmt.Sprintf("jobhub %s> ", statusFn()))
		line, err := readLine(reader)
		if err != nil {
			return
		}
		parts := strings.Fields(line)
		if len(parts) == 0 {
			continue
		}
		a.Activity("key")

		cmd := parts[0]
		args := parts[1:]

		switch cmd {
		case "help":
			if a.isLoggedIn() {
				printlnFn("Available commands: whoami, role <name>, ok, status, logout, exit")
			} else {
				printlnFn("Available commands: register, verify <code>, resend, login, status, exit")
			}

		case "register":
			_ = a.Register(ctx)

		case "verify":
			if len(args) == 0 {
				printlnFn("Usage: verify <code>")
				continue
			}
			_ = a.Verify(ctx, args[0])

		case "resend":
			_ = a.Resend(ctx)

		case "login":
			_ = a.Login(ctx)

		case "logout":
			_ = a.Logout(ctx)

		case "role":
			if len(args) == 0 {
				printlnFn("Usage: role <name>")
				continue
			}
			_ = a.SwitchRole(ctx, args[0])

		case "whoami":
			_ = a.WhoAmI(ctx)

		case "status":
			_ = a.Status(ctx)

		case "ok":
			_ = a.Acknowledge(ctx)

		case "exit", "quit":
			printlnFn("Bye!")
			return

		default:
			printlnFn("Unknown command:", cmd)
		}
	}
}
