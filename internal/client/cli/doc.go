// Package cli provides the interactive jobhub command-line client.
//
// It wires configuration, local storage, the backend API client and the
// session core (credential store, OTP machine, auth service, idle monitor)
// behind a small REPL. Every entered line counts as user activity for the
// idle monitor. A background watcher pings the backend and shows whether the
// client is online.
//
// Commands:
//   - register, verify <code>, resend: sign up with OTP email verification
//   - login, logout, role <name>, whoami: session handling
//   - status: OTP and idle state
//   - ok: dismiss the idle warning
//   - help, exit | quit
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
// See App, StartOnlineStatusWatcher, and runREPL for details.
package cli
