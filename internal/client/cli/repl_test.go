package cli

import (
	"bufio"
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeExec struct {
	loggedIn bool

	calls    []string
	activity int
}

func (f *fakeExec) isLoggedIn() bool       { return f.loggedIn }
func (f *fakeExec) Activity(source string) { f.activity++ }
func (f *fakeExec) Register(ctx context.Context) error {
	f.calls = append(f.calls, "register")
	return nil
}
func (f *fakeExec) Verify(ctx context.Context, code string) error {
	f.calls = append(f.calls, "verify:"+code)
	return nil
}
func (f *fakeExec) Resend(ctx context.Context) error {
	f.calls = append(f.calls, "resend")
	return nil
}
func (f *fakeExec) Login(ctx context.Context) error {
	f.calls = append(f.calls, "login")
	f.loggedIn = true
	return nil
}
func (f *fakeExec) Logout(ctx context.Context) error {
	f.calls = append(f.calls, "logout")
	f.loggedIn = false
	return nil
}
func (f *fakeExec) SwitchRole(ctx context.Context, role string) error {
	f.calls = append(f.calls, "role:"+role)
	return nil
}
func (f *fakeExec) WhoAmI(ctx context.Context) error {
	f.calls = append(f.calls, "whoami")
	return nil
}
func (f *fakeExec) Status(ctx context.Context) error {
	f.calls = append(f.calls, "status")
	return nil
}
func (f *fakeExec) Acknowledge(ctx context.Context) error {
	f.calls = append(f.calls, "ok")
	return nil
}

func capturePrintln(t *testing.T) *[]string {
	t.Helper()
	var (
		mu    sync.Mutex
		lines []string
	)
	orig := printlnFn
	printlnFn = func(a ...any) (int, error) {
		parts := make([]string, 0, len(a))
		for _, v := range a {
			parts = append(parts, strings.TrimSpace(toString(v)))
		}
		mu.Lock()
		lines = append(lines, strings.Join(parts, " "))
		mu.Unlock()
		return 0, nil
	}
	t.Cleanup(func() { printlnFn = orig })
	return &lines
}

func toString(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}

func TestRunREPL_DispatchesCommands(t *testing.T) {
	capturePrintln(t)

	input := strings.NewReader(strings.Join([]string{
		"help",
		"register",
		"verify 123456",
		"resend",
		"",
		"login",
		"whoami",
		"role hire",
		"ok",
		"status",
		"logout",
		"foobar",
		"exit",
		"login",
	}, "\n"))

	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "status" }, bufio.NewReader(input))

	assert.Equal(t, []string{
		"register", "verify:123456", "resend", "login", "whoami", "role:hire", "ok", "status", "logout",
	}, exec.calls)
	assert.Equal(t, 12, exec.activity, "every non-empty line is activity")
}

func TestRunREPL_UsageAndQuit(t *testing.T) {
	out := capturePrintln(t)

	exec := &fakeExec{loggedIn: true}
	runREPL(context.Background(), exec, func() string { return "s" }, bufio.NewReader(strings.NewReader("verify\nrole\nquit\n")))

	assert.Empty(t, exec.calls)
	assert.Contains(t, *out, "Usage: verify <code>")
	assert.Contains(t, *out, "Usage: role <name>")
	assert.Contains(t, *out, "Bye!")
}

func TestRunREPL_HelpDependsOnLogin(t *testing.T) {
	out := capturePrintln(t)

	runREPL(context.Background(), &fakeExec{}, func() string { return "" }, bufio.NewReader(strings.NewReader("help")))
	runREPL(context.Background(), &fakeExec{loggedIn: true}, func() string { return "" }, bufio.NewReader(strings.NewReader("help")))

	assert.Contains(t, *out, "Available commands: register, verify <code>, resend, login, status, exit")
	assert.Contains(t, *out, "Available commands: whoami, role <name>, ok, status, logout, exit")
}

func TestRunREPL_EOFStops(t *testing.T) {
	capturePrintln(t)
	exec := &fakeExec{}
	runREPL(context.Background(), exec, func() string { return "" }, bufio.NewReader(strings.NewReader("")))
	assert.Empty(t, exec.calls)
	assert.Zero(t, exec.activity)
}
