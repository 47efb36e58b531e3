package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/jobhub/internal/client/models"
	"github.com/dmitrijs2005/jobhub/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Register prompts for the sign-up form and starts the OTP verification.
// The password must be long enough and typed twice identically; otherwise
// nothing is sent. Both password slices are wiped before returning.
func (a *App) Register(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}
	name, err := getSimpleText(a.reader, "Enter display name", a.out)
	if err != nil {
		return err
	}
	role, err := getSimpleText(a.reader, "Preferred role (work | hire)", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)

	confirm, err := getPassword(a.reader, "Repeat password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)
	a.Activity("key")

	if err := common.ValidatePassword(password, confirm); err != nil {
		printlnFn("Registration failed:", common.Message(err))
		return err
	}

	err = a.authService.Register(ctx, models.RegisterRequest{
		Email:       email,
		Password:    string(password),
		DisplayName: name,
		Role:        role,
	})
	if err != nil {
		printlnFn("Registration failed:", common.Message(err))
		return err
	}

	printlnFn(fmt.Sprintf("We sent a %d-digit code to %s. Enter: verify <code>", common.OTPCodeLength, email))
	return nil
}

// Verify submits an OTP code.
func (a *App) Verify(ctx context.Context, code string) error {
	if err := a.otp.SubmitCode(ctx, code); err != nil {
		printlnFn("Verification failed:", common.Message(err))
		return err
	}

	if s, _ := a.store.Session(ctx); s != nil {
		printlnFn(fmt.Sprintf("Email verified. Welcome, %s!", s.DisplayName()))
	} else {
		printlnFn("Email verified. You can now log in.")
	}
	return nil
}

// Resend asks for a fresh OTP code.
func (a *App) Resend(ctx context.Context) error {
	err := a.otp.Resend(ctx)
	switch {
	case errors.Is(err, common.ErrCooldownActive):
		printlnFn(fmt.Sprintf("You can request a new code in %s.", a.otp.Status().CooldownRemaining))
		return err
	case err != nil:
		printlnFn("Could not resend code:", common.Message(err))
		return err
	}
	printlnFn("A new code was sent to", a.otp.Status().Email)
	return nil
}

// Login prompts the user for credentials and signs in.
func (a *App) Login(ctx context.Context) error {
	email, err := getSimpleText(a.reader, "Enter email", a.out)
	if err != nil {
		return err
	}

	password, err := getPassword(a.reader, "Enter password", a.out)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(password)
	a.Activity("key")

	s, err := a.authService.Login(ctx, email, string(password))
	if err != nil {
		printlnFn("Login unsuccessful:", common.Message(err))
		return err
	}

	printlnFn(fmt.Sprintf("Welcome, %s! Active role: %s", s.DisplayName(), s.Role))
	return nil
}

// Logout signs the user out. The notice is printed through Notify.
func (a *App) Logout(ctx context.Context) error {
	if err := a.authService.Logout(ctx, false); err != nil {
		printlnFn("Logout failed:", err.Error())
		return err
	}
	return nil
}

// SwitchRole changes the active role.
func (a *App) SwitchRole(ctx context.Context, role string) error {
	s, err := a.authService.SwitchActiveRole(ctx, role)
	if err != nil {
		printlnFn("Cannot switch role:", common.Message(err))
		return err
	}
	printlnFn("Active role:", s.Role)
	return nil
}

// WhoAmI prints the signed-in account.
func (a *App) WhoAmI(ctx context.Context) error {
	s, err := a.authService.CurrentSession(ctx)
	if err != nil {
		return err
	}
	if s == nil {
		printlnFn("Not signed in.")
		return nil
	}

	roles := s.Roles
	if len(roles) == 0 {
		roles = []string{s.Role}
	}
	printlnFn(fmt.Sprintf("%s <%s> id=%s role=%s roles=%s", s.DisplayName(), s.Email, s.ID, s.Role, strings.Join(roles, ",")))
	return nil
}

// Status prints the verification and idle state.
func (a *App) Status(ctx context.Context) error {
	v := a.otp.Status()
	line := "verification: " + v.Phase.String()
	if v.Email != "" {
		line += " (" + v.Email + ")"
	}
	if v.CooldownRemaining > 0 {
		line += fmt.Sprintf(", resend in %s", v.CooldownRemaining)
	}
	if v.Err != "" {
		line += ", last error: " + v.Err
	}
	printlnFn(line)

	s := a.idle.Status()
	line = "idle monitor: " + s.Phase.String()
	if !s.LogoutAt.IsZero() {
		line += fmt.Sprintf(", sign-out at %s", s.LogoutAt.Format("15:04:05"))
	}
	printlnFn(line)
	return nil
}

// Acknowledge dismisses the idle warning.
func (a *App) Acknowledge(ctx context.Context) error {
	if a.idle.Acknowledge() {
		printlnFn("Session extended.")
	} else {
		printlnFn("Nothing to acknowledge.")
	}
	return nil
}

func (a *App) getStatus() string {
	s := ""
	if sess, err := a.store.Session(context.Background()); err == nil && sess != nil {
		s = sess.Email + "/" + sess.Role + " "
	}
	if m := a.getMode(); m != "" {
		s = s + string(m)
	}
	s = strings.TrimSpace(s)
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}
