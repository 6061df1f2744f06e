package identity

import (
	"context"
	"errors"
	"strings"
	"testing"
)

// captureMailer records reset tokens instead of sending mail.
type captureMailer struct {
	to    string
	token string
}

func (m *captureMailer) SendPasswordReset(to, token string) error {
	m.to = to
	m.token = token
	return nil
}

func newTestService() (*Service, *captureMailer) {
	mailer := &captureMailer{}
	return NewService(NewMemoryUsers(), mailer, "test-secret"), mailer
}

func TestSignUpAndSignIn(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "  Ada@Example.COM ", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignUp: %v", err)
	}
	if user.Email != "ada@example.com" {
		t.Fatalf("email not normalized: %q", user.Email)
	}
	if user.PasswordHash == "hunter2hunter2" || user.PasswordHash == "" {
		t.Fatal("password stored unhashed")
	}

	token, err := svc.SignIn(ctx, "ada@example.com", "hunter2hunter2")
	if err != nil {
		t.Fatalf("SignIn: %v", err)
	}
	got, err := svc.UserID(token)
	if err != nil || got != user.ID {
		t.Fatalf("UserID = %q, %v; want %q", got, err, user.ID)
	}
}

func TestSignUpRejections(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "not-an-email", "hunter2hunter2"); err == nil {
		t.Fatal("accepted address without @")
	}
	if _, err := svc.SignUp(ctx, "a@b.com", "short"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("short password: %v", err)
	}

	if _, err := svc.SignUp(ctx, "a@b.com", "hunter2hunter2"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SignUp(ctx, "a@b.com", "different-pass"); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("duplicate email: %v", err)
	}
}

func TestSignInWrongPassword(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@b.com", "hunter2hunter2"); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.SignIn(ctx, "a@b.com", "wrong-password"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("wrong password: %v", err)
	}
	if _, err := svc.SignIn(ctx, "nobody@b.com", "hunter2hunter2"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("unknown email: %v", err)
	}
}

func TestUserIDRejectsTamperedToken(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	if _, err := svc.SignUp(ctx, "a@b.com", "hunter2hunter2"); err != nil {
		t.Fatal(err)
	}
	token, err := svc.SignIn(ctx, "a@b.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}

	// Flip the signature.
	parts := strings.Split(token, ".")
	tampered := parts[0] + "." + parts[1] + "." + strings.Repeat("A", len(parts[2]))
	if _, err := svc.UserID(tampered); !errors.Is(err, ErrBadToken) {
		t.Fatalf("tampered token: %v", err)
	}

	other := NewService(NewMemoryUsers(), nil, "other-secret")
	if _, err := other.UserID(token); !errors.Is(err, ErrBadToken) {
		t.Fatalf("cross-secret token: %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	svc, mailer := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "a@b.com", "original-pass")
	if err != nil {
		t.Fatal(err)
	}

	if err := svc.SendPasswordReset(ctx, "a@b.com"); err != nil {
		t.Fatalf("SendPasswordReset: %v", err)
	}
	if mailer.to != "a@b.com" || mailer.token == "" {
		t.Fatalf("no reset mail captured: %+v", mailer)
	}

	// A reset token is not a session token.
	if _, err := svc.UserID(mailer.token); !errors.Is(err, ErrBadToken) {
		t.Fatalf("reset token accepted as session: %v", err)
	}

	if err := svc.ResetPassword(ctx, mailer.token, "brand-new-pass"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}
	if _, err := svc.SignIn(ctx, "a@b.com", "original-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatal("old password still valid after reset")
	}
	token, err := svc.SignIn(ctx, "a@b.com", "brand-new-pass")
	if err != nil {
		t.Fatalf("sign in with new password: %v", err)
	}
	if got, _ := svc.UserID(token); got != user.ID {
		t.Fatalf("UserID after reset = %q", got)
	}

	// A session token cannot reset a password.
	if err := svc.ResetPassword(ctx, token, "yet-another-pass"); !errors.Is(err, ErrBadToken) {
		t.Fatalf("session token accepted for reset: %v", err)
	}
}

func TestSendPasswordResetUnknownEmailIsSilent(t *testing.T) {
	svc, mailer := newTestService()
	if err := svc.SendPasswordReset(context.Background(), "ghost@b.com"); err != nil {
		t.Fatalf("unknown email should not error: %v", err)
	}
	if mailer.token != "" {
		t.Fatal("mail sent for unknown account")
	}
}

func TestSubscribeReceivesSessionEvents(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	user, err := svc.SignUp(ctx, "a@b.com", "hunter2hunter2")
	if err != nil {
		t.Fatal(err)
	}
	events := svc.Subscribe()

	if _, err := svc.SignIn(ctx, "a@b.com", "hunter2hunter2"); err != nil {
		t.Fatal(err)
	}
	svc.SignOut(user.ID)

	in := <-events
	if in.Kind != EventSignedIn || in.UserID != user.ID {
		t.Fatalf("first event = %+v", in)
	}
	out := <-events
	if out.Kind != EventSignedOut || out.UserID != user.ID {
		t.Fatalf("second event = %+v", out)
	}
}
