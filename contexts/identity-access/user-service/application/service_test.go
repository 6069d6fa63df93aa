package application

import (
	"context"
	"testing"

	"relish/contexts/identity-access/user-service/adapters/memory"
	domainerrors "relish/contexts/identity-access/user-service/domain/errors"
	"relish/contexts/identity-access/user-service/ports"
)

func newService() (Service, *memory.Store) {
	store := memory.NewStore()
	return Service{Users: store, Clock: store, IDGen: store}, store
}

func TestRegisterAndLogin(t *testing.T) {
	service, _ := newService()

	user, err := service.Register(context.Background(), ports.CreateUserInput{
		Email:    "sales@harbor-bistro.test",
		Name:     "Sam Seller",
		Role:     "rep",
		Password: "tasting-menu-9",
	})
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if user.UserID == "" || user.Status != StatusActive {
		t.Fatalf("unexpected user: %+v", user)
	}

	loggedIn, err := service.Login(context.Background(), "Sales@Harbor-Bistro.test", "tasting-menu-9")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if loggedIn.UserID != user.UserID {
		t.Fatalf("login resolved wrong user: %s vs %s", loggedIn.UserID, user.UserID)
	}
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	service, _ := newService()

	if _, err := service.Login(context.Background(), "rep@relish.test", "not-the-password"); err != domainerrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestLoginUnknownEmailLooksLikeBadCredentials(t *testing.T) {
	service, _ := newService()

	if _, err := service.Login(context.Background(), "nobody@relish.test", "whatever-pass"); err != domainerrors.ErrInvalidCredentials {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	service, _ := newService()

	if _, err := service.Register(context.Background(), ports.CreateUserInput{
		Email:    "rep@relish.test",
		Name:     "Copy Cat",
		Password: "password-123",
	}); err != domainerrors.ErrEmailTaken {
		t.Fatalf("expected email taken, got %v", err)
	}
}

func TestRegisterValidatesInput(t *testing.T) {
	service, _ := newService()

	cases := []ports.CreateUserInput{
		{Email: "not-an-email", Name: "A", Password: "password-123"},
		{Email: "ok@relish.test", Name: "", Password: "password-123"},
		{Email: "ok@relish.test", Name: "A", Password: "short"},
		{Email: "ok@relish.test", Name: "A", Password: "password-123", Role: "wizard"},
	}
	for i, input := range cases {
		if _, err := service.Register(context.Background(), input); err != domainerrors.ErrInvalidUserInput {
			t.Fatalf("case %d: expected invalid input, got %v", i, err)
		}
	}
}

func TestLoginRejectsInactiveUser(t *testing.T) {
	service, store := newService()

	user, err := store.GetUser(context.Background(), "user_rep_1")
	if err != nil {
		t.Fatalf("seed user missing: %v", err)
	}
	user.Status = StatusInactive
	if err := store.UpdateUser(context.Background(), user); err != nil {
		t.Fatalf("update failed: %v", err)
	}

	if _, err := service.Login(context.Background(), "rep@relish.test", "seed-password-1"); err != domainerrors.ErrUserInactive {
		t.Fatalf("expected inactive error, got %v", err)
	}
}
