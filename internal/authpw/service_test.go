package authpw

import (
	"context"
	"database/sql"
	"testing"

	"github.com/Amorabdelaziz/inovation-traker/internal/store"
	"golang.org/x/crypto/bcrypt"
)

type fakeUserStore struct {
	users    map[string]store.User
	profiles []store.Profile
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]store.User)}
}

func (f *fakeUserStore) GetUserByEmail(_ context.Context, email string) (store.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return store.User{}, sql.ErrNoRows
}

func (f *fakeUserStore) GetUserByID(_ context.Context, id string) (store.User, error) {
	u, ok := f.users[id]
	if !ok {
		return store.User{}, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserStore) CreateUser(_ context.Context, user store.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserStore) CreateProfile(_ context.Context, profile store.Profile) error {
	f.profiles = append(f.profiles, profile)
	return nil
}

func (f *fakeUserStore) UpdateUserPassword(_ context.Context, userID, passwordHash string) error {
	u := f.users[userID]
	u.PasswordHash = passwordHash
	f.users[userID] = u
	return nil
}

func TestRegisterCreatesUserAndProfile(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "Alice@Example.com",
		Password:    "correct-horse",
		DisplayName: "Alice",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Email != "alice@example.com" {
		t.Errorf("email not normalized: %q", user.Email)
	}
	if user.Role != "submitter" {
		t.Errorf("role = %q, want submitter", user.Role)
	}
	if len(fs.profiles) != 1 {
		t.Fatalf("profiles created = %d, want 1", len(fs.profiles))
	}
	if fs.profiles[0].UserID != user.ID {
		t.Errorf("profile user = %q, want %q", fs.profiles[0].UserID, user.ID)
	}
	if fs.profiles[0].Role != "submitter" {
		t.Errorf("profile role = %q, want submitter", fs.profiles[0].Role)
	}
}

func TestRegisterStaffGetsAdminRole(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "ops@example.com",
		Password:    "correct-horse",
		DisplayName: "Ops",
		IsStaff:     true,
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.Role != "admin" {
		t.Errorf("role = %q, want admin", user.Role)
	}
	if fs.profiles[0].Role != "admin" {
		t.Errorf("profile role = %q, want admin", fs.profiles[0].Role)
	}
}

func TestRegisterRejectsDuplicateEmail(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)

	req := RegisterRequest{Email: "bob@example.com", Password: "correct-horse", DisplayName: "Bob"}
	if _, err := svc.Register(context.Background(), req); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	if _, err := svc.Register(context.Background(), req); err == nil {
		t.Fatal("expected duplicate email to be rejected")
	}
}

func TestRegisterRejectsShortPassword(t *testing.T) {
	svc := NewService(newFakeUserStore())
	_, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "bob@example.com",
		Password:    "short",
		DisplayName: "Bob",
	})
	if err == nil {
		t.Fatal("expected short password to be rejected")
	}
}

func TestLogin(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)

	if _, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "carol@example.com",
		Password:    "correct-horse",
		DisplayName: "Carol",
	}); err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, err := svc.Login(context.Background(), "carol@example.com", "correct-horse")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.DisplayName != "Carol" {
		t.Errorf("display name = %q", user.DisplayName)
	}

	if _, err := svc.Login(context.Background(), "carol@example.com", "wrong-pass"); err == nil {
		t.Fatal("expected bad password to fail")
	}
	if _, err := svc.Login(context.Background(), "nobody@example.com", "correct-horse"); err == nil {
		t.Fatal("expected unknown email to fail")
	}
}

func TestChangePassword(t *testing.T) {
	fs := newFakeUserStore()
	svc := NewService(fs)

	user, err := svc.Register(context.Background(), RegisterRequest{
		Email:       "dave@example.com",
		Password:    "correct-horse",
		DisplayName: "Dave",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "wrong-pass", "new-password"); err == nil {
		t.Fatal("expected wrong current password to fail")
	}

	if err := svc.ChangePassword(context.Background(), user.ID, "correct-horse", "new-password"); err != nil {
		t.Fatalf("ChangePassword: %v", err)
	}

	updated := fs.users[user.ID]
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte("new-password")); err != nil {
		t.Errorf("stored hash does not match new password: %v", err)
	}
}
