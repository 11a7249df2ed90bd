package users

import (
	"context"
	"testing"

	"campusevents/internal/apperr"
	"campusevents/internal/auth"
)

type fakeStore struct {
	byEmail map[string]User
}

func newFakeStore() *fakeStore {
	return &fakeStore{byEmail: make(map[string]User)}
}

func (f *fakeStore) Insert(_ context.Context, u User) (User, error) {
	if _, ok := f.byEmail[u.Email]; ok {
		return User{}, apperr.Conflict("email already registered")
	}
	u.ID = "u" + u.Email
	f.byEmail[u.Email] = u
	return u, nil
}

func (f *fakeStore) GetByEmail(_ context.Context, email string) (*User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return nil, nil
	}
	return &u, nil
}

func (f *fakeStore) GetProfile(_ context.Context, _ string) (*Profile, error) {
	return &Profile{Name: "Admin", CollegeName: "Test College"}, nil
}

func studentInput() SignupInput {
	college := "c1"
	sem := 3
	return SignupInput{
		Email:     "Student@Example.COM ",
		Password:  "pass",
		FullName:  "Test Student",
		Role:      auth.RoleStudent,
		CollegeID: &college,
		Sem:       &sem,
	}
}

func TestSignupStudent(t *testing.T) {
	svc := NewService(newFakeStore(), "admin-key")

	u, err := svc.Signup(context.Background(), studentInput())
	if err != nil {
		t.Fatalf("Signup: %v", err)
	}
	if u.Email != "student@example.com" {
		t.Errorf("email = %q, want lowercased trimmed", u.Email)
	}
	if u.Role != auth.RoleStudent {
		t.Errorf("role = %q, want student", u.Role)
	}
	if u.PasswordHash == "pass" {
		t.Error("password stored in plaintext")
	}
}

func TestSignupValidation(t *testing.T) {
	svc := NewService(newFakeStore(), "admin-key")
	ctx := context.Background()

	in := studentInput()
	in.Email = ""
	if _, err := svc.Signup(ctx, in); apperr.KindOf(err) != apperr.KindInvalid {
		t.Error("missing email should be invalid")
	}

	in = studentInput()
	in.Role = "superuser"
	if _, err := svc.Signup(ctx, in); apperr.KindOf(err) != apperr.KindInvalid {
		t.Error("unknown role should be invalid")
	}

	in = studentInput()
	in.CollegeID = nil
	if _, err := svc.Signup(ctx, in); apperr.KindOf(err) != apperr.KindInvalid {
		t.Error("student without college should be invalid")
	}

	in = studentInput()
	in.Sem = nil
	if _, err := svc.Signup(ctx, in); apperr.KindOf(err) != apperr.KindInvalid {
		t.Error("student without sem should be invalid")
	}
}

func TestSignupAdminRequiresKey(t *testing.T) {
	svc := NewService(newFakeStore(), "admin-key")
	ctx := context.Background()

	in := SignupInput{Email: "a@b.c", Password: "p", FullName: "A", Role: auth.RoleAdmin, AdminKey: "wrong"}
	if _, err := svc.Signup(ctx, in); apperr.KindOf(err) != apperr.KindForbidden {
		t.Error("wrong admin key should be forbidden")
	}

	in.AdminKey = "admin-key"
	u, err := svc.Signup(ctx, in)
	if err != nil {
		t.Fatalf("admin signup with key: %v", err)
	}
	if u.Role != auth.RoleAdmin {
		t.Errorf("role = %q, want admin", u.Role)
	}
}

func TestSignupDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeStore(), "admin-key")
	ctx := context.Background()

	if _, err := svc.Signup(ctx, studentInput()); err != nil {
		t.Fatalf("first signup: %v", err)
	}
	if _, err := svc.Signup(ctx, studentInput()); apperr.KindOf(err) != apperr.KindConflict {
		t.Error("duplicate email should conflict")
	}
}

func TestLoginMasksFailures(t *testing.T) {
	store := newFakeStore()
	svc := NewService(store, "admin-key")
	ctx := context.Background()

	if _, err := svc.Signup(ctx, studentInput()); err != nil {
		t.Fatalf("signup: %v", err)
	}

	if _, err := svc.Login(ctx, "student@example.com", "pass"); err != nil {
		t.Fatalf("login with correct credentials: %v", err)
	}

	_, errUnknown := svc.Login(ctx, "nobody@example.com", "pass")
	_, errWrongPass := svc.Login(ctx, "student@example.com", "bad")
	if errUnknown == nil || errWrongPass == nil {
		t.Fatal("bad credentials should fail")
	}
	if apperr.MessageOf(errUnknown) != apperr.MessageOf(errWrongPass) {
		t.Error("unknown email and wrong password must return the same message")
	}
}
