package users

import (
	"context"
	"strings"
	"time"

	"campusevents/internal/apperr"
	"campusevents/internal/auth"
)

// User is an account row. The password hash never leaves the service layer.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	FullName     string    `json:"full_name"`
	Role         string    `json:"role"`
	CollegeID    *string   `json:"college_id,omitempty"`
	Sem          *int      `json:"sem,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// Profile is the admin-profile view joined with the college name.
type Profile struct {
	Name        string `json:"name"`
	CollegeName string `json:"college_name"`
}

// Store is the persistence surface the service needs.
type Store interface {
	Insert(ctx context.Context, u User) (User, error)
	GetByEmail(ctx context.Context, email string) (*User, error)
	GetProfile(ctx context.Context, id string) (*Profile, error)
}

// SignupInput carries validated signup fields.
type SignupInput struct {
	Email     string
	Password  string
	FullName  string
	Role      string
	CollegeID *string
	Sem       *int
	AdminKey  string
}

// Service handles account creation and credential checks.
type Service struct {
	store          Store
	adminSignupKey string
}

func NewService(store Store, adminSignupKey string) *Service {
	return &Service{store: store, adminSignupKey: adminSignupKey}
}

// Signup creates a user. Admin accounts require the signup key; students must
// carry a college and semester so event eligibility can be computed.
func (s *Service) Signup(ctx context.Context, in SignupInput) (User, error) {
	if in.Email == "" || in.Password == "" || in.FullName == "" {
		return User{}, apperr.Invalid("missing fields")
	}
	role := in.Role
	if role == "" {
		role = auth.RoleStudent
	}
	if role != auth.RoleStudent && role != auth.RoleAdmin {
		return User{}, apperr.Invalid("unknown role")
	}
	if role == auth.RoleAdmin && in.AdminKey != s.adminSignupKey {
		return User{}, apperr.Forbidden("invalid admin key")
	}
	if role == auth.RoleStudent {
		if in.CollegeID == nil || *in.CollegeID == "" {
			return User{}, apperr.Invalid("college selection is required for students")
		}
		if in.Sem == nil {
			return User{}, apperr.Invalid("semester is required for students")
		}
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return User{}, apperr.Internal(err)
	}

	user := User{
		Email:        strings.ToLower(strings.TrimSpace(in.Email)),
		PasswordHash: hash,
		FullName:     in.FullName,
		Role:         role,
		CollegeID:    in.CollegeID,
		Sem:          in.Sem,
	}
	return s.store.Insert(ctx, user)
}

// Login verifies credentials. Any failure returns the same generic message so
// callers cannot probe which emails exist.
func (s *Service) Login(ctx context.Context, email, password string) (User, error) {
	if email == "" || password == "" {
		return User{}, apperr.Invalid("missing fields")
	}
	user, err := s.store.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return User{}, apperr.Internal(err)
	}
	if user == nil {
		return User{}, apperr.Invalid("invalid credentials")
	}
	if err := auth.CheckPassword(user.PasswordHash, password); err != nil {
		return User{}, apperr.Invalid("invalid credentials")
	}
	return *user, nil
}

// Profile returns the display profile for the admin panel.
func (s *Service) Profile(ctx context.Context, userID string) (Profile, error) {
	profile, err := s.store.GetProfile(ctx, userID)
	if err != nil {
		return Profile{}, apperr.Internal(err)
	}
	if profile == nil {
		return Profile{}, apperr.NotFound("user not found")
	}
	return *profile, nil
}

// Claims builds the identity claim bundle persisted in the signed token.
func Claims(u User) auth.Claims {
	return auth.Claims{
		UserID:    u.ID,
		Email:     u.Email,
		FullName:  u.FullName,
		Role:      u.Role,
		CollegeID: u.CollegeID,
		Sem:       u.Sem,
	}
}
