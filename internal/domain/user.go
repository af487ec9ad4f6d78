package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Role controls what a user may do. Every registered user starts as RoleUser.
type Role string

// Known roles
const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Password limits. bcrypt ignores input past 72 bytes.
const (
	MinPasswordLength   = 6
	MaxPasswordBytes    = 72
	MinNameLength       = 2
	MaxNameLength       = 50
	msgPasswordRequired = "Password is required"
	msgEmailRequired    = "Email is required"
)

// User represents a registered account.
type User struct {
	ID             uuid.UUID `json:"id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	Password       string    `json:"-"` // Plaintext password, used temporarily during registration
	HashedPassword string    `json:"-"` // Never expose password hash in JSON
	Role           Role      `json:"role"`
	CreatedAt      time.Time `json:"createdAt"`
	UpdatedAt      time.Time `json:"updatedAt"`
}

// NewUser creates a new User with the given name, email and password.
// The email is lower-cased and both name and email are trimmed. The caller
// is responsible for hashing the password before storing the user.
func NewUser(name, email, password string) (*User, error) {
	now := time.Now().UTC()
	user := &User{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(name),
		Email:     NormalizeEmail(email),
		Password:  password,
		Role:      RoleUser,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := user.Validate(); err != nil {
		return nil, err
	}

	return user, nil
}

// Validate checks the user fields. A plaintext password, when present, is
// checked against the registration rules; otherwise a hash must be set.
func (u *User) Validate() error {
	rules := []Rule{
		Required("name", u.Name, "Name is required"),
		LengthBetween("name", u.Name, MinNameLength, MaxNameLength, "Name must be between 2 and 50 characters"),
		Required("email", u.Email, msgEmailRequired),
		When(u.Email != "", ValidEmail("email", u.Email)),
		OneOf("role", u.Role, []Role{RoleUser, RoleAdmin}, "Invalid role value"),
	}

	if u.Password != "" {
		rules = append(rules,
			MinLength("password", u.Password, MinPasswordLength, "Password must be at least 6 characters"),
			MaxBytes("password", u.Password, MaxPasswordBytes, "Password cannot exceed 72 bytes"),
			ContainsDigit("password", u.Password, "Password must contain at least one number"),
		)
	} else {
		rules = append(rules, When(u.HashedPassword == "", Fail("password", msgPasswordRequired)))
	}

	return Collect(rules...)
}

// ValidateCredentials checks the shape of a login request.
func ValidateCredentials(email, password string) error {
	email = NormalizeEmail(email)
	return Collect(
		Required("email", email, msgEmailRequired),
		When(email != "", ValidEmail("email", email)),
		Required("password", password, msgPasswordRequired),
	)
}

// NormalizeEmail trims and lower-cases an address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ProfilePatch is a partial update of a user's own profile. Nil fields are
// left unchanged.
type ProfilePatch struct {
	Name  *string
	Email *string
}

// Normalize trims the name and normalizes the email in place.
func (p *ProfilePatch) Normalize() {
	if p.Name != nil {
		name := strings.TrimSpace(*p.Name)
		p.Name = &name
	}
	if p.Email != nil {
		email := NormalizeEmail(*p.Email)
		p.Email = &email
	}
}

// Validate checks only the fields present in the patch.
func (p ProfilePatch) Validate() error {
	var rules []Rule
	if p.Name != nil {
		rules = append(rules,
			Required("name", *p.Name, "Name is required"),
			LengthBetween("name", *p.Name, MinNameLength, MaxNameLength, "Name must be between 2 and 50 characters"),
		)
	}
	if p.Email != nil {
		rules = append(rules,
			Required("email", *p.Email, msgEmailRequired),
			When(*p.Email != "", ValidEmail("email", *p.Email)),
		)
	}
	return Collect(rules...)
}

// Apply copies the present fields onto u and refreshes UpdatedAt.
func (p ProfilePatch) Apply(u *User, now time.Time) {
	if p.Name != nil {
		u.Name = *p.Name
	}
	if p.Email != nil {
		u.Email = *p.Email
	}
	u.UpdatedAt = now.UTC()
}
