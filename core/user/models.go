package user

import (
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"

	"github.com/trezcool/dotcoder/core"
)

// Roles
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Settings toggles the optional AI features for a user.
type Settings struct {
	AIEnabled          bool `json:"aiEnabled"`
	MindmapEnabled     bool `json:"mindmapEnabled"`
	SuggestionsEnabled bool `json:"suggestionsEnabled"`
}

func DefaultSettings() Settings {
	return Settings{AIEnabled: true, MindmapEnabled: true, SuggestionsEnabled: true}
}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Role         string    `json:"role"`
	Settings     Settings  `json:"settings"`
	PasswordHash []byte    `json:"-"`
	CreatedAt    time.Time `json:"createdAt"` // UTC
	UpdatedAt    time.Time `json:"updatedAt"` // UTC
	LastLogin    time.Time `json:"lastLogin"` // UTC
}

func (u *User) SetPassword(pwd string) error {
	hash, err := bcrypt.GenerateFromPassword([]byte(pwd), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	return nil
}

func (u *User) CheckPassword(pwd string) error {
	return bcrypt.CompareHashAndPassword(u.PasswordHash, []byte(pwd))
}

func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u User) Ref() core.UserRef {
	return core.UserRef{ID: u.ID, Name: u.Name, Email: u.Email}
}

func (u User) Actor() core.Actor {
	return core.Actor{ID: u.ID, Name: u.Name, Email: u.Email, IsAdmin: u.IsAdmin()}
}

// NewUser contains information needed to register a new User.
type NewUser struct {
	Name     string `json:"name" validate:"required,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (nu *NewUser) Validate(validate *validator.Validate) error {
	nu.Name = core.CleanString(nu.Name)
	nu.Email = core.CleanString(nu.Email, true /* lower */)
	return validate.Struct(nu)
}

// SettingsPatch only changes the provided toggles.
type SettingsPatch struct {
	AIEnabled          *bool `json:"aiEnabled"`
	MindmapEnabled     *bool `json:"mindmapEnabled"`
	SuggestionsEnabled *bool `json:"suggestionsEnabled"`
}

func (p SettingsPatch) Apply(s Settings) Settings {
	if p.AIEnabled != nil {
		s.AIEnabled = *p.AIEnabled
	}
	if p.MindmapEnabled != nil {
		s.MindmapEnabled = *p.MindmapEnabled
	}
	if p.SuggestionsEnabled != nil {
		s.SuggestionsEnabled = *p.SuggestionsEnabled
	}
	return s
}

type UpdateSettings struct {
	Settings SettingsPatch `json:"settings"`
}
