package domain

import (
	"strings"
	"time"
)

const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleUser    = "user"
)

// User is the signed-in user as the portal keeps it in the session.
type User struct {
	ID          string      `json:"id"`
	Username    string      `json:"username,omitempty"`
	Email       string      `json:"email"`
	FirstName   string      `json:"firstName"`
	LastName    string      `json:"lastName"`
	Company     string      `json:"company"`
	Role        string      `json:"role"`
	Avatar      string      `json:"avatar,omitempty"`
	LastLogin   *time.Time  `json:"lastLogin,omitempty"`
	Preferences Preferences `json:"preferences"`
}

// FullName joins first and last name, skipping empty parts.
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

type NotificationPreferences struct {
	Email bool `json:"email"`
	Push  bool `json:"push"`
	SMS   bool `json:"sms"`
}

type DashboardPreferences struct {
	DefaultView     string `json:"defaultView"`
	RefreshInterval int    `json:"refreshInterval"`
}

// Preferences are client-side display settings; the backend does not store them.
type Preferences struct {
	Theme         string                  `json:"theme"`
	Notifications NotificationPreferences `json:"notifications"`
	Dashboard     DashboardPreferences    `json:"dashboard"`
}

// DefaultPreferences is applied to every user on login and refresh.
func DefaultPreferences() Preferences {
	return Preferences{
		Theme: "light",
		Notifications: NotificationPreferences{
			Email: true,
			Push:  true,
			SMS:   false,
		},
		Dashboard: DashboardPreferences{
			DefaultView:     "overview",
			RefreshInterval: 30000,
		},
	}
}

// Company is the customer organisation a profile belongs to.
type Company struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	RegistrationNumber string `json:"registrationNumber,omitempty"`
	Email              string `json:"email,omitempty"`
	Phone              string `json:"phone,omitempty"`
	Address            string `json:"address,omitempty"`
	PostalCode         string `json:"postalCode,omitempty"`
	Country            string `json:"country,omitempty"`
	Industry           string `json:"industry,omitempty"`
	CompanySize        string `json:"companySize,omitempty"`
	Status             string `json:"status,omitempty"`
}

// UserProfile mirrors the backend's profile record (GET /auth/me).
type UserProfile struct {
	ID          string   `json:"id"`
	Username    string   `json:"username"`
	Email       string   `json:"email"`
	FirstName   string   `json:"firstName"`
	LastName    string   `json:"lastName"`
	Phone       string   `json:"phone,omitempty"`
	Role        string   `json:"role"`
	Status      string   `json:"status"`
	LastLoginAt string   `json:"lastLoginAt,omitempty"`
	CompanyName string   `json:"companyName,omitempty"`
	Company     *Company `json:"company,omitempty"`
}

// CompanyDisplayName prefers the nested company record over the flat name.
func (p UserProfile) CompanyDisplayName() string {
	if p.Company != nil && p.Company.Name != "" {
		return p.Company.Name
	}
	return p.CompanyName
}

// ToUser converts a backend profile to the session user shape.
func (p UserProfile) ToUser() User {
	var lastLogin *time.Time
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, p.LastLoginAt); err == nil {
			lastLogin = &t
			break
		}
	}
	return User{
		ID:          p.ID,
		Username:    p.Username,
		Email:       p.Email,
		FirstName:   p.FirstName,
		LastName:    p.LastName,
		Company:     p.CompanyDisplayName(),
		Role:        strings.ToLower(p.Role),
		LastLogin:   lastLogin,
		Preferences: DefaultPreferences(),
	}
}

// UpdateProfile carries the editable profile fields.
type UpdateProfile struct {
	FirstName string `json:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty"`
	Phone     string `json:"phone,omitempty"`
	Email     string `json:"email,omitempty"`
}

type ChangePassword struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}
