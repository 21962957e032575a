package dto

import "time"

// UserProfile mirrors the backend's who-am-I payload.
type UserProfile struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Phone       string    `json:"phone,omitempty"`
	Location    string    `json:"location,omitempty"`
	Gender      string    `json:"gender,omitempty"`
	Role        string    `json:"role,omitempty"`
	AccountType string    `json:"accountType,omitempty"`
	Company     *Company  `json:"company,omitempty"`
	CreatedAt   time.Time `json:"createdAt,omitempty"`
	UpdatedAt   time.Time `json:"updatedAt,omitempty"`
}

// Company carries onboarding metadata for business accounts.
type Company struct {
	Name           string `json:"name"`
	RegistrationNo string `json:"registrationNo,omitempty"`
	Sector         string `json:"sector,omitempty"`
}
