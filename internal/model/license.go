package model

import (
	"strings"
	"time"
)

// LicenseExpiryWindow is how far ahead a license counts as close to
// expiry.
const LicenseExpiryWindow = 30 * 24 * time.Hour

// License represents a driver-license (CNH) record for a fleet
// driver. Registration numbers are unique and always 11 digits.
// Category follows the national scheme: A, B, C, D, E or a combined
// A-category (AB, AC, AD, AE).
type License struct {
	ID                 uint64    `json:"id"`                  // licenses.id
	DriverName         string    `json:"driver_name"`         // licenses.driver_name
	RegistrationNumber string    `json:"registration_number"` // licenses.registration_number, unique
	Category           string    `json:"category"`            // licenses.category
	IssuedAt           time.Time `json:"issued_at"`           // licenses.issued_at
	ExpiresAt          time.Time `json:"expires_at"`          // licenses.expires_at
	CreatedAt          time.Time `json:"created_at"`          // licenses.created_at
	UpdatedAt          time.Time `json:"updated_at"`          // licenses.updated_at
}

// Expired reports whether the license has passed its expiry date.
func (l *License) Expired(now time.Time) bool {
	return l.ExpiresAt.Before(now)
}

// ExpiringSoon reports whether the license expires within the next
// thirty days but has not expired yet.
func (l *License) ExpiringSoon(now time.Time) bool {
	return !l.Expired(now) && l.ExpiresAt.Before(now.Add(LicenseExpiryWindow))
}

// AllowsMotorcycles reports whether the category covers motorcycles:
// A on its own or any combined A-category.
func (l *License) AllowsMotorcycles() bool {
	return strings.Contains(l.Category, "A")
}

// AllowsCars reports whether the category covers cars: B (alone or
// combined) or a combined A-category above AB.
func (l *License) AllowsCars() bool {
	switch l.Category {
	case "AC", "AD", "AE":
		return true
	}
	return strings.Contains(l.Category, "B")
}
