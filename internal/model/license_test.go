package model

import (
	"testing"
	"time"
)

func TestLicenseExpiryWindow(t *testing.T) {
	now := time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)
	tests := []struct {
		name     string
		expires  time.Time
		expired  bool
		expiring bool
	}{
		{"long valid", now.AddDate(2, 0, 0), false, false},
		{"inside window", now.Add(10 * 24 * time.Hour), false, true},
		{"last day", now.Add(24 * time.Hour), false, true},
		{"just past", now.Add(-time.Hour), true, false},
		{"long expired", now.AddDate(-1, 0, 0), true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := &License{ExpiresAt: tt.expires}
			if got := l.Expired(now); got != tt.expired {
				t.Errorf("Expired = %v, want %v", got, tt.expired)
			}
			if got := l.ExpiringSoon(now); got != tt.expiring {
				t.Errorf("ExpiringSoon = %v, want %v", got, tt.expiring)
			}
		})
	}
}

func TestLicenseCategoryPermissions(t *testing.T) {
	tests := []struct {
		category string
		motos    bool
		cars     bool
	}{
		{"A", true, false},
		{"B", false, true},
		{"C", false, false},
		{"AB", true, true},
		{"AC", true, true},
		{"AE", true, true},
	}
	for _, tt := range tests {
		t.Run(tt.category, func(t *testing.T) {
			l := &License{Category: tt.category}
			if got := l.AllowsMotorcycles(); got != tt.motos {
				t.Errorf("AllowsMotorcycles = %v, want %v", got, tt.motos)
			}
			if got := l.AllowsCars(); got != tt.cars {
				t.Errorf("AllowsCars = %v, want %v", got, tt.cars)
			}
		})
	}
}
