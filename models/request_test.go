package models

import "testing"

func TestValidURL(t *testing.T) {
	tests := []struct {
		url  string
		want bool
	}{
		{"https://www.amazon.in/dp/B0X", true},
		{"http://example.com", true},
		{"ftp://example.com", false},
		{"www.amazon.in/dp/B0X", false},
		{"", false},
		{"https//typo.com", false},
	}
	for _, tt := range tests {
		if got := ValidURL(tt.url); got != tt.want {
			t.Errorf("ValidURL(%q) = %v, want %v", tt.url, got, tt.want)
		}
	}
}

func TestClampRetries(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		fallback  int
		want      int
	}{
		{"unset uses fallback", 0, 3, 3},
		{"within range", 5, 3, 5},
		{"above ceiling", 50, 3, 10},
		{"negative", -2, 3, 1},
		{"fallback above ceiling", 0, 99, 10},
		{"at ceiling", 10, 3, 10},
		{"at floor", 1, 3, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampRetries(tt.requested, tt.fallback); got != tt.want {
				t.Errorf("ClampRetries(%d, %d) = %d, want %d",
					tt.requested, tt.fallback, got, tt.want)
			}
		})
	}
}

func TestClampConcurrency(t *testing.T) {
	tests := []struct {
		name      string
		requested int
		fallback  int
		max       int
		want      int
	}{
		{"unset uses fallback", 0, 10, 20, 10},
		{"within range", 5, 10, 20, 5},
		{"above max", 50, 10, 20, 20},
		{"negative", -1, 10, 20, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ClampConcurrency(tt.requested, tt.fallback, tt.max); got != tt.want {
				t.Errorf("ClampConcurrency(%d, %d, %d) = %d, want %d",
					tt.requested, tt.fallback, tt.max, got, tt.want)
			}
		})
	}
}
