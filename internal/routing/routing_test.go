package routing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func ready(loggedIn, admin, onboarded bool) Snapshot {
	return Snapshot{
		ServicesReady: true,
		AuthReady:     true,
		LoggedIn:      loggedIn,
		Admin:         admin,
		Onboarded:     onboarded,
	}
}

func TestNext(t *testing.T) {
	tests := []struct {
		name    string
		current State
		snap    Snapshot
		want    State
	}{
		{"services not ready forces loading", Home, Snapshot{AuthReady: true}, Loading},
		{"auth not ready forces loading", Cart, Snapshot{ServicesReady: true}, Loading},
		{"admin forced to dashboard", Home, ready(true, true, true), AdminDashboard},
		{"admin stays on admin login page", AdminLogin, ready(true, true, true), AdminLogin},
		{"missing onboarding forces onboarding", Home, ready(true, false, false), Onboarding},
		{"onboarded user leaves login", Login, ready(true, false, true), Home},
		{"onboarded user leaves register", Register, ready(true, false, true), Home},
		{"onboarded user leaves onboarding", Onboarding, ready(true, false, true), Home},
		{"onboarded user leaves admin pages", AdminDashboard, ready(true, false, true), Home},
		{"onboarded user keeps browsing", BookDetail, ready(true, false, true), BookDetail},
		{"onboarded user keeps cart", Cart, ready(true, false, true), Cart},
		{"logged out forced to login", Home, ready(false, false, false), Login},
		{"logged out stays on register", Register, ready(false, false, false), Register},
		{"logged out stays on admin login", AdminLogin, ready(false, false, false), AdminLogin},
		{"initial state resolves after login", Initial, ready(true, false, true), Home},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Next(tt.current, tt.snap))
		})
	}
}

func TestOnboardingPredicate(t *testing.T) {
	// Empty country or zero genres always routes to onboarding; a complete
	// profile never does.
	incomplete := []Snapshot{
		ready(true, false, false),
	}
	for _, snap := range incomplete {
		for _, page := range []State{Home, Cart, Checkout, Profile, Login} {
			assert.Equal(t, Onboarding, Next(page, snap))
		}
	}

	complete := ready(true, false, true)
	for _, page := range []State{Home, Cart, Checkout, Profile} {
		assert.NotEqual(t, Onboarding, Next(page, complete))
	}
}
