// Package routing is the page-routing state machine of the storefront shell,
// expressed as a pure transition function so it can be exercised without a
// rendering environment.
package routing

type State string

const (
	Loading        State = "loading"
	Login          State = "login"
	Register       State = "register"
	AdminLogin     State = "adminLogin"
	AdminDashboard State = "adminDashboard"
	Onboarding     State = "onboarding"
	Home           State = "home"
	BookDetail     State = "bookDetail"
	Cart           State = "cart"
	Checkout       State = "checkout"
	Profile        State = "profile"
)

// Initial is the state before any service has reported readiness.
const Initial = Loading

// Snapshot captures the inputs the transition rules depend on. Next is
// re-evaluated whenever any of them changes.
type Snapshot struct {
	ServicesReady bool // backing services initialized
	AuthReady     bool // auth listener has run and the profile is processed
	LoggedIn      bool
	Admin         bool
	Onboarded     bool // country set and at least one genre selected
}

// preSession pages are never shown to a logged-in, onboarded user.
var preSession = map[State]bool{
	Login:          true,
	Register:       true,
	Onboarding:     true,
	AdminLogin:     true,
	AdminDashboard: true,
}

// Next applies the forcing rules in order and returns the page to show.
// States not forced by any rule are left as they are.
func Next(current State, snap Snapshot) State {
	if !snap.ServicesReady || !snap.AuthReady {
		return Loading
	}

	if snap.Admin {
		if current == AdminLogin {
			return current
		}
		return AdminDashboard
	}

	if snap.LoggedIn {
		if !snap.Onboarded {
			return Onboarding
		}
		if preSession[current] || current == Loading {
			return Home
		}
		return current
	}

	switch current {
	case Login, Register, AdminLogin:
		return current
	}
	return Login
}
