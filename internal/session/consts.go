package session

// User-facing messages for provider failures. Everything unrecognized
// collapses onto the generic ones.
const (
	msgInvalidCredentials  = "Invalid email or password."
	msgLoginFailed         = "Login failed. Please check your credentials."
	msgEmailInUse          = "This email is already registered."
	msgWeakPassword        = "Password is too weak (min 6 characters)."
	msgRegistrationFailed  = "Registration failed. Please try again."
	msgInvalidAdminLogin   = "Invalid admin credentials."
	msgServiceNotReady     = "Authentication service not ready."
	msgProfileUpdateFailed = "Failed to update profile."

	adminUid  = "admin-1"
	adminName = "Admin User"
)
