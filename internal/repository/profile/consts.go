package profile

const (
	// collection names; the profile lives at
	// artifacts/{appId}/users/{uid}/userProfiles/userProfileDoc
	artifactsNode    string = "artifacts"
	usersNode        string = "users"
	userProfilesNode string = "userProfiles"
	profileDocId     string = "userProfileDoc"

	// Fields' name and path
	CountryFieldPath string = "country"
	GenresFieldPath  string = "genres"
)
