package model

// UserProfile is the authoritative per-user document. CurrencySymbol and
// CurrencyCode are derived from Country on every write and never stored
// independently of it being derivable.
type UserProfile struct {
	Uid            string   `json:"uid" firestore:"uid,omitempty"`
	Email          string   `json:"email" firestore:"email,omitempty"`
	Name           string   `json:"name" firestore:"name,omitempty"`
	Country        string   `json:"country" firestore:"country"`
	Genres         []string `json:"genres" firestore:"genres"`
	CurrencySymbol string   `json:"currencySymbol" firestore:"currencySymbol,omitempty"`
	CurrencyCode   string   `json:"currencyCode" firestore:"currencyCode,omitempty"`
}

// Onboarded reports whether the profile has enough data to skip onboarding:
// a country plus at least one selected genre.
func (p UserProfile) Onboarded() bool {
	return p.Country != "" && len(p.Genres) > 0
}
