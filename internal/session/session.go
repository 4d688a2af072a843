// Package session is the auth/profile state container: a narrow mutation API
// over the login state, the user profile and its live subscription, injected
// wherever the shell needs identity instead of reached through ambient
// context.
package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"sync"

	"booknest/internal/cart"
	"booknest/internal/currency"
	ierr "booknest/internal/errors"
	"booknest/internal/identity"
	"booknest/internal/model"
	profileRepository "booknest/internal/repository/profile"
	statsRepository "booknest/internal/repository/stats"

	"github.com/rs/zerolog/log"
)

// AdminCredentials are server configuration; admin identity is never derived
// from data shipped to clients.
type AdminCredentials struct {
	Email    string
	Password string
}

// State is an immutable snapshot of the session, safe to hand to the routing
// state machine.
type State struct {
	AuthReady bool
	LoggedIn  bool
	Admin     bool
	Uid       string
	// IdToken is the provider-issued bearer token for calls to the
	// recommendation function. Empty for admin sessions.
	IdToken string
	Profile model.UserProfile
}

func (s State) Onboarded() bool {
	return s.Profile.Onboarded()
}

// ProfileUpdate carries the mutable profile fields; nil fields are left
// untouched.
type ProfileUpdate struct {
	Name    *string
	Country *string
	Genres  []string
}

type Service struct {
	identity identity.API
	profiles profileRepository.IRepository
	stats    statsRepository.IRepository
	ledger   *cart.Ledger
	admin    AdminCredentials
	appId    string

	mu        sync.Mutex
	authReady bool
	loggedIn  bool
	isAdmin   bool
	uid       string
	idToken   string
	profile   model.UserProfile

	watchCancel context.CancelFunc
}

func New(
	identityApi identity.API,
	profiles profileRepository.IRepository,
	stats statsRepository.IRepository,
	ledger *cart.Ledger,
	admin AdminCredentials,
	appId string) *Service {

	return &Service{
		identity: identityApi,
		profiles: profiles,
		stats:    stats,
		ledger:   ledger,
		admin:    admin,
		appId:    appId,
		// No async auth listener to wait for: the container is ready as soon
		// as it exists.
		authReady: true,
	}
}

// Snapshot returns the current session state.
func (s *Service) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()

	return State{
		AuthReady: s.authReady,
		LoggedIn:  s.loggedIn,
		Admin:     s.isAdmin,
		Uid:       s.uid,
		IdToken:   s.idToken,
		Profile:   s.profile,
	}
}

// Login signs a user in with email and password. Errors are user-readable.
func (s *Service) Login(ctx context.Context, email, password string) error {
	if s.identity == nil {
		return errors.New(msgServiceNotReady)
	}

	account, err := s.identity.SignIn(ctx, email, password)
	if err != nil {
		log.Error().Err(err).Msg("session: login failed")
		if errors.Is(err, identity.ErrInvalidCredentials) {
			return errors.New(msgInvalidCredentials)
		}
		return errors.New(msgLoginFailed)
	}

	s.establish(ctx, account)
	return nil
}

// Register creates a new account and its default profile, counts the
// registration in the dashboard stats and signs the user in.
func (s *Service) Register(ctx context.Context, email, password, name string) error {
	if s.identity == nil {
		return errors.New(msgServiceNotReady)
	}

	account, err := s.identity.SignUp(ctx, email, password, name)
	if err != nil {
		log.Error().Err(err).Msg("session: registration failed")
		switch {
		case errors.Is(err, identity.ErrEmailInUse):
			return errors.New(msgEmailInUse)
		case errors.Is(err, identity.ErrWeakPassword):
			return errors.New(msgWeakPassword)
		}
		return errors.New(msgRegistrationFailed)
	}

	profile := defaultProfile(account)
	profile.Name = name
	if err := s.profiles.Set(ctx, s.appId, account.Uid, profile); err != nil {
		log.Error().Err(err).Msg("session: failed to create profile for new user")
	}

	if err := s.stats.IncrementRegisteredUsers(ctx, s.appId); err != nil {
		log.Error().Err(err).Msg("session: failed to count registration")
	}

	s.establish(ctx, account)
	return nil
}

// AdminLogin checks the server-configured admin credentials in constant
// time. It never touches the identity provider.
func (s *Service) AdminLogin(email, password string) error {
	if s.admin.Email == "" || s.admin.Password == "" {
		return errors.New(msgInvalidAdminLogin)
	}

	emailOk := subtle.ConstantTimeCompare([]byte(email), []byte(s.admin.Email))
	passOk := subtle.ConstantTimeCompare([]byte(password), []byte(s.admin.Password))
	if emailOk&passOk != 1 {
		return errors.New(msgInvalidAdminLogin)
	}

	s.stopWatch()

	s.mu.Lock()
	s.loggedIn = true
	s.isAdmin = true
	s.uid = adminUid
	s.idToken = ""
	s.profile = model.UserProfile{Uid: adminUid, Email: s.admin.Email, Name: adminName}
	s.mu.Unlock()

	return nil
}

// Logout clears the session, detaches the cart and tears the profile
// subscription down.
func (s *Service) Logout() {
	s.stopWatch()

	s.mu.Lock()
	s.loggedIn = false
	s.isAdmin = false
	s.uid = ""
	s.idToken = ""
	s.profile = model.UserProfile{}
	s.mu.Unlock()

	if s.ledger != nil {
		s.ledger.Detach()
	}
}

// UpdateProfile merges the given fields, rederives the currency fields from
// the country and persists the result.
func (s *Service) UpdateProfile(ctx context.Context, updates ProfileUpdate) error {
	s.mu.Lock()
	if !s.loggedIn || s.isAdmin {
		s.mu.Unlock()
		return errors.New(msgServiceNotReady)
	}

	profile := s.profile
	if updates.Name != nil {
		profile.Name = *updates.Name
	}
	if updates.Country != nil {
		profile.Country = *updates.Country
	}
	if updates.Genres != nil {
		profile.Genres = updates.Genres
	}
	deriveCurrency(&profile)

	s.profile = profile
	uid := s.uid
	s.mu.Unlock()

	if err := s.profiles.Set(ctx, s.appId, uid, profile); err != nil {
		log.Error().Err(err).Msg("session: failed to persist profile update")
		return errors.New(msgProfileUpdateFailed)
	}

	return nil
}

// establish sets the logged-in state for a verified account: fetch or create
// the profile, bind the cart ledger and start the live profile subscription.
func (s *Service) establish(ctx context.Context, account *identity.Account) {
	profile := defaultProfile(account)

	stored, err := s.profiles.Get(ctx, s.appId, account.Uid)
	switch {
	case err == nil:
		profile = mergeProfiles(profile, *stored)
	case errors.Is(err, ierr.NotFound):
		// First login on this identity: create the default profile.
		if err := s.profiles.Set(ctx, s.appId, account.Uid, profile); err != nil {
			log.Error().Err(err).Msg("session: failed to create default profile")
		}
	default:
		// Proceed with the basic account data; the app still renders.
		log.Error().Err(err).Msg("session: failed to fetch profile")
	}

	s.stopWatch()

	s.mu.Lock()
	s.loggedIn = true
	s.isAdmin = false
	s.uid = account.Uid
	s.idToken = account.IdToken
	s.profile = profile
	s.mu.Unlock()

	if s.ledger != nil {
		if err := s.ledger.SetOwner(ctx, account.Uid); err != nil {
			log.Error().Err(err).Msg("session: failed to load cart")
		}
	}

	s.startWatch(account.Uid)
}

// startWatch subscribes to live profile changes for the given uid. Deliveries
// are idempotent: the same snapshot may arrive more than once.
func (s *Service) startWatch(uid string) {
	if s.profiles == nil {
		return
	}

	ctx, cancel := context.WithCancel(context.Background())

	s.mu.Lock()
	s.watchCancel = cancel
	s.mu.Unlock()

	go func() {
		for e := range s.profiles.NotifyOnChanged(ctx, s.appId, uid) {
			if e.Err != nil {
				log.Error().Err(e.Err).Msg("session: profile subscription error")
				return
			}

			s.mu.Lock()
			// The subscription may deliver late, after the identity changed.
			if s.uid != uid {
				s.mu.Unlock()
				return
			}
			profile := mergeProfiles(s.profile, e.Profile)
			s.profile = profile
			s.mu.Unlock()
		}
	}()
}

func (s *Service) stopWatch() {
	s.mu.Lock()
	cancel := s.watchCancel
	s.watchCancel = nil
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}
}

func defaultProfile(account *identity.Account) model.UserProfile {
	name := account.Name
	if name == "" {
		name = "User"
	}
	return model.UserProfile{
		Uid:            account.Uid,
		Email:          account.Email,
		Name:           name,
		Country:        "",
		Genres:         []string{},
		CurrencySymbol: "$",
		CurrencyCode:   "USD",
	}
}

// mergeProfiles overlays stored data on the base account data and rederives
// the currency fields from the country.
func mergeProfiles(base, stored model.UserProfile) model.UserProfile {
	merged := base
	if stored.Name != "" {
		merged.Name = stored.Name
	}
	if stored.Email != "" {
		merged.Email = stored.Email
	}
	merged.Country = stored.Country
	if stored.Genres != nil {
		merged.Genres = stored.Genres
	}
	deriveCurrency(&merged)
	return merged
}

// deriveCurrency recomputes the display currency from the country. The
// derived fields are never authoritative on their own.
func deriveCurrency(p *model.UserProfile) {
	p.CurrencySymbol = currency.Symbol(p.Country)
	p.CurrencyCode = currency.Code(p.Country)
}
