package session

import (
	"context"
	"sync"
	"testing"

	ierr "booknest/internal/errors"
	"booknest/internal/identity"
	"booknest/internal/model"
	profileRepository "booknest/internal/repository/profile"
	statsRepository "booknest/internal/repository/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeIdentity struct {
	accounts map[string]string // email -> password
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (*identity.Account, error) {
	stored, ok := f.accounts[email]
	if !ok || stored != password {
		return nil, identity.ErrInvalidCredentials
	}
	return &identity.Account{Uid: "uid-" + email, Email: email, IdToken: "token-" + email}, nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password, name string) (*identity.Account, error) {
	if _, ok := f.accounts[email]; ok {
		return nil, identity.ErrEmailInUse
	}
	if len(password) < 6 {
		return nil, identity.ErrWeakPassword
	}
	f.accounts[email] = password
	return &identity.Account{Uid: "uid-" + email, Email: email, Name: name}, nil
}

type fakeProfiles struct {
	mu   sync.Mutex
	docs map[string]model.UserProfile
}

func newFakeProfiles() *fakeProfiles {
	return &fakeProfiles{docs: make(map[string]model.UserProfile)}
}

func (f *fakeProfiles) Get(_ context.Context, _, uid string) (*model.UserProfile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p, ok := f.docs[uid]
	if !ok {
		return nil, ierr.NotFound
	}
	return &p, nil
}

func (f *fakeProfiles) Set(_ context.Context, _, uid string, data model.UserProfile) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.docs[uid] = data
	return nil
}

func (f *fakeProfiles) NotifyOnChanged(ctx context.Context, _, _ string) <-chan profileRepository.ProfileEvent {
	ch := make(chan profileRepository.ProfileEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

type fakeStats struct {
	mu            sync.Mutex
	registrations int
	orders        int
	revenue       float64
}

func (f *fakeStats) Get(_ context.Context, _ string) (model.AdminStats, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return model.AdminStats{
		TotalRegisteredUsers: int64(f.registrations),
		TotalOrders:          int64(f.orders),
		TotalRevenue:         f.revenue,
	}, nil
}

func (f *fakeStats) IncrementRegisteredUsers(_ context.Context, _ string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.registrations++
	return nil
}

func (f *fakeStats) IncrementOrder(_ context.Context, _ string, totalUSD float64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.orders++
	f.revenue += totalUSD
	return nil
}

func (f *fakeStats) NotifyOnChanged(ctx context.Context, _ string) <-chan statsRepository.StatsEvent {
	ch := make(chan statsRepository.StatsEvent)
	go func() {
		<-ctx.Done()
		close(ch)
	}()
	return ch
}

func newService(t *testing.T) (*Service, *fakeIdentity, *fakeProfiles, *fakeStats) {
	t.Helper()
	ident := &fakeIdentity{accounts: map[string]string{"reader@example.com": "secret1"}}
	profiles := newFakeProfiles()
	stats := &fakeStats{}
	svc := New(ident, profiles, stats, nil,
		AdminCredentials{Email: "admin@booknest.com", Password: "hunter22"}, "test-app")
	return svc, ident, profiles, stats
}

func TestLoginSuccess(t *testing.T) {
	svc, _, profiles, _ := newService(t)

	profiles.docs["uid-reader@example.com"] = model.UserProfile{
		Uid:     "uid-reader@example.com",
		Country: "India",
		Genres:  []string{"Fantasy"},
	}

	require.NoError(t, svc.Login(context.Background(), "reader@example.com", "secret1"))
	defer svc.Logout()

	state := svc.Snapshot()
	assert.True(t, state.LoggedIn)
	assert.False(t, state.Admin)
	assert.True(t, state.Onboarded())
	assert.Equal(t, "token-reader@example.com", state.IdToken)
	assert.Equal(t, "INR", state.Profile.CurrencyCode)
	assert.Equal(t, "₹", state.Profile.CurrencySymbol)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, _, _, _ := newService(t)

	err := svc.Login(context.Background(), "reader@example.com", "wrong")
	require.Error(t, err)
	assert.Equal(t, "Invalid email or password.", err.Error())
	assert.False(t, svc.Snapshot().LoggedIn)
}

func TestFirstLoginCreatesDefaultProfile(t *testing.T) {
	svc, _, profiles, _ := newService(t)

	require.NoError(t, svc.Login(context.Background(), "reader@example.com", "secret1"))
	defer svc.Logout()

	stored, ok := profiles.docs["uid-reader@example.com"]
	require.True(t, ok)
	assert.Equal(t, "USD", stored.CurrencyCode)
	assert.Empty(t, stored.Country)
	assert.Empty(t, stored.Genres)
	assert.False(t, svc.Snapshot().Onboarded())
}

func TestRegisterCreatesProfileAndCountsRegistration(t *testing.T) {
	svc, _, profiles, stats := newService(t)

	require.NoError(t, svc.Register(context.Background(), "new@example.com", "longenough", "Casey"))
	defer svc.Logout()

	stored, ok := profiles.docs["uid-new@example.com"]
	require.True(t, ok)
	assert.Equal(t, "Casey", stored.Name)
	assert.Equal(t, 1, stats.registrations)
	assert.True(t, svc.Snapshot().LoggedIn)
}

func TestRegisterErrorMessages(t *testing.T) {
	svc, _, _, _ := newService(t)

	err := svc.Register(context.Background(), "reader@example.com", "longenough", "Dup")
	require.Error(t, err)
	assert.Equal(t, "This email is already registered.", err.Error())

	err = svc.Register(context.Background(), "other@example.com", "short", "Weak")
	require.Error(t, err)
	assert.Equal(t, "Password is too weak (min 6 characters).", err.Error())
}

func TestAdminLogin(t *testing.T) {
	svc, _, _, _ := newService(t)

	require.Error(t, svc.AdminLogin("admin@booknest.com", "wrong"))

	require.NoError(t, svc.AdminLogin("admin@booknest.com", "hunter22"))
	state := svc.Snapshot()
	assert.True(t, state.LoggedIn)
	assert.True(t, state.Admin)
	assert.Empty(t, state.IdToken)
}

func TestLogoutClearsState(t *testing.T) {
	svc, _, _, _ := newService(t)

	require.NoError(t, svc.Login(context.Background(), "reader@example.com", "secret1"))
	svc.Logout()

	state := svc.Snapshot()
	assert.False(t, state.LoggedIn)
	assert.False(t, state.Admin)
	assert.Empty(t, state.Uid)
	assert.Empty(t, state.IdToken)
}

func TestUpdateProfileRederivesCurrency(t *testing.T) {
	svc, _, profiles, _ := newService(t)

	require.NoError(t, svc.Login(context.Background(), "reader@example.com", "secret1"))
	defer svc.Logout()

	country := "United Kingdom"
	require.NoError(t, svc.UpdateProfile(context.Background(), ProfileUpdate{
		Country: &country,
		Genres:  []string{"Mystery", "Sci-Fi"},
	}))

	state := svc.Snapshot()
	assert.Equal(t, "GBP", state.Profile.CurrencyCode)
	assert.Equal(t, "£", state.Profile.CurrencySymbol)
	assert.True(t, state.Onboarded())

	stored := profiles.docs["uid-reader@example.com"]
	assert.Equal(t, "GBP", stored.CurrencyCode)
}
