// Package identity signs users in and up against the authentication
// provider's email/password endpoint. The admin SDK cannot check passwords,
// so this goes through the Identity Toolkit surface of the same Google API
// client the rest of the module uses.
package identity

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog/log"
	"google.golang.org/api/googleapi"
	identitytoolkit "google.golang.org/api/identitytoolkit/v3"
	"google.golang.org/api/option"
)

var (
	// Provider error codes collapse onto this small fixed set; anything
	// unrecognized stays a generic wrapped error.
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password is too weak")
	ErrEmailInUse         = errors.New("email is already registered")
)

type Account struct {
	Uid     string
	Email   string
	Name    string
	IdToken string
}

type API interface {
	SignIn(ctx context.Context, email, password string) (*Account, error)
	SignUp(ctx context.Context, email, password, name string) (*Account, error)
}

type Client struct {
	service *identitytoolkit.RelyingpartyService
}

var (
	once     sync.Once
	instance *Client
)

func NewClient(ctx context.Context, apiKey string) *Client {
	once.Do(func() {
		service, err := identitytoolkit.NewService(ctx, option.WithAPIKey(apiKey))
		if err != nil {
			log.Error().Err(err).Msg("Failed to create identity service")
			return
		}
		instance = &Client{service: service.Relyingparty}
	})
	return instance
}

func (c *Client) SignIn(ctx context.Context, email, password string) (*Account, error) {

	resp, err := c.service.VerifyPassword(&identitytoolkit.IdentitytoolkitRelyingpartyVerifyPasswordRequest{
		Email:             email,
		Password:          password,
		ReturnSecureToken: true,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapProviderError(err)
	}

	return &Account{
		Uid:     resp.LocalId,
		Email:   resp.Email,
		Name:    resp.DisplayName,
		IdToken: resp.IdToken,
	}, nil
}

func (c *Client) SignUp(ctx context.Context, email, password, name string) (*Account, error) {

	resp, err := c.service.SignupNewUser(&identitytoolkit.IdentitytoolkitRelyingpartySignupNewUserRequest{
		Email:       email,
		Password:    password,
		DisplayName: name,
	}).Context(ctx).Do()
	if err != nil {
		return nil, mapProviderError(err)
	}

	return &Account{
		Uid:     resp.LocalId,
		Email:   resp.Email,
		Name:    resp.DisplayName,
		IdToken: resp.IdToken,
	}, nil
}

// mapProviderError translates the provider's error codes onto the package
// sentinels. The codes arrive as the message of a googleapi.Error.
func mapProviderError(err error) error {
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("identity provider: %w", err)
	}

	code := gerr.Message
	switch {
	case strings.Contains(code, "EMAIL_NOT_FOUND"),
		strings.Contains(code, "INVALID_PASSWORD"),
		strings.Contains(code, "INVALID_LOGIN_CREDENTIALS"),
		strings.Contains(code, "INVALID_EMAIL"):
		return ErrInvalidCredentials
	case strings.Contains(code, "WEAK_PASSWORD"):
		return ErrWeakPassword
	case strings.Contains(code, "EMAIL_EXISTS"):
		return ErrEmailInUse
	}

	return fmt.Errorf("identity provider: %w", err)
}
