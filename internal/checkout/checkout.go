// Package checkout runs the simulated payment flow: validate the card,
// empty the cart and count the order in the dashboard stats.
package checkout

import (
	"context"
	"errors"
	"regexp"
	"strings"

	"booknest/internal/cart"
	statsRepository "booknest/internal/repository/stats"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

var (
	ErrEmptyCart   = errors.New("cart is empty")
	ErrInvalidCard = errors.New("invalid payment details")
)

var expiryPattern = regexp.MustCompile(`^(0[1-9]|1[0-2])/\d{2}$`)

// Card carries the simulated payment details. Nothing here is charged or
// stored.
type Card struct {
	Number string
	Expiry string // MM/YY
	Cvv    string
	Holder string
}

type Receipt struct {
	OrderId  string
	TotalUSD float64
}

type Service struct {
	ledger *cart.Ledger
	stats  statsRepository.IRepository
	appId  string
}

func New(ledger *cart.Ledger, stats statsRepository.IRepository, appId string) *Service {
	return &Service{
		ledger: ledger,
		stats:  stats,
		appId:  appId,
	}
}

// Pay validates the card, clears the cart and atomically bumps the order
// counters. The cart total is already in USD.
func (s *Service) Pay(ctx context.Context, card Card) (*Receipt, error) {
	if len(s.ledger.Items()) == 0 {
		return nil, ErrEmptyCart
	}

	if err := ValidateCard(card); err != nil {
		return nil, err
	}

	total := s.ledger.Total()
	s.ledger.Clear(ctx)

	if err := s.stats.IncrementOrder(ctx, s.appId, total); err != nil {
		// The purchase itself succeeded; a lost counter is logged, not
		// surfaced to the buyer.
		log.Error().Err(err).Msg("checkout: failed to count order")
	}

	return &Receipt{
		OrderId:  uuid.NewString(),
		TotalUSD: total,
	}, nil
}

// ValidateCard applies the storefront's toy acceptance rules: 16 digits,
// MM/YY expiry, 3-digit CVV, non-empty holder.
func ValidateCard(card Card) error {
	digits := strings.ReplaceAll(card.Number, " ", "")
	if len(digits) != 16 || strings.IndexFunc(digits, notDigit) >= 0 {
		return ErrInvalidCard
	}
	if !expiryPattern.MatchString(card.Expiry) {
		return ErrInvalidCard
	}
	if len(card.Cvv) != 3 || strings.IndexFunc(card.Cvv, notDigit) >= 0 {
		return ErrInvalidCard
	}
	if strings.TrimSpace(card.Holder) == "" {
		return ErrInvalidCard
	}
	return nil
}

func notDigit(r rune) bool {
	return r < '0' || r > '9'
}
