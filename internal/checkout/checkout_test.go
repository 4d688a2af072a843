package checkout

import (
	"context"
	"sync"
	"testing"

	"booknest/internal/cart"
	"booknest/internal/model"
	statsRepository "booknest/internal/repository/stats"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var validCard = Card{
	Number: "4242 4242 4242 4242",
	Expiry: "12/27",
	Cvv:    "123",
	Holder: "Jordan Reader",
}

type fakeStats struct {
	mu      sync.Mutex
	orders  int
	revenue float64
}

func (f *fakeStats) Get(_ context.Context, _ string) (model.AdminStats, error) {
	return model.AdminStats{}, nil
}

func (f *fakeStats) IncrementRegisteredUsers(_ context.Context, _ string) error {
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

func TestValidateCard(t *testing.T) {
	tests := []struct {
		name string
		card Card
		ok   bool
	}{
		{"valid", validCard, true},
		{"valid without spaces", Card{Number: "4242424242424242", Expiry: "01/30", Cvv: "000", Holder: "A"}, true},
		{"short number", Card{Number: "4242", Expiry: "12/27", Cvv: "123", Holder: "A"}, false},
		{"letters in number", Card{Number: "4242 4242 4242 424x", Expiry: "12/27", Cvv: "123", Holder: "A"}, false},
		{"bad expiry month", Card{Number: "4242424242424242", Expiry: "13/27", Cvv: "123", Holder: "A"}, false},
		{"missing expiry slash", Card{Number: "4242424242424242", Expiry: "1227", Cvv: "123", Holder: "A"}, false},
		{"short cvv", Card{Number: "4242424242424242", Expiry: "12/27", Cvv: "12", Holder: "A"}, false},
		{"blank holder", Card{Number: "4242424242424242", Expiry: "12/27", Cvv: "123", Holder: "   "}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateCard(tt.card)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidCard)
			}
		})
	}
}

func TestPayClearsCartAndCountsOrder(t *testing.T) {
	ctx := context.Background()
	ledger := cart.NewLedger(nil, nil)
	ledger.Add(ctx, model.CartItem{Id: "a", Price: 10})
	ledger.Add(ctx, model.CartItem{Id: "a", Price: 10})
	ledger.Add(ctx, model.CartItem{Id: "b", Price: 5})

	stats := &fakeStats{}
	svc := New(ledger, stats, "test-app")

	receipt, err := svc.Pay(ctx, validCard)
	require.NoError(t, err)
	assert.NotEmpty(t, receipt.OrderId)
	assert.InDelta(t, 25.0, receipt.TotalUSD, 1e-9)

	assert.Empty(t, ledger.Items())
	assert.Equal(t, 1, stats.orders)
	assert.InDelta(t, 25.0, stats.revenue, 1e-9)
}

func TestPayEmptyCart(t *testing.T) {
	svc := New(cart.NewLedger(nil, nil), &fakeStats{}, "test-app")

	_, err := svc.Pay(context.Background(), validCard)
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestPayInvalidCardLeavesCartIntact(t *testing.T) {
	ctx := context.Background()
	ledger := cart.NewLedger(nil, nil)
	ledger.Add(ctx, model.CartItem{Id: "a", Price: 10})

	stats := &fakeStats{}
	svc := New(ledger, stats, "test-app")

	_, err := svc.Pay(ctx, Card{})
	assert.ErrorIs(t, err, ErrInvalidCard)
	assert.Len(t, ledger.Items(), 1)
	assert.Zero(t, stats.orders)
}
