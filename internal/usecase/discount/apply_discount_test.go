package discount

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/service-booking/internal/domain"
	domainDiscount "github.com/BruksfildServices01/service-booking/internal/domain/discount"
	"github.com/BruksfildServices01/service-booking/internal/models"
)

type mockRepo struct {
	discounts map[string]models.Discount
}

func (m *mockRepo) GetActiveOwner(_ context.Context, ownerID uint) (*models.Owner, error) {
	if ownerID != 1 {
		return nil, domain.ErrNotFound
	}
	return &models.Owner{ID: 1, Timezone: "UTC", Active: true}, nil
}

func (m *mockRepo) FindByCode(_ context.Context, ownerID uint, code string) (*models.Discount, error) {
	d, ok := m.discounts[code]
	if !ok || d.OwnerID != ownerID {
		return nil, domain.ErrNotFound
	}
	return &d, nil
}

func (m *mockRepo) DeactivateExpired(context.Context, time.Time) (int64, error) {
	return 0, nil
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newRepo() *mockRepo {
	yesterday := time.Now().UTC().AddDate(0, 0, -2)
	return &mockRepo{discounts: map[string]models.Discount{
		"TEN":     {ID: 1, OwnerID: 1, Code: "TEN", Type: "fixed", Amount: dec("10"), Active: true},
		"HALF":    {ID: 2, OwnerID: 1, Code: "HALF", Type: "percentage", Amount: dec("50"), Active: true},
		"OLD":     {ID: 3, OwnerID: 1, Code: "OLD", Type: "fixed", Amount: dec("5"), Active: true, ExpiryDate: &yesterday},
		"USED":    {ID: 4, OwnerID: 1, Code: "USED", Type: "fixed", Amount: dec("5"), Active: true, UsageLimit: 1, UsageCount: 1},
		"OFF":     {ID: 5, OwnerID: 1, Code: "OFF", Type: "fixed", Amount: dec("5"), Active: false},
		"FOREIGN": {ID: 6, OwnerID: 2, Code: "FOREIGN", Type: "fixed", Amount: dec("5"), Active: true},
	}}
}

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		name       string
		code       string
		subtotal   string
		wantAmount string
		wantErr    error
	}{
		{"fixed", "ten", "55.00", "10.00", nil},
		{"fixed never exceeds subtotal", "TEN", "4.00", "4.00", nil},
		{"percentage", "HALF", "55.00", "27.50", nil},
		{"unknown", "NOPE", "55.00", "", domainDiscount.ErrInvalidCode},
		{"empty", "  ", "55.00", "", domainDiscount.ErrInvalidCode},
		{"inactive", "OFF", "55.00", "", domainDiscount.ErrInvalidCode},
		{"other owner", "FOREIGN", "55.00", "", domainDiscount.ErrInvalidCode},
		{"expired", "OLD", "55.00", "", domainDiscount.ErrExpired},
		{"exhausted", "USED", "55.00", "", domainDiscount.ErrUsageLimitReached},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newRepo()
			uc := NewApplyDiscount(repo)

			res, err := uc.Execute(context.Background(), ApplyDiscountInput{
				OwnerID:  1,
				Code:     tt.code,
				Subtotal: dec(tt.subtotal),
			})

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, res)
				return
			}

			require.NoError(t, err)
			assert.True(t, res.DiscountAmount.Equal(dec(tt.wantAmount)), "amount %s", res.DiscountAmount)
			assert.True(t, res.Total.Equal(dec(tt.subtotal).Sub(dec(tt.wantAmount))))
		})
	}
}

func TestApplyDiscount_DoesNotConsumeUsage(t *testing.T) {
	repo := newRepo()
	d := repo.discounts["TEN"]
	d.UsageLimit = 1
	repo.discounts["TEN"] = d

	uc := NewApplyDiscount(repo)
	for i := 0; i < 3; i++ {
		_, err := uc.Execute(context.Background(), ApplyDiscountInput{OwnerID: 1, Code: "TEN", Subtotal: dec("20")})
		require.NoError(t, err)
	}

	assert.Zero(t, repo.discounts["TEN"].UsageCount)
}
