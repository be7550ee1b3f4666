package domain_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"referraldesk/internal/apperrors"
	"referraldesk/internal/domain"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeCommission(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		rate   string
		want   string
	}{
		{"ten percent", "5000.00", "10", "500"},
		{"fractional rate", "1000.00", "12.5", "125"},
		{"zero rate yields zero entry", "5000.00", "0", "0"},
		{"full rate", "250.00", "100", "250"},
		{"precision preserved", "333.33", "33.33", "111.098889"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := domain.ComputeCommission(dec(tc.amount), dec(tc.rate))
			require.NoError(t, err)
			assert.True(t, got.Equal(dec(tc.want)), "got %s, want %s", got, tc.want)
		})
	}
}

func TestComputeCommissionRejectsBadInput(t *testing.T) {
	cases := []struct {
		name   string
		amount string
		rate   string
	}{
		{"zero amount", "0", "10"},
		{"negative amount", "-5", "10"},
		{"negative rate", "100", "-1"},
		{"rate over one hundred", "100", "100.01"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := domain.ComputeCommission(dec(tc.amount), dec(tc.rate))
			require.Error(t, err)
			assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
		})
	}
}
