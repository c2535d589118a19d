package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fiado/internal/money"
)

func TestParseDecimal(t *testing.T) {
	type testCase struct {
		in      string
		want    int64
		wantErr bool
	}

	tests := []testCase{
		{in: "12.34", want: 1234},
		{in: "12,34", want: 1234},
		{in: "12", want: 1200},
		{in: " 12.3 ", want: 1230},
		{in: ".50", want: 50},
		{in: "12.345", want: 1234}, // third digit < 5 rounds down
		{in: "12.346", want: 1235}, // third digit >= 5 rounds up
		{in: "", wantErr: true},
		{in: "0", wantErr: true},
		{in: "0.00", wantErr: true},
		{in: "-5", wantErr: true},
		{in: "+5", wantErr: true},
		{in: "1.2.3", wantErr: true},
		{in: "12a", wantErr: true},
		{in: "1.٥", wantErr: true},  // non-ASCII digit in the fraction
		{in: "١٢.5", wantErr: true}, // non-ASCII digits in the integer part
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := money.ParseDecimal(tt.in)

			if tt.wantErr {
				assert.ErrorIs(t, err, money.ErrInvalidAmount)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromFloat(t *testing.T) {
	assert.Equal(t, int64(1234), money.FromFloat(12.34))
	assert.Equal(t, int64(1000), money.FromFloat(10))
	assert.Equal(t, int64(1), money.FromFloat(0.005))
	assert.Equal(t, int64(0), money.FromFloat(0))
}

func TestDecimal(t *testing.T) {
	assert.InDelta(t, 12.34, money.Decimal(1234), 0.0001)
	assert.InDelta(t, 0, money.Decimal(0), 0.0001)
}
