package valueobject

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMoney(t *testing.T) {
	m, err := NewMoney(decimal.NewFromFloat(10.50), PEN)
	require.NoError(t, err)
	assert.Equal(t, PEN, m.Currency())
	assert.True(t, m.Amount().Equal(decimal.NewFromFloat(10.50)))

	_, err = NewMoney(decimal.Zero, "")
	assert.Error(t, err)
}

func TestNewMoneyPENFromString(t *testing.T) {
	m, err := NewMoneyPENFromString("19.91")
	require.NoError(t, err)
	assert.Equal(t, "19.91 PEN", m.String())

	_, err = NewMoneyPENFromString("not-a-number")
	assert.Error(t, err)
}

func TestMoney_Arithmetic(t *testing.T) {
	a := NewMoneyPENFromFloat(10)
	b := NewMoneyPENFromFloat(3.5)

	sum, err := a.Add(b)
	require.NoError(t, err)
	assert.True(t, sum.Amount().Equal(decimal.NewFromFloat(13.5)))

	diff, err := a.Sub(b)
	require.NoError(t, err)
	assert.True(t, diff.Amount().Equal(decimal.NewFromFloat(6.5)))

	product := a.Mul(decimal.NewFromInt(3))
	assert.True(t, product.Amount().Equal(decimal.NewFromInt(30)))
}

func TestMoney_CurrencyMismatch(t *testing.T) {
	a := NewMoneyPENFromFloat(10)
	b, err := NewMoney(decimal.NewFromInt(1), USD)
	require.NoError(t, err)

	_, err = a.Add(b)
	assert.Error(t, err)
	_, err = a.Sub(b)
	assert.Error(t, err)
}

func TestMoney_Round2_HalfAwayFromZero(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"1.005", "1.01"},
		{"1.004", "1.00"},
		{"-1.005", "-1.01"},
		{"19.9095", "19.91"},
		{"2.0905", "2.09"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			m, err := NewMoneyPENFromString(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Round2().Amount().StringFixed(2))
		})
	}
}

func TestMoney_Equals(t *testing.T) {
	a := NewMoneyPENFromFloat(5)
	b := NewMoneyPENFromFloat(5)
	c := NewMoneyPENFromFloat(6)

	assert.True(t, a.Equals(b))
	assert.False(t, a.Equals(c))
}
