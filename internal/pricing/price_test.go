package pricing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    float64
		wantErr bool
	}{
		{name: "plain number", raw: "250", want: 250},
		{name: "decimal", raw: "199.50", want: 199.5},
		{name: "rupee symbol", raw: "₹120", want: 120},
		{name: "thousands separator", raw: "₹1,250.00", want: 1250},
		{name: "surrounding whitespace", raw: "  ₹ 99  ", want: 99},
		{name: "fallback strips text", raw: "Rs 180/-", want: 180},
		{name: "fallback mixed glyphs", raw: "INR 2,500 only", want: 2500},
		{name: "no digits", raw: "free", wantErr: true},
		{name: "empty", raw: "", wantErr: true},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			got, err := Parse(testCase.raw)

			if testCase.wantErr {
				assert.ErrorIs(t, err, ErrPriceFormat)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, testCase.want, got)
		})
	}
}

func TestRating(t *testing.T) {
	assert.Equal(t, 4.9, Rating("4.9"))
	assert.Equal(t, 4.0, Rating(" 4 "))
	assert.Equal(t, 0.0, Rating("not rated"))
	assert.Equal(t, 0.0, Rating(""))
}
