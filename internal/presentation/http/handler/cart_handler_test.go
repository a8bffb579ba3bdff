package handler

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mwaniki/salepoint-api/internal/domain/enum"
	"github.com/mwaniki/salepoint-api/internal/domain/pricing"
	"github.com/mwaniki/salepoint-api/internal/presentation/http/dto/request"
)

func TestDiscountSpecConversion(t *testing.T) {
	cases := []struct {
		name string
		req  *request.DiscountRequest
		want pricing.DiscountSpec
	}{
		{
			name: "nil means no discount",
			req:  nil,
			want: pricing.DiscountSpec{},
		},
		{
			name: "amount converts to cents",
			req:  &request.DiscountRequest{Mode: "amount", Value: 50},
			want: pricing.DiscountSpec{Mode: enum.DiscountModeAmount, Value: 5000},
		},
		{
			// 19.99 * 100 is 1998.999... in float64; the conversion must
			// round, not truncate.
			name: "fractional amount keeps the last cent",
			req:  &request.DiscountRequest{Mode: "amount", Value: 19.99},
			want: pricing.DiscountSpec{Mode: enum.DiscountModeAmount, Value: 1999},
		},
		{
			name: "percent passes through",
			req:  &request.DiscountRequest{Mode: "percent", Value: 10},
			want: pricing.DiscountSpec{Mode: enum.DiscountModePercent, Value: 10},
		},
		{
			name: "fractional percent rounds to nearest",
			req:  &request.DiscountRequest{Mode: "percent", Value: 12.5},
			want: pricing.DiscountSpec{Mode: enum.DiscountModePercent, Value: 13},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, discountSpec(tc.req))
		})
	}
}
