package i18n

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFormatEther(t *testing.T) {
	tests := []struct {
		name string
		wei  *big.Int
		want string
	}{
		{name: "whole", wei: big.NewInt(1_000_000_000_000_000_000), want: "1"},
		{name: "fraction", wei: big.NewInt(10_000_000_000_000_000), want: "0.01"},
		{name: "grouping", wei: new(big.Int).Mul(big.NewInt(33_000_544), big.NewInt(1_000_000_000_000_000)), want: "33,000.544"},
		{name: "one wei", wei: big.NewInt(1), want: "0.000000000000000001"},
		{name: "zero", wei: big.NewInt(0), want: "0"},
		{name: "nil", wei: nil, want: "0"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, FormatEther(tt.wei))
		})
	}
}
