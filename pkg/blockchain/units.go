package blockchain

import (
	"math/big"
	"strings"

	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

const (
	etherDecimals = 18
	maxWeiBits    = 256
)

// ParseEther converts a decimal amount of ether into wei. Amounts finer than
// one wei, exponent notation and values that do not fit in a uint256 are
// rejected.
func ParseEther(s string) (*big.Int, error) {
	s = strings.TrimSpace(s)
	if strings.ContainsAny(s, "eE") {
		return nil, errors.Errorf("%q: exponent notation is not supported", s)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil, errors.Wrapf(err, "parse %q", s)
	}
	wei := d.Shift(etherDecimals)
	if !wei.Equal(wei.Truncate(0)) {
		return nil, errors.Errorf("%q has more than %d decimals", s, etherDecimals)
	}
	v := wei.BigInt()
	if v.BitLen() > maxWeiBits {
		return nil, errors.Errorf("%q does not fit in %d bits of wei", s, maxWeiBits)
	}
	return v, nil
}
