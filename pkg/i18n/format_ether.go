package i18n

import (
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatEther represents the given amount of wei in ether and formats it according to the english locale (#,###.##).
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0"
	}
	p := message.NewPrinter(language.English)
	x := decimal.NewFromBigInt(wei, -18)
	intPart := p.Sprintf("%v", x.IntPart())
	if x.Equal(decimal.New(x.IntPart(), 0)) {
		return intPart
	}
	parts := strings.Split(x.String(), ".")
	if len(parts) != 2 {
		return intPart
	}
	if x.Sign() < 0 && x.IntPart() == 0 {
		intPart = "-" + intPart
	}
	return intPart + "." + parts[1]
}
