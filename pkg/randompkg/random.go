// Package randompkg provides functionality gor generating random applications common items.
package randompkg

import (
	"crypto/rand"
	"math"
	"math/big"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	alphabet = "abcdefghijklmnopqrstuvwxyz"
	digits   = "0123456789"
)

// Default lengths of generated account numbers and passcodes.
const (
	AccountIDLen = 5
	PasscodeLen  = 4
)

// Intn is a shortcut for generating a random integer between 0 and max using crypto/rand.
func Intn(max int) int64 {
	nBig, err := rand.Int(rand.Reader, big.NewInt(int64(max)))
	if err != nil {
		panic(err)
	}

	return nBig.Int64()
}

// Float64 is a shortcut for generating a random float between 0 and 1 using crypto/rand.
func Float64() float64 {
	return float64(Intn(1<<32)) / (1 << 32)
}

func fromCharset(charset string, n int) string {
	var sb strings.Builder

	k := len(charset)

	for i := 0; i < n; i++ {
		_ = sb.WriteByte(charset[Intn(k)]) // The returned err is always nil.
	}

	return sb.String()
}

// String generates a random string of length n.
func String(n int) string {
	return fromCharset(alphabet, n)
}

// Digits generates a random string of n decimal digits, leading zeros included.
func Digits(n int) string {
	return fromCharset(digits, n)
}

// MoneyAmountBetween generates a random amount of money between min and max rounded down to cents.
func MoneyAmountBetween(min, max float64) string {
	numInRange := min + Float64()*(max-min)
	return decimal.NewFromFloat(math.Floor(numInRange*100) / 100).StringFixed(2)
}

// DigitGenerator produces fixed-width numeric account numbers and passcodes.
type DigitGenerator struct {
	IDLen       int
	PasscodeLen int
}

// NewDigitGenerator returns a generator with the default widths.
func NewDigitGenerator() DigitGenerator {
	return DigitGenerator{IDLen: AccountIDLen, PasscodeLen: PasscodeLen}
}

// AccountID returns a new random account number.
func (g DigitGenerator) AccountID() string {
	return Digits(g.IDLen)
}

// Passcode returns a new random passcode.
func (g DigitGenerator) Passcode() string {
	return Digits(g.PasscodeLen)
}
