package accountrepo

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-petr/flatbank/internal/domain"
	"github.com/go-petr/flatbank/pkg/moneypkg"
	"github.com/shopspring/decimal"
)

const (
	fieldSep = ","

	minFields = 4
)

// ErrMalformedRecord indicates a store line that cannot be decoded into an account.
var ErrMalformedRecord = errors.New("malformed account record")

// EncodeRecord serializes the account into a single store line without newline.
//
// Personal accounts carry the mobile balance as fifth field, business accounts omit it.
func EncodeRecord(a domain.Account) string {
	fields := []string{
		a.ID,
		a.Passcode,
		string(a.Kind),
		formatAmount(a.Balance),
	}

	if a.IsPersonal() {
		fields = append(fields, formatAmount(a.MobileBalance))
	}

	return strings.Join(fields, fieldSep)
}

// DecodeRecord parses a store line into an account.
//
// Any kind tag other than Personal yields a business account. Fields past the
// ones the kind uses are ignored.
func DecodeRecord(line string) (domain.Account, error) {
	var a domain.Account

	fields := strings.Split(strings.TrimSpace(line), fieldSep)
	if len(fields) < minFields {
		return a, fmt.Errorf("%w: want at least %d fields, got %d", ErrMalformedRecord, minFields, len(fields))
	}

	balance, err := parseAmount(fields[3])
	if err != nil {
		return a, fmt.Errorf("%w: balance: %v", ErrMalformedRecord, err)
	}

	a = domain.Account{
		ID:       fields[0],
		Passcode: fields[1],
		Kind:     domain.Business,
		Balance:  balance,
	}

	if fields[2] != string(domain.Personal) {
		return a, nil
	}

	a.Kind = domain.Personal

	if len(fields) > minFields {
		mobile, err := parseAmount(fields[4])
		if err != nil {
			return domain.Account{}, fmt.Errorf("%w: mobile balance: %v", ErrMalformedRecord, err)
		}

		a.MobileBalance = mobile
	}

	return a, nil
}

// formatAmount writes at least two decimals and never drops sub-cent digits.
func formatAmount(d decimal.Decimal) string {
	if d.Exponent() < -moneypkg.Places {
		return d.String()
	}

	return d.StringFixed(moneypkg.Places)
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%q is not a number", s)
	}

	if d.IsNegative() {
		return decimal.Zero, fmt.Errorf("%q is negative", s)
	}

	return d, nil
}
