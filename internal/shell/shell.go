// Package shell implements the interactive text menu of the bank.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/go-petr/flatbank/internal/domain"
	"github.com/go-petr/flatbank/pkg/moneypkg"
)

// Service provides the account registry operations the shell needs.
type Service interface {
	Create(ctx context.Context, kind domain.Kind) (domain.Account, error)
	Authenticate(ctx context.Context, id, passcode string) (domain.Account, error)
	Get(ctx context.Context, id string) (domain.Account, error)
	Delete(ctx context.Context, id string) error
	Exists(id string) bool
	Deposit(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error)
	Withdraw(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error)
	Transfer(ctx context.Context, fromID, toID string, amount decimal.Decimal) (domain.Receipt, error)
	TopUpMobile(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error)
}

// Shell reads menu choices from in and writes prompts and results to out.
type Shell struct {
	service Service
	in      *bufio.Scanner
	out     io.Writer
}

// New returns a shell over the given registry and streams.
func New(service Service, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		service: service,
		in:      bufio.NewScanner(in),
		out:     out,
	}
}

func (s *Shell) println(a ...any) {
	fmt.Fprintln(s.out, a...)
}

func (s *Shell) printf(format string, a ...any) {
	fmt.Fprintf(s.out, format, a...)
}

type inputError struct {
	err error
}

func (e inputError) Error() string { return "read input: " + e.err.Error() }

func (e inputError) Unwrap() error { return e.err }

// prompt writes the prompt and returns the next input line.
// Exhausted input is an inputError wrapping io.EOF.
func (s *Shell) prompt(text string) (string, error) {
	fmt.Fprint(s.out, text)

	if !s.in.Scan() {
		if err := s.in.Err(); err != nil {
			return "", inputError{err}
		}

		return "", inputError{io.EOF}
	}

	return strings.TrimSpace(s.in.Text()), nil
}

// Run shows the main menu until the user exits or input ends.
func (s *Shell) Run(ctx context.Context) error {
	err := s.run(ctx)
	if errors.Is(err, io.EOF) {
		s.println()
		return nil
	}

	return err
}

func (s *Shell) run(ctx context.Context) error {
	for {
		s.println("\n=== Banking Application ===")
		s.println("1. Open Account")
		s.println("2. Login")
		s.println("3. Exit")

		choice, err := s.prompt("Enter your choice: ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			err = s.createAccount(ctx)
		case "2":
			err = s.login(ctx)
		case "3":
			s.println("Thank you for using our banking service!")
			return nil
		default:
			s.println("Invalid choice. Please try again.")
		}

		if err != nil {
			return err
		}
	}
}

func (s *Shell) createAccount(ctx context.Context) error {
	s.println("\nAccount Types:")
	s.println("1. Personal")
	s.println("2. Business")

	var kind domain.Kind

	for kind == "" {
		choice, err := s.prompt("Select account type (1/2): ")
		if err != nil {
			return err
		}

		switch choice {
		case "1":
			kind = domain.Personal
		case "2":
			kind = domain.Business
		default:
			s.println("Invalid choice. Please select 1 or 2.")
		}
	}

	acc, err := s.service.Create(ctx, kind)
	if err != nil {
		zerolog.Ctx(ctx).Error().Err(err).Msg("cannot create account")
		s.printf("Error: %v\n", err)

		return nil
	}

	s.println("\nAccount created successfully!")
	s.printf("Account Number: %s\n", acc.ID)
	s.printf("Temporary Passcode: %s\n", acc.Passcode)
	s.println("Please change your passcode after first login.")

	return nil
}

func (s *Shell) login(ctx context.Context) error {
	id, err := s.prompt("Enter account number: ")
	if err != nil {
		return err
	}

	passcode, err := s.prompt("Enter passcode: ")
	if err != nil {
		return err
	}

	acc, err := s.service.Authenticate(ctx, id, passcode)
	if err != nil {
		s.printf("Login failed: %v\n", err)
		return nil
	}

	s.printf("\nLogin successful! Welcome, %s account holder.\n", acc.Kind)

	return s.accountMenu(ctx, acc)
}

func (s *Shell) accountMenu(ctx context.Context, acc domain.Account) error {
	for {
		s.println("\nAccount Menu:")
		s.println("1. View Balance")
		s.println("2. Deposit")
		s.println("3. Withdraw")
		s.println("4. Transfer")
		s.println("5. Mobile Top-Up (Personal Only)")
		s.println("6. Delete Account")
		s.println("7. Logout")

		choice, err := s.prompt("Enter your choice: ")
		if err != nil {
			return err
		}

		var opErr error

		switch choice {
		case "1":
			var current domain.Account
			if current, opErr = s.service.Get(ctx, acc.ID); opErr == nil {
				s.println("\n" + current.Details())
			}
		case "2":
			opErr = s.amountOperation(ctx, acc.ID, "Enter amount to deposit: ", s.service.Deposit)
		case "3":
			opErr = s.amountOperation(ctx, acc.ID, "Enter amount to withdraw: ", s.service.Withdraw)
		case "4":
			opErr = s.transfer(ctx, acc.ID)
		case "5":
			if !acc.IsPersonal() {
				s.println("Mobile top-up only available for personal accounts")
				break
			}
			opErr = s.amountOperation(ctx, acc.ID, "Enter top-up amount: ", s.service.TopUpMobile)
		case "6":
			answer, err := s.prompt("Are you sure you want to delete your account? (y/n): ")
			if err != nil {
				return err
			}

			if strings.ToLower(answer) != "y" {
				break
			}

			if opErr = s.service.Delete(ctx, acc.ID); opErr == nil {
				s.println("Account deleted successfully")
				return nil
			}
		case "7":
			s.println("Logged out successfully")
			return nil
		default:
			s.println("Invalid choice. Please try again.")
		}

		var ie inputError
		if errors.As(opErr, &ie) {
			return opErr
		}

		if opErr != nil {
			zerolog.Ctx(ctx).Debug().Err(opErr).Str("account_id", acc.ID).Msg("operation failed")
			s.printf("Error: %v\n", opErr)
		}
	}
}

type operation func(ctx context.Context, id string, amount decimal.Decimal) (domain.Receipt, error)

func (s *Shell) readAmount(text string) (decimal.Decimal, bool, error) {
	input, err := s.prompt(text)
	if err != nil {
		return decimal.Zero, false, err
	}

	amount, err := moneypkg.Parse(input)
	if err != nil {
		s.println("Invalid amount entered")
		return decimal.Zero, false, nil
	}

	return amount, true, nil
}

func (s *Shell) amountOperation(ctx context.Context, id, text string, op operation) error {
	amount, ok, err := s.readAmount(text)
	if err != nil || !ok {
		return err
	}

	receipt, err := op(ctx, id, amount)
	if err != nil {
		return err
	}

	s.println(receipt.String())

	return nil
}

func (s *Shell) transfer(ctx context.Context, id string) error {
	recipientID, err := s.prompt("Enter recipient account number: ")
	if err != nil {
		return err
	}

	if !s.service.Exists(recipientID) {
		s.println("Recipient account not found")
		return nil
	}

	amount, ok, err := s.readAmount("Enter amount to transfer: ")
	if err != nil || !ok {
		return err
	}

	receipt, err := s.service.Transfer(ctx, id, recipientID, amount)
	if err != nil {
		return err
	}

	s.println(receipt.String())

	return nil
}
