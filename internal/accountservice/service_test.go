package accountservice

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-petr/flatbank/internal/accountrepo"
	"github.com/go-petr/flatbank/internal/domain"
	"github.com/go-petr/flatbank/pkg/randompkg"
	"github.com/golang/mock/gomock"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func newFileService(t *testing.T) (*Service, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "accounts.txt")

	s, err := New(context.Background(), accountrepo.NewRepoFile(path), randompkg.NewDigitGenerator())
	require.NoError(t, err)

	return s, path
}

func TestCreate(t *testing.T) {
	s, path := newFileService(t)
	ctx := context.Background()

	personal, err := s.Create(ctx, domain.Personal)
	require.NoError(t, err)
	require.Equal(t, domain.Personal, personal.Kind)
	require.Len(t, personal.ID, randompkg.AccountIDLen)
	require.Len(t, personal.Passcode, randompkg.PasscodeLen)
	require.True(t, personal.Balance.IsZero())
	require.True(t, personal.MobileBalance.IsZero())

	business, err := s.Create(ctx, domain.Business)
	require.NoError(t, err)
	require.Equal(t, domain.Business, business.Kind)
	require.True(t, s.Exists(business.ID))

	loaded, err := accountrepo.NewRepoFile(path).Load(ctx)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	_, err = s.Create(ctx, domain.Kind("Savings"))
	require.ErrorIs(t, err, domain.ErrUnknownKind)
}

func TestCreateRedrawsTakenID(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	gen := NewMockGenerator(ctrl)

	repo.EXPECT().Load(gomock.Any()).Times(1).Return(nil, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(2).Return(nil)

	gen.EXPECT().AccountID().Times(2).Return("11111")
	gen.EXPECT().AccountID().Times(1).Return("22222")
	gen.EXPECT().Passcode().Times(2).Return("0001")

	s, err := New(context.Background(), repo, gen)
	require.NoError(t, err)

	first, err := s.Create(context.Background(), domain.Personal)
	require.NoError(t, err)
	require.Equal(t, "11111", first.ID)

	second, err := s.Create(context.Background(), domain.Business)
	require.NoError(t, err)
	require.Equal(t, "22222", second.ID)
}

func TestCreateIDSpaceExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	gen := NewMockGenerator(ctrl)

	repo.EXPECT().Load(gomock.Any()).Times(1).Return([]domain.Account{
		{ID: "11111", Passcode: "1111", Kind: domain.Business},
	}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	gen.EXPECT().AccountID().Times(maxIDAttempts).Return("11111")
	gen.EXPECT().Passcode().Times(0)

	s, err := New(context.Background(), repo, gen)
	require.NoError(t, err)

	_, err = s.Create(context.Background(), domain.Personal)
	require.ErrorIs(t, err, ErrIDSpaceExhausted)
}

func TestNewLoadError(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	repo.EXPECT().Load(gomock.Any()).Times(1).Return(nil, errors.New("disk on fire"))

	s, err := New(context.Background(), repo, NewMockGenerator(ctrl))
	require.Error(t, err)
	require.Nil(t, s)
}

func TestSaveErrorPropagates(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	writeErr := errors.New("read-only file system")

	repo.EXPECT().Load(gomock.Any()).Times(1).Return([]domain.Account{
		{ID: "11111", Passcode: "1111", Kind: domain.Personal, Balance: amount("10")},
	}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(1).Return(writeErr)

	s, err := New(context.Background(), repo, NewMockGenerator(ctrl))
	require.NoError(t, err)

	_, err = s.Deposit(context.Background(), "11111", amount("5"))
	require.ErrorIs(t, err, writeErr)

	// in-memory state is kept even though the store write failed
	got, err := s.Get(context.Background(), "11111")
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(amount("15")))
}

func TestFailedOperationDoesNotSave(t *testing.T) {
	ctrl := gomock.NewController(t)

	repo := NewMockRepo(ctrl)
	repo.EXPECT().Load(gomock.Any()).Times(1).Return([]domain.Account{
		{ID: "11111", Passcode: "1111", Kind: domain.Business, Balance: amount("10")},
	}, nil)
	repo.EXPECT().Save(gomock.Any(), gomock.Any()).Times(0)

	s, err := New(context.Background(), repo, NewMockGenerator(ctrl))
	require.NoError(t, err)

	_, err = s.Withdraw(context.Background(), "11111", amount("50"))
	require.ErrorIs(t, err, domain.ErrInsufficientFunds)

	_, err = s.TopUpMobile(context.Background(), "11111", amount("5"))
	require.ErrorIs(t, err, domain.ErrNotPersonal)

	_, err = s.Deposit(context.Background(), "99999", amount("5"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)
}

func TestAuthenticate(t *testing.T) {
	s, _ := newFileService(t)
	ctx := context.Background()

	a, err := s.Create(ctx, domain.Personal)
	require.NoError(t, err)

	got, err := s.Authenticate(ctx, a.ID, a.Passcode)
	require.NoError(t, err)
	require.Equal(t, a.ID, got.ID)

	wrong := "x" + a.Passcode
	_, err = s.Authenticate(ctx, a.ID, wrong)
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)

	_, err = s.Authenticate(ctx, "unknown", a.Passcode)
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)
}

func TestDelete(t *testing.T) {
	s, path := newFileService(t)
	ctx := context.Background()

	a, err := s.Create(ctx, domain.Business)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, a.ID))
	require.False(t, s.Exists(a.ID))

	_, err = s.Authenticate(ctx, a.ID, a.Passcode)
	require.ErrorIs(t, err, domain.ErrAuthenticationFailed)

	err = s.Delete(ctx, a.ID)
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Empty(t, raw)
}

func TestOperationsPersist(t *testing.T) {
	s, path := newFileService(t)
	ctx := context.Background()

	a, err := s.Create(ctx, domain.Personal)
	require.NoError(t, err)
	b, err := s.Create(ctx, domain.Business)
	require.NoError(t, err)

	_, err = s.Deposit(ctx, a.ID, amount("300.00"))
	require.NoError(t, err)

	receipt, err := s.Transfer(ctx, a.ID, b.ID, amount("100.00"))
	require.NoError(t, err)
	require.Equal(t, b.ID, receipt.RecipientID)

	_, err = s.TopUpMobile(ctx, a.ID, amount("50.00"))
	require.NoError(t, err)

	_, err = s.Withdraw(ctx, b.ID, amount("25.50"))
	require.NoError(t, err)

	_, err = s.Transfer(ctx, a.ID, "nobody", amount("1"))
	require.ErrorIs(t, err, domain.ErrAccountNotFound)

	reloaded, err := New(ctx, accountrepo.NewRepoFile(path), randompkg.NewDigitGenerator())
	require.NoError(t, err)

	gotA, err := reloaded.Get(ctx, a.ID)
	require.NoError(t, err)
	require.Equal(t, "150.00", gotA.Balance.StringFixed(2))
	require.Equal(t, "50.00", gotA.MobileBalance.StringFixed(2))
	require.Equal(t, a.Passcode, gotA.Passcode)

	gotB, err := reloaded.Get(ctx, b.ID)
	require.NoError(t, err)
	require.Equal(t, "74.50", gotB.Balance.StringFixed(2))
}

func TestSaveLoadRoundTrip(t *testing.T) {
	s, path := newFileService(t)
	ctx := context.Background()

	var want []domain.Account

	for i := 0; i < 10; i++ {
		kind := domain.Personal
		if i%2 == 1 {
			kind = domain.Business
		}

		a, err := s.Create(ctx, kind)
		require.NoError(t, err)

		_, err = s.Deposit(ctx, a.ID, amount(randompkg.MoneyAmountBetween(10, 1_000)))
		require.NoError(t, err)

		if kind == domain.Personal {
			_, err = s.TopUpMobile(ctx, a.ID, amount("5"))
			require.NoError(t, err)

			_, err = s.TopUpMobile(ctx, a.ID, amount("0.005"))
			require.NoError(t, err)
		}

		got, err := s.Get(ctx, a.ID)
		require.NoError(t, err)

		want = append(want, got)
	}

	require.NoError(t, s.Save(ctx))

	fresh, err := New(ctx, accountrepo.NewRepoFile(path), randompkg.NewDigitGenerator())
	require.NoError(t, err)

	for _, w := range want {
		got, err := fresh.Get(ctx, w.ID)
		require.NoError(t, err)
		require.Equal(t, w.Passcode, got.Passcode)
		require.Equal(t, w.Kind, got.Kind)
		require.True(t, w.Balance.Equal(got.Balance), w.ID)
		require.True(t, w.MobileBalance.Equal(got.MobileBalance), w.ID)
	}
}

func TestSubCentTopUpSurvivesReload(t *testing.T) {
	s, path := newFileService(t)
	ctx := context.Background()

	a, err := s.Create(ctx, domain.Personal)
	require.NoError(t, err)

	_, err = s.Deposit(ctx, a.ID, amount("150"))
	require.NoError(t, err)

	_, err = s.TopUpMobile(ctx, a.ID, amount("0.005"))
	require.NoError(t, err)

	fresh, err := New(ctx, accountrepo.NewRepoFile(path), randompkg.NewDigitGenerator())
	require.NoError(t, err)

	got, err := fresh.Get(ctx, a.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.Equal(amount("149.995")), got.Balance)
	require.True(t, got.MobileBalance.Equal(amount("0.005")), got.MobileBalance)
	require.True(t, got.Balance.Add(got.MobileBalance).Equal(amount("150")))
}

func TestReturnedAccountIsCopy(t *testing.T) {
	s, path := newFileService(t)
	ctx := context.Background()

	created, err := s.Create(ctx, domain.Business)
	require.NoError(t, err)

	_, err = created.Deposit(amount("10"))
	require.NoError(t, err)

	inMemory, err := s.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, inMemory.Balance.IsZero())

	fresh, err := New(ctx, accountrepo.NewRepoFile(path), randompkg.NewDigitGenerator())
	require.NoError(t, err)

	got, err := fresh.Get(ctx, created.ID)
	require.NoError(t, err)
	require.True(t, got.Balance.IsZero())
}
