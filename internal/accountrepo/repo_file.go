// Package accountrepo manages repository layer of accounts.
package accountrepo

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-petr/flatbank/internal/domain"
	"github.com/rs/zerolog"
)

// RepoFile stores accounts in a flat text file, one account per line.
//
// The file is read fully on Load and rewritten fully on Save. There is no
// locking, so with two writers the last Save wins.
type RepoFile struct {
	path string
}

// NewRepoFile returns account RepoFile backed by the file at path.
func NewRepoFile(path string) *RepoFile {
	return &RepoFile{
		path: path,
	}
}

// Path returns the backing file path.
func (r *RepoFile) Path() string {
	return r.path
}

// Load reads all accounts from the store.
//
// A missing file yields no accounts. Malformed lines are logged and skipped.
func (r *RepoFile) Load(ctx context.Context) ([]domain.Account, error) {
	l := zerolog.Ctx(ctx)

	f, err := os.Open(r.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			l.Debug().Str("path", r.path).Msg("account store not found, starting empty")
			return nil, nil
		}

		l.Error().Err(err).Send()

		return nil, fmt.Errorf("open account store: %w", err)
	}
	defer f.Close()

	var (
		accounts []domain.Account
		lineNo   int
	)

	reader := bufio.NewReader(f)

	for {
		line, readErr := reader.ReadString('\n')
		if readErr != nil && !errors.Is(readErr, io.EOF) {
			l.Error().Err(readErr).Send()
			return nil, fmt.Errorf("read account store: %w", readErr)
		}

		lineNo++

		if line = strings.TrimRight(line, "\r\n"); len(line) > 0 {
			a, err := DecodeRecord(line)
			if err != nil {
				l.Warn().Err(err).Str("path", r.path).Int("line", lineNo).Msg("skipping account record")
			} else {
				accounts = append(accounts, a)
			}
		}

		if readErr != nil {
			break
		}
	}

	return accounts, nil
}

// Save replaces the store content with the given accounts.
//
// The lines are written to a temporary file first and then renamed over the store.
func (r *RepoFile) Save(ctx context.Context, accounts []domain.Account) error {
	l := zerolog.Ctx(ctx)

	tmp, err := os.CreateTemp(filepath.Dir(r.path), filepath.Base(r.path)+".*.tmp")
	if err != nil {
		l.Error().Err(err).Send()
		return fmt.Errorf("create account store: %w", err)
	}

	w := bufio.NewWriter(tmp)
	for _, a := range accounts {
		if _, err := w.WriteString(EncodeRecord(a) + "\n"); err != nil {
			break
		}
	}

	err = w.Flush()
	if closeErr := tmp.Close(); err == nil {
		err = closeErr
	}

	if err != nil {
		l.Error().Err(err).Send()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("write account store: %w", err)
	}

	if err := os.Rename(tmp.Name(), r.path); err != nil {
		l.Error().Err(err).Send()
		_ = os.Remove(tmp.Name())

		return fmt.Errorf("replace account store: %w", err)
	}

	return nil
}
