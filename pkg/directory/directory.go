// Package directory owns the account set: the single source of truth for
// credential checks, loaded from and flushed to a flat text store at
// process boundaries.
package directory

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
)

// ErrAlreadyExists is returned by Create for a duplicate username.
var ErrAlreadyExists = errors.New("user account already exists")

// Account is one stored credential pair. Accounts are never updated or
// deleted once created.
type Account struct {
	Username string
	Password string
}

// MatchResult is the outcome of a credential check. The protocol replies
// identically for NotFound and WrongPassword; the distinction exists for
// the server log.
type MatchResult int

const (
	MatchNotFound MatchResult = iota
	MatchWrongPassword
	MatchOK
)

// Directory holds the account set behind a single lock. It is the only
// component permitted to mutate the set.
type Directory struct {
	mu       sync.RWMutex
	accounts []Account
	index    map[string]int // username -> accounts slice position
}

// New returns an empty directory.
func New() *Directory {
	return &Directory{
		index: make(map[string]int),
	}
}

// Load populates the directory from a persisted record, one account per
// line in the form "(username, password)". Malformed lines are skipped so
// one corrupt record never blocks startup. Returns the number of accounts
// loaded.
func (d *Directory) Load(r io.Reader) (int, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	loaded := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		username, password, ok := parseRecord(scanner.Text())
		if !ok {
			continue
		}
		if _, dup := d.index[username]; dup {
			continue
		}
		d.index[username] = len(d.accounts)
		d.accounts = append(d.accounts, Account{Username: username, Password: password})
		loaded++
	}

	if err := scanner.Err(); err != nil {
		return loaded, fmt.Errorf("failed to read account store: %w", err)
	}
	return loaded, nil
}

// LoadFile loads the directory from a file. A missing file is not an
// error; the directory simply starts empty.
func (d *Directory) LoadFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to open account store: %w", err)
	}
	defer f.Close()

	return d.Load(f)
}

// parseRecord parses one "(username, password)" line.
func parseRecord(line string) (username, password string, ok bool) {
	line = strings.Trim(strings.TrimSpace(line), "()")
	username, password, found := strings.Cut(line, ", ")
	if !found || username == "" || password == "" {
		return "", "", false
	}
	return username, password, true
}

// Exists reports whether an account with the given username exists.
// Usernames are case-sensitive.
func (d *Directory) Exists(username string) bool {
	d.mu.RLock()
	defer d.mu.RUnlock()

	_, ok := d.index[username]
	return ok
}

// Verify checks a credential pair against the directory.
func (d *Directory) Verify(username, password string) MatchResult {
	d.mu.RLock()
	defer d.mu.RUnlock()

	pos, ok := d.index[username]
	if !ok {
		return MatchNotFound
	}
	if d.accounts[pos].Password != password {
		return MatchWrongPassword
	}
	return MatchOK
}

// Create adds a new account. Returns ErrAlreadyExists if the username is
// taken.
func (d *Directory) Create(username, password string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if _, ok := d.index[username]; ok {
		return ErrAlreadyExists
	}

	d.index[username] = len(d.accounts)
	d.accounts = append(d.accounts, Account{Username: username, Password: password})
	return nil
}

// Count returns the number of accounts.
func (d *Directory) Count() int {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return len(d.accounts)
}

// Snapshot returns a copy of all accounts in insertion order. Used at
// shutdown to persist the set.
func (d *Directory) Snapshot() []Account {
	d.mu.RLock()
	defer d.mu.RUnlock()

	out := make([]Account, len(d.accounts))
	copy(out, d.accounts)
	return out
}

// Save writes the full account set, one "(username, password)" record per
// line. Round-trips with Load for accounts whose fields contain none of
// the record delimiter characters.
func (d *Directory) Save(w io.Writer) error {
	for _, acct := range d.Snapshot() {
		if _, err := fmt.Fprintf(w, "(%s, %s)\n", acct.Username, acct.Password); err != nil {
			return fmt.Errorf("failed to write account store: %w", err)
		}
	}
	return nil
}

// SaveFile rewrites the account store file from the in-memory snapshot.
func (d *Directory) SaveFile(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create account store: %w", err)
	}

	if err := d.Save(f); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
