// Package keyring keeps the PostgreSQL connection string for the tracker
// store in the OS credential store, so it never has to appear in a config
// flag or shell history.
package keyring

import (
	"errors"
	"fmt"
	"strings"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/tracker/internal/constants"
)

var (
	ErrNotFound           = errors.New("credentials not found in keyring")
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
	ErrEmptyConnection    = errors.New("connection string cannot be empty")
)

// entry addresses one secret in the OS keyring.
type entry struct {
	service string
	account string
}

var connection = entry{service: constants.AppName, account: constants.DefaultKeyringUser}

func (e entry) read() (string, error) {
	secret, err := keyring.Get(e.service, e.account)
	if err != nil {
		return "", e.classify("read", err)
	}
	// A blank secret left behind by another tool is as good as none.
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return "", ErrNotFound
	}
	return secret, nil
}

func (e entry) write(secret string) error {
	return e.classify("write", keyring.Set(e.service, e.account, secret))
}

func (e entry) remove() error {
	return e.classify("remove", keyring.Delete(e.service, e.account))
}

// classify maps backend errors onto ErrNotFound and ErrKeyringUnavailable.
func (e entry) classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, keyring.ErrNotFound):
		return ErrNotFound
	default:
		return fmt.Errorf("%w: %s %s/%s: %v", ErrKeyringUnavailable, op, e.service, e.account, err)
	}
}

// GetConnectionString returns the stored connection string, or ErrNotFound.
func GetConnectionString() (string, error) {
	return connection.read()
}

// SetConnectionString stores connStr with surrounding whitespace removed.
func SetConnectionString(connStr string) error {
	connStr = strings.TrimSpace(connStr)
	if connStr == "" {
		return ErrEmptyConnection
	}
	return connection.write(connStr)
}

// DeleteConnectionString removes the stored connection string. Removing a
// missing entry reports ErrNotFound.
func DeleteConnectionString() error {
	return connection.remove()
}

// IsAvailable reports whether the keyring backend answers at all. A missing
// entry still counts as available.
func IsAvailable() bool {
	_, err := connection.read()
	return !errors.Is(err, ErrKeyringUnavailable)
}
