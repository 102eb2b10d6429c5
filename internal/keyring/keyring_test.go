package keyring

import (
	"errors"
	"testing"

	gokeyring "github.com/zalando/go-keyring"
)

func TestConnectionStringRoundTrip(t *testing.T) {
	gokeyring.MockInit()

	connStr := "postgres://tracker@localhost:5432/tracker?sslmode=disable"
	if err := SetConnectionString(connStr); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}

	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if got != connStr {
		t.Errorf("GetConnectionString() = %q, want %q", got, connStr)
	}

	if err := DeleteConnectionString(); err != nil {
		t.Fatalf("DeleteConnectionString() failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("after delete, GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("second delete error = %v, want %v", err, ErrNotFound)
	}
}

func TestSetConnectionStringEmpty(t *testing.T) {
	gokeyring.MockInit()

	for _, in := range []string{"", "   \n"} {
		if err := SetConnectionString(in); !errors.Is(err, ErrEmptyConnection) {
			t.Errorf("SetConnectionString(%q) error = %v, want %v", in, err, ErrEmptyConnection)
		}
	}
}

func TestConnectionStringIsTrimmed(t *testing.T) {
	gokeyring.MockInit()

	if err := SetConnectionString("  postgres://tracker@localhost/tracker\n"); err != nil {
		t.Fatalf("SetConnectionString() failed: %v", err)
	}
	got, err := GetConnectionString()
	if err != nil {
		t.Fatalf("GetConnectionString() failed: %v", err)
	}
	if want := "postgres://tracker@localhost/tracker"; got != want {
		t.Errorf("GetConnectionString() = %q, want %q", got, want)
	}
}

func TestBlankStoredValueIsNotFound(t *testing.T) {
	gokeyring.MockInit()

	if err := gokeyring.Set("tracker", "database-connection", "  "); err != nil {
		t.Fatalf("seeding keyring failed: %v", err)
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrNotFound)
	}
	if !IsAvailable() {
		t.Error("IsAvailable() = false with a blank entry")
	}
}

func TestUnavailableBackend(t *testing.T) {
	gokeyring.MockInitWithError(errors.New("no dbus session"))
	t.Cleanup(gokeyring.MockInit)

	if IsAvailable() {
		t.Error("IsAvailable() = true with a failing backend")
	}
	if _, err := GetConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("GetConnectionString() error = %v, want %v", err, ErrKeyringUnavailable)
	}
	if err := SetConnectionString("postgres://localhost/tracker"); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("SetConnectionString() error = %v, want %v", err, ErrKeyringUnavailable)
	}
	if err := DeleteConnectionString(); !errors.Is(err, ErrKeyringUnavailable) {
		t.Errorf("DeleteConnectionString() error = %v, want %v", err, ErrKeyringUnavailable)
	}
}

func TestIsAvailable(t *testing.T) {
	gokeyring.MockInit()

	if !IsAvailable() {
		t.Error("IsAvailable() = false, want true in mock mode")
	}
}
