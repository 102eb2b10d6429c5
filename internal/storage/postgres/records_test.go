package postgres

import (
	"errors"
	"testing"
	"time"

	apperrors "github.com/julianstephens/tracker/internal/errors"
)

func TestDecodeRecord(t *testing.T) {
	loc := time.FixedZone("+02", 2*3600)
	tests := []struct {
		name    string
		id      string
		day     string
		wantErr bool
	}{
		{"valid", "t1", "2024-02-03", false},
		{"missing tracker id", "", "2024-02-03", true},
		{"impossible day", "t1", "2024-02-30", true},
		{"not a date", "t1", "yesterday", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			record, err := decodeRecord(tt.id, tt.day, loc)
			if tt.wantErr {
				if !errors.Is(err, apperrors.ErrDecoding) {
					t.Fatalf("decodeRecord(%q, %q) error = %v, want ErrDecoding", tt.id, tt.day, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("decodeRecord(%q, %q) unexpected error: %v", tt.id, tt.day, err)
			}
			want := time.Date(2024, 2, 3, 0, 0, 0, 0, loc)
			if record.TrackerID != tt.id || !record.Date.Equal(want) || record.Date.Location() != loc {
				t.Errorf("decodeRecord(%q, %q) = %+v, want %s on %v", tt.id, tt.day, record, tt.id, want)
			}
		})
	}
}
