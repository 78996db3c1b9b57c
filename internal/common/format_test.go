package common

import (
	"testing"
	"time"

	"ppob-wallet-go/internal/models"
)

func TestFormatRupiah(t *testing.T) {
	tests := []struct {
		amount int64
		want   string
	}{
		{0, "Rp 0"},
		{500, "Rp 500"},
		{10_000, "Rp 10.000"},
		{1_000_000, "Rp 1.000.000"},
	}

	for _, tt := range tests {
		if got := FormatRupiah(tt.amount); got != tt.want {
			t.Errorf("FormatRupiah(%d) = %q, want %q", tt.amount, got, tt.want)
		}
	}
}

func TestFormatDate(t *testing.T) {
	ts := time.Date(2026, time.August, 17, 9, 5, 0, 0, time.UTC)
	want := "17 Agustus 2026 09:05 WIB"
	if got := FormatDate(ts); got != want {
		t.Errorf("FormatDate = %q, want %q", got, want)
	}
}

func TestParseAmount(t *testing.T) {
	tests := []struct {
		raw     string
		want    int64
		wantErr bool
	}{
		{"15000", 15_000, false},
		{"15.000", 15_000, false},
		{" 1.000.000 ", 1_000_000, false},
		{"", 0, true},
		{"abc", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseAmount(tt.raw)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseAmount(%q) expected error, got %d", tt.raw, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseAmount(%q) failed: %v", tt.raw, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseAmount(%q) = %d, want %d", tt.raw, got, tt.want)
		}
	}
}

func TestTransactionSign(t *testing.T) {
	if got := TransactionSign(models.TransactionTypeTopUp); got != "+" {
		t.Errorf("Expected + for top-up, got %q", got)
	}
	if got := TransactionSign(models.TransactionTypePayment); got != "-" {
		t.Errorf("Expected - for payment, got %q", got)
	}
}
