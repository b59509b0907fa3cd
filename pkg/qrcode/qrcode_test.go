package qrcode

import (
	"bytes"
	"errors"
	"os"
	"testing"

	"github.com/shopspring/decimal"
)

func TestUPILink(t *testing.T) {
	tests := []struct {
		name    string
		vpa     string
		payee   string
		amount  decimal.Decimal
		want    string
		wantErr error
	}{
		{
			name:   "with payee name",
			vpa:    "asha@okbank",
			payee:  "Asha Rao",
			amount: decimal.NewFromInt(3855),
			want:   "upi://pay?pa=asha%40okbank&pn=Asha%20Rao&am=3855.00&cu=INR",
		},
		{
			name:   "without payee name",
			vpa:    "ravi@upi",
			amount: decimal.RequireFromString("10.5"),
			want:   "upi://pay?pa=ravi%40upi&am=10.50&cu=INR",
		},
		{name: "missing vpa", vpa: " ", amount: decimal.NewFromInt(1), wantErr: ErrMissingPayee},
		{name: "zero amount", vpa: "a@upi", amount: decimal.Zero, wantErr: ErrInvalidAmount},
		{name: "negative amount", vpa: "a@upi", amount: decimal.NewFromInt(-5), wantErr: ErrInvalidAmount},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := UPILink(tt.vpa, tt.payee, tt.amount)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("UPILink() error = %v, want %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("UPILink() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestGenerateUPI(t *testing.T) {
	link, image, err := GenerateUPI("asha@okbank", "Asha", decimal.NewFromInt(100))
	if err != nil {
		t.Fatalf("GenerateUPI failed: %v", err)
	}
	if link == "" {
		t.Error("Expected link")
	}
	// JPEG files start with the SOI marker.
	if !bytes.HasPrefix(image, []byte{0xFF, 0xD8}) {
		t.Errorf("Expected JPEG data, got % x", image[:min(len(image), 4)])
	}
}

func TestGenerate_WritesNoFiles(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("TMPDIR", dir)
	t.Chdir(dir)

	for i := 0; i < 3; i++ {
		image, err := Generate("upi://pay?pa=asha%40okbank&am=1.00&cu=INR")
		if err != nil {
			t.Fatalf("Generate failed: %v", err)
		}
		if !bytes.HasPrefix(image, []byte{0xFF, 0xD8}) {
			t.Fatalf("Expected JPEG data on run %d", i)
		}
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatalf("ReadDir failed: %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("Expected no files, found %d (first %s)", len(entries), entries[0].Name())
	}
}
