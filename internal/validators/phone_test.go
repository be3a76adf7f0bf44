package validators

import (
	"testing"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

func TestIsPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+359888123456", true},
		{"0888 123 456", true},
		{"(088) 812-3456", true},
		{"088.812.3456", true},
		{"12345", false},
		{"+1234567890123456", false},
		{"call me", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := IsPhone(tt.in); got != tt.want {
			t.Fatalf("IsPhone(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestNormalizePhone(t *testing.T) {
	if got := NormalizePhone("+1 (650) 253-0000", "US"); got != "+16502530000" {
		t.Fatalf("NormalizePhone = %q", got)
	}
	// not a valid number anywhere, kept as cleaned digits
	if got := NormalizePhone("000 000 0000", "US"); got != "0000000000" {
		t.Fatalf("NormalizePhone = %q", got)
	}
}

type bookForm struct {
	Name  string `json:"name" validate:"required"`
	Phone string `json:"phone" validate:"required,phone"`
}

func TestValidatorUsesJSONNames(t *testing.T) {
	v := New()

	err := ToBusiness(v.Struct(bookForm{Phone: "+359888123456"}))
	if !httperr.IsBusiness(err, "missing_name") {
		t.Fatalf("err = %v, want missing_name", err)
	}

	err = ToBusiness(v.Struct(bookForm{Name: "Ivan", Phone: "12"}))
	if !httperr.IsBusiness(err, "invalid_phone") {
		t.Fatalf("err = %v, want invalid_phone", err)
	}

	if err := v.Struct(bookForm{Name: "Ivan", Phone: "+359 888 123 456"}); err != nil {
		t.Fatalf("valid form rejected: %v", err)
	}
}
