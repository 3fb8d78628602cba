package validate

import "testing"

func TestSiret(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", "73282932000074", true},
		{"checksum off by one", "73282932000075", false},
		{"too short", "7328293200007", false},
		{"too long", "732829320000740", false},
		{"letters", "7328293200007A", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Siret(tt.input); got != tt.want {
				t.Errorf("Siret(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSiren(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid", "732829320", true},
		{"checksum off by one", "732829321", false},
		{"siret length", "73282932000074", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Siren(tt.input); got != tt.want {
				t.Errorf("Siren(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestIBAN(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  bool
	}{
		{"valid french", "FR1420041010050500013M02606", true},
		{"valid with spaces", "FR14 2004 1010 0505 0001 3M02 606", true},
		{"valid lowercase", "fr1420041010050500013m02606", true},
		{"last digit changed", "FR1420041010050500013M02607", false},
		{"too short", "FR14", false},
		{"invalid characters", "FR14_20041010050500013M02606", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IBAN(tt.input); got != tt.want {
				t.Errorf("IBAN(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}
