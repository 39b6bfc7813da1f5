package annotation

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseMeasurement(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Measurement
	}{
		{"value and unit", "12.5 cm", Measurement{Value: "12.5", Number: 12.5, Unit: "cm"}},
		{"no space", "1.5m", Measurement{Value: "1.5", Number: 1.5, Unit: "m"}},
		{"decimal comma", "1,20 m", Measurement{Value: "1.20", Number: 1.2, Unit: "m"}},
		{"short decimal comma", "12,5", Measurement{Value: "12.5", Number: 12.5}},
		{"thousands comma", "1,200 mm", Measurement{Value: "1200", Number: 1200, Unit: "mm"}},
		{"repeated grouping", "1.200.000 mm", Measurement{Value: "1200000", Number: 1200000, Unit: "mm"}},
		{"grouping and decimal point", "1,200.5 mm", Measurement{Value: "1200.5", Number: 1200.5, Unit: "mm"}},
		{"grouping and decimal comma", "1.200,5 mm", Measurement{Value: "1200.5", Number: 1200.5, Unit: "mm"}},
		{"single dot is decimal", "2.400m", Measurement{Value: "2.400", Number: 2.4, Unit: "m"}},
		{"uppercase", "300 MM", Measurement{Value: "300", Number: 300, Unit: "mm"}},
		{"inch mark", `14"`, Measurement{Value: "14", Number: 14, Unit: "in"}},
		{"foot mark", "3'", Measurement{Value: "3", Number: 3, Unit: "ft"}},
		{"spelled out", "5 inches", Measurement{Value: "5", Number: 5, Unit: "in"}},
		{"degrees", "45°", Measurement{Value: "45", Number: 45, Unit: "°"}},
		{"negative", "-4 cm", Measurement{Value: "-4", Number: -4, Unit: "cm"}},
		{"negative no space", "-4in", Measurement{Value: "-4", Number: -4, Unit: "in"}},
		{"plus sign", "+2", Measurement{Value: "2", Number: 2}},
		{"noise before", "W= 2.40m", Measurement{Value: "2.40", Number: 2.4, Unit: "m"}},
		{"words before", "approx 3 m", Measurement{Value: "3", Number: 3, Unit: "m"}},
		{"unit inside a word", "12 min", Measurement{Value: "12", Number: 12}},
		{"bare number", "  42\n", Measurement{Value: "42", Number: 42}},
		{"first of several", "2 m x 3 m", Measurement{Value: "2", Number: 2, Unit: "m"}},
		{"bad grouping skipped", "1,2,3 or 4 m", Measurement{Value: "4", Number: 4, Unit: "m"}},
		{"full width", "１２．５ｃｍ", Measurement{Value: "12.5", Number: 12.5, Unit: "cm"}},
		{"full width grouping", "１，２００ mm", Measurement{Value: "1200", Number: 1200, Unit: "mm"}},
		{"double prime", "6″", Measurement{Value: "6", Number: 6, Unit: "in"}},
		{"prime", "8′", Measurement{Value: "8", Number: 8, Unit: "ft"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseMeasurement(tt.text)
			if !ok {
				t.Fatalf("ParseMeasurement(%q) found nothing", tt.text)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("ParseMeasurement(%q) (-want +got):\n%s", tt.text, diff)
			}
		})
	}
}

func TestParseMeasurement_NoNumber(t *testing.T) {
	for _, text := range []string{"", "   ", "north wall", "cm", ".", "12.5.2024"} {
		if got, ok := ParseMeasurement(text); ok {
			t.Errorf("ParseMeasurement(%q): expected nothing, got %+v", text, got)
		}
	}
}
