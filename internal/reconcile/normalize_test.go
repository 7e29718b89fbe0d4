package reconcile

import "testing"

func TestParseAmount(t *testing.T) {
	tests := []struct {
		name  string
		input interface{}
		want  string
	}{
		{"plain string", "400.00", "400"},
		{"dollar sign and commas", "$1,250.50", "1250.5"},
		{"whitespace", "  350 ", "350"},
		{"empty string", "", "0"},
		{"garbage string", "n/a", "0"},
		{"nil", nil, "0"},
		{"float", 99.99, "99.99"},
		{"int", 400, "400"},
		{"negative string", "-25.00", "-25"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ParseAmount(tt.input)
			if !got.Equal(dec(tt.want)) {
				t.Errorf("ParseAmount(%v) = %s; want %s", tt.input, got, tt.want)
			}
		})
	}
}

func TestNormalizeFeeTag(t *testing.T) {
	tests := []struct {
		input  string
		want   FeeType
		wantOK bool
	}{
		{"selection_process", FeeSelectionProcess, true},
		{"Selection Process", FeeSelectionProcess, true},
		{"selection process  fee", FeeSelectionProcess, true},
		{"application", FeeApplication, true},
		{"Application Fee", FeeApplication, true},
		{"scholarship-fee", FeeScholarship, true},
		{"i20", FeeI20Control, true},
		{"I-20 Control", FeeI20Control, true},
		{"i20_control_fee", FeeI20Control, true},
		{"tuition", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, ok := NormalizeFeeTag(tt.input)
			if ok != tt.wantOK || (ok && got != tt.want) {
				t.Errorf("NormalizeFeeTag(%q) = (%q, %v); want (%q, %v)", tt.input, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestNormalizeMethod(t *testing.T) {
	tests := []struct {
		input string
		def   PaymentMethod
		want  PaymentMethod
	}{
		{"stripe", MethodManual, MethodStripe},
		{"Credit_Card", MethodManual, MethodStripe},
		{"zelle", MethodStripe, MethodZelle},
		{"admin", MethodStripe, MethodManual},
		{"", MethodManual, MethodManual},
		{"", MethodStripe, MethodStripe},
		{"wire", MethodZelle, MethodZelle},
	}

	for _, tt := range tests {
		if got := NormalizeMethod(tt.input, tt.def); got != tt.want {
			t.Errorf("NormalizeMethod(%q, %q) = %q; want %q", tt.input, tt.def, got, tt.want)
		}
	}
}
