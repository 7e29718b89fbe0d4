package reconcile

import (
	"testing"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func TestResolveScheduleAmounts(t *testing.T) {
	resolver := NewResolver(DefaultConfig())

	tests := []struct {
		name string
		in   ResolveInput
		want Cents
	}{
		{
			name: "legacy selection process with 2 dependents",
			in:   ResolveInput{FeeType: FeeSelectionProcess, SystemType: SystemLegacy, Dependents: 2},
			want: 70000, // 400 + 2*150
		},
		{
			name: "simplified selection process ignores dependents",
			in:   ResolveInput{FeeType: FeeSelectionProcess, SystemType: SystemSimplified, Dependents: 3},
			want: 35000,
		},
		{
			name: "application fee with 1 dependent",
			in:   ResolveInput{FeeType: FeeApplication, SystemType: SystemLegacy, Dependents: 1},
			want: 45000, // 350 + 100
		},
		{
			name: "application fee surcharge applies in simplified too",
			in:   ResolveInput{FeeType: FeeApplication, SystemType: SystemSimplified, Dependents: 2},
			want: 55000, // 350 + 2*100
		},
		{
			name: "legacy scholarship fee",
			in:   ResolveInput{FeeType: FeeScholarship, SystemType: SystemLegacy},
			want: 90000,
		},
		{
			name: "simplified scholarship fee",
			in:   ResolveInput{FeeType: FeeScholarship, SystemType: SystemSimplified},
			want: 55000,
		},
		{
			name: "i20 control fee comes from config",
			in:   ResolveInput{FeeType: FeeI20Control, SystemType: SystemLegacy},
			want: 90000,
		},
		{
			name: "negative dependents treated as zero",
			in:   ResolveInput{FeeType: FeeSelectionProcess, SystemType: SystemLegacy, Dependents: -2},
			want: 40000,
		},
		{
			name: "scholarship custom application fee replaces the base",
			in: ResolveInput{
				FeeType: FeeApplication, SystemType: SystemLegacy, Dependents: 1,
				ScholarshipAppFee: decPtr("500"),
			},
			want: 60000, // 500 + 100
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(tt.in)
			if got != tt.want {
				t.Errorf("Resolve(%+v) = %d; want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestResolvePriorityChain(t *testing.T) {
	resolver := NewResolver(DefaultConfig())

	tests := []struct {
		name string
		in   ResolveInput
		want Cents
	}{
		{
			name: "real paid within tolerance wins over override and schedule",
			in: ResolveInput{
				FeeType: FeeApplication, SystemType: SystemLegacy,
				RealPaid: decPtr("400"), Override: decPtr("300"),
			},
			want: 40000,
		},
		{
			name: "real paid outside tolerance falls back to override",
			// expected 350, band is 175..525, 560 is out
			in: ResolveInput{
				FeeType: FeeApplication, SystemType: SystemLegacy,
				RealPaid: decPtr("560"), Override: decPtr("300"),
			},
			want: 30000,
		},
		{
			name: "real paid outside tolerance without override falls back to schedule",
			in: ResolveInput{
				FeeType: FeeApplication, SystemType: SystemLegacy,
				RealPaid: decPtr("560"),
			},
			want: 35000,
		},
		{
			name: "real paid at the lower band edge is accepted",
			in: ResolveInput{
				FeeType: FeeApplication, SystemType: SystemLegacy,
				RealPaid: decPtr("175"),
			},
			want: 17500,
		},
		{
			name: "zero real paid is no evidence",
			in: ResolveInput{
				FeeType: FeeApplication, SystemType: SystemLegacy,
				RealPaid: decPtr("0"), Override: decPtr("275.50"),
			},
			want: 27550,
		},
		{
			name: "negative real paid is no evidence",
			in: ResolveInput{
				FeeType: FeeScholarship, SystemType: SystemSimplified,
				RealPaid: decPtr("-550"),
			},
			want: 55000,
		},
		{
			name: "override alone wins over schedule",
			in: ResolveInput{
				FeeType: FeeSelectionProcess, SystemType: SystemLegacy,
				Override: decPtr("125"),
			},
			want: 12500,
		},
		{
			name: "tolerance is checked against the dependent-adjusted expectation",
			// expected 400 + 150 = 550, band 275..825
			in: ResolveInput{
				FeeType: FeeSelectionProcess, SystemType: SystemLegacy, Dependents: 1,
				RealPaid: decPtr("800"),
			},
			want: 80000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := resolver.Resolve(tt.in)
			if got != tt.want {
				t.Errorf("Resolve(%+v) = %d; want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestToCents(t *testing.T) {
	tests := []struct {
		in   string
		want Cents
	}{
		{"700.00", 70000},
		{"123.456", 12346},
		{"0", 0},
		{"-5", 0},
		{"0.005", 1},
	}

	for _, tt := range tests {
		if got := ToCents(dec(tt.in)); got != tt.want {
			t.Errorf("ToCents(%s) = %d; want %d", tt.in, got, tt.want)
		}
	}
}
