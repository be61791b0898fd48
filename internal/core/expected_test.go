package core

import (
	"math"
	"testing"
)

func TestResolveExpected_Fixed(t *testing.T) {
	tests := []struct {
		name string
		sub  SubCategory
		want float64
	}{
		{
			name: "fixed amount only",
			sub:  SubCategory{ID: "s1", Name: "Rent", FixedAmount: 850},
			want: 850,
		},
		{
			name: "fixed wins over budget limit",
			sub:  SubCategory{ID: "s2", Name: "Mortgage", FixedAmount: 1200, BudgetLimit: 5000},
			want: 1200,
		},
		{
			name: "fixed wins regardless of mandatory flag",
			sub:  SubCategory{ID: "s3", Name: "Internet", FixedAmount: 29.90, Mandatory: false},
			want: 29.90,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ResolveExpected(tt.sub)
			if !ok {
				t.Fatal("ResolveExpected() ok = false, want true")
			}
			if !got.IsFixed {
				t.Error("ResolveExpected() IsFixed = false, want true")
			}
			if got.Amount != tt.want {
				t.Errorf("ResolveExpected() Amount = %v, want %v", got.Amount, tt.want)
			}
			if got.DisplayCeiling != tt.want {
				t.Errorf("ResolveExpected() DisplayCeiling = %v, want %v", got.DisplayCeiling, tt.want)
			}
		})
	}
}

func TestResolveExpected_Capped(t *testing.T) {
	tests := []struct {
		name        string
		limit       float64
		wantAmount  float64
		wantCeiling float64
	}{
		{"round limit", 500, 100, 500},
		{"odd limit", 333, 66.6, 333},
		{"small limit", 1, 0.2, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := SubCategory{ID: "s1", Name: "Groceries", BudgetLimit: tt.limit, Mandatory: true}
			got, ok := ResolveExpected(sub)
			if !ok {
				t.Fatal("ResolveExpected() ok = false, want true")
			}
			if got.IsFixed {
				t.Error("ResolveExpected() IsFixed = true, want false")
			}
			if math.Abs(got.Amount-tt.wantAmount) > 1e-9 {
				t.Errorf("ResolveExpected() Amount = %v, want %v", got.Amount, tt.wantAmount)
			}
			if got.DisplayCeiling != tt.wantCeiling {
				t.Errorf("ResolveExpected() DisplayCeiling = %v, want %v", got.DisplayCeiling, tt.wantCeiling)
			}
		})
	}
}

func TestResolveExpected_Untracked(t *testing.T) {
	tests := []struct {
		name string
		sub  SubCategory
	}{
		{"nothing configured", SubCategory{ID: "s1", Name: "Misc"}},
		{"mandatory but no amounts", SubCategory{ID: "s2", Name: "Misc", Mandatory: true}},
		{"zero fixed and zero limit", SubCategory{ID: "s3", Name: "Misc", FixedAmount: 0, BudgetLimit: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := ResolveExpected(tt.sub); ok {
				t.Error("ResolveExpected() ok = true, want false")
			}
		})
	}
}

func TestSubCategory_ChargeMode(t *testing.T) {
	tests := []struct {
		name string
		sub  SubCategory
		want ChargeMode
	}{
		{
			name: "fixed",
			sub:  SubCategory{FixedAmount: 50},
			want: ChargeMode{Kind: ChargeFixed, Amount: 50},
		},
		{
			name: "capped",
			sub:  SubCategory{BudgetLimit: 300},
			want: ChargeMode{Kind: ChargeCapped, Amount: 300},
		},
		{
			name: "fixed shadows capped",
			sub:  SubCategory{FixedAmount: 50, BudgetLimit: 300},
			want: ChargeMode{Kind: ChargeFixed, Amount: 50},
		},
		{
			name: "untracked",
			sub:  SubCategory{},
			want: ChargeMode{Kind: ChargeUntracked},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.sub.ChargeMode(); got != tt.want {
				t.Errorf("ChargeMode() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestSubCategory_IsMandatory(t *testing.T) {
	if !(SubCategory{FixedAmount: 10}).IsMandatory() {
		t.Error("fixed subcategory should be mandatory even without the flag")
	}
	if !(SubCategory{Mandatory: true}).IsMandatory() {
		t.Error("flagged subcategory should be mandatory")
	}
	if (SubCategory{BudgetLimit: 100}).IsMandatory() {
		t.Error("capped subcategory without flag should not be mandatory")
	}
}
