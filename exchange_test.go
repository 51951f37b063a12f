package zakat

import "testing"

func TestExchangeAt(t *testing.T) {
	v := newTestVault(t)
	account := AccountID(1)
	v.SetExchange(account, day(2022, 1, 1), 3.5, "opening")
	v.SetExchange(account, day(2022, 6, 1), 3.75, "revision")

	tests := []struct {
		name string
		at   Timestamp
		want float64
	}{
		{"before any entry", day(2021, 12, 31), 1},
		{"on the first entry", day(2022, 1, 1), 3.5},
		{"between entries", day(2022, 3, 15), 3.5},
		{"on the second entry", day(2022, 6, 1), 3.75},
		{"after the last entry", day(2023, 1, 1), 3.75},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := v.ExchangeAt(account, tc.at)
			if got.Rate != tc.want {
				t.Errorf("ExchangeAt(%d) = %v, want rate %v", tc.at, got.Rate, tc.want)
			}
		})
	}
}

func TestExchangeUnknownAccountIsNeutral(t *testing.T) {
	v := newTestVault(t)
	got := v.ExchangeAt(99, day(2022, 1, 1))
	if got.Rate != 1 {
		t.Errorf("rate for unknown account = %v, want 1", got.Rate)
	}
}

func TestSetExchangeRejectsNonPositive(t *testing.T) {
	v := newTestVault(t)
	if got := v.SetExchange(1, day(2022, 1, 1), 0, ""); got != (ExchangeInfo{}) {
		t.Errorf("SetExchange with rate 0 = %+v, want zero value", got)
	}
	if got := v.SetExchange(1, day(2022, 1, 1), -2, ""); got != (ExchangeInfo{}) {
		t.Errorf("SetExchange with negative rate = %+v, want zero value", got)
	}
}

func TestSetExchangeFirstNeutralNotStored(t *testing.T) {
	v := newTestVault(t)
	got := v.SetExchange(1, day(2022, 1, 1), 0.5, "")
	if got.Rate != 1 {
		t.Errorf("first rate <= 1 resolved to %v, want 1", got.Rate)
	}
	if n := len(v.Exchanges(1)); n != 0 {
		t.Errorf("stored %d entries, want 0", n)
	}
}

func TestExchangeCalc(t *testing.T) {
	// 100 units at rate 2 into a currency at rate 4 is 50 units.
	if got := ExchangeCalc(100, 2, 4); got != 50 {
		t.Errorf("ExchangeCalc(100, 2, 4) = %v, want 50", got)
	}
}
