package zakat

import (
	"errors"
	"testing"
)

func TestParseAccountID(t *testing.T) {
	tests := []struct {
		in   string
		want AccountID
		ok   bool
	}{
		{"1", 1, true},
		{"42", 42, true},
		{"0", 0, false},
		{"007", 0, false},
		{"-3", 0, false},
		{"abc", 0, false},
		{"1a", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, err := ParseAccountID(tc.in)
		if tc.ok != (err == nil) {
			t.Errorf("ParseAccountID(%q): err = %v, want ok=%v", tc.in, err, tc.ok)
			continue
		}
		if tc.ok && got != tc.want {
			t.Errorf("ParseAccountID(%q) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestAccountByName(t *testing.T) {
	v := newTestVault(t)
	id, err := v.Account("safe")
	if err != nil {
		t.Fatal(err)
	}
	if id == 0 {
		t.Fatal("id must be positive")
	}
	again, err := v.Account("safe")
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Errorf("second lookup = %d, want %d", again, id)
	}
	other, err := v.Account("bank")
	if err != nil {
		t.Fatal(err)
	}
	if other == id {
		t.Error("distinct names must get distinct ids")
	}
	if got := v.Name(id); got != "safe" {
		t.Errorf("Name(%d) = %q, want %q", id, got, "safe")
	}
	if got, ok := v.AccountByName("safe"); !ok || got != id {
		t.Errorf("AccountByName = %d, %v, want %d, true", got, ok, id)
	}
}

func TestAccountRejectsNumericNames(t *testing.T) {
	v := newTestVault(t)
	if _, err := v.Account("123"); !errors.Is(err, ErrInvalidName) {
		t.Errorf("err = %v, want ErrInvalidName", err)
	}
	if _, err := v.Account(""); !errors.Is(err, ErrInvalidName) {
		t.Errorf("err = %v, want ErrInvalidName", err)
	}
}

func TestRename(t *testing.T) {
	v := newTestVault(t)
	id, _ := v.Account("safe")
	other, _ := v.Account("bank")

	if err := v.Rename(id, "vault"); err != nil {
		t.Fatal(err)
	}
	if got := v.Name(id); got != "vault" {
		t.Errorf("name = %q, want %q", got, "vault")
	}
	if err := v.Rename(other, "vault"); !errors.Is(err, ErrDuplicateName) {
		t.Errorf("err = %v, want ErrDuplicateName", err)
	}
	if err := v.Rename(99, "ghost"); !errors.Is(err, ErrInvalidAccountID) {
		t.Errorf("err = %v, want ErrInvalidAccountID", err)
	}
}

func TestHideAndZakatableFlags(t *testing.T) {
	v := newTestVault(t)
	mustTrack(t, v, 100, 1, day(2022, 1, 1))

	if v.Hide(1) {
		t.Error("accounts start visible")
	}
	if !v.Zakatable(1) {
		t.Error("accounts start zakatable")
	}
	v.Hide(1, true)
	v.Zakatable(1, false)
	if !v.Hide(1) || v.Zakatable(1) {
		t.Error("flags must stick")
	}
}
