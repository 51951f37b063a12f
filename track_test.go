package zakat

import (
	"errors"
	"reflect"
	"testing"
)

func TestTrackCreatesAccountAndLot(t *testing.T) {
	v := newTestVault(t)
	ref := mustTrack(t, v, 1000, 1, day(2022, 1, 1))

	if !v.AccountExists(1) {
		t.Fatal("account was not created")
	}
	if got := v.Balance(1, true); got != 1000 {
		t.Errorf("balance = %d, want 1000", got)
	}
	if !v.BoxExists(1, ref) {
		t.Error("box was not created")
	}
	if !v.LogExists(1, ref) {
		t.Error("log was not created")
	}
	boxes := v.Boxes(1)
	if got := boxes[ref]; got == nil || got.Capital != 1000 || got.Rest != 1000 {
		t.Errorf("box = %+v, want capital 1000 rest 1000", got)
	}
}

func TestTrackZeroOnlyEnsuresAccount(t *testing.T) {
	v := newTestVault(t)
	ref, err := v.Track(0, "", 1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if ref != 0 {
		t.Errorf("ref = %d, want 0", ref)
	}
	if !v.AccountExists(1) {
		t.Error("account was not created")
	}
	if v.BoxSize(1) != 0 || v.LogSize(1) != 0 {
		t.Error("zero track must not create a box or a log")
	}
}

func TestTrackCollisions(t *testing.T) {
	v := newTestVault(t)
	when := day(2022, 1, 1)
	mustTrack(t, v, 1000, 1, when)

	if _, err := v.Track(500, "", 1, when); !errors.Is(err, ErrDuplicateLog) {
		t.Errorf("second track at same time: err = %v, want ErrDuplicateLog", err)
	}
	if got := v.Balance(1, true); got != 1000 {
		t.Errorf("failed track mutated state, balance = %d, want 1000", got)
	}
}

func TestTrackRejectsNegativeTime(t *testing.T) {
	v := newTestVault(t)
	if _, err := v.Track(100, "", 1, -5); !errors.Is(err, ErrBadTimestamp) {
		t.Errorf("err = %v, want ErrBadTimestamp", err)
	}
}

func TestSubtractDrainsNewestFirst(t *testing.T) {
	v := newTestVault(t)
	t1 := day(2022, 1, 1)
	t2 := day(2022, 2, 1)
	t3 := day(2022, 3, 1)
	mustTrack(t, v, 1000, 1, t1)
	mustTrack(t, v, 3000, 1, t2)
	mustTrack(t, v, 6000, 1, t3)

	_, ages, err := v.Subtract(4500, "", 1, day(2022, 4, 1))
	if err != nil {
		t.Fatal(err)
	}
	want := []Age{{Box: t3, Value: 4500}}
	if !reflect.DeepEqual(ages, want) {
		t.Errorf("ages = %+v, want %+v", ages, want)
	}
	boxes := v.Boxes(1)
	if boxes[t3].Rest != 1500 {
		t.Errorf("newest box rest = %d, want 1500", boxes[t3].Rest)
	}
	if boxes[t2].Rest != 3000 || boxes[t1].Rest != 1000 {
		t.Error("older boxes must be untouched")
	}
	if got := v.Balance(1, true); got != 5500 {
		t.Errorf("balance = %d, want 5500", got)
	}
}

func TestSubtractSpansBoxes(t *testing.T) {
	v := newTestVault(t)
	t1 := day(2022, 1, 1)
	t2 := day(2022, 2, 1)
	mustTrack(t, v, 1000, 1, t1)
	mustTrack(t, v, 3000, 1, t2)

	_, ages, err := v.Subtract(3500, "", 1, day(2022, 3, 1))
	if err != nil {
		t.Fatal(err)
	}
	want := []Age{{Box: t2, Value: 3000}, {Box: t1, Value: 500}}
	if !reflect.DeepEqual(ages, want) {
		t.Errorf("ages = %+v, want %+v", ages, want)
	}
	boxes := v.Boxes(1)
	if boxes[t2].Rest != 0 || boxes[t1].Rest != 500 {
		t.Errorf("rests = %d, %d, want 0, 500", boxes[t2].Rest, boxes[t1].Rest)
	}
}

func TestSubtractOverdraft(t *testing.T) {
	v := newTestVault(t)
	t1 := day(2022, 1, 1)
	when := day(2022, 2, 1)
	mustTrack(t, v, 1000, 1, t1)

	_, ages, err := v.Subtract(1500, "", 1, when)
	if err != nil {
		t.Fatal(err)
	}
	want := []Age{{Box: t1, Value: 1000}, {Box: when, Value: 500}}
	if !reflect.DeepEqual(ages, want) {
		t.Errorf("ages = %+v, want %+v", ages, want)
	}
	boxes := v.Boxes(1)
	if got := boxes[when]; got == nil || got.Capital != -500 || got.Rest != -500 {
		t.Errorf("overdraft box = %+v, want capital -500 rest -500", got)
	}
	if got := v.Balance(1, true); got != -500 {
		t.Errorf("balance = %d, want -500", got)
	}
}

func TestSubtractRejectsNonPositive(t *testing.T) {
	v := newTestVault(t)
	if _, _, err := v.Subtract(0, "", 1, 0); !errors.Is(err, ErrNonPositiveAmount) {
		t.Errorf("err = %v, want ErrNonPositiveAmount", err)
	}
	if _, _, err := v.Subtract(-10, "", 1, 0); !errors.Is(err, ErrNonPositiveAmount) {
		t.Errorf("err = %v, want ErrNonPositiveAmount", err)
	}
}

func TestTransferPreservesAge(t *testing.T) {
	v := newTestVault(t)
	t1 := day(2022, 1, 1)
	mustTrack(t, v, 1000, 1, t1)

	report, err := v.Transfer(600, 1, 2, "move", day(2022, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Times) != 1 || report.Times[0].Box != t1 {
		t.Fatalf("report = %+v, want one new lot at the source lot's age", report)
	}
	if got := v.Balance(1, true); got != 400 {
		t.Errorf("source balance = %d, want 400", got)
	}
	if got := v.Balance(2, true); got != 600 {
		t.Errorf("destination balance = %d, want 600", got)
	}
	boxes := v.Boxes(2)
	if got := boxes[t1]; got == nil || got.Capital != 600 || got.Rest != 600 {
		t.Errorf("destination box = %+v, want capital 600 rest 600 at %d", got, t1)
	}
}

func TestTransferIntoExistingLot(t *testing.T) {
	v := newTestVault(t)
	t1 := day(2022, 1, 1)
	mustTrack(t, v, 1000, 1, t1)
	mustTrack(t, v, 300, 2, t1)

	report, err := v.Transfer(500, 1, 2, "", day(2022, 2, 1))
	if err != nil {
		t.Fatal(err)
	}
	// The destination already holds a lot at that age, so nothing new is
	// reported and the existing lot grows.
	if len(report.Times) != 0 {
		t.Errorf("report = %+v, want no new lots", report)
	}
	boxes := v.Boxes(2)
	if got := boxes[t1]; got == nil || got.Rest != 800 || got.Capital != 800 {
		t.Errorf("destination box = %+v, want capital 800 rest 800", got)
	}
	if got := v.Balance(2, true); got != 800 {
		t.Errorf("destination balance = %d, want 800", got)
	}
}

func TestTransferConvertsBetweenRates(t *testing.T) {
	v := newTestVault(t)
	t1 := day(2022, 1, 1)
	v.SetExchange(1, t1, 2, "")   // source currency worth 2 in base
	v.SetExchange(2, t1, 4, "")   // destination currency worth 4 in base
	mustTrack(t, v, 1000, 1, t1)

	if _, err := v.Transfer(1000, 1, 2, "", day(2022, 2, 1)); err != nil {
		t.Fatal(err)
	}
	// 1000 at rate 2 is 2000 base, which buys 500 at rate 4.
	if got := v.Balance(2, true); got != 500 {
		t.Errorf("destination balance = %d, want 500", got)
	}
}

func TestTransferSameAccount(t *testing.T) {
	v := newTestVault(t)
	if _, err := v.Transfer(100, 1, 1, "", 0); !errors.Is(err, ErrSameAccount) {
		t.Errorf("err = %v, want ErrSameAccount", err)
	}
}
