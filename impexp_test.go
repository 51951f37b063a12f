package zakat

import (
	"path/filepath"
	"strings"
	"testing"
)

func TestImportCSV(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "zakat.json"))
	statement := strings.Join([]string{
		`safe,salary,1000,2022-01-01`,
		`safe,rent,-300,2022-02-01`,
	}, "\n")

	stats, err := v.ImportCSV(strings.NewReader(statement))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Created != 2 || stats.Found != 0 || len(stats.Bad) != 0 {
		t.Fatalf("stats = %+v, want 2 created", stats)
	}
	id, ok := v.AccountByName("safe")
	if !ok {
		t.Fatal("account was not created")
	}
	if got := v.Balance(id, true); got != Scale(700) {
		t.Errorf("balance = %d, want %d", got, Scale(700))
	}
}

func TestImportCSVSkipsDuplicates(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "zakat.json"))
	statement := `safe,salary,1000,2022-01-01`

	if _, err := v.ImportCSV(strings.NewReader(statement)); err != nil {
		t.Fatal(err)
	}
	stats, err := v.ImportCSV(strings.NewReader(statement))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Created != 0 || stats.Found != 1 {
		t.Errorf("stats = %+v, want 1 found", stats)
	}
	id, _ := v.AccountByName("safe")
	if got := v.Balance(id, true); got != Scale(1000) {
		t.Errorf("balance = %d, want %d (booked once)", got, Scale(1000))
	}
}

func TestImportCSVPairsTransfers(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "zakat.json"))
	statement := strings.Join([]string{
		`safe,opening,1000,2022-01-01`,
		`safe,to bank,-400,2022-02-01 10:00:00`,
		`bank,to bank,400,2022-02-01 10:00:00`,
	}, "\n")

	stats, err := v.ImportCSV(strings.NewReader(statement))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Created != 3 || len(stats.Bad) != 0 {
		t.Fatalf("stats = %+v, want 3 created", stats)
	}
	safe, _ := v.AccountByName("safe")
	bank, _ := v.AccountByName("bank")
	if got := v.Balance(safe, true); got != Scale(600) {
		t.Errorf("safe balance = %d, want %d", got, Scale(600))
	}
	if got := v.Balance(bank, true); got != Scale(400) {
		t.Errorf("bank balance = %d, want %d", got, Scale(400))
	}
	// A transfer moves lots, it does not mint a new deposit: the moved
	// funds keep their original age.
	if !v.BoxExists(bank, mustParseCSVDate(t, "2022-01-01")) {
		t.Error("transferred funds must keep the source lot's age")
	}
}

func TestImportCSVCollectsBadRows(t *testing.T) {
	v := New(filepath.Join(t.TempDir(), "zakat.json"))
	statement := strings.Join([]string{
		`safe,ok,100,2022-01-01`,
		`safe,bad amount,x,2022-01-02`,
		`safe,bad date,100,someday`,
		`too,short`,
	}, "\n")

	stats, err := v.ImportCSV(strings.NewReader(statement))
	if err != nil {
		t.Fatal(err)
	}
	if stats.Created != 1 {
		t.Errorf("created = %d, want 1", stats.Created)
	}
	if len(stats.Bad) != 3 {
		t.Errorf("bad rows = %d, want 3", len(stats.Bad))
	}
}

func mustParseCSVDate(t *testing.T, s string) Timestamp {
	t.Helper()
	ts, err := parseCSVTime(s)
	if err != nil {
		t.Fatal(err)
	}
	return ts
}
