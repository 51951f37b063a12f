package zakat

import (
	"encoding/csv"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"golang.org/x/crypto/blake2b"
)

// CSV import of bank statements. Each row is
//
//	account,desc,value,date[,rate]
//
// with value in the account's own currency (negative for withdrawals)
// and date in "2006-01-02 15:04:05" or "2006-01-02" form. Two adjacent
// rows with the same date and opposite equal values on different
// accounts are folded into a single transfer.
//
// Every processed row's digest goes into a sidecar cache file, so
// re-importing an overlapping statement skips what was already booked.

var csvTimeLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// ImportStats sums up one import run.
type ImportStats struct {
	Created int // rows booked in this run
	Found   int // rows skipped, already in the cache
	Bad     []ImportError
}

// ImportError is one rejected row.
type ImportError struct {
	Line int
	Row  []string
	Err  error
}

type csvRow struct {
	line    int
	digest  string
	account AccountID
	desc    string
	value   float64
	time    Timestamp
	rate    float64
}

func parseCSVTime(s string) (Timestamp, error) {
	for _, layout := range csvTimeLayouts {
		if t, err := time.Parse(layout, strings.TrimSpace(s)); err == nil {
			return FromTime(t), nil
		}
	}
	return 0, fmt.Errorf("unsupported date %q", s)
}

func (v *Vault) parseCSVRow(line int, rec []string) (csvRow, error) {
	row := csvRow{line: line}
	if len(rec) < 4 {
		return row, fmt.Errorf("expected at least 4 columns, got %d", len(rec))
	}
	sum := blake2b.Sum256([]byte(strings.Join(rec, ",")))
	row.digest = hex.EncodeToString(sum[:])

	name := strings.TrimSpace(rec[0])
	id, err := v.Account(name)
	if err != nil {
		return row, fmt.Errorf("column 1: %w", err)
	}
	row.account = id
	row.desc = strings.TrimSpace(rec[1])
	row.value, err = strconv.ParseFloat(strings.TrimSpace(rec[2]), 64)
	if err != nil {
		return row, fmt.Errorf("column 3: %w", err)
	}
	row.time, err = parseCSVTime(rec[3])
	if err != nil {
		return row, fmt.Errorf("column 4: %w", err)
	}
	if len(rec) > 4 && strings.TrimSpace(rec[4]) != "" {
		row.rate, err = strconv.ParseFloat(strings.TrimSpace(rec[4]), 64)
		if err != nil {
			return row, fmt.Errorf("column 5: %w", err)
		}
	}
	return row, nil
}

// importCachePath is the sidecar file holding digests of booked rows.
func (v *Vault) importCachePath() string { return v.path + ".import.json" }

func (v *Vault) loadImportCache() map[string]bool {
	cache := make(map[string]bool)
	raw, err := os.ReadFile(v.importCachePath())
	if err != nil {
		return cache
	}
	_ = json.Unmarshal(raw, &cache)
	return cache
}

func (v *Vault) saveImportCache(cache map[string]bool) error {
	raw, err := json.Marshal(cache)
	if err != nil {
		return fmt.Errorf("persist error: cannot marshal import cache: %w", err)
	}
	if err := os.WriteFile(v.importCachePath(), raw, 0o644); err != nil {
		return fmt.Errorf("persist error: cannot write %q: %w", v.importCachePath(), err)
	}
	return nil
}

// bookRow applies one parsed row: a rate column becomes an exchange
// entry, a positive value a deposit, a negative one a withdrawal.
func (v *Vault) bookRow(row csvRow) error {
	if row.rate > 0 {
		v.SetExchange(row.account, row.time, row.rate, row.desc)
	}
	switch {
	case row.value >= 0:
		_, err := v.Track(Scale(row.value), row.desc, row.account, row.time)
		return err
	default:
		_, _, err := v.Subtract(Scale(-row.value), row.desc, row.account, row.time)
		return err
	}
}

// ImportCSV reads a statement from r and books its rows into the vault.
// Rows already seen in a previous run are counted in Found and skipped;
// rows that fail to parse or book are collected in Bad without stopping
// the run. When the vault is file-backed, the dedup cache is written
// back at the end.
func (v *Vault) ImportCSV(r io.Reader) (ImportStats, error) {
	stats := ImportStats{}
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	cache := v.loadImportCache()

	token, owned := v.begin()
	defer v.end(token, owned)

	var pending *csvRow
	flush := func() {
		if pending == nil {
			return
		}
		if err := v.bookRow(*pending); err != nil {
			stats.Bad = append(stats.Bad, ImportError{Line: pending.line, Err: err})
		} else {
			cache[pending.digest] = true
			stats.Created++
		}
		pending = nil
	}

	line := 0
	for {
		line++
		rec, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			stats.Bad = append(stats.Bad, ImportError{Line: line, Err: err})
			continue
		}
		row, err := v.parseCSVRow(line, rec)
		if err != nil {
			stats.Bad = append(stats.Bad, ImportError{Line: line, Row: rec, Err: err})
			continue
		}
		if cache[row.digest] {
			stats.Found++
			continue
		}

		// Opposite equal amounts at the same instant on two accounts are
		// one transfer, not two movements.
		if pending != nil && pending.time == row.time &&
			pending.account != row.account &&
			pending.value == -row.value {
			from, to := pending.account, row.account
			amount := row.value
			if amount < 0 {
				from, to = to, from
				amount = -amount
			}
			prev := pending
			pending = nil
			if _, err := v.Transfer(Scale(amount), from, to, row.desc, row.time); err != nil {
				stats.Bad = append(stats.Bad, ImportError{Line: line, Row: rec, Err: err})
				continue
			}
			cache[prev.digest] = true
			cache[row.digest] = true
			stats.Created += 2
			continue
		}

		flush()
		pending = &row
	}
	flush()

	if v.path != "" {
		if err := v.saveImportCache(cache); err != nil {
			return stats, err
		}
	}
	return stats, nil
}
