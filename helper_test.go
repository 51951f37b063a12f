package zakat

import "testing"

// newTestVault returns a memory-only vault for tests.
func newTestVault(t *testing.T) *Vault {
	t.Helper()
	return New("")
}

// mustTrack is a helper for tests that records a deposit or fails the test.
func mustTrack(t *testing.T, v *Vault, value int64, account AccountID, created Timestamp) Timestamp {
	t.Helper()
	ref, err := v.Track(value, "test", account, created)
	if err != nil {
		t.Fatalf("Track(%d, account %d): %v", value, account, err)
	}
	return ref
}

// day is a helper for tests to build a timestamp at noon of a civil date.
func day(y, m, d int) Timestamp {
	return Timestamp(daysFromCivil(y, m, d)*nsPerDay + nsPerDay/2)
}
