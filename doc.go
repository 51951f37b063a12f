// Package zakat provides an embedded, single-writer ledger for tracking
// monetary holdings and computing the zakat due on them. It is designed
// to be local-first and auditable: every mutation is journaled and can
// be rolled back, and the whole state persists as one hash-stamped
// snapshot file.
//
// The core functionalities include:
//   - Lot Tracking: Each deposit creates a dated lot ("box") holding its
//     original capital and a spendable rest. Withdrawals drain lots from
//     the most recent backwards, so the age of the remaining funds is
//     always known.
//   - History and Recall: Mutations run inside a lock-scoped session
//     recorded as an ordered action journal. Recall undoes the most
//     recent session, action by action, in reverse.
//   - Exchange Rates: Per-account, time-indexed rates convert between an
//     account's currency and the base currency, resolved as-of any
//     point in time.
//   - Zakat Assessment: Check walks the zakatable lots, finds those that
//     have completed a lunar-year holding cycle above the nisab
//     threshold, and builds a per-lot payment plan; Zakat commits the
//     plan, funding it from the due lots themselves or from an explicit
//     split across accounts.
//   - Data Persistence: The vault state round-trips through a single
//     JSON snapshot with a blake2b content hash, plus content-addressed
//     snapshot copies for point-in-time backups.
//
// This package serves as the foundational logic for the `zkt`
// command-line tool, ensuring that all operations are consistent and
// based on a single source of truth.
package zakat
