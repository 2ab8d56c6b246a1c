// Package tradelog replays a brokerage transaction log into an audited view of
// a trading book. It is local-first and auditable: every output is derived
// from the raw transactions, replayed in a deterministic order.
//
// A replay runs in two passes:
//   - Ledger: transactions are validated and applied to per-account cash
//     balances. Rejected transactions are kept in the ledger, with a reason,
//     and leave the balances untouched.
//   - Episodes: accepted trades are grouped into position episodes, from the
//     fill that opens a position to the fill that closes it. Episodes track a
//     weighted average cost, fees, cash flow and realized P&L. Option rolls,
//     a close and an open of the same underlying within a short window, extend
//     the current episode instead of starting a new one.
//
// Replays are partitioned by currency, amounts of different currencies are
// never added together.
//
// This package serves as the foundational logic for the `tlog` command-line
// tool.
package tradelog
