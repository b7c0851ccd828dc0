// Package models defines the core domain models for splitledger.
//
// # Models
//
//   - Group: a named set of members who share expenses
//   - Expense: money fronted by one or more payers and owed by one or more owers
//   - Settlement: a repayment from one member to another
//   - Ledger: everything needed to compute a group's balances, read at one point in time
//
// Members are identified by their display name within a group. All amounts are
// int64 cents.
//
// # Deletion
//
// Expenses, settlements and groups are soft-deleted: DeletedAt is set and the row
// is excluded from every read. Balances are always derived from the active rows,
// never stored.
package models
