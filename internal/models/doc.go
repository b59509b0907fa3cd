// Package models defines the persisted domain records for BillSplitr.
//
// # Records
//
//   - User: a registered account; members and payers reference User IDs
//   - Group: a set of members that share expenses, owned by one user
//   - Member: a user's entry on a group roster
//   - Expense: money one member spent on behalf of the group
//   - Payment: a settlement transfer between two members, approved by the owner
//
// # Design Principles
//
// 1. **IDs, not pointers**: relationships are plain ID strings
// 2. **Denormalised names**: expenses and payments keep the payer/payee names they
//    were recorded with, so history still renders after a member leaves
// 3. **Derived data is not stored**: balances are always recomputed by the
//    calculator package from the current records
package models
