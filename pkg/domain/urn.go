package domain

import "github.com/google/uuid"

// URN prefixes keep identifiers self-describing when they appear in
// statements, notifications, and logs.
const (
	accountURNPrefix     = "ACCOUNT_"
	transactionURNPrefix = "TXN_"
)

// AccountURN derives the opaque stable identifier for an account id.
func AccountURN(id uuid.UUID) string { return accountURNPrefix + id.String() }

// TransactionURN derives the opaque stable identifier for a transaction id.
func TransactionURN(id uuid.UUID) string { return transactionURNPrefix + id.String() }
