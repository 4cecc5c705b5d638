// Package store persists verification verdicts in SQLite.
//
// Verifying an op is a pure function of its name, operand types, attributes
// and result types, which is exactly what ir.OperationHash covers. The store
// maps that hash to the verdict so repeated runs over the same IR skip the
// verifier.
//
// Schema: a single verifications table (see schema.sql), versioned through
// PRAGMA user_version with idempotent migrations applied on Open.
package store
