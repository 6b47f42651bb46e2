// Package postgres provides PostgreSQL implementations of the store
// interfaces. Every store accepts a DBTX, so the same implementation
// works against a plain connection or inside a transaction via WithTx.
package postgres
