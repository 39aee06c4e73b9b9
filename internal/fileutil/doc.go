// Package fileutil provides small filesystem helpers, most importantly the
// atomic write used by the processing ledger.
package fileutil
