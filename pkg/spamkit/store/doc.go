// Package store defines model persistence. Backends live in the sqlite, bolt
// and memstore subpackages; storetest holds the behavior they all share.
//
// Lookups of unknown model IDs, and LatestModel on an empty store, return
// errors wrapping internalerr.ErrNotFound.
package store
