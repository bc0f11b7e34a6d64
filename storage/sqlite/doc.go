// Package sqlite implements the durable story store on SQLite using the
// pure-Go modernc.org/sqlite driver, so the module builds without cgo.
//
// Stories and their stock impacts live in two tables joined by store key.
// Entity lists are flattened to comma-joined columns; raw source items are
// kept as a JSON column so ingestion provenance survives a round trip.
package sqlite
