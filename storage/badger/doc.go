// Package badger implements the vector index on BadgerDB.
//
// One Backend holds every namespace; indexes are lightweight views keyed
// by prefix. Similarity search is an exact scan over the namespace with
// cosine scoring, which is fast enough for catalogue sizes in the
// thousands and avoids running a separate vector database.
package badger
