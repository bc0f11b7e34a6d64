package badger

import "fmt"

// Vector namespaces. Signatures drive deduplication, the catalogue backs
// query-time retrieval. Both live in one BadgerDB keyed by prefix.
const (
	// NamespaceSignatures holds deduplication signature embeddings.
	NamespaceSignatures = "vecsig"

	// NamespaceCatalogue holds full-text story embeddings with metadata.
	NamespaceCatalogue = "veccat"
)

// makeVectorKey generates the storage key for a record within a namespace.
func makeVectorKey(namespace, key string) []byte {
	return []byte(fmt.Sprintf("%s:%s", namespace, key))
}

// makeNamespacePrefix generates the iteration prefix for a namespace.
func makeNamespacePrefix(namespace string) []byte {
	return []byte(namespace + ":")
}
