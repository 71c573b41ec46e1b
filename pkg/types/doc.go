// Package types defines the saved object model, the error taxonomy, the type
// registry, and the Repository interface the client façade delegates to.
//
// A SavedObject is a typed, versioned record. Its Version is an opaque token
// issued by the Repository on every write; callers hand it back on the next
// write and a mismatch is rejected with a Conflict error. Namespaces and
// Workspaces are sets: helpers in this package (UnionStrings,
// DifferenceStrings) keep them free of duplicates.
package types
