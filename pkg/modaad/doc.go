// Package modaad builds per-module Additional Authenticated Data (AAD) for
// the Parquet modular encryption core (component C2) and adapts plain
// objects onto the AEAD primitive in pkg/crypto (component C8, the
// object codec).
//
// AAD binds a ciphertext to the exact module it came from: a footer,
// column metadata, a page, or a page header, each identified by its
// module type plus row-group/column/page coordinates. Reader and writer
// must compute identical AAD bytes for the same coordinates, or
// decryption fails with ErrAuthenticationFailed (spec.md §4.2).
//
// Thrift/compact-protocol serialization of Parquet structures is an
// external collaborator (spec.md §1): this package treats it as an
// opaque Marshaler/Unmarshaler pair supplied by the caller.
package modaad
