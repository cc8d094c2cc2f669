// Package encryption implements components C3 through C7 of the Parquet
// modular encryption core: encryption/decryption properties, column-key
// routing, FileEncryptor/FileDecryptor, and the per-column PageEncryptor
// state machine.
//
// FileEncryptionProperties and FileDecryptionProperties are immutable
// after Build and may be shared by reference across goroutines without
// synchronization. A PageEncryptor, in contrast, is exclusively owned by
// a single column-chunk writer for its lifetime: its page ordinal and the
// BlockEncryptor it drives carry mutable, single-writer state (spec.md
// §5).
package encryption
