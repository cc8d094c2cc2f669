// Package quantumgo implements the Parquet modular encryption core: a
// cryptographic substrate that lets a Parquet file writer and reader
// encrypt and decrypt the discrete structural modules of a Parquet file
// (footer, column metadata, data pages, dictionary pages, page headers,
// column/offset indexes, bloom filters) under potentially distinct keys,
// with per-module Additional Authenticated Data (AAD) binding ciphertext
// to its exact location in the file.
//
// This revision supports AES-128-GCM only.
//
// # Quick start
//
// Writer side:
//
//	props, _ := encryption.NewEncryptionPropertiesBuilder(footerKey).
//		WithColumnKey("sensitive_col", encryption.NewEncryptionKey(colKey, nil)).
//		Build()
//	fe, _ := encryption.NewFileEncryptor(props)
//
//	pe := encryption.ForColumn(fe, rowGroupIndex, columnIndex, "sensitive_col")
//	frame, _ := pe.EncryptPage(encryption.PageKindDataPageV1, compressedPage)
//	pe.IncrementPage()
//
// Reader side:
//
//	decProps, _ := encryption.NewDecryptionPropertiesBuilder().
//		WithFooterKey(footerKey).
//		Build()
//	fd := encryption.NewFileDecryptor(decProps, aadFileUnique, aadPrefix)
//	fd.RegisterColumnKey("sensitive_col", colKey)
//	dec, _ := fd.ColumnDecryptor("sensitive_col")
//	aad, _ := modaad.Build(fd.FileAAD(), constants.ModuleTypeDataPage, rowGroupIndex, columnIndex, 0)
//	plaintext, _ := dec.Decrypt(frame, aad)
//
// # Package structure
//
//   - pkg/crypto: AEAD primitive (BlockEncryptor/BlockDecryptor, CounterNonce)
//   - pkg/modaad: module AAD builder and the serialize-then-encrypt object codec
//   - pkg/encryption: encryption/decryption properties, FileEncryptor,
//     FileDecryptor, PageEncryptor
//   - pkg/metrics: structured logging, metrics collection, tracing, health checks
//   - pkg/version: module version stamp
//   - internal/constants: wire-format and security parameters
//   - internal/errors: the error taxonomy described in spec.md §7
//
// # Out of scope
//
// The row-group/page writer that produces compressed pages, the columnar
// reader that drives decryption, Thrift/compact-protocol serialization,
// KMS/key-wrapping, file I/O, compression, and schema handling are all
// external collaborators: this module only encrypts and decrypts modules
// handed to it.
//
// # Testing
//
//	go test ./...                       # unit tests
//	go test ./test/fuzz/...             # fuzz harnesses (go test -fuzz=Fuzz...)
//	go test -bench=. ./test/benchmark   # Seal/Open/AAD benchmarks
//	go test ./test/integration/...      # end-to-end round trips
package quantumgo
