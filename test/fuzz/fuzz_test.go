// Package fuzz provides fuzz tests for the security-critical parsing and
// decryption paths of the Parquet modular encryption core.
//
// Run fuzz tests with:
//
//	go test -fuzz=FuzzBlockDecryptorOpen -fuzztime=30s ./test/fuzz/
//	go test -fuzz=FuzzModAADBuild -fuzztime=30s ./test/fuzz/
//	go test -fuzz=FuzzFileDecryptorColumnDecryptor -fuzztime=30s ./test/fuzz/
//
// Run all fuzz tests sequentially:
//
//	go test -fuzz=Fuzz -fuzztime=10s ./test/fuzz/
package fuzz

import (
	"testing"

	"github.com/parquetcrypt/core/internal/constants"
	"github.com/parquetcrypt/core/pkg/crypto"
	"github.com/parquetcrypt/core/pkg/encryption"
	"github.com/parquetcrypt/core/pkg/modaad"
)

// FuzzBlockDecryptorOpen fuzzes the module frame decryptor with arbitrary
// byte strings as both frame and AAD. This is the path a reader feeds
// untrusted on-disk bytes through, so it must never panic and must
// reject anything it did not itself seal.
func FuzzBlockDecryptorOpen(f *testing.F) {
	key := make([]byte, constants.AESKeySize)
	_ = crypto.SecureRandom(key)
	enc, err := crypto.NewBlockEncryptor(key)
	if err != nil {
		f.Fatal(err)
	}
	validFrame, err := enc.Encrypt([]byte("page payload"), []byte("aad"))
	if err != nil {
		f.Fatal(err)
	}
	f.Add(validFrame)

	f.Add([]byte{})
	f.Add(make([]byte, constants.MinFrameSize-1))
	f.Add(make([]byte, constants.MinFrameSize))
	f.Add(make([]byte, constants.LengthPrefixSize))
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})

	f.Fuzz(func(t *testing.T, frame []byte) {
		dec, err := crypto.NewBlockDecryptor(key)
		if err != nil {
			t.Fatal(err)
		}
		// Should not panic regardless of input; a frame not produced by
		// this key/AAD pair must fail, never decode to garbage silently.
		_, _ = dec.Decrypt(frame, []byte("aad"))
	})
}

// FuzzBlockDecryptorOpenVaryingAAD fuzzes both the frame and the AAD
// together, since a mismatched AAD must also fail authentication even
// when the frame itself is well-formed.
func FuzzBlockDecryptorOpenVaryingAAD(f *testing.F) {
	key := make([]byte, constants.AESKeySize)
	_ = crypto.SecureRandom(key)
	enc, err := crypto.NewBlockEncryptor(key)
	if err != nil {
		f.Fatal(err)
	}
	validAAD := []byte("row_group=0/column=1/page=2")
	validFrame, err := enc.Encrypt([]byte("page payload"), validAAD)
	if err != nil {
		f.Fatal(err)
	}
	f.Add(validFrame, validAAD)
	f.Add(validFrame, []byte("row_group=0/column=1/page=3"))
	f.Add([]byte{}, []byte{})

	f.Fuzz(func(t *testing.T, frame, aad []byte) {
		dec, err := crypto.NewBlockDecryptor(key)
		if err != nil {
			t.Fatal(err)
		}
		_, _ = dec.Decrypt(frame, aad)
	})
}

// FuzzModAADBuild fuzzes AAD construction with arbitrary ordinals and
// module types, verifying it never panics and rejects out-of-range
// ordinals cleanly rather than producing a malformed AAD.
func FuzzModAADBuild(f *testing.F) {
	f.Add([]byte("file-aad"), uint8(constants.ModuleTypeDataPage), 0, 0, 0)
	f.Add([]byte("file-aad"), uint8(constants.ModuleTypeFooter), -1, -1, -1)
	f.Add([]byte{}, uint8(constants.ModuleTypeDictionaryPage), int(constants.MaxOrdinal), int(constants.MaxOrdinal), int(constants.MaxOrdinal))
	f.Add([]byte("file-aad"), uint8(99), 0, 0, 0)

	f.Fuzz(func(t *testing.T, fileAAD []byte, moduleType uint8, rowGroup, column, page int) {
		aad, err := modaad.Build(fileAAD, constants.ModuleType(moduleType), rowGroup, column, page)
		if err != nil {
			if aad != nil {
				t.Errorf("Build returned non-nil AAD alongside error %v", err)
			}
			return
		}
		if len(aad) < len(fileAAD) {
			t.Errorf("AAD shorter than file AAD prefix: %d < %d", len(aad), len(fileAAD))
		}
	})
}

// FuzzFileDecryptorColumnDecryptor fuzzes column-path lookups against a
// FileDecryptor configured with a mix of registered and unregistered
// columns, ensuring lookups never panic regardless of the path string.
func FuzzFileDecryptorColumnDecryptor(f *testing.F) {
	footerKey := make([]byte, constants.AESKeySize)
	_ = crypto.SecureRandom(footerKey)
	decProps, err := encryption.NewDecryptionPropertiesBuilder().WithFooterKey(footerKey).Build()
	if err != nil {
		f.Fatal(err)
	}

	f.Add("name")
	f.Add("")
	f.Add("a.b.c[0]")
	f.Add(string(make([]byte, 4096)))

	f.Fuzz(func(t *testing.T, columnPath string) {
		fd := encryption.NewFileDecryptor(decProps, make([]byte, constants.FileUniqueAADSize), nil)
		fd.RegisterColumnKey("registered", footerKey)
		_, _ = fd.ColumnDecryptor(columnPath)
	})
}

// FuzzEncryptionKeyMetadataRoundTrip fuzzes EncryptionKey construction with
// arbitrary key and metadata byte strings, confirming the accessors never
// panic and report back what was stored.
func FuzzEncryptionKeyMetadataRoundTrip(f *testing.F) {
	f.Add(make([]byte, constants.AESKeySize), []byte("km-v1"))
	f.Add([]byte{}, []byte{})
	f.Add(make([]byte, 9), make([]byte, 4096))

	f.Fuzz(func(t *testing.T, keyBytes, metadata []byte) {
		key := encryption.NewEncryptionKey(keyBytes, metadata)
		if len(key.KeyBytes) != len(keyBytes) {
			t.Errorf("KeyBytes length mismatch: got %d, want %d", len(key.KeyBytes), len(keyBytes))
		}
		if len(key.KeyMetadata) != len(metadata) {
			t.Errorf("KeyMetadata length mismatch: got %d, want %d", len(key.KeyMetadata), len(metadata))
		}
	})
}
