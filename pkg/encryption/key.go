package encryption

import "github.com/parquetcrypt/core/pkg/crypto"

// EncryptionKey is raw AES-128 key material plus optional opaque metadata
// that an external KMS can later use to recover the key. The core never
// interprets KeyMetadata; it only persists it into column crypto metadata
// (spec.md §3).
type EncryptionKey struct {
	KeyBytes    []byte
	KeyMetadata []byte
}

// NewEncryptionKey constructs an EncryptionKey from raw key bytes and
// optional metadata. Key length is not checked here, so this constructor
// never fails; EncryptionPropertiesBuilder.Build and BlockEncryptor/
// BlockDecryptor construction reject keys that are not 16 bytes.
func NewEncryptionKey(keyBytes, keyMetadata []byte) EncryptionKey {
	return EncryptionKey{KeyBytes: keyBytes, KeyMetadata: keyMetadata}
}

// Destroy zeroes KeyBytes in place. Call it once every BlockEncryptor/
// BlockDecryptor built from this key is done with it (e.g. once a writer
// closes its FileEncryptor); KeyBytes is unusable afterward.
func (k EncryptionKey) Destroy() {
	crypto.Zeroize(k.KeyBytes)
}
