package encryption

// ColumnCryptoMetadata is the tagged variant persisted into a column
// chunk's metadata describing how (or whether) it is encrypted (spec.md
// §4.3, §9).
type ColumnCryptoMetadata interface {
	isColumnCryptoMetadata()
}

// EncryptionWithFooterKey marks a column as encrypted under the file's
// footer key (uniform encryption mode).
type EncryptionWithFooterKey struct{}

func (EncryptionWithFooterKey) isColumnCryptoMetadata() {}

// EncryptionWithColumnKey marks a column as encrypted under its own key,
// carrying the schema path for disambiguation and opaque metadata for key
// recovery.
type EncryptionWithColumnKey struct {
	PathInSchema []string
	KeyMetadata  []byte
}

func (EncryptionWithColumnKey) isColumnCryptoMetadata() {}

// GetColumnCryptoMetadata returns the crypto metadata to persist for
// columnPath, and whether the column carries any (a selective-mode column
// absent from the key map produces none: it is unencrypted).
func GetColumnCryptoMetadata(props *FileEncryptionProperties, columnPath string, pathInSchema []string) (ColumnCryptoMetadata, bool) {
	if props.IsUniformEncryption() {
		return EncryptionWithFooterKey{}, true
	}
	key, ok := props.ColumnKey(columnPath)
	if !ok {
		return nil, false
	}
	return EncryptionWithColumnKey{
		PathInSchema: pathInSchema,
		KeyMetadata:  key.KeyMetadata,
	}, true
}
