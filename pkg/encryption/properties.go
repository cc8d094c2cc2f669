package encryption

import (
	"github.com/parquetcrypt/core/internal/constants"
	qerrors "github.com/parquetcrypt/core/internal/errors"
)

// FileEncryptionProperties is the immutable, declarative configuration for
// encrypting a single Parquet file (component C3). Build it once with
// EncryptionPropertiesBuilder and share the result by reference across the
// writer pipeline.
type FileEncryptionProperties struct {
	footerKey      EncryptionKey
	columnKeys     map[string]EncryptionKey
	aadPrefix      []byte
	storeAADPrefix bool
	encryptFooter  bool
}

// FooterKey returns the file's footer key.
func (p *FileEncryptionProperties) FooterKey() EncryptionKey { return p.footerKey }

// AADPrefix returns the user-supplied AAD prefix, or nil if none was set.
func (p *FileEncryptionProperties) AADPrefix() []byte { return p.aadPrefix }

// StoreAADPrefix reports whether the prefix should be persisted into the
// file's crypto metadata. Always false when no prefix was configured.
func (p *FileEncryptionProperties) StoreAADPrefix() bool { return p.storeAADPrefix }

// EncryptFooter reports whether the footer is serialized as ciphertext
// (true, the default) or in the clear (false, plaintext-footer mode).
func (p *FileEncryptionProperties) EncryptFooter() bool { return p.encryptFooter }

// IsUniformEncryption reports whether this configuration uses a single,
// uniform key (the footer key) for every column, i.e. no per-column keys
// were configured.
func (p *FileEncryptionProperties) IsUniformEncryption() bool {
	return len(p.columnKeys) == 0
}

// IsColumnEncrypted reports whether columnPath is encrypted under this
// configuration. In uniform mode every column is encrypted; in selective
// mode only columns present in the column-key map are.
func (p *FileEncryptionProperties) IsColumnEncrypted(columnPath string) bool {
	if p.IsUniformEncryption() {
		return true
	}
	_, ok := p.columnKeys[columnPath]
	return ok
}

// ColumnKey returns the configured key for columnPath and whether one was
// found. In uniform mode this always reports not-found: callers should
// consult IsUniformEncryption first and fall back to FooterKey().
func (p *FileEncryptionProperties) ColumnKey(columnPath string) (EncryptionKey, bool) {
	k, ok := p.columnKeys[columnPath]
	return k, ok
}

// EncryptionPropertiesBuilder builds a FileEncryptionProperties value.
type EncryptionPropertiesBuilder struct {
	footerKey         []byte
	footerKeyMetadata []byte
	columnKeys        map[string]EncryptionKey
	aadPrefix         []byte
	storeAADPrefix    bool
	plaintextFooter   bool
}

// NewEncryptionPropertiesBuilder starts a builder with the mandatory
// footer key. The key is validated for length when Build is called.
func NewEncryptionPropertiesBuilder(footerKey []byte) *EncryptionPropertiesBuilder {
	return &EncryptionPropertiesBuilder{
		footerKey:  footerKey,
		columnKeys: make(map[string]EncryptionKey),
	}
}

// WithPlaintextFooter configures the footer to be serialized in the clear
// when plaintext is true. Per-column encryption is unaffected.
func (b *EncryptionPropertiesBuilder) WithPlaintextFooter(plaintext bool) *EncryptionPropertiesBuilder {
	b.plaintextFooter = plaintext
	return b
}

// WithFooterKeyMetadata attaches opaque metadata to the footer key, for a
// KMS to later recover it.
func (b *EncryptionPropertiesBuilder) WithFooterKeyMetadata(metadata []byte) *EncryptionPropertiesBuilder {
	b.footerKeyMetadata = metadata
	return b
}

// WithColumnKey adds a per-column key. Adding at least one column key
// switches the configuration from uniform to selective encryption.
func (b *EncryptionPropertiesBuilder) WithColumnKey(columnPath string, key EncryptionKey) *EncryptionPropertiesBuilder {
	b.columnKeys[columnPath] = key
	return b
}

// WithAADPrefix sets the user-supplied AAD prefix bound into the file's
// AAD.
func (b *EncryptionPropertiesBuilder) WithAADPrefix(prefix []byte) *EncryptionPropertiesBuilder {
	b.aadPrefix = prefix
	return b
}

// WithAADPrefixStorage requests that the AAD prefix be persisted into the
// file's crypto metadata. Only takes effect when an AAD prefix is also
// configured.
func (b *EncryptionPropertiesBuilder) WithAADPrefixStorage(store bool) *EncryptionPropertiesBuilder {
	b.storeAADPrefix = store
	return b
}

// Build validates the accumulated configuration and returns an immutable
// FileEncryptionProperties.
func (b *EncryptionPropertiesBuilder) Build() (*FileEncryptionProperties, error) {
	if len(b.footerKey) != constants.AESKeySize {
		return nil, qerrors.ErrCryptoSetup
	}

	columnKeys := make(map[string]EncryptionKey, len(b.columnKeys))
	for path, key := range b.columnKeys {
		if len(key.KeyBytes) != constants.AESKeySize {
			return nil, qerrors.ErrCryptoSetup
		}
		columnKeys[path] = key
	}

	return &FileEncryptionProperties{
		footerKey:      NewEncryptionKey(b.footerKey, b.footerKeyMetadata),
		columnKeys:     columnKeys,
		aadPrefix:      b.aadPrefix,
		storeAADPrefix: b.storeAADPrefix && len(b.aadPrefix) > 0,
		encryptFooter:  !b.plaintextFooter,
	}, nil
}
