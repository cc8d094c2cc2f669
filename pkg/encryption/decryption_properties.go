package encryption

// FileDecryptionProperties is the immutable, declarative configuration for
// decrypting a single Parquet file (component C4). The footer key may be
// absent when it is instead resolved from column/footer crypto metadata
// by an external KMS collaborator.
type FileDecryptionProperties struct {
	footerKey []byte
	aadPrefix []byte
}

// FooterKey returns the configured footer key, or nil if none was set.
func (p *FileDecryptionProperties) FooterKey() []byte { return p.footerKey }

// HasFooterKey reports whether a footer key was configured.
func (p *FileDecryptionProperties) HasFooterKey() bool { return len(p.footerKey) > 0 }

// AADPrefix returns the user-supplied AAD prefix, when the encrypting
// writer did not store it in the file and the reader must supply it out
// of band.
func (p *FileDecryptionProperties) AADPrefix() []byte { return p.aadPrefix }

// DecryptionPropertiesBuilder builds a FileDecryptionProperties value.
type DecryptionPropertiesBuilder struct {
	footerKey []byte
	aadPrefix []byte
}

// NewDecryptionPropertiesBuilder starts an empty builder.
func NewDecryptionPropertiesBuilder() *DecryptionPropertiesBuilder {
	return &DecryptionPropertiesBuilder{}
}

// WithFooterKey sets the footer key used to decrypt the footer and, in
// uniform mode, every column.
func (b *DecryptionPropertiesBuilder) WithFooterKey(key []byte) *DecryptionPropertiesBuilder {
	b.footerKey = key
	return b
}

// WithAADPrefix sets the AAD prefix to use when the file does not store
// its own copy.
func (b *DecryptionPropertiesBuilder) WithAADPrefix(prefix []byte) *DecryptionPropertiesBuilder {
	b.aadPrefix = prefix
	return b
}

// Build returns an immutable FileDecryptionProperties. Unlike the
// encryption builder, a missing footer key is not itself an error here:
// some deployments resolve it later from key metadata via an external KMS.
func (b *DecryptionPropertiesBuilder) Build() (*FileDecryptionProperties, error) {
	return &FileDecryptionProperties{
		footerKey: b.footerKey,
		aadPrefix: b.aadPrefix,
	}, nil
}
