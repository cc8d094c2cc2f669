package encryption

import (
	qerrors "github.com/parquetcrypt/core/internal/errors"
	"github.com/parquetcrypt/core/pkg/crypto"
	"github.com/parquetcrypt/core/pkg/metrics"
)

// FileDecryptor is the read-side counterpart of FileEncryptor (component
// C6). Its aad_file_unique and AAD prefix are recovered from the file's
// crypto metadata at open time rather than generated. Its only mutable
// state is the column-key map written by RegisterColumnKey, which takes no
// lock; its BlockDecryptor instances are stateless, so once its column keys
// are registered a FileDecryptor may be shared across concurrent readers.
type FileDecryptor struct {
	props         *FileDecryptionProperties
	aadFileUnique []byte
	aadPrefix     []byte
	fileAAD       []byte

	// columnKeys supports the decryption-side column-key routing that
	// spec.md §9 Open Question 1 calls for: the source's FileDecryptor
	// only ever resolves a footer decryptor; this adds per-column lookup,
	// with unregistered columns falling back to the footer key.
	columnKeys map[string][]byte

	collector *metrics.Collector
	tracer    metrics.Tracer
}

// NewFileDecryptor constructs a FileDecryptor from decryption properties
// plus the aad_file_unique and aad_prefix recovered from the file being
// opened. If props itself carries an AAD prefix (the reader already knows
// it, e.g. from a prior open) and the file did not store one, aadPrefix
// may be left empty here and props.AADPrefix() used instead.
func NewFileDecryptor(props *FileDecryptionProperties, aadFileUnique, aadPrefix []byte) *FileDecryptor {
	effectivePrefix := aadPrefix
	if len(effectivePrefix) == 0 {
		effectivePrefix = props.AADPrefix()
	}

	fileAAD := aadFileUnique
	if len(effectivePrefix) > 0 {
		fileAAD = append(append([]byte{}, effectivePrefix...), aadFileUnique...)
	}

	return &FileDecryptor{
		props:         props,
		aadFileUnique: aadFileUnique,
		aadPrefix:     effectivePrefix,
		fileAAD:       fileAAD,
		columnKeys:    make(map[string][]byte),
		tracer:        metrics.NoOpTracer{},
	}
}

// Observe attaches a metrics collector and tracer to d, mirroring
// FileEncryptor.Observe for the read side: collector.DecryptorOpened fires
// immediately, and every BlockDecryptor subsequently dispensed by
// FooterDecryptor/ColumnDecryptor inherits collector and tracer. Returns d
// for chaining.
func (d *FileDecryptor) Observe(collector *metrics.Collector, tracer metrics.Tracer) *FileDecryptor {
	d.collector = collector
	if tracer != nil {
		d.tracer = tracer
	}
	if collector != nil {
		collector.DecryptorOpened()
	}
	return d
}

// Close reports d's lifecycle end to its collector, if one was attached
// via Observe. Safe to call on a FileDecryptor with no collector attached.
func (d *FileDecryptor) Close() {
	if d.collector != nil {
		d.collector.DecryptorClosed()
	}
}

// Properties returns the decryption properties this decryptor was built
// from.
func (d *FileDecryptor) Properties() *FileDecryptionProperties { return d.props }

// FileAAD returns the file's AAD base.
func (d *FileDecryptor) FileAAD() []byte { return d.fileAAD }

// AADFileUnique returns the file-unique bytes recovered at open time.
func (d *FileDecryptor) AADFileUnique() []byte { return d.aadFileUnique }

// AADPrefix returns the AAD prefix in effect for this file, whether
// recovered from file metadata or supplied via properties.
func (d *FileDecryptor) AADPrefix() []byte { return d.aadPrefix }

// Equal reports whether two FileDecryptor values were built from the same
// aad_file_unique and footer key, for reader-side deduplication.
func (d *FileDecryptor) Equal(other *FileDecryptor) bool {
	if other == nil {
		return false
	}
	if string(d.aadFileUnique) != string(other.aadFileUnique) {
		return false
	}
	return string(d.props.FooterKey()) == string(other.props.FooterKey())
}

// RegisterColumnKey makes columnPath's key available to ColumnDecryptor.
// This is how a caller supplies per-column keys resolved out of band
// (e.g. via an external KMS, from EncryptionWithColumnKey.KeyMetadata)
// before decrypting that column's modules.
func (d *FileDecryptor) RegisterColumnKey(columnPath string, key []byte) {
	d.columnKeys[columnPath] = key
}

// FooterDecryptor returns a fresh BlockDecryptor over the footer key.
// BlockDecryptor carries no mutable nonce state, so callers may also keep
// and reuse the returned instance across multiple modules.
func (d *FileDecryptor) FooterDecryptor() (*crypto.BlockDecryptor, error) {
	if !d.props.HasFooterKey() {
		return nil, qerrors.ErrMissingFooterKey
	}
	dec, err := crypto.NewBlockDecryptor(d.props.FooterKey())
	if err != nil {
		return nil, err
	}
	return dec.Observe(d.collector, d.tracer), nil
}

// ColumnDecryptor returns a fresh BlockDecryptor for columnPath, using a
// key previously registered with RegisterColumnKey. Falls back to the
// footer key only when the caller has not registered anything for this
// column and a footer key is configured (uniform-mode file).
func (d *FileDecryptor) ColumnDecryptor(columnPath string) (*crypto.BlockDecryptor, error) {
	if key, ok := d.columnKeys[columnPath]; ok {
		dec, err := crypto.NewBlockDecryptor(key)
		if err != nil {
			return nil, err
		}
		return dec.Observe(d.collector, d.tracer), nil
	}
	if d.props.HasFooterKey() {
		dec, err := crypto.NewBlockDecryptor(d.props.FooterKey())
		if err != nil {
			return nil, err
		}
		return dec.Observe(d.collector, d.tracer), nil
	}
	return nil, qerrors.ErrUnencryptedColumn
}
