package encryption

import (
	"github.com/parquetcrypt/core/internal/constants"
	qerrors "github.com/parquetcrypt/core/internal/errors"
	"github.com/parquetcrypt/core/pkg/crypto"
	"github.com/parquetcrypt/core/pkg/metrics"
)

// FileEncryptor owns a FileEncryptionProperties for one output file,
// derives the file's unique AAD, and dispenses fresh per-use BlockEncryptor
// instances (component C5). It is immutable after construction and safe
// to share by reference across row-group writers.
type FileEncryptor struct {
	props         *FileEncryptionProperties
	aadFileUnique []byte
	fileAAD       []byte

	collector *metrics.Collector
	tracer    metrics.Tracer
}

// NewFileEncryptor draws aad_file_unique from the CSPRNG and derives
// file_aad once, per spec.md §4.5.
func NewFileEncryptor(props *FileEncryptionProperties) (*FileEncryptor, error) {
	aadFileUnique, err := crypto.SecureRandomBytes(constants.FileUniqueAADSize)
	if err != nil {
		return nil, err
	}

	fileAAD := aadFileUnique
	if len(props.AADPrefix()) > 0 {
		fileAAD = append(append([]byte{}, props.AADPrefix()...), aadFileUnique...)
	}

	return &FileEncryptor{
		props:         props,
		aadFileUnique: aadFileUnique,
		fileAAD:       fileAAD,
		tracer:        metrics.NoOpTracer{},
	}, nil
}

// Observe attaches a metrics collector and tracer to e. collector.
// EncryptorOpened fires immediately; every BlockEncryptor subsequently
// dispensed by GetFooterEncryptor/GetColumnEncryptor inherits collector and
// tracer, so module-level counters and spans are reported without the
// caller touching them directly. Call Close when done with e to release
// the lifecycle counter. Returns e for chaining.
func (e *FileEncryptor) Observe(collector *metrics.Collector, tracer metrics.Tracer) *FileEncryptor {
	e.collector = collector
	if tracer != nil {
		e.tracer = tracer
	}
	if collector != nil {
		collector.EncryptorOpened()
	}
	return e
}

// Close reports e's lifecycle end to its collector, if one was attached
// via Observe. Safe to call on a FileEncryptor with no collector attached.
func (e *FileEncryptor) Close() {
	if e.collector != nil {
		e.collector.EncryptorClosed()
	}
}

// Properties returns the encryption properties this encryptor was built
// from.
func (e *FileEncryptor) Properties() *FileEncryptionProperties { return e.props }

// FileAAD returns the file's AAD base, computed once at construction and
// never mutated for the file's lifetime.
func (e *FileEncryptor) FileAAD() []byte { return e.fileAAD }

// AADFileUnique returns the file-unique random bytes drawn at
// construction, for persistence into the file's crypto metadata.
func (e *FileEncryptor) AADFileUnique() []byte { return e.aadFileUnique }

// IsColumnEncrypted reports whether columnPath is configured for
// encryption under this file's properties.
func (e *FileEncryptor) IsColumnEncrypted(columnPath string) bool {
	return e.props.IsColumnEncrypted(columnPath)
}

// GetFooterEncryptor returns a fresh BlockEncryptor over the footer key.
// Each call returns a new instance with its own nonce sequence: a block
// encryptor's nonce counter is bound to a specific key, and dispensing a
// fresh instance per usage site prevents nonce-counter sharing bugs across
// callers (spec.md §4.5).
func (e *FileEncryptor) GetFooterEncryptor() (*crypto.BlockEncryptor, error) {
	enc, err := crypto.NewBlockEncryptor(e.props.FooterKey().KeyBytes)
	if err != nil {
		return nil, err
	}
	return enc.Observe(e.collector, e.tracer), nil
}

// GetColumnEncryptor returns a fresh BlockEncryptor for columnPath: the
// footer key in uniform mode, or the column's own key in selective mode.
// Requesting an encryptor for a column absent from a selective key map is
// ErrUnencryptedColumn.
func (e *FileEncryptor) GetColumnEncryptor(columnPath string) (*crypto.BlockEncryptor, error) {
	if e.props.IsUniformEncryption() {
		enc, err := crypto.NewBlockEncryptor(e.props.FooterKey().KeyBytes)
		if err != nil {
			return nil, err
		}
		return enc.Observe(e.collector, e.tracer), nil
	}
	key, ok := e.props.ColumnKey(columnPath)
	if !ok {
		return nil, qerrors.ErrUnencryptedColumn
	}
	enc, err := crypto.NewBlockEncryptor(key.KeyBytes)
	if err != nil {
		return nil, err
	}
	return enc.Observe(e.collector, e.tracer), nil
}
