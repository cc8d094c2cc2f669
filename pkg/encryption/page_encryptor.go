package encryption

import (
	"context"
	"io"

	"github.com/parquetcrypt/core/internal/constants"
	qerrors "github.com/parquetcrypt/core/internal/errors"
	"github.com/parquetcrypt/core/pkg/metrics"
	"github.com/parquetcrypt/core/pkg/modaad"
)

// PageKind identifies the kind of page a PageEncryptor call concerns.
// Only data pages (v1/v2) and dictionary pages are supported; any other
// value is ErrUnsupportedPageType (spec.md §4.7).
type PageKind int

const (
	PageKindDataPageV1 PageKind = iota
	PageKindDataPageV2
	PageKindDictionaryPage
)

// moduleTypes resolves a PageKind to the (body, header) module types used
// to build its AAD.
func (k PageKind) moduleTypes() (body, header constants.ModuleType, ok bool) {
	switch k {
	case PageKindDataPageV1, PageKindDataPageV2:
		return constants.ModuleTypeDataPage, constants.ModuleTypeDataPageHeader, true
	case PageKindDictionaryPage:
		return constants.ModuleTypeDictionaryPage, constants.ModuleTypeDictionaryPageHeader, true
	default:
		return 0, 0, false
	}
}

// PageEncryptor drives encryption for one (row-group, column) scope,
// tracking the monotone page ordinal that orders every page and page
// header emitted for that column chunk (component C7). It is exclusively
// owned by a single column-chunk writer: two writers must never share a
// PageEncryptor, or the page ordinals (and therefore the AAD and nonce
// sequences) would drift out of sync with file order.
type PageEncryptor struct {
	fileEncryptor *FileEncryptor
	rowGroupIndex int
	columnIndex   int
	columnPath    string
	pageIndex     int
}

// ForColumn returns a PageEncryptor for (rowGroupIndex, columnIndex,
// columnPath), or nil if the column is not configured for encryption
// under fe's properties. The returned page ordinal starts at 0; the first
// page emitted for the column chunk (the dictionary page, if present,
// otherwise the first data page) consumes ordinal 0.
func ForColumn(fe *FileEncryptor, rowGroupIndex, columnIndex int, columnPath string) *PageEncryptor {
	if !fe.IsColumnEncrypted(columnPath) {
		return nil
	}
	return &PageEncryptor{
		fileEncryptor: fe,
		rowGroupIndex: rowGroupIndex,
		columnIndex:   columnIndex,
		columnPath:    columnPath,
	}
}

// RowGroupIndex returns the row-group ordinal this encryptor was built for.
func (pe *PageEncryptor) RowGroupIndex() int { return pe.rowGroupIndex }

// ColumnIndex returns the column ordinal this encryptor was built for.
func (pe *PageEncryptor) ColumnIndex() int { return pe.columnIndex }

// ColumnPath returns the column path this encryptor was built for.
func (pe *PageEncryptor) ColumnPath() string { return pe.columnPath }

// PageIndex returns the current page ordinal: the ordinal that the next
// EncryptPage/EncryptPageHeader call will use.
func (pe *PageEncryptor) PageIndex() int { return pe.pageIndex }

// IncrementPage advances the page ordinal by exactly one. Callers invoke
// this once per emitted page (dictionary or data), after the page has
// been fully written; the counter never resets within a column chunk.
func (pe *PageEncryptor) IncrementPage() { pe.pageIndex++ }

// EncryptPage encrypts a compressed page body under the current page
// ordinal and returns the encrypted-module frame. It does not advance the
// page ordinal; callers call IncrementPage once the page (body and
// header) is fully written.
func (pe *PageEncryptor) EncryptPage(kind PageKind, compressed []byte) ([]byte, error) {
	bodyType, _, ok := kind.moduleTypes()
	if !ok {
		return nil, qerrors.ErrUnsupportedPageType
	}

	_, end := pe.fileEncryptor.tracer.StartSpan(context.Background(), metrics.SpanPageEncrypt,
		metrics.WithAttributes(metrics.SpanAttributes{
			ModuleType: bodyType.String(),
			RowGroup:   pe.rowGroupIndex,
			Column:     pe.columnIndex,
			Page:       pe.pageIndex,
			ByteLen:    int64(len(compressed)),
		}.ToMap()))

	frame, err := pe.encryptPage(bodyType, compressed)
	end(err)
	return frame, err
}

func (pe *PageEncryptor) encryptPage(bodyType constants.ModuleType, compressed []byte) ([]byte, error) {
	aad, err := modaad.Build(pe.fileEncryptor.FileAAD(), bodyType, pe.rowGroupIndex, pe.columnIndex, pe.pageIndex)
	if err != nil {
		return nil, err
	}

	enc, err := pe.fileEncryptor.GetColumnEncryptor(pe.columnPath)
	if err != nil {
		return nil, err
	}
	return enc.Encrypt(compressed, aad)
}

// EncryptPageHeader serializes header via the object codec, encrypts it
// under the current page ordinal, and writes the resulting frame to sink.
func (pe *PageEncryptor) EncryptPageHeader(kind PageKind, header modaad.Marshaler, sink io.Writer) error {
	_, headerType, ok := kind.moduleTypes()
	if !ok {
		return qerrors.ErrUnsupportedPageType
	}

	_, end := pe.fileEncryptor.tracer.StartSpan(context.Background(), metrics.SpanPageEncrypt,
		metrics.WithAttributes(metrics.SpanAttributes{
			ModuleType: headerType.String(),
			RowGroup:   pe.rowGroupIndex,
			Column:     pe.columnIndex,
			Page:       pe.pageIndex,
		}.ToMap()))

	err := pe.encryptPageHeader(headerType, header, sink)
	end(err)
	return err
}

func (pe *PageEncryptor) encryptPageHeader(headerType constants.ModuleType, header modaad.Marshaler, sink io.Writer) error {
	aad, err := modaad.Build(pe.fileEncryptor.FileAAD(), headerType, pe.rowGroupIndex, pe.columnIndex, pe.pageIndex)
	if err != nil {
		return err
	}

	enc, err := pe.fileEncryptor.GetColumnEncryptor(pe.columnPath)
	if err != nil {
		return err
	}
	return modaad.EncryptObjectTo(sink, header, enc, aad)
}
