package encryption_test

import (
	"bytes"
	"encoding/json"
	"testing"

	qerrors "github.com/parquetcrypt/core/internal/errors"
	"github.com/parquetcrypt/core/pkg/encryption"
)

type jsonHeader struct {
	NumValues int
}

func (h *jsonHeader) MarshalParquet() ([]byte, error) { return json.Marshal(h) }
func (h *jsonHeader) UnmarshalParquet(b []byte) error { return json.Unmarshal(b, h) }

func newPageEncryptor(t *testing.T, columnPath string) *encryption.PageEncryptor {
	t.Helper()
	props, err := encryption.NewEncryptionPropertiesBuilder(key16(1)).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fe, err := encryption.NewFileEncryptor(props)
	if err != nil {
		t.Fatalf("NewFileEncryptor: %v", err)
	}
	pe := encryption.ForColumn(fe, 0, 0, columnPath)
	if pe == nil {
		t.Fatal("expected non-nil PageEncryptor for an encrypted column")
	}
	return pe
}

func TestForColumnNilForUnencryptedColumn(t *testing.T) {
	props, err := encryption.NewEncryptionPropertiesBuilder(key16(1)).
		WithColumnKey("col_a", encryption.NewEncryptionKey(key16(2), nil)).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fe, err := encryption.NewFileEncryptor(props)
	if err != nil {
		t.Fatalf("NewFileEncryptor: %v", err)
	}
	if pe := encryption.ForColumn(fe, 0, 0, "col_b"); pe != nil {
		t.Error("expected nil PageEncryptor for unencrypted column")
	}
}

// Law 9: page-ordinal monotonicity.
func TestPageIndexMonotonic(t *testing.T) {
	pe := newPageEncryptor(t, "col")
	if pe.PageIndex() != 0 {
		t.Fatalf("initial PageIndex() = %d, want 0", pe.PageIndex())
	}
	for k := 1; k <= 5; k++ {
		pe.IncrementPage()
		if pe.PageIndex() != k {
			t.Fatalf("after %d increments, PageIndex() = %d, want %d", k, pe.PageIndex(), k)
		}
	}
}

// Dictionary page ordinal convention (spec.md §9 Open Question 4):
// whichever page is emitted first consumes ordinal 0.
func TestDictionaryPageConsumesOrdinalZero(t *testing.T) {
	pe := newPageEncryptor(t, "col")
	frame, err := pe.EncryptPage(encryption.PageKindDictionaryPage, []byte("dict bytes"))
	if err != nil {
		t.Fatalf("EncryptPage: %v", err)
	}
	if len(frame) == 0 {
		t.Fatal("expected non-empty frame")
	}
	pe.IncrementPage()

	if pe.PageIndex() != 1 {
		t.Fatalf("after dictionary page, PageIndex() = %d, want 1", pe.PageIndex())
	}

	frame, err = pe.EncryptPage(encryption.PageKindDataPageV1, []byte("data bytes"))
	if err != nil {
		t.Fatalf("EncryptPage: %v", err)
	}
	if len(frame) == 0 {
		t.Fatal("expected non-empty frame")
	}
}

func TestEncryptPageHeaderRoundTrip(t *testing.T) {
	props, err := encryption.NewEncryptionPropertiesBuilder(key16(6)).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fe, err := encryption.NewFileEncryptor(props)
	if err != nil {
		t.Fatalf("NewFileEncryptor: %v", err)
	}
	pe := encryption.ForColumn(fe, 2, 1, "col")

	var sink bytes.Buffer
	header := &jsonHeader{NumValues: 100}
	if err := pe.EncryptPageHeader(encryption.PageKindDataPageV2, header, &sink); err != nil {
		t.Fatalf("EncryptPageHeader: %v", err)
	}
	if sink.Len() == 0 {
		t.Fatal("expected non-empty sink")
	}
}

func TestEncryptPageRejectsUnsupportedKind(t *testing.T) {
	pe := newPageEncryptor(t, "col")
	const bogusKind = encryption.PageKind(99)
	if _, err := pe.EncryptPage(bogusKind, []byte("x")); !qerrors.Is(err, qerrors.ErrUnsupportedPageType) {
		t.Errorf("expected ErrUnsupportedPageType, got %v", err)
	}
	var sink bytes.Buffer
	if err := pe.EncryptPageHeader(bogusKind, &jsonHeader{}, &sink); !qerrors.Is(err, qerrors.ErrUnsupportedPageType) {
		t.Errorf("expected ErrUnsupportedPageType, got %v", err)
	}
}
