package encryption_test

import (
	"bytes"
	"testing"

	"github.com/parquetcrypt/core/internal/constants"
	qerrors "github.com/parquetcrypt/core/internal/errors"
	"github.com/parquetcrypt/core/pkg/encryption"
	"github.com/parquetcrypt/core/pkg/modaad"
)

func TestFileEncryptorDecryptorRoundTrip(t *testing.T) {
	footerKey := key16(9)
	encProps, err := encryption.NewEncryptionPropertiesBuilder(footerKey).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fe, err := encryption.NewFileEncryptor(encProps)
	if err != nil {
		t.Fatalf("NewFileEncryptor: %v", err)
	}

	enc, err := fe.GetFooterEncryptor()
	if err != nil {
		t.Fatalf("GetFooterEncryptor: %v", err)
	}
	plaintext := []byte("footer metadata")
	frame, err := enc.Encrypt(plaintext, fe.FileAAD())
	if err != nil {
		t.Fatalf("Encrypt: %v", err)
	}

	decProps, err := encryption.NewDecryptionPropertiesBuilder().WithFooterKey(footerKey).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fd := encryption.NewFileDecryptor(decProps, fe.AADFileUnique(), nil)
	if !bytes.Equal(fd.FileAAD(), fe.FileAAD()) {
		t.Fatalf("decryptor FileAAD = %x, want %x", fd.FileAAD(), fe.FileAAD())
	}

	dec, err := fd.FooterDecryptor()
	if err != nil {
		t.Fatalf("FooterDecryptor: %v", err)
	}
	got, err := dec.Decrypt(frame, fd.FileAAD())
	if err != nil {
		t.Fatalf("Decrypt: %v", err)
	}
	if !bytes.Equal(got, plaintext) {
		t.Errorf("got %q, want %q", got, plaintext)
	}
}

func TestFileDecryptorMissingFooterKey(t *testing.T) {
	decProps, err := encryption.NewDecryptionPropertiesBuilder().Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fd := encryption.NewFileDecryptor(decProps, make([]byte, 8), nil)
	if _, err := fd.FooterDecryptor(); !qerrors.Is(err, qerrors.ErrMissingFooterKey) {
		t.Errorf("expected ErrMissingFooterKey, got %v", err)
	}
}

func TestFileDecryptorColumnKeyRouting(t *testing.T) {
	decProps, err := encryption.NewDecryptionPropertiesBuilder().WithFooterKey(key16(1)).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	fd := encryption.NewFileDecryptor(decProps, make([]byte, 8), nil)
	fd.RegisterColumnKey("col_a", key16(2))

	if _, err := fd.ColumnDecryptor("col_a"); err != nil {
		t.Errorf("ColumnDecryptor(col_a): %v", err)
	}
	// col_b has no registered key, falls back to the footer key
	// (uniform-mode file).
	if _, err := fd.ColumnDecryptor("col_b"); err != nil {
		t.Errorf("ColumnDecryptor(col_b): %v", err)
	}
}

func TestFileDecryptorAADPrefixFromFile(t *testing.T) {
	decProps, err := encryption.NewDecryptionPropertiesBuilder().WithFooterKey(key16(1)).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	aadFileUnique := make([]byte, 8)
	fd := encryption.NewFileDecryptor(decProps, aadFileUnique, []byte("prefix-"))
	want := append([]byte("prefix-"), aadFileUnique...)
	if !bytes.Equal(fd.FileAAD(), want) {
		t.Errorf("FileAAD() = %x, want %x", fd.FileAAD(), want)
	}
	if !bytes.Equal(fd.AADPrefix(), []byte("prefix-")) {
		t.Errorf("AADPrefix() = %q, want %q", fd.AADPrefix(), "prefix-")
	}
}

// Open Question 2 (spec.md §9): module AAD computation must not mutate
// aad_file_unique.
func TestFileDecryptorModuleAADDoesNotMutateFileUnique(t *testing.T) {
	decProps, err := encryption.NewDecryptionPropertiesBuilder().WithFooterKey(key16(1)).Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	aadFileUnique := []byte{1, 2, 3, 4, 5, 6, 7, 8}
	before := append([]byte{}, aadFileUnique...)

	fd := encryption.NewFileDecryptor(decProps, aadFileUnique, nil)
	for page := 0; page < 3; page++ {
		if _, err := modaad.Build(fd.FileAAD(), constants.ModuleTypeDataPage, 0, 0, page); err != nil {
			t.Fatalf("modaad.Build: %v", err)
		}
	}

	if !bytes.Equal(aadFileUnique, before) {
		t.Fatalf("aad_file_unique mutated: got %x, want %x", aadFileUnique, before)
	}
	if !bytes.Equal(fd.AADFileUnique(), before) {
		t.Fatalf("FileDecryptor.AADFileUnique() mutated: got %x, want %x", fd.AADFileUnique(), before)
	}
}
