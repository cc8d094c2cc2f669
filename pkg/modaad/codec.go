package modaad

import (
	"io"

	qerrors "github.com/parquetcrypt/core/internal/errors"
	"github.com/parquetcrypt/core/pkg/crypto"
)

// Marshaler serializes a Parquet structure (footer, column metadata, page
// header, ...) to a compact structured-binary buffer. The actual codec
// (Thrift compact protocol or equivalent) is an external collaborator;
// this package only calls it.
type Marshaler interface {
	MarshalParquet() ([]byte, error)
}

// Unmarshaler is the symmetric counterpart of Marshaler.
type Unmarshaler interface {
	UnmarshalParquet([]byte) error
}

// EncryptObject serializes obj, seals it under enc with aad, and returns
// the resulting encrypted-module frame.
func EncryptObject(obj Marshaler, enc *crypto.BlockEncryptor, aad []byte) ([]byte, error) {
	buf, err := obj.MarshalParquet()
	if err != nil {
		return nil, qerrors.ErrSerialization
	}
	frame, err := enc.Encrypt(buf, aad)
	if err != nil {
		return nil, err
	}
	return frame, nil
}

// EncryptObjectTo serializes obj, seals it under enc with aad, and writes
// the resulting frame to sink.
func EncryptObjectTo(sink io.Writer, obj Marshaler, enc *crypto.BlockEncryptor, aad []byte) error {
	frame, err := EncryptObject(obj, enc, aad)
	if err != nil {
		return err
	}
	_, err = sink.Write(frame)
	return err
}

// DecryptObject opens frame under dec with aad and deserializes the
// resulting plaintext into obj.
func DecryptObject(frame []byte, dec *crypto.BlockDecryptor, aad []byte, obj Unmarshaler) error {
	plaintext, err := dec.Decrypt(frame, aad)
	if err != nil {
		return err
	}
	if err := obj.UnmarshalParquet(plaintext); err != nil {
		return qerrors.ErrSerialization
	}
	return nil
}
