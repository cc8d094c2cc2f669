package modaad_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/parquetcrypt/core/pkg/crypto"
	"github.com/parquetcrypt/core/pkg/modaad"
)

// jsonObject is a test stand-in for a Thrift-serialized Parquet structure.
type jsonObject struct {
	Name string
	N    int
}

func (o *jsonObject) MarshalParquet() ([]byte, error) {
	return json.Marshal(o)
}

func (o *jsonObject) UnmarshalParquet(data []byte) error {
	return json.Unmarshal(data, o)
}

func TestEncryptDecryptObjectRoundTrip(t *testing.T) {
	key := make([]byte, 16)
	enc, err := crypto.NewBlockEncryptor(key)
	if err != nil {
		t.Fatalf("NewBlockEncryptor: %v", err)
	}
	dec, err := crypto.NewBlockDecryptor(key)
	if err != nil {
		t.Fatalf("NewBlockDecryptor: %v", err)
	}

	obj := &jsonObject{Name: "column_metadata", N: 42}
	aad := []byte("aad")

	frame, err := modaad.EncryptObject(obj, enc, aad)
	if err != nil {
		t.Fatalf("EncryptObject: %v", err)
	}

	got := &jsonObject{}
	if err := modaad.DecryptObject(frame, dec, aad, got); err != nil {
		t.Fatalf("DecryptObject: %v", err)
	}
	if got.Name != obj.Name || got.N != obj.N {
		t.Errorf("round trip mismatch: got %+v, want %+v", got, obj)
	}
}

func TestEncryptObjectTo(t *testing.T) {
	key := make([]byte, 16)
	enc, err := crypto.NewBlockEncryptor(key)
	if err != nil {
		t.Fatalf("NewBlockEncryptor: %v", err)
	}

	var sink bytes.Buffer
	obj := &jsonObject{Name: "footer", N: 7}
	if err := modaad.EncryptObjectTo(&sink, obj, enc, []byte("aad")); err != nil {
		t.Fatalf("EncryptObjectTo: %v", err)
	}
	if sink.Len() == 0 {
		t.Fatal("expected non-empty sink")
	}

	dec, err := crypto.NewBlockDecryptor(key)
	if err != nil {
		t.Fatalf("NewBlockDecryptor: %v", err)
	}
	got := &jsonObject{}
	if err := modaad.DecryptObject(sink.Bytes(), dec, []byte("aad"), got); err != nil {
		t.Fatalf("DecryptObject: %v", err)
	}
	if got.Name != obj.Name {
		t.Errorf("got %+v, want %+v", got, obj)
	}
}
