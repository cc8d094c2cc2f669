// Package crypto implements the AEAD primitive for the Parquet modular
// encryption core (component C1).
//
// This revision supports exactly one algorithm, AES-128-GCM, per spec.md's
// Non-goal against algorithm agility. A BlockEncryptor owns a single
// CounterNonce and must never be shared by two writer goroutines: sharing
// it would risk two callers observing the same nonce value before either
// advances the counter, which for a fixed AES-GCM key is a catastrophic
// break of confidentiality and authenticity.
//
// Encrypted-module wire frame (all integers little-endian):
//
//	+-----------+-----------+----------------+---------+
//	| length(4) | nonce(12) | ciphertext (N) | tag(16) |
//	+-----------+-----------+----------------+---------+
//	length = 12 + N + 16
package crypto

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/binary"
	"io"
	"sync"
	"time"

	"github.com/parquetcrypt/core/internal/constants"
	qerrors "github.com/parquetcrypt/core/internal/errors"
	"github.com/parquetcrypt/core/pkg/metrics"
)

// DefaultNonceBudget bounds the number of Encrypt calls a single
// BlockEncryptor is expected to make under one key before the embedding
// service should rotate to a fresh key. It is far smaller than the 2^96
// wraparound CounterNonce itself enforces; NonceBudgetUsed lets a health
// check warn long before that wraparound could ever be reached.
const DefaultNonceBudget = 1 << 32

// CounterNonce produces a sequence of unique 96-bit GCM nonces for a single
// AEAD key. It is seeded from a cryptographically strong RNG and advances
// by simple increment, detecting the one wraparound case that would
// otherwise reuse the seed value itself.
type CounterNonce struct {
	mu      sync.Mutex
	start   [constants.AESNonceSize]byte
	counter [constants.AESNonceSize]byte
	used    uint64
}

// NewCounterNonce draws a random 96-bit start value and initializes the
// counter to start+1 (mod 2^96), per spec.md §4.1.
func NewCounterNonce() (*CounterNonce, error) {
	var start [constants.AESNonceSize]byte
	if _, err := io.ReadFull(rand.Reader, start[:]); err != nil {
		return nil, qerrors.ErrRandomness
	}
	counter := start
	incrementNonce(&counter)
	return &CounterNonce{start: start, counter: counter}, nil
}

// advance returns the next nonce value and moves the counter forward. It
// fails once the counter would wrap back to the seed, which bounds a
// single CounterNonce to 2^96-1 emissions.
func (c *CounterNonce) advance() ([constants.AESNonceSize]byte, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.counter == c.start {
		return [constants.AESNonceSize]byte{}, qerrors.ErrNonceExhausted
	}
	nonce := c.counter
	incrementNonce(&c.counter)
	c.used++
	return nonce, nil
}

// Used returns the number of nonces this CounterNonce has emitted so far.
func (c *CounterNonce) Used() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.used
}

// incrementNonce adds 1 to a little-endian 96-bit counter, modulo 2^96.
func incrementNonce(n *[constants.AESNonceSize]byte) {
	for i := 0; i < len(n); i++ {
		n[i]++
		if n[i] != 0 {
			return
		}
	}
}

// BlockEncryptor seals plaintext into encrypted-module frames under a
// single AES-128-GCM key, drawing nonces from its own CounterNonce.
//
// Exclusively owned by a single writer for the lifetime of a column chunk
// (or a single footer write); see spec.md §5.
type BlockEncryptor struct {
	mu        sync.Mutex
	aead      cipher.AEAD
	nonce     *CounterNonce
	pool      *BufferPool
	collector *metrics.Collector
	tracer    metrics.Tracer
}

// NewBlockEncryptor constructs a BlockEncryptor over a 16-byte AES-128 key.
func NewBlockEncryptor(key []byte) (*BlockEncryptor, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	nonce, err := NewCounterNonce()
	if err != nil {
		return nil, err
	}
	return &BlockEncryptor{aead: aead, nonce: nonce, tracer: metrics.NoOpTracer{}}, nil
}

// Observe attaches a metrics collector and tracer to e: subsequent Encrypt
// calls report module counts, bytes, nonce exhaustion, and latency to
// collector, and open a SpanModuleEncrypt span via tracer. collector may be
// nil to disable counters while keeping tracing; a nil tracer leaves the
// existing (default no-op) tracer in place. Returns e for chaining.
func (e *BlockEncryptor) Observe(collector *metrics.Collector, tracer metrics.Tracer) *BlockEncryptor {
	e.collector = collector
	if tracer != nil {
		e.tracer = tracer
	}
	return e
}

// UsePool configures e to draw and return frame buffers from pool instead
// of the package-global pool. Callers that opt in take on the
// responsibility of releasing the returned frame (via pool.Release or
// ReleaseFrame) once it has been written out.
func (e *BlockEncryptor) UsePool(pool *BufferPool) *BlockEncryptor {
	e.pool = pool
	return e
}

// NonceBudgetUsed returns the fraction of DefaultNonceBudget this
// encryptor's CounterNonce has consumed, for health-check reporting.
func (e *BlockEncryptor) NonceBudgetUsed() float64 {
	return float64(e.nonce.Used()) / float64(DefaultNonceBudget)
}

// Encrypt seals plaintext under aad and returns a complete encrypted-module
// frame (length prefix, nonce, ciphertext, tag), per spec.md §4.1.
func (e *BlockEncryptor) Encrypt(plaintext, aad []byte) ([]byte, error) {
	_, end := e.tracer.StartSpan(context.Background(), metrics.SpanModuleEncrypt)
	start := time.Now()

	frame, err := e.seal(plaintext, aad)

	if e.collector != nil {
		switch {
		case qerrors.Is(err, qerrors.ErrNonceExhausted):
			e.collector.RecordNonceExhaustion()
		case err != nil:
			e.collector.RecordEncryptError()
		default:
			e.collector.RecordModuleEncrypted(uint64(len(plaintext)))
			e.collector.RecordEncryptLatency(time.Since(start))
		}
	}

	end(err)
	return frame, err
}

func (e *BlockEncryptor) seal(plaintext, aad []byte) ([]byte, error) {
	nonce, err := e.nonce.advance()
	if err != nil {
		return nil, err
	}

	n := len(plaintext)
	length := constants.AESNonceSize + n + constants.AESTagSize
	frame := e.getFrame(constants.LengthPrefixSize + length)

	binary.LittleEndian.PutUint32(frame[0:constants.LengthPrefixSize], uint32(length))
	copy(frame[constants.LengthPrefixSize:constants.LengthPrefixSize+constants.AESNonceSize], nonce[:])

	body := frame[constants.LengthPrefixSize+constants.AESNonceSize:]
	copy(body[:n], plaintext)

	e.mu.Lock()
	e.aead.Seal(body[:0], nonce[:], body[:n], aad)
	e.mu.Unlock()

	return frame, nil
}

func (e *BlockEncryptor) getFrame(size int) []byte {
	if e.pool != nil {
		return e.pool.Get(size)
	}
	return GetFrame(size)
}

// BlockDecryptor opens encrypted-module frames under a single AES-128-GCM
// key. It carries no mutable state beyond the key and may be shared freely
// across concurrent readers.
type BlockDecryptor struct {
	aead      cipher.AEAD
	pool      *BufferPool
	collector *metrics.Collector
	tracer    metrics.Tracer
}

// NewBlockDecryptor constructs a BlockDecryptor over a 16-byte AES-128 key.
func NewBlockDecryptor(key []byte) (*BlockDecryptor, error) {
	aead, err := newGCM(key)
	if err != nil {
		return nil, err
	}
	return &BlockDecryptor{aead: aead, tracer: metrics.NoOpTracer{}}, nil
}

// Observe attaches a metrics collector and tracer to d, mirroring
// BlockEncryptor.Observe for the decrypt path.
func (d *BlockDecryptor) Observe(collector *metrics.Collector, tracer metrics.Tracer) *BlockDecryptor {
	d.collector = collector
	if tracer != nil {
		d.tracer = tracer
	}
	return d
}

// UsePool configures d to draw its scratch buffer from pool instead of
// allocating directly. The returned plaintext aliases the pooled buffer;
// callers that opt in must release it (via pool.Release or ReleaseFrame)
// once done with the plaintext.
func (d *BlockDecryptor) UsePool(pool *BufferPool) *BlockDecryptor {
	d.pool = pool
	return d
}

// Decrypt opens an encrypted-module frame produced by Encrypt and returns
// the plaintext. A frame shorter than MinFrameSize returns ErrFrameTooShort;
// any other authentication failure (bad key, tampered or truncated
// ciphertext, mismatched aad) returns ErrAuthenticationFailed.
func (d *BlockDecryptor) Decrypt(frame, aad []byte) ([]byte, error) {
	_, end := d.tracer.StartSpan(context.Background(), metrics.SpanModuleDecrypt)
	start := time.Now()

	plaintext, n, err := d.open(frame, aad)

	if d.collector != nil {
		switch {
		case qerrors.Is(err, qerrors.ErrFrameTooShort):
			d.collector.RecordMalformedFrame()
		case qerrors.Is(err, qerrors.ErrAuthenticationFailed):
			d.collector.RecordAuthFailure()
		case err != nil:
			d.collector.RecordDecryptError()
		default:
			d.collector.RecordModuleDecrypted(uint64(n))
			d.collector.RecordDecryptLatency(time.Since(start))
		}
	}

	end(err)
	return plaintext, err
}

func (d *BlockDecryptor) open(frame, aad []byte) ([]byte, int, error) {
	if len(frame) < constants.MinFrameSize {
		return nil, 0, qerrors.ErrFrameTooShort
	}

	nonce := frame[constants.LengthPrefixSize : constants.LengthPrefixSize+constants.AESNonceSize]
	body := frame[constants.LengthPrefixSize+constants.AESNonceSize:]

	var scratch []byte
	if d.pool != nil {
		scratch = d.pool.Get(len(body))
	} else {
		scratch = make([]byte, len(body))
	}
	copy(scratch, body)

	plaintext, err := d.aead.Open(scratch[:0], nonce, scratch, aad)
	if err != nil {
		return nil, 0, qerrors.ErrAuthenticationFailed
	}
	return plaintext, len(plaintext), nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	if len(key) != constants.AESKeySize {
		return nil, qerrors.ErrCryptoSetup
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, qerrors.NewCryptoError("NewBlockEncryptor", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, qerrors.NewCryptoError("NewBlockEncryptor", err)
	}
	if aead.NonceSize() != constants.AESNonceSize || aead.Overhead() != constants.AESTagSize {
		return nil, qerrors.ErrCryptoSetup
	}
	return aead, nil
}
