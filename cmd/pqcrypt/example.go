package main

import (
	"fmt"
	"strings"
)

func showExamples() {
	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║      Quantum-Go: Interactive Examples                    ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()

	examples := []struct {
		title       string
		description string
		code        string
	}{
		{
			title:       "Example 1: Basic Round Trip",
			description: "Encrypt a footer under the footer key, then decrypt it",
			code: `package main

import (
    "crypto/rand"
    "fmt"
    "github.com/parquetcrypt/core/pkg/encryption"
)

func main() {
    footerKey := make([]byte, 16)
    rand.Read(footerKey)

    encProps, _ := encryption.NewEncryptionPropertiesBuilder(footerKey).Build()
    fe, _ := encryption.NewFileEncryptor(encProps)

    footerEnc, _ := fe.GetFooterEncryptor()
    frame, _ := footerEnc.Encrypt([]byte("FileMetaData bytes"), fe.FileAAD())

    decProps, _ := encryption.NewDecryptionPropertiesBuilder().
        WithFooterKey(footerKey).
        Build()
    fd := encryption.NewFileDecryptor(decProps, fe.AADFileUnique(), nil)

    footerDec, _ := fd.FooterDecryptor()
    plaintext, err := footerDec.Decrypt(frame, fd.FileAAD())
    fmt.Printf("Recovered: %s (err=%v)\n", plaintext, err)
}`,
		},
		{
			title:       "Example 2: Selective Column-Key Routing",
			description: "Route one sensitive column to its own key while the other columns stay unencrypted",
			code: `package main

import (
    "crypto/rand"
    "github.com/parquetcrypt/core/pkg/encryption"
)

func main() {
    footerKey := make([]byte, 16)
    rand.Read(footerKey)
    ssnKey := make([]byte, 16)
    rand.Read(ssnKey)

    encProps, _ := encryption.NewEncryptionPropertiesBuilder(footerKey).
        WithColumnKey("ssn", encryption.NewEncryptionKey(ssnKey, []byte("km-ssn-v1"))).
        Build()
    fe, _ := encryption.NewFileEncryptor(encProps)

    // "ssn" is encrypted with ssnKey; "name" has no column key, so in
    // selective mode it is not encrypted and this returns ErrUnencryptedColumn
    ssnEnc, _ := fe.GetColumnEncryptor("ssn")
    _, err := fe.GetColumnEncryptor("name")
    _, _ = ssnEnc, err

    decProps, _ := encryption.NewDecryptionPropertiesBuilder().
        WithFooterKey(footerKey).
        Build()
    fd := encryption.NewFileDecryptor(decProps, fe.AADFileUnique(), nil)
    fd.RegisterColumnKey("ssn", ssnKey)
    ssnDec, _ := fd.ColumnDecryptor("ssn")
    _ = ssnDec
}`,
		},
		{
			title:       "Example 3: Page Encryption and Page Ordinals",
			description: "Encrypt successive pages of a column chunk, advancing the page ordinal each time",
			code: `package main

import (
    "fmt"
    "github.com/parquetcrypt/core/pkg/encryption"
)

func main() {
    var fe *encryption.FileEncryptor // from NewFileEncryptor

    pe := encryption.ForColumn(fe, 0 /* row group */, 2 /* column */, "amount")
    if pe == nil {
        fmt.Println("column is not encrypted")
        return
    }

    dict, err := pe.EncryptPage(encryption.PageKindDictionaryPage, []byte("dictionary bytes"))
    pe.IncrementPage()

    data, err := pe.EncryptPage(encryption.PageKindDataPageV1, []byte("page bytes"))
    pe.IncrementPage()

    fmt.Printf("dict=%d bytes, data=%d bytes, err=%v\n", len(dict), len(data), err)
}`,
		},
		{
			title:       "Example 4: AAD Prefix Binding",
			description: "Bind ciphertext to a file path or identifier in addition to the random file-unique suffix",
			code: `package main

import (
    "crypto/rand"
    "github.com/parquetcrypt/core/pkg/encryption"
)

func main() {
    footerKey := make([]byte, 16)
    rand.Read(footerKey)

    encProps, _ := encryption.NewEncryptionPropertiesBuilder(footerKey).
        WithAADPrefix([]byte("/warehouse/sales/part-00001.parquet")).
        WithAADPrefixStorage(true). // store the prefix so readers need not supply it
        Build()
    fe, _ := encryption.NewFileEncryptor(encProps)
    _ = fe
}`,
		},
		{
			title:       "Example 5: Error Handling",
			description: "Distinguishing authentication failures from malformed frames",
			code: `package main

import (
    "errors"
    "fmt"
    "github.com/parquetcrypt/core/pkg/crypto"
    qerrors "github.com/parquetcrypt/core/internal/errors"
)

func decryptPage(dec *crypto.BlockDecryptor, frame, aad []byte) {
    plaintext, err := dec.Decrypt(frame, aad)
    if err != nil {
        switch {
        case errors.Is(err, qerrors.ErrAuthenticationFailed):
            fmt.Println("page failed authentication: tampered or wrong key")
        case errors.Is(err, qerrors.ErrFrameTooShort):
            fmt.Println("frame too short or truncated")
        default:
            fmt.Printf("decrypt error: %v\n", err)
        }
        return
    }
    _ = plaintext
}`,
		},
		{
			title:       "Example 6: Security Considerations",
			description: "Key hygiene and nonce exhaustion",
			code: `package main

// BEST PRACTICE 1: One footer/column key per file. Never reuse an
// AES-128-GCM key across files; the counter nonce only guarantees
// uniqueness within a single encryptor instance.

// BEST PRACTICE 2: Treat ErrNonceExhausted as fatal for that key.
// A BlockEncryptor's CounterNonce wraps after 2^96 modules sealed;
// rotate to a new key rather than continue encrypting.

// BEST PRACTICE 3: Store per-column key metadata (km-*) alongside
// ciphertext so a decryptor can look up the right key without
// guessing, but never store the raw key material itself.

// BEST PRACTICE 4: Prefer WithAADPrefixStorage(true) unless the
// deployment has an out-of-band way to supply the AAD prefix to
// readers; an unrecoverable prefix makes the file permanently
// undecryptable.

// BEST PRACTICE 5: Record RecordAuthFailure/RecordNonceExhaustion
// metrics in production; a spike usually means either corruption in
// transit or an attempted tamper, both worth alerting on.
`,
		},
	}

	for i, ex := range examples {
		fmt.Printf("┌%s┐\n", strings.Repeat("─", 58))
		fmt.Printf("│ %s%s │\n", ex.title, strings.Repeat(" ", 58-len(ex.title)-2))
		fmt.Printf("└%s┘\n", strings.Repeat("─", 58))
		fmt.Println()
		fmt.Println(ex.description)
		fmt.Println()
		fmt.Println(ex.code)
		fmt.Println()

		if i < len(examples)-1 {
			fmt.Println()
		}
	}

	fmt.Println("╔═══════════════════════════════════════════════════════════╗")
	fmt.Println("║                    Next Steps                             ║")
	fmt.Println("╚═══════════════════════════════════════════════════════════╝")
	fmt.Println()
	fmt.Println("Try the demo:")
	fmt.Println("  pqcrypt demo --mode uniform --verbose")
	fmt.Println("  pqcrypt demo --mode selective --verbose")
	fmt.Println()
	fmt.Println("Run benchmarks:")
	fmt.Println("  pqcrypt bench --modules 10000 --throughput")
	fmt.Println()
	fmt.Println("Documentation:")
	fmt.Println("  https://github.com/parquetcrypt/core")
	fmt.Println("  https://pkg.go.dev/github.com/parquetcrypt/core")
	fmt.Println()
	fmt.Println("Security:")
	fmt.Println("  See SECURITY.md for security policy and best practices")
	fmt.Println("  Report vulnerabilities: security@parquetcrypt.dev")
	fmt.Println()
}
