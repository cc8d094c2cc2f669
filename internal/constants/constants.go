// Package constants defines wire-format and security parameters for the
// Parquet modular encryption core.
//
// These values are protocol constants shared by writer and reader: any
// change to a module-type tag, frame layout, or ordinal bound is a file
// format break.
package constants

// ModuleType identifies the kind of Parquet structural unit an AAD or
// encrypted frame belongs to. Values are fixed single-byte tags per the
// Parquet encryption specification.
type ModuleType uint8

const (
	// ModuleTypeFooter identifies the file footer (FileMetaData).
	ModuleTypeFooter ModuleType = 0
	// ModuleTypeColumnMetaData identifies a column chunk's metadata.
	ModuleTypeColumnMetaData ModuleType = 1
	// ModuleTypeDataPage identifies a data page body.
	ModuleTypeDataPage ModuleType = 2
	// ModuleTypeDictionaryPage identifies a dictionary page body.
	ModuleTypeDictionaryPage ModuleType = 3
	// ModuleTypeDataPageHeader identifies a data page header.
	ModuleTypeDataPageHeader ModuleType = 4
	// ModuleTypeDictionaryPageHeader identifies a dictionary page header.
	ModuleTypeDictionaryPageHeader ModuleType = 5
	// ModuleTypeColumnIndex identifies a column index.
	ModuleTypeColumnIndex ModuleType = 6
	// ModuleTypeOffsetIndex identifies an offset index.
	ModuleTypeOffsetIndex ModuleType = 7
	// ModuleTypeBloomFilterHeader identifies a bloom filter header.
	ModuleTypeBloomFilterHeader ModuleType = 8
	// ModuleTypeBloomFilterBitset identifies a bloom filter bitset.
	ModuleTypeBloomFilterBitset ModuleType = 9
)

// String returns a human-readable name for the module type.
func (m ModuleType) String() string {
	switch m {
	case ModuleTypeFooter:
		return "Footer"
	case ModuleTypeColumnMetaData:
		return "ColumnMetaData"
	case ModuleTypeDataPage:
		return "DataPage"
	case ModuleTypeDictionaryPage:
		return "DictionaryPage"
	case ModuleTypeDataPageHeader:
		return "DataPageHeader"
	case ModuleTypeDictionaryPageHeader:
		return "DictionaryPageHeader"
	case ModuleTypeColumnIndex:
		return "ColumnIndex"
	case ModuleTypeOffsetIndex:
		return "OffsetIndex"
	case ModuleTypeBloomFilterHeader:
		return "BloomFilterHeader"
	case ModuleTypeBloomFilterBitset:
		return "BloomFilterBitset"
	default:
		return "Unknown"
	}
}

// IsPageModule reports whether the module type carries a page ordinal in
// its AAD (data/dictionary pages and their headers).
func (m ModuleType) IsPageModule() bool {
	switch m {
	case ModuleTypeDataPage, ModuleTypeDictionaryPage,
		ModuleTypeDataPageHeader, ModuleTypeDictionaryPageHeader:
		return true
	default:
		return false
	}
}

// IsFooterModule reports whether the module type is the file footer,
// which uses the shortest AAD specialization (no ordinals).
func (m ModuleType) IsFooterModule() bool {
	return m == ModuleTypeFooter
}

// Symmetric encryption parameters. This revision supports AES-128-GCM
// only; no other algorithm or key size is accepted.
const (
	// AESKeySize is the required size of AES-128 keys in bytes.
	AESKeySize = 16

	// AESNonceSize is the size of the AES-GCM nonce in bytes (96 bits).
	AESNonceSize = 12

	// AESTagSize is the size of the AES-GCM authentication tag in bytes.
	AESTagSize = 16

	// LengthPrefixSize is the size of the little-endian length prefix in
	// an encrypted module frame.
	LengthPrefixSize = 4
)

// MinFrameSize is the smallest possible valid encrypted-module frame:
// length prefix + nonce + (empty plaintext) + tag.
const MinFrameSize = LengthPrefixSize + AESNonceSize + AESTagSize

// FileUniqueAADSize is the number of random bytes drawn for a file's
// aad_file_unique value.
const FileUniqueAADSize = 8

// Ordinal bounds. Row-group, column, and page ordinals are all encoded
// as little-endian i16 on the wire, so all three share this range.
const (
	// MaxOrdinal is the largest ordinal value the wire's i16 slot holds.
	MaxOrdinal = 1<<15 - 1

	// NonPageOrdinal is the sentinel callers pass for the page-ordinal
	// argument to request the non-page AAD specialization.
	NonPageOrdinal = -1
)

// Module AAD byte-length deltas relative to len(file_aad): footer adds 1
// byte (module type only); non-page modules add 5 bytes (module type +
// row group + column); page modules add 7 bytes (+ page).
const (
	FooterAADSuffixLen  = 1
	NonPageAADSuffixLen = 5
	PageAADSuffixLen    = 7
)
