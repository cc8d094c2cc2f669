package modaad

import (
	"github.com/parquetcrypt/core/internal/constants"
	qerrors "github.com/parquetcrypt/core/internal/errors"
)

// Build computes the AAD for a single Parquet module, per spec.md §4.2.
//
//	Footer:    file_aad ⧺ [module_type]
//	Non-page:  file_aad ⧺ [module_type] ⧺ row_group_le(2) ⧺ column_le(2)
//	Page:      file_aad ⧺ [module_type] ⧺ row_group_le(2) ⧺ column_le(2) ⧺ page_le(2)
//
// Callers constructing AAD for a non-page module pass
// constants.NonPageOrdinal for page; Build ignores that argument for
// footer and non-page module types. Build is a pure function: identical
// inputs always produce byte-identical output.
func Build(fileAAD []byte, moduleType constants.ModuleType, rowGroup, column, page int) ([]byte, error) {
	if moduleType.IsFooterModule() {
		aad := make([]byte, 0, len(fileAAD)+constants.FooterAADSuffixLen)
		aad = append(aad, fileAAD...)
		return append(aad, byte(moduleType)), nil
	}

	if err := validateOrdinal(rowGroup); err != nil {
		return nil, err
	}
	if err := validateOrdinal(column); err != nil {
		return nil, err
	}

	suffixLen := constants.NonPageAADSuffixLen
	if moduleType.IsPageModule() {
		suffixLen = constants.PageAADSuffixLen
	}

	aad := make([]byte, 0, len(fileAAD)+suffixLen)
	aad = append(aad, fileAAD...)
	aad = append(aad, byte(moduleType))
	aad = appendLE16(aad, rowGroup)
	aad = appendLE16(aad, column)

	if moduleType.IsPageModule() {
		if err := validateOrdinal(page); err != nil {
			return nil, err
		}
		aad = appendLE16(aad, page)
	}

	return aad, nil
}

// validateOrdinal rejects ordinals that do not fit the wire's i16 slot,
// including negative values (ErrAadOrdinal per spec.md §7).
func validateOrdinal(v int) error {
	if v < 0 || v > constants.MaxOrdinal {
		return qerrors.ErrAadOrdinal
	}
	return nil
}

// appendLE16 appends v as a little-endian 16-bit value. Callers must have
// already validated v fits in [0, MaxOrdinal].
func appendLE16(dst []byte, v int) []byte {
	return append(dst, byte(v), byte(v>>8))
}
