package ancmod

import "fmt"

// externalFunctionIndexRecord holds the single collapsed-namespace
// field: ExternalFunctionIndex has no per-module range table because
// it collapses every module's external-function namespace into one
// unified index space (§4.5) — unlike FunctionIndex/DataIndex, which
// keep distinct per-module slices.
type externalFunctionIndexRecord struct {
	UnifiedExternalFunctionIndex uint32
}

// ConvertExternalFunctionIndexEntries lays out the
// ExternalFunctionIndex section: a flat single table of unified
// indices, position i holding module-local external-function index i's
// resolved unified index.
func ConvertExternalFunctionIndexEntries(unifiedIndices []uint32) ([]byte, error) {
	records := make([]externalFunctionIndexRecord, len(unifiedIndices))
	for i, v := range unifiedIndices {
		records[i] = externalFunctionIndexRecord{UnifiedExternalFunctionIndex: v}
	}
	return writeOneTable(records)
}

// ConvertExternalFunctionIndexSection decodes an ExternalFunctionIndex
// section back into its flat unified-index slice.
func ConvertExternalFunctionIndexSection(section []byte) ([]uint32, error) {
	records, err := readOneTable[externalFunctionIndexRecord](section)
	if err != nil {
		return nil, err
	}
	out := make([]uint32, len(records))
	for i, r := range records {
		out[i] = r.UnifiedExternalFunctionIndex
	}
	return out, nil
}

// ResolveUnifiedExternalFunctionIndex looks up module-local external-
// function index localIndex's unified index.
func ResolveUnifiedExternalFunctionIndex(section []byte, localIndex uint32) (uint32, error) {
	records, err := readOneTable[externalFunctionIndexRecord](section)
	if err != nil {
		return 0, err
	}
	if int(localIndex) >= len(records) {
		return 0, fmt.Errorf("%w: external function local index %d out of range (%d entries)", ErrInvalidImage, localIndex, len(records))
	}
	return records[localIndex].UnifiedExternalFunctionIndex, nil
}
