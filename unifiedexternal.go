package ancmod

import "fmt"

// The UnifiedExternal* sections exist only in fully linked Application
// images. A linker merges every participating module's ExternalLibrary/
// ExternalFunction/Type tables into one deduplicated global namespace;
// ExternalFunctionIndex's unified_index values are positions into
// UnifiedExternalFunction, whose LibraryIndex and TypeIndex in turn
// point into UnifiedExternalLibrary and UnifiedExternalType.

// UnifiedExternalTypeEntry is one deduplicated function signature in
// the unified namespace — same shape as TypeEntry (§4.3).
type UnifiedExternalTypeEntry = TypeEntry

// ConvertUnifiedExternalTypeEntries lays out the UnifiedExternalType
// section; it reuses the Type section's own codec since the record
// shape is identical.
func ConvertUnifiedExternalTypeEntries(entries []UnifiedExternalTypeEntry) ([]byte, error) {
	return ConvertTypeEntries(entries)
}

// ConvertUnifiedExternalTypeSection decodes a UnifiedExternalType
// section.
func ConvertUnifiedExternalTypeSection(section []byte) ([]UnifiedExternalTypeEntry, error) {
	return ConvertTypeSection(section)
}

// UnifiedExternalLibraryEntry is one deduplicated native library in the
// unified namespace — same shape as ExternalLibraryEntry.
type UnifiedExternalLibraryEntry = ExternalLibraryEntry

// ConvertUnifiedExternalLibraryEntries lays out the
// UnifiedExternalLibrary section.
func ConvertUnifiedExternalLibraryEntries(entries []UnifiedExternalLibraryEntry) ([]byte, error) {
	return ConvertExternalLibraryEntries(entries)
}

// ConvertUnifiedExternalLibrarySection decodes a
// UnifiedExternalLibrary section.
func ConvertUnifiedExternalLibrarySection(section []byte) ([]UnifiedExternalLibraryEntry, error) {
	return ConvertExternalLibrarySection(section)
}

// UnifiedExternalFunctionEntry is one deduplicated native function in
// the unified namespace: a name plus indices into
// UnifiedExternalLibrary and UnifiedExternalType.
type UnifiedExternalFunctionEntry struct {
	Name         string
	LibraryIndex uint32
	TypeIndex    uint32
}

type unifiedExternalFunctionRecord struct {
	NameOffset   uint32
	NameLength   uint32
	LibraryIndex uint32
	TypeIndex    uint32
}

// ConvertUnifiedExternalFunctionEntries lays out the
// UnifiedExternalFunction section.
func ConvertUnifiedExternalFunctionEntries(entries []UnifiedExternalFunctionEntry) ([]byte, error) {
	records := make([]unifiedExternalFunctionRecord, len(entries))
	var data []byte
	for i, e := range entries {
		records[i] = unifiedExternalFunctionRecord{
			NameOffset:   uint32(len(data)),
			NameLength:   uint32(len(e.Name)),
			LibraryIndex: e.LibraryIndex,
			TypeIndex:    e.TypeIndex,
		}
		data = append(data, e.Name...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertUnifiedExternalFunctionSection decodes a
// UnifiedExternalFunction section.
func ConvertUnifiedExternalFunctionSection(section []byte) ([]UnifiedExternalFunctionEntry, error) {
	records, data, err := readTableAndDataArea[unifiedExternalFunctionRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]UnifiedExternalFunctionEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, fmt.Errorf("%w: unified external function %d name: %v", ErrInvalidImage, i, err)
		}
		entries[i] = UnifiedExternalFunctionEntry{
			Name:         string(name),
			LibraryIndex: rec.LibraryIndex,
			TypeIndex:    rec.TypeIndex,
		}
	}
	return entries, nil
}
