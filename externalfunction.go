package ancmod

import "fmt"

// ExternalFunctionEntry is one native function a module calls through
// an ExternalLibraryEntry.
type ExternalFunctionEntry struct {
	Name                 string
	ExternalLibraryIndex uint32
	TypeIndex            uint32
}

type externalFunctionRecord struct {
	NameOffset           uint32
	NameLength           uint32
	ExternalLibraryIndex uint32
	TypeIndex            uint32
}

// ConvertExternalFunctionEntries lays out the ExternalFunction
// section.
func ConvertExternalFunctionEntries(entries []ExternalFunctionEntry) ([]byte, error) {
	records := make([]externalFunctionRecord, len(entries))
	var data []byte
	for i, e := range entries {
		records[i] = externalFunctionRecord{
			NameOffset:           uint32(len(data)),
			NameLength:           uint32(len(e.Name)),
			ExternalLibraryIndex: e.ExternalLibraryIndex,
			TypeIndex:            e.TypeIndex,
		}
		data = append(data, e.Name...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertExternalFunctionSection decodes an ExternalFunction section.
func ConvertExternalFunctionSection(section []byte) ([]ExternalFunctionEntry, error) {
	records, data, err := readTableAndDataArea[externalFunctionRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]ExternalFunctionEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, fmt.Errorf("%w: external function %d name: %v", ErrInvalidImage, i, err)
		}
		entries[i] = ExternalFunctionEntry{
			Name:                 string(name),
			ExternalLibraryIndex: rec.ExternalLibraryIndex,
			TypeIndex:            rec.TypeIndex,
		}
	}
	return entries, nil
}

// GetExternalFunctionIndex returns the position, within this module's
// own ExternalFunction table, of the record named name.
func GetExternalFunctionIndex(section []byte, name string) (int, bool) {
	records, data, err := readTableAndDataArea[externalFunctionRecord](section)
	if err != nil {
		return 0, false
	}
	for i, rec := range records {
		n, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err == nil && string(n) == name {
			return i, true
		}
	}
	return 0, false
}
