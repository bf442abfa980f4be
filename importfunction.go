package ancmod

import "fmt"

// ImportFunctionEntry is one function a module imports from another
// module named in its own ImportModule table.
type ImportFunctionEntry struct {
	FullName          string
	ImportModuleIndex uint32
	TypeIndex         uint32
}

type importFunctionRecord struct {
	NameOffset        uint32
	NameLength        uint32
	ImportModuleIndex uint32
	TypeIndex         uint32
}

// ConvertImportFunctionEntries lays out the ImportFunction section.
func ConvertImportFunctionEntries(entries []ImportFunctionEntry) ([]byte, error) {
	records := make([]importFunctionRecord, len(entries))
	var data []byte
	for i, e := range entries {
		records[i] = importFunctionRecord{
			NameOffset:        uint32(len(data)),
			NameLength:        uint32(len(e.FullName)),
			ImportModuleIndex: e.ImportModuleIndex,
			TypeIndex:         e.TypeIndex,
		}
		data = append(data, e.FullName...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertImportFunctionSection decodes an ImportFunction section.
func ConvertImportFunctionSection(section []byte) ([]ImportFunctionEntry, error) {
	records, data, err := readTableAndDataArea[importFunctionRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]ImportFunctionEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, fmt.Errorf("%w: import function %d name: %v", ErrInvalidImage, i, err)
		}
		entries[i] = ImportFunctionEntry{
			FullName:          string(name),
			ImportModuleIndex: rec.ImportModuleIndex,
			TypeIndex:         rec.TypeIndex,
		}
	}
	return entries, nil
}

// GetImportFunctionIndex returns the index of the import-function
// record whose FullName equals name.
func GetImportFunctionIndex(section []byte, name string) (int, bool) {
	records, data, err := readTableAndDataArea[importFunctionRecord](section)
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
