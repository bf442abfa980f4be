package ancmod

import "fmt"

// ImportDataEntry is one data item a module imports from another
// module named in its own ImportModule table.
type ImportDataEntry struct {
	FullName          string
	ImportModuleIndex uint32
	MemoryType        MemoryDataType
	DataSectionType   DataSectionType
}

type importDataRecord struct {
	NameOffset        uint32
	NameLength        uint32
	ImportModuleIndex uint32
	MemoryType        uint8
	DataSectionType   uint8
	_                 uint16
}

// ConvertImportDataEntries lays out the ImportData section.
func ConvertImportDataEntries(entries []ImportDataEntry) ([]byte, error) {
	records := make([]importDataRecord, len(entries))
	var data []byte
	for i, e := range entries {
		if !e.MemoryType.Valid() {
			return nil, fmt.Errorf("ancmod: import data entry %d has invalid memory type %d", i, e.MemoryType)
		}
		if !e.DataSectionType.Valid() {
			return nil, fmt.Errorf("ancmod: import data entry %d has invalid data section type %d", i, e.DataSectionType)
		}
		records[i] = importDataRecord{
			NameOffset:        uint32(len(data)),
			NameLength:        uint32(len(e.FullName)),
			ImportModuleIndex: e.ImportModuleIndex,
			MemoryType:        uint8(e.MemoryType),
			DataSectionType:   uint8(e.DataSectionType),
		}
		data = append(data, e.FullName...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertImportDataSection decodes an ImportData section.
func ConvertImportDataSection(section []byte) ([]ImportDataEntry, error) {
	records, data, err := readTableAndDataArea[importDataRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]ImportDataEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, fmt.Errorf("%w: import data %d name: %v", ErrInvalidImage, i, err)
		}
		mt := MemoryDataType(rec.MemoryType)
		if !mt.Valid() {
			return nil, fmt.Errorf("%w: import data memory type byte %d", ErrInvalidTag, rec.MemoryType)
		}
		dst := DataSectionType(rec.DataSectionType)
		if !dst.Valid() {
			return nil, fmt.Errorf("%w: import data section type byte %d", ErrInvalidTag, rec.DataSectionType)
		}
		entries[i] = ImportDataEntry{
			FullName:          string(name),
			ImportModuleIndex: rec.ImportModuleIndex,
			MemoryType:        mt,
			DataSectionType:   dst,
		}
	}
	return entries, nil
}

// GetImportDataIndex returns the index of the import-data record whose
// FullName equals name.
func GetImportDataIndex(section []byte, name string) (int, bool) {
	records, data, err := readTableAndDataArea[importDataRecord](section)
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
