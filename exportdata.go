package ancmod

import "fmt"

// ExportDataEntry names one data item of the module and its
// visibility. InternalIndex refers to the module's own data section
// named by DataSectionType (ReadOnly/ReadWrite/Uninit).
type ExportDataEntry struct {
	Name            string
	Visibility      Visibility
	DataSectionType DataSectionType
	InternalIndex   uint32
}

type exportDataRecord struct {
	NameOffset      uint32
	NameLength      uint32
	InternalIndex   uint32
	Visibility      uint8
	DataSectionType uint8
	_               [2]uint8
}

// ConvertExportDataEntries lays out the ExportData section.
func ConvertExportDataEntries(entries []ExportDataEntry) ([]byte, error) {
	records := make([]exportDataRecord, len(entries))
	var data []byte
	for i, e := range entries {
		if !e.Visibility.Valid() {
			return nil, fmt.Errorf("ancmod: export data entry %d has invalid visibility %d", i, e.Visibility)
		}
		if !e.DataSectionType.Valid() {
			return nil, fmt.Errorf("ancmod: export data entry %d has invalid data section type %d", i, e.DataSectionType)
		}
		records[i] = exportDataRecord{
			NameOffset:      uint32(len(data)),
			NameLength:      uint32(len(e.Name)),
			InternalIndex:   e.InternalIndex,
			Visibility:      uint8(e.Visibility),
			DataSectionType: uint8(e.DataSectionType),
		}
		data = append(data, e.Name...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertExportDataSection decodes an ExportData section.
func ConvertExportDataSection(section []byte) ([]ExportDataEntry, error) {
	records, data, err := readTableAndDataArea[exportDataRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]ExportDataEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, fmt.Errorf("%w: export data %d name: %v", ErrInvalidImage, i, err)
		}
		vis := Visibility(rec.Visibility)
		if !vis.Valid() {
			return nil, fmt.Errorf("%w: export data visibility byte %d", ErrInvalidTag, rec.Visibility)
		}
		dst := DataSectionType(rec.DataSectionType)
		if !dst.Valid() {
			return nil, fmt.Errorf("%w: export data section type byte %d", ErrInvalidTag, rec.DataSectionType)
		}
		entries[i] = ExportDataEntry{
			Name:            string(name),
			Visibility:      vis,
			DataSectionType: dst,
			InternalIndex:   rec.InternalIndex,
		}
	}
	return entries, nil
}

// GetExportDataIndex returns the public index of the export-data
// record named name.
func GetExportDataIndex(section []byte, name string) (int, bool) {
	records, data, err := readTableAndDataArea[exportDataRecord](section)
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
