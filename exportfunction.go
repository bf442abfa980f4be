package ancmod

import "fmt"

// ExportFunctionEntry names one function of the module and its
// visibility (§9: chosen over the legacy FunctionName/export-bool
// family). InternalIndex refers to the module's own Function table;
// ordering within the section must follow internal index so a linker
// can compute public indices by position.
type ExportFunctionEntry struct {
	Name          string
	Visibility    Visibility
	InternalIndex uint32
}

type exportFunctionRecord struct {
	NameOffset    uint32
	NameLength    uint32
	InternalIndex uint32
	Visibility    uint8
	_             [3]uint8
}

// ConvertExportFunctionEntries lays out the ExportFunction section.
func ConvertExportFunctionEntries(entries []ExportFunctionEntry) ([]byte, error) {
	records := make([]exportFunctionRecord, len(entries))
	var data []byte
	for i, e := range entries {
		if !e.Visibility.Valid() {
			return nil, fmt.Errorf("ancmod: export function entry %d has invalid visibility %d", i, e.Visibility)
		}
		records[i] = exportFunctionRecord{
			NameOffset:    uint32(len(data)),
			NameLength:    uint32(len(e.Name)),
			InternalIndex: e.InternalIndex,
			Visibility:    uint8(e.Visibility),
		}
		data = append(data, e.Name...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertExportFunctionSection decodes an ExportFunction section.
func ConvertExportFunctionSection(section []byte) ([]ExportFunctionEntry, error) {
	records, data, err := readTableAndDataArea[exportFunctionRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]ExportFunctionEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, fmt.Errorf("%w: export function %d name: %v", ErrInvalidImage, i, err)
		}
		vis := Visibility(rec.Visibility)
		if !vis.Valid() {
			return nil, fmt.Errorf("%w: export function visibility byte %d", ErrInvalidTag, rec.Visibility)
		}
		entries[i] = ExportFunctionEntry{
			Name:          string(name),
			Visibility:    vis,
			InternalIndex: rec.InternalIndex,
		}
	}
	return entries, nil
}

// GetExportFunctionIndex returns the public (export-table) index of
// the export-function record named name.
func GetExportFunctionIndex(section []byte, name string) (int, bool) {
	records, data, err := readTableAndDataArea[exportFunctionRecord](section)
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
