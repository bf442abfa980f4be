package ancmod

// ImportModuleEntry names one module this module depends on.
// ModuleDependency is the opaque ASON-text serialization (spec §1,
// §9) of a dependency descriptor (local path / remote URL+revision /
// share version / runtime / current); the core stores it verbatim and
// never parses it.
type ImportModuleEntry struct {
	Name             string
	ModuleDependency []byte
}

type importModuleRecord struct {
	NameOffset uint32
	NameLength uint32
	DepOffset  uint32
	DepLength  uint32
}

// ConvertImportModuleEntries lays out the ImportModule section.
func ConvertImportModuleEntries(entries []ImportModuleEntry) ([]byte, error) {
	records := make([]importModuleRecord, len(entries))
	var data []byte
	for i, e := range entries {
		records[i].NameOffset = uint32(len(data))
		records[i].NameLength = uint32(len(e.Name))
		data = append(data, e.Name...)
		records[i].DepOffset = uint32(len(data))
		records[i].DepLength = uint32(len(e.ModuleDependency))
		data = append(data, e.ModuleDependency...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertImportModuleSection decodes an ImportModule section.
func ConvertImportModuleSection(section []byte) ([]ImportModuleEntry, error) {
	records, data, err := readTableAndDataArea[importModuleRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]ImportModuleEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, err
		}
		dep, err := sliceData(data, rec.DepOffset, rec.DepLength)
		if err != nil {
			return nil, err
		}
		depOwned := make([]byte, len(dep))
		copy(depOwned, dep)
		entries[i] = ImportModuleEntry{Name: string(name), ModuleDependency: depOwned}
	}
	return entries, nil
}

// GetImportModuleIndex returns the index of the import-module record
// named name, by linear scan over the table (§4.3: "no on-disk hash
// index").
func GetImportModuleIndex(section []byte, name string) (int, bool) {
	records, data, err := readTableAndDataArea[importModuleRecord](section)
	if err != nil {
		return 0, false
	}
	for i, rec := range records {
		n, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			continue
		}
		if string(n) == name {
			return i, true
		}
	}
	return 0, false
}
