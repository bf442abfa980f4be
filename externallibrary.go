package ancmod

import "fmt"

// ExternalLibraryEntry names one native library a module links
// against. LibraryDependency is the opaque ASON-text serialization of
// the dependency descriptor (local path / remote+revision / share
// version / system); the core stores it verbatim and never parses it,
// matching ImportModuleEntry's ModuleDependency handling.
type ExternalLibraryEntry struct {
	Name              string
	DependencyType    LibraryDependencyType
	LibraryDependency []byte
}

type externalLibraryRecord struct {
	NameOffset     uint32
	NameLength     uint32
	DepOffset      uint32
	DepLength      uint32
	DependencyType uint8
	_              [3]byte
}

// ConvertExternalLibraryEntries lays out the ExternalLibrary section.
func ConvertExternalLibraryEntries(entries []ExternalLibraryEntry) ([]byte, error) {
	records := make([]externalLibraryRecord, len(entries))
	var data []byte
	for i, e := range entries {
		if !e.DependencyType.Valid() {
			return nil, fmt.Errorf("ancmod: external library entry %d has invalid dependency type %d", i, e.DependencyType)
		}
		records[i].NameOffset = uint32(len(data))
		records[i].NameLength = uint32(len(e.Name))
		data = append(data, e.Name...)
		records[i].DepOffset = uint32(len(data))
		records[i].DepLength = uint32(len(e.LibraryDependency))
		records[i].DependencyType = uint8(e.DependencyType)
		data = append(data, e.LibraryDependency...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertExternalLibrarySection decodes an ExternalLibrary section.
func ConvertExternalLibrarySection(section []byte) ([]ExternalLibraryEntry, error) {
	records, data, err := readTableAndDataArea[externalLibraryRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]ExternalLibraryEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, fmt.Errorf("%w: external library %d name: %v", ErrInvalidImage, i, err)
		}
		dep, err := sliceData(data, rec.DepOffset, rec.DepLength)
		if err != nil {
			return nil, fmt.Errorf("%w: external library %d dependency: %v", ErrInvalidImage, i, err)
		}
		dt := LibraryDependencyType(rec.DependencyType)
		if !dt.Valid() {
			return nil, fmt.Errorf("%w: external library dependency type byte %d", ErrInvalidTag, rec.DependencyType)
		}
		depOwned := make([]byte, len(dep))
		copy(depOwned, dep)
		entries[i] = ExternalLibraryEntry{
			Name:              string(name),
			DependencyType:    dt,
			LibraryDependency: depOwned,
		}
	}
	return entries, nil
}

// GetExternalLibraryIndex returns the index of the external-library
// record named name.
func GetExternalLibraryIndex(section []byte, name string) (int, bool) {
	records, data, err := readTableAndDataArea[externalLibraryRecord](section)
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
