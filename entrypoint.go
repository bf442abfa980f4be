package ancmod

import "fmt"

// EntryPointEntry names one callable unit of an Application image: the
// default entry point carries the empty UnitName, additional
// executables carry the submodule name, and unit tests carry
// "submodule::test_*" (§3).
type EntryPointEntry struct {
	UnitName            string
	FunctionPublicIndex uint32
}

type entryPointRecord struct {
	NameOffset          uint32
	NameLength          uint32
	FunctionPublicIndex uint32
}

// ConvertEntryPointEntries lays out the EntryPoint section.
func ConvertEntryPointEntries(entries []EntryPointEntry) ([]byte, error) {
	records := make([]entryPointRecord, len(entries))
	var data []byte
	for i, e := range entries {
		records[i] = entryPointRecord{
			NameOffset:          uint32(len(data)),
			NameLength:          uint32(len(e.UnitName)),
			FunctionPublicIndex: e.FunctionPublicIndex,
		}
		data = append(data, e.UnitName...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertEntryPointSection decodes an EntryPoint section.
func ConvertEntryPointSection(section []byte) ([]EntryPointEntry, error) {
	records, data, err := readTableAndDataArea[entryPointRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]EntryPointEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, fmt.Errorf("%w: entry point %d unit name: %v", ErrInvalidImage, i, err)
		}
		entries[i] = EntryPointEntry{UnitName: string(name), FunctionPublicIndex: rec.FunctionPublicIndex}
	}
	return entries, nil
}

// FindEntryPoint returns the function_public_index for unitName, the
// empty string naming the default application entry point.
func FindEntryPoint(section []byte, unitName string) (uint32, bool) {
	records, data, err := readTableAndDataArea[entryPointRecord](section)
	if err != nil {
		return 0, false
	}
	for _, rec := range records {
		n, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err == nil && string(n) == unitName {
			return rec.FunctionPublicIndex, true
		}
	}
	return 0, false
}
