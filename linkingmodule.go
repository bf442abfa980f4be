package ancmod

// LinkingModuleEntry names one module participating in a fully linked
// Application image. Location is the opaque ASON-text serialization of
// a ModuleLocation tag (Local{path,hash} / Remote{hash} / Share{version,hash}
// / Runtime / Embed); the core stores it verbatim and never parses it,
// same contract as ImportModuleEntry.ModuleDependency (§9: the source's
// older DependentModule form is dropped in favour of this newer form).
// The first entry in the section is always the application's own main
// module.
type LinkingModuleEntry struct {
	Name     string
	Location []byte
}

type linkingModuleRecord struct {
	NameOffset uint32
	NameLength uint32
	LocOffset  uint32
	LocLength  uint32
}

// ConvertLinkingModuleEntries lays out the LinkingModule section.
func ConvertLinkingModuleEntries(entries []LinkingModuleEntry) ([]byte, error) {
	records := make([]linkingModuleRecord, len(entries))
	var data []byte
	for i, e := range entries {
		records[i].NameOffset = uint32(len(data))
		records[i].NameLength = uint32(len(e.Name))
		data = append(data, e.Name...)
		records[i].LocOffset = uint32(len(data))
		records[i].LocLength = uint32(len(e.Location))
		data = append(data, e.Location...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertLinkingModuleSection decodes a LinkingModule section.
func ConvertLinkingModuleSection(section []byte) ([]LinkingModuleEntry, error) {
	records, data, err := readTableAndDataArea[linkingModuleRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]LinkingModuleEntry, len(records))
	for i, rec := range records {
		name, err := sliceData(data, rec.NameOffset, rec.NameLength)
		if err != nil {
			return nil, err
		}
		loc, err := sliceData(data, rec.LocOffset, rec.LocLength)
		if err != nil {
			return nil, err
		}
		locOwned := make([]byte, len(loc))
		copy(locOwned, loc)
		entries[i] = LinkingModuleEntry{Name: string(name), Location: locOwned}
	}
	return entries, nil
}

// MainModule returns the application's own module entry — the
// LinkingModule section's first record — and reports false if the
// section is empty.
func MainModule(section []byte) (LinkingModuleEntry, bool) {
	entries, err := ConvertLinkingModuleSection(section)
	if err != nil || len(entries) == 0 {
		return LinkingModuleEntry{}, false
	}
	return entries[0], true
}
