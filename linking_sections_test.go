package ancmod

import (
	"reflect"
	"testing"
)

func TestImportModuleRoundTrip(t *testing.T) {
	entries := []ImportModuleEntry{
		{Name: "std", ModuleDependency: []byte(`Runtime`)},
		{Name: "geometry", ModuleDependency: []byte(`Share{version:"1.0.0"}`)},
	}
	encoded, err := ConvertImportModuleEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertImportModuleSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
	idx, ok := GetImportModuleIndex(encoded, "geometry")
	if !ok || idx != 1 {
		t.Fatalf("index = %d, ok=%v, want 1/true", idx, ok)
	}
	if _, ok := GetImportModuleIndex(encoded, "missing"); ok {
		t.Fatal("expected ok=false for an absent name")
	}
}

func TestImportFunctionRoundTrip(t *testing.T) {
	entries := []ImportFunctionEntry{
		{FullName: "geometry::distance", ImportModuleIndex: 1, TypeIndex: 3},
	}
	encoded, err := ConvertImportFunctionEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertImportFunctionSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
	if idx, ok := GetImportFunctionIndex(encoded, "geometry::distance"); !ok || idx != 0 {
		t.Fatalf("index = %d, ok=%v, want 0/true", idx, ok)
	}
}

func TestImportDataRoundTrip(t *testing.T) {
	entries := []ImportDataEntry{
		{FullName: "std::pi", ImportModuleIndex: 0, MemoryType: MemoryDataTypeF64, DataSectionType: DataSectionTypeReadOnly},
	}
	encoded, err := ConvertImportDataEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertImportDataSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
}

func TestImportDataInvalidMemoryType(t *testing.T) {
	_, err := ConvertImportDataEntries([]ImportDataEntry{{FullName: "x", MemoryType: 0xff}})
	if err == nil {
		t.Fatal("expected an error for an invalid memory type")
	}
}

func TestExportFunctionRoundTrip(t *testing.T) {
	entries := []ExportFunctionEntry{
		{Name: "add", Visibility: VisibilityPublic, InternalIndex: 0},
		{Name: "helper", Visibility: VisibilityPrivate, InternalIndex: 1},
	}
	encoded, err := ConvertExportFunctionEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertExportFunctionSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
	if idx, ok := GetExportFunctionIndex(encoded, "helper"); !ok || idx != 1 {
		t.Fatalf("index = %d, ok=%v, want 1/true", idx, ok)
	}
}

func TestExportFunctionInvalidVisibility(t *testing.T) {
	_, err := ConvertExportFunctionEntries([]ExportFunctionEntry{{Name: "x", Visibility: 0xff}})
	if err == nil {
		t.Fatal("expected an error for an invalid visibility")
	}
}

func TestExportDataRoundTrip(t *testing.T) {
	entries := []ExportDataEntry{
		{Name: "counter", Visibility: VisibilityPublic, DataSectionType: DataSectionTypeReadWrite, InternalIndex: 2},
	}
	encoded, err := ConvertExportDataEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertExportDataSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
}

func TestRelocateRoundTrip(t *testing.T) {
	entries := []RelocateListEntry{
		{Entries: []RelocateEntry{{OffsetInFunction: 4, Kind: RelocateTypeTypeIndex}, {OffsetInFunction: 12, Kind: RelocateTypeFunctionPublicIndex}}},
		{Entries: nil},
		{Entries: []RelocateEntry{{OffsetInFunction: 0, Kind: RelocateTypeDataPublicIndex}}},
	}
	encoded, err := ConvertRelocateEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertRelocateSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
}

func TestRelocateInvalidKind(t *testing.T) {
	_, err := ConvertRelocateEntries([]RelocateListEntry{{Entries: []RelocateEntry{{Kind: 0xff}}}})
	if err == nil {
		t.Fatal("expected an error for an invalid relocate kind")
	}
}

func TestExternalLibraryRoundTrip(t *testing.T) {
	entries := []ExternalLibraryEntry{
		{Name: "libm", DependencyType: LibraryDependencyTypeSystem, LibraryDependency: []byte(`System`)},
	}
	encoded, err := ConvertExternalLibraryEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertExternalLibrarySection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
	if idx, ok := GetExternalLibraryIndex(encoded, "libm"); !ok || idx != 0 {
		t.Fatalf("index = %d, ok=%v, want 0/true", idx, ok)
	}
}

func TestExternalFunctionRoundTrip(t *testing.T) {
	entries := []ExternalFunctionEntry{
		{Name: "sqrt", ExternalLibraryIndex: 0, TypeIndex: 1},
	}
	encoded, err := ConvertExternalFunctionEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertExternalFunctionSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
}

func TestEntryPointRoundTrip(t *testing.T) {
	entries := []EntryPointEntry{
		{UnitName: "", FunctionPublicIndex: 0},
		{UnitName: "tool", FunctionPublicIndex: 4},
		{UnitName: "tool::test_basic", FunctionPublicIndex: 9},
	}
	encoded, err := ConvertEntryPointEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertEntryPointSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
	if idx, ok := FindEntryPoint(encoded, "tool"); !ok || idx != 4 {
		t.Fatalf("index = %d, ok=%v, want 4/true", idx, ok)
	}
}

func TestLinkingModuleRoundTripAndMainModule(t *testing.T) {
	entries := []LinkingModuleEntry{
		{Name: "main", Location: []byte(`Embed`)},
		{Name: "geometry", Location: []byte(`Share{version:"2.1.0",hash:"..."}`)},
	}
	encoded, err := ConvertLinkingModuleEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertLinkingModuleSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
	main, ok := MainModule(encoded)
	if !ok || main.Name != "main" {
		t.Fatalf("main module = %+v, ok=%v", main, ok)
	}
}

func TestDataIndexRoundTrip(t *testing.T) {
	entries := [][]DataIndexItem{
		{{TargetModuleIndex: 0, TargetDataSectionType: DataSectionTypeReadOnly, DataInternalIndex: 2}},
		{
			{TargetModuleIndex: 1, TargetDataSectionType: DataSectionTypeReadWrite, DataInternalIndex: 0},
			{TargetModuleIndex: 1, TargetDataSectionType: DataSectionTypeUninit, DataInternalIndex: 3},
		},
	}
	encoded, err := ConvertDataIndexEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertDataIndexSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("got %+v, want %+v", got, entries)
	}
	item, err := ResolveDataPublicIndex(encoded, 1, 1)
	if err != nil {
		t.Fatal(err)
	}
	if item != entries[1][1] {
		t.Fatalf("resolved item = %+v, want %+v", item, entries[1][1])
	}
}

func TestExternalFunctionIndexRoundTrip(t *testing.T) {
	unified := []uint32{3, 1, 4, 1, 5}
	encoded, err := ConvertExternalFunctionIndexEntries(unified)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertExternalFunctionIndexSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, unified) {
		t.Fatalf("got %+v, want %+v", got, unified)
	}
	v, err := ResolveUnifiedExternalFunctionIndex(encoded, 2)
	if err != nil {
		t.Fatal(err)
	}
	if v != 4 {
		t.Fatalf("resolved = %d, want 4", v)
	}
	if _, err := ResolveUnifiedExternalFunctionIndex(encoded, 99); err == nil {
		t.Fatal("expected an out-of-range error")
	}
}

func TestUnifiedExternalSections(t *testing.T) {
	types := []UnifiedExternalTypeEntry{{Params: []DataType{DataTypeI32}, Results: []DataType{DataTypeF64}}}
	encodedTypes, err := ConvertUnifiedExternalTypeEntries(types)
	if err != nil {
		t.Fatal(err)
	}
	gotTypes, err := ConvertUnifiedExternalTypeSection(encodedTypes)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotTypes, types) {
		t.Fatalf("got %+v, want %+v", gotTypes, types)
	}

	libs := []UnifiedExternalLibraryEntry{{Name: "libm", DependencyType: LibraryDependencyTypeSystem, LibraryDependency: []byte(`System`)}}
	encodedLibs, err := ConvertUnifiedExternalLibraryEntries(libs)
	if err != nil {
		t.Fatal(err)
	}
	gotLibs, err := ConvertUnifiedExternalLibrarySection(encodedLibs)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotLibs, libs) {
		t.Fatalf("got %+v, want %+v", gotLibs, libs)
	}

	fns := []UnifiedExternalFunctionEntry{{Name: "sqrt", LibraryIndex: 0, TypeIndex: 0}}
	encodedFns, err := ConvertUnifiedExternalFunctionEntries(fns)
	if err != nil {
		t.Fatal(err)
	}
	gotFns, err := ConvertUnifiedExternalFunctionSection(encodedFns)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(gotFns, fns) {
		t.Fatalf("got %+v, want %+v", gotFns, fns)
	}
}
