package ancmod

import (
	"bytes"
	"errors"
	"reflect"
	"testing"
)

func minimalSections(t *testing.T) []SectionData {
	t.Helper()
	property, err := EncodeProperty(PropertyEntry{Edition: [8]byte{1}, Version: Version{Major: 1}, ModuleName: "probe"})
	if err != nil {
		t.Fatal(err)
	}
	typeSec, err := ConvertTypeEntries([]TypeEntry{{Params: []DataType{DataTypeI32}, Results: []DataType{DataTypeI32}}})
	if err != nil {
		t.Fatal(err)
	}
	localVar, err := ConvertLocalVariableEntries([]LocalVariableListEntry{{Variables: []LocalVariable{{MemoryType: MemoryDataTypeI32, ActualLength: 4, Align: 4}}}})
	if err != nil {
		t.Fatal(err)
	}
	fn, err := ConvertFunctionEntries([]FunctionEntry{{TypeIndex: 0, LocalVariableListIndex: 0, Code: []byte{0x00, 0x01}}})
	if err != nil {
		t.Fatal(err)
	}
	return []SectionData{
		{ID: SectionIDProperty, Data: property},
		{ID: SectionIDType, Data: typeSec},
		{ID: SectionIDLocalVariable, Data: localVar},
		{ID: SectionIDFunction, Data: fn},
	}
}

// TestImageRoundTripObjectFile reproduces §8 property 2 for an
// ObjectFile image carrying only its required sections.
func TestImageRoundTripObjectFile(t *testing.T) {
	sections := minimalSections(t)

	var buf bytes.Buffer
	if err := Write(&buf, ImageTypeObjectFile, FormatVersion{Major: 1}, sections); err != nil {
		t.Fatal(err)
	}

	img, err := OpenBytes(buf.Bytes(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if img.Type != ImageTypeObjectFile {
		t.Fatalf("type = %v, want ObjectFile", img.Type)
	}
	for _, want := range sections {
		got, ok := img.Section(want.ID)
		if !ok {
			t.Fatalf("section %v missing from decoded image", want.ID)
		}
		if !reflect.DeepEqual(got, want.Data) {
			t.Fatalf("section %v mismatch: got %v, want %v", want.ID, got, want.Data)
		}
	}
}

func TestImageApplicationRequiresEntryPointAndLinkingModule(t *testing.T) {
	sections := minimalSections(t)

	var buf bytes.Buffer
	err := Write(&buf, ImageTypeApplication, FormatVersion{Major: 1}, sections)
	if err == nil {
		t.Fatal("expected missing-section error for an Application image lacking EntryPoint/FunctionIndex/LinkingModule")
	}
}

func TestImageApplicationForbidsImportModule(t *testing.T) {
	sections := minimalSections(t)
	entry, err := ConvertEntryPointEntries([]EntryPointEntry{{UnitName: "", FunctionPublicIndex: 0}})
	if err != nil {
		t.Fatal(err)
	}
	fnIndex, err := ConvertFunctionIndexEntries([][]FunctionIndexItem{{{TargetModuleIndex: 0, FunctionInternalIndex: 0}}})
	if err != nil {
		t.Fatal(err)
	}
	linking, err := ConvertLinkingModuleEntries([]LinkingModuleEntry{{Name: "main", Location: []byte(`Embed`)}})
	if err != nil {
		t.Fatal(err)
	}
	importModule, err := ConvertImportModuleEntries([]ImportModuleEntry{{Name: "other", ModuleDependency: []byte(`Runtime`)}})
	if err != nil {
		t.Fatal(err)
	}
	sections = append(sections,
		SectionData{ID: SectionIDEntryPoint, Data: entry},
		SectionData{ID: SectionIDFunctionIndex, Data: fnIndex},
		SectionData{ID: SectionIDLinkingModule, Data: linking},
		SectionData{ID: SectionIDImportModule, Data: importModule},
	)

	var buf bytes.Buffer
	if err := Write(&buf, ImageTypeApplication, FormatVersion{Major: 1}, sections); err == nil {
		t.Fatal("expected a forbidden-section error for ImportModule in an Application image")
	}
}

// TestImageObjectFileForbidsUnifiedExternalFunction mirrors
// TestImageApplicationForbidsImportModule for the opposite direction:
// the linker-synthesized unified/index sections must never appear in
// an ObjectFile or SharedModule image (§3).
func TestImageObjectFileForbidsUnifiedExternalFunction(t *testing.T) {
	sections := minimalSections(t)
	unifiedFn, err := ConvertUnifiedExternalFunctionEntries([]UnifiedExternalFunctionEntry{{Name: "f", LibraryIndex: 0, TypeIndex: 0}})
	if err != nil {
		t.Fatal(err)
	}
	sections = append(sections, SectionData{ID: SectionIDUnifiedExternalFunction, Data: unifiedFn})

	var buf bytes.Buffer
	if err := Write(&buf, ImageTypeObjectFile, FormatVersion{Major: 1}, sections); err == nil {
		t.Fatal("expected a forbidden-section error for UnifiedExternalFunction in an ObjectFile image")
	}
}

func TestImageApplicationRoundTrip(t *testing.T) {
	sections := minimalSections(t)
	entry, err := ConvertEntryPointEntries([]EntryPointEntry{{UnitName: "", FunctionPublicIndex: 0}})
	if err != nil {
		t.Fatal(err)
	}
	fnIndex, err := ConvertFunctionIndexEntries([][]FunctionIndexItem{{{TargetModuleIndex: 0, FunctionInternalIndex: 0}}})
	if err != nil {
		t.Fatal(err)
	}
	linking, err := ConvertLinkingModuleEntries([]LinkingModuleEntry{{Name: "main", Location: []byte(`Embed`)}})
	if err != nil {
		t.Fatal(err)
	}
	sections = append(sections,
		SectionData{ID: SectionIDEntryPoint, Data: entry},
		SectionData{ID: SectionIDFunctionIndex, Data: fnIndex},
		SectionData{ID: SectionIDLinkingModule, Data: linking},
	)

	var buf bytes.Buffer
	if err := Write(&buf, ImageTypeApplication, FormatVersion{Major: 1}, sections); err != nil {
		t.Fatal(err)
	}

	img, err := OpenBytes(buf.Bytes(), nil)
	if err != nil {
		t.Fatal(err)
	}
	mainModule, ok := MainModule(mustSection(t, img, SectionIDLinkingModule))
	if !ok || mainModule.Name != "main" {
		t.Fatalf("main module = %+v, ok=%v", mainModule, ok)
	}
	ep, ok := FindEntryPoint(mustSection(t, img, SectionIDEntryPoint), "")
	if !ok || ep != 0 {
		t.Fatalf("default entry point = %d, ok=%v", ep, ok)
	}
}

func mustSection(t *testing.T, img *Image, id SectionID) []byte {
	t.Helper()
	data, ok := img.Section(id)
	if !ok {
		t.Fatalf("section %v missing", id)
	}
	return data
}

func TestImageRejectsBadMagic(t *testing.T) {
	sections := minimalSections(t)
	var buf bytes.Buffer
	if err := Write(&buf, ImageTypeObjectFile, FormatVersion{Major: 1}, sections); err != nil {
		t.Fatal(err)
	}
	corrupted := buf.Bytes()
	corrupted[0] = 'X'
	_, err := OpenBytes(corrupted, nil)
	if err == nil {
		t.Fatal("expected a bad-magic error")
	}
	if !errors.Is(err, ErrInvalidImage) {
		t.Fatalf("expected errors.Is(err, ErrInvalidImage), got %v", err)
	}
	if !errors.Is(err, ErrBadMagic) {
		t.Fatalf("expected errors.Is(err, ErrBadMagic), got %v", err)
	}
}
