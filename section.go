package ancmod

import "fmt"

// SectionID enumerates every section kind this format defines. Unknown
// IDs found in an image's section-index table are tolerated by readers
// (forward compatibility, §4.4) but never produced by this writer.
type SectionID uint32

// Section IDs. Values are stable across format versions; new sections
// must be appended, never inserted.
const (
	SectionIDProperty SectionID = iota
	SectionIDType
	SectionIDLocalVariable
	SectionIDFunction
	SectionIDReadOnlyData
	SectionIDReadWriteData
	SectionIDUninitData
	SectionIDImportModule
	SectionIDImportFunction
	SectionIDImportData
	SectionIDExportFunction
	SectionIDExportData
	SectionIDRelocate
	SectionIDExternalLibrary
	SectionIDExternalFunction
	SectionIDEntryPoint
	SectionIDLinkingModule
	SectionIDFunctionIndex
	SectionIDDataIndex
	SectionIDUnifiedExternalType
	SectionIDUnifiedExternalLibrary
	SectionIDUnifiedExternalFunction
	SectionIDExternalFunctionIndex
)

var sectionIDNames = map[SectionID]string{
	SectionIDProperty:                "property",
	SectionIDType:                    "type",
	SectionIDLocalVariable:           "local_variable",
	SectionIDFunction:                "function",
	SectionIDReadOnlyData:            "read_only_data",
	SectionIDReadWriteData:           "read_write_data",
	SectionIDUninitData:              "uninit_data",
	SectionIDImportModule:            "import_module",
	SectionIDImportFunction:          "import_function",
	SectionIDImportData:              "import_data",
	SectionIDExportFunction:          "export_function",
	SectionIDExportData:              "export_data",
	SectionIDRelocate:                "relocate",
	SectionIDExternalLibrary:         "external_library",
	SectionIDExternalFunction:        "external_function",
	SectionIDEntryPoint:              "entry_point",
	SectionIDLinkingModule:           "linking_module",
	SectionIDFunctionIndex:           "function_index",
	SectionIDDataIndex:               "data_index",
	SectionIDUnifiedExternalType:     "unified_external_type",
	SectionIDUnifiedExternalLibrary:  "unified_external_library",
	SectionIDUnifiedExternalFunction: "unified_external_function",
	SectionIDExternalFunctionIndex:   "external_function_index",
}

func (id SectionID) String() string {
	if n, ok := sectionIDNames[id]; ok {
		return n
	}
	return fmt.Sprintf("section(%d)", uint32(id))
}

// canonicalSectionOrder is the order sections are emitted in when
// writing a body (§4.4). Readers do not depend on this order — they
// dispatch through the section-index table — but the writer always
// produces it, so image round-tripping (§8 property 2) is
// byte-for-byte stable.
var canonicalSectionOrder = []SectionID{
	SectionIDProperty,
	SectionIDType,
	SectionIDLocalVariable,
	SectionIDFunction,
	SectionIDReadOnlyData,
	SectionIDReadWriteData,
	SectionIDUninitData,
	SectionIDImportModule,
	SectionIDImportFunction,
	SectionIDImportData,
	SectionIDExportFunction,
	SectionIDExportData,
	SectionIDRelocate,
	SectionIDExternalLibrary,
	SectionIDExternalFunction,
	SectionIDEntryPoint,
	SectionIDLinkingModule,
	SectionIDFunctionIndex,
	SectionIDDataIndex,
	SectionIDUnifiedExternalType,
	SectionIDUnifiedExternalLibrary,
	SectionIDUnifiedExternalFunction,
	SectionIDExternalFunctionIndex,
}

// requiredSections reports which sections §3's presence table demands
// for a given image type.
func requiredSections(t ImageType) []SectionID {
	switch t {
	case ImageTypeApplication:
		return []SectionID{
			SectionIDProperty, SectionIDType, SectionIDLocalVariable, SectionIDFunction,
			SectionIDEntryPoint, SectionIDFunctionIndex, SectionIDLinkingModule,
		}
	default: // ObjectFile, SharedModule
		return []SectionID{
			SectionIDProperty, SectionIDType, SectionIDLocalVariable, SectionIDFunction,
		}
	}
}

// forbiddenSections reports sections that must never appear for a
// given image type (§3: ImportModule/Function/Data are "no" for
// Application, resolved away by the linker; EntryPoint/FunctionIndex/
// DataIndex/LinkingModule/UnifiedExternalType/UnifiedExternalLibrary/
// UnifiedExternalFunction/ExternalFunctionIndex are "no" for
// ObjectFile/SharedModule — they only exist once the linker has
// synthesized a unified namespace, which an object file hasn't got).
func forbiddenSections(t ImageType) []SectionID {
	switch t {
	case ImageTypeApplication:
		return []SectionID{SectionIDImportModule, SectionIDImportFunction, SectionIDImportData}
	default:
		return []SectionID{
			SectionIDEntryPoint, SectionIDLinkingModule, SectionIDFunctionIndex, SectionIDDataIndex,
			SectionIDUnifiedExternalType, SectionIDUnifiedExternalLibrary,
			SectionIDUnifiedExternalFunction, SectionIDExternalFunctionIndex,
		}
	}
}

// sectionIndexRecord is one entry of the section-index table: the
// section's ID and its byte range within the concatenated section-data
// blob.
type sectionIndexRecord struct {
	SectionID uint32
	Offset    uint32
	Length    uint32
}
