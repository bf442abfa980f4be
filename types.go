package ancmod

import "fmt"

// DataType is a value type carried on the VM's operand stack and used
// in type signatures and local-variable lists.
type DataType uint8

// DataType values, encoded as a single byte.
const (
	DataTypeI32 DataType = 0
	DataTypeI64 DataType = 1
	DataTypeF32 DataType = 2
	DataTypeF64 DataType = 3
)

func (t DataType) String() string {
	switch t {
	case DataTypeI32:
		return "i32"
	case DataTypeI64:
		return "i64"
	case DataTypeF32:
		return "f32"
	case DataTypeF64:
		return "f64"
	default:
		return fmt.Sprintf("datatype(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the four defined data types.
func (t DataType) Valid() bool {
	return t <= DataTypeF64
}

// MemoryDataType extends DataType with a fifth variant for byte
// bundles (structs, fixed-size blobs) that have no scalar VM type.
type MemoryDataType uint8

// MemoryDataType values, encoded as a single byte.
const (
	MemoryDataTypeI32   MemoryDataType = 0
	MemoryDataTypeI64   MemoryDataType = 1
	MemoryDataTypeF32   MemoryDataType = 2
	MemoryDataTypeF64   MemoryDataType = 3
	MemoryDataTypeBytes MemoryDataType = 4
)

func (t MemoryDataType) String() string {
	switch t {
	case MemoryDataTypeI32:
		return "i32"
	case MemoryDataTypeI64:
		return "i64"
	case MemoryDataTypeF32:
		return "f32"
	case MemoryDataTypeF64:
		return "f64"
	case MemoryDataTypeBytes:
		return "bytes"
	default:
		return fmt.Sprintf("memorydatatype(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the five defined memory data types.
func (t MemoryDataType) Valid() bool {
	return t <= MemoryDataTypeBytes
}

// Visibility tags a name-bearing export record as private (internal
// linkage only) or public (visible across module boundaries).
type Visibility uint8

// Visibility values.
const (
	VisibilityPrivate Visibility = 0
	VisibilityPublic  Visibility = 1
)

func (v Visibility) String() string {
	switch v {
	case VisibilityPrivate:
		return "private"
	case VisibilityPublic:
		return "public"
	default:
		return fmt.Sprintf("visibility(%d)", uint8(v))
	}
}

// Valid reports whether v is Private or Public.
func (v Visibility) Valid() bool {
	return v <= VisibilityPublic
}

// DataSectionType discriminates which of the three data sections a
// data item lives in.
type DataSectionType uint8

// DataSectionType values.
const (
	DataSectionTypeReadOnly  DataSectionType = 0
	DataSectionTypeReadWrite DataSectionType = 1
	DataSectionTypeUninit    DataSectionType = 2
)

func (t DataSectionType) String() string {
	switch t {
	case DataSectionTypeReadOnly:
		return "read_only"
	case DataSectionTypeReadWrite:
		return "read_write"
	case DataSectionTypeUninit:
		return "uninit"
	default:
		return fmt.Sprintf("datasectiontype(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the three defined data section
// types.
func (t DataSectionType) Valid() bool {
	return t <= DataSectionTypeUninit
}

// RelocateType identifies what an instruction's patched field refers
// to, for a single relocation record.
type RelocateType uint8

// RelocateType values.
const (
	RelocateTypeTypeIndex              RelocateType = 0
	RelocateTypeLocalVariableListIndex RelocateType = 1
	RelocateTypeFunctionPublicIndex    RelocateType = 2
	RelocateTypeExternalFunctionIndex  RelocateType = 3
	RelocateTypeDataPublicIndex        RelocateType = 4
)

func (t RelocateType) String() string {
	switch t {
	case RelocateTypeTypeIndex:
		return "type_index"
	case RelocateTypeLocalVariableListIndex:
		return "local_variable_list_index"
	case RelocateTypeFunctionPublicIndex:
		return "function_public_index"
	case RelocateTypeExternalFunctionIndex:
		return "external_function_index"
	case RelocateTypeDataPublicIndex:
		return "data_public_index"
	default:
		return fmt.Sprintf("relocatetype(%d)", uint8(t))
	}
}

// Valid reports whether t is one of the five defined relocation kinds.
func (t RelocateType) Valid() bool {
	return t <= RelocateTypeDataPublicIndex
}

// ImageType is the outer tag discriminating the three kinds of image.
type ImageType uint16

// ImageType values.
const (
	ImageTypeApplication  ImageType = 0
	ImageTypeSharedModule ImageType = 1
	ImageTypeObjectFile   ImageType = 2
)

func (t ImageType) String() string {
	switch t {
	case ImageTypeApplication:
		return "application"
	case ImageTypeSharedModule:
		return "shared_module"
	case ImageTypeObjectFile:
		return "object_file"
	default:
		return fmt.Sprintf("imagetype(%d)", uint16(t))
	}
}

// Valid reports whether t is one of the three defined image types.
func (t ImageType) Valid() bool {
	return t <= ImageTypeObjectFile
}

// LibraryDependencyType tags how an ExternalLibraryEntry resolves its
// native library at link time.
type LibraryDependencyType uint8

// LibraryDependencyType values.
const (
	LibraryDependencyTypeLocal   LibraryDependencyType = 0
	LibraryDependencyTypeRemote  LibraryDependencyType = 1
	LibraryDependencyTypeShare   LibraryDependencyType = 2
	LibraryDependencyTypeSystem  LibraryDependencyType = 3
)

func (t LibraryDependencyType) Valid() bool {
	return t <= LibraryDependencyTypeSystem
}
