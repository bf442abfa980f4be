package ancmod

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// moduleNameBufferSize is the fixed capacity of the Property section's
// module-name field; unused tail bytes are zero (§6).
const moduleNameBufferSize = 256

// propertyRecordSize is the Property section's fixed on-disk size: 8
// (edition) + 2+2+2+2 (version + pad) + 4 (name length) + 256 (name
// buffer).
const propertyRecordSize = 8 + 2 + 2 + 2 + 2 + 4 + moduleNameBufferSize

// Version is a module's semantic version (patch/minor/major).
type Version struct {
	Patch uint16
	Minor uint16
	Major uint16
}

// PropertyEntry is the module's single fixed-size identity record: a
// compiler edition tag, a semantic version, and the module's own name.
type PropertyEntry struct {
	Edition    [8]byte
	Version    Version
	ModuleName string
}

type propertyRecord struct {
	Edition         [8]byte
	VersionPatch    uint16
	VersionMinor    uint16
	VersionMajor    uint16
	Padding         uint16
	ModuleNameLen   uint32
	ModuleNameBytes [moduleNameBufferSize]byte
}

// EncodeProperty converts a PropertyEntry to its raw section bytes.
func EncodeProperty(e PropertyEntry) ([]byte, error) {
	if len(e.ModuleName) > moduleNameBufferSize {
		return nil, fmt.Errorf("ancmod: module name %q exceeds %d bytes", e.ModuleName, moduleNameBufferSize)
	}
	rec := propertyRecord{
		Edition:       e.Edition,
		VersionPatch:  e.Version.Patch,
		VersionMinor:  e.Version.Minor,
		VersionMajor:  e.Version.Major,
		ModuleNameLen: uint32(len(e.ModuleName)),
	}
	copy(rec.ModuleNameBytes[:], e.ModuleName)

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, rec); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// DecodeProperty parses a Property section's raw bytes into an entry.
func DecodeProperty(section []byte) (PropertyEntry, error) {
	if len(section) < propertyRecordSize {
		return PropertyEntry{}, fmt.Errorf("%w: property section shorter than %d bytes", ErrInvalidImage, propertyRecordSize)
	}
	var rec propertyRecord
	if err := binary.Read(bytes.NewReader(section[:propertyRecordSize]), binary.LittleEndian, &rec); err != nil {
		return PropertyEntry{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if rec.ModuleNameLen > moduleNameBufferSize {
		return PropertyEntry{}, fmt.Errorf("%w: module name length %d exceeds buffer", ErrInvalidImage, rec.ModuleNameLen)
	}
	return PropertyEntry{
		Edition:    rec.Edition,
		Version:    Version{Patch: rec.VersionPatch, Minor: rec.VersionMinor, Major: rec.VersionMajor},
		ModuleName: string(rec.ModuleNameBytes[:rec.ModuleNameLen]),
	}, nil
}
