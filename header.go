package ancmod

import (
	"bytes"
	"encoding/binary"
	"fmt"
)

// Magic is the fixed 8-byte identifier every image begins with.
var Magic = [8]byte{'a', 'n', 'c', 'm', 'o', 'd', 0, 0}

// outerHeaderSize is the fixed size of the header preceding the body.
const outerHeaderSize = 16

// FormatVersion is the minor/major pair carried in the outer header.
type FormatVersion struct {
	Minor uint16
	Major uint16
}

// Combined returns major<<16|minor, the form used to compare against a
// runtime's supported version.
func (v FormatVersion) Combined() uint32 {
	return uint32(v.Major)<<16 | uint32(v.Minor)
}

// SupportedVersion is the highest format version this build can read.
var SupportedVersion = FormatVersion{Major: 1, Minor: 0}

// outerHeader mirrors the on-disk 16-byte envelope header.
type outerHeader struct {
	Magic             [8]byte
	ImageType         uint16
	ExtraHeaderLength uint16
	VersionMinor      uint16
	VersionMajor      uint16
}

func writeOuterHeader(imageType ImageType, version FormatVersion) []byte {
	h := outerHeader{
		Magic:        Magic,
		ImageType:    uint16(imageType),
		VersionMinor: version.Minor,
		VersionMajor: version.Major,
	}
	var buf bytes.Buffer
	// binary.Write never fails on a fixed-size value written to a
	// bytes.Buffer.
	_ = binary.Write(&buf, binary.LittleEndian, h)
	return buf.Bytes()
}

func readOuterHeader(buf []byte) (ImageType, FormatVersion, error) {
	if len(buf) < outerHeaderSize {
		return 0, FormatVersion{}, fmt.Errorf("%w: buffer shorter than outer header", ErrInvalidImage)
	}
	var h outerHeader
	if err := binary.Read(bytes.NewReader(buf[:outerHeaderSize]), binary.LittleEndian, &h); err != nil {
		return 0, FormatVersion{}, fmt.Errorf("%w: %v", ErrInvalidImage, err)
	}
	if h.Magic != Magic {
		return 0, FormatVersion{}, fmt.Errorf("%w: %w", ErrInvalidImage, ErrBadMagic)
	}
	imageType := ImageType(h.ImageType)
	if !imageType.Valid() {
		return 0, FormatVersion{}, fmt.Errorf("%w: %w", ErrInvalidImage, ErrUnknownImageType)
	}
	version := FormatVersion{Minor: h.VersionMinor, Major: h.VersionMajor}
	if version.Combined() > SupportedVersion.Combined() {
		return 0, FormatVersion{}, ErrRequireNewVersionRuntime
	}
	return imageType, version, nil
}
