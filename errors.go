package ancmod

import (
	"errors"
	"fmt"
)

// Errors returned at the image boundary. Per spec §7 only two error
// kinds are observable from the outside (ErrInvalidImage and
// ErrRequireNewVersionRuntime). ErrBadMagic, ErrUnknownImageType,
// ErrMissingSection and ErrInvalidTag always reach callers wrapped with
// ErrInvalidImage, so callers that only check for the coarse kind with
// errors.Is still work, while callers that care about the precise cause
// can match the finer sentinel.
var (
	// ErrInvalidImage covers magic mismatch, a truncated buffer, a
	// required section absent for the declared image type, or a record
	// that would index outside its data area.
	ErrInvalidImage = errors.New("ancmod: invalid image")

	// ErrRequireNewVersionRuntime is returned when the on-disk format
	// version exceeds what this build supports.
	ErrRequireNewVersionRuntime = errors.New("ancmod: image requires a newer runtime")

	// ErrBadMagic is returned when the 8-byte file magic doesn't match
	// "ancmod\0\0".
	ErrBadMagic = errors.New("ancmod: bad file magic")

	// ErrUnknownImageType is returned when the image-type tag is outside
	// {Application, SharedModule, ObjectFile}.
	ErrUnknownImageType = errors.New("ancmod: unknown image type")

	// ErrMissingSection is returned when a section required by the
	// declared image type is absent from the section-index table.
	ErrMissingSection = fmt.Errorf("%w: missing required section", ErrInvalidImage)

	// ErrSectionNotPresent names an optional section that the image does
	// not carry. Image.Section reports that case with ok=false and does
	// not return this error.
	ErrSectionNotPresent = errors.New("ancmod: section not present in image")

	// ErrInvalidTag is returned when a 1-byte enum tag (Visibility,
	// DataSectionType, MemoryDataType, RelocateType) is out of range.
	ErrInvalidTag = fmt.Errorf("%w: invalid enum tag", ErrInvalidImage)

	// ErrUnknownOpcode names a 16-bit bytecode opcode that is not
	// recognised. The bytecode package's Decode reports that case with
	// its own bytecode.ErrUnknownOpcode, not with this value.
	ErrUnknownOpcode = errors.New("ancmod: unknown opcode")

	// ErrNoOpenBlock names closing a block while the control-flow stack
	// is empty. The bytecode package's Encoder.End reports that case
	// with its own plain error, not with this value.
	ErrNoOpenBlock = errors.New("ancmod: no open block to close")
)
