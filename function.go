package ancmod

import "fmt"

// FunctionEntry is one function body: its signature, its local frame
// layout, and its raw bytecode (spec §3). Instructions are
// self-delimiting by opcode shape (§4.2); the code's length is carried
// at the section level, not inside the bytecode stream.
type FunctionEntry struct {
	TypeIndex              uint32
	LocalVariableListIndex uint32
	Code                   []byte
}

type functionRecord struct {
	TypeIndex              uint32
	LocalVariableListIndex uint32
	CodeOffset             uint32
	CodeLength             uint32
}

// ConvertFunctionEntries lays out a Function section's table-plus-
// data-area wire format, concatenating every function's code into the
// shared data area.
func ConvertFunctionEntries(entries []FunctionEntry) ([]byte, error) {
	records := make([]functionRecord, len(entries))
	var data []byte
	for i, e := range entries {
		records[i] = functionRecord{
			TypeIndex:              e.TypeIndex,
			LocalVariableListIndex: e.LocalVariableListIndex,
			CodeOffset:             uint32(len(data)),
			CodeLength:             uint32(len(e.Code)),
		}
		data = append(data, e.Code...)
	}
	return writeTableAndDataArea(records, data)
}

// ConvertFunctionSection decodes a Function section's raw bytes into
// owned entries. Each entry's Code is a fresh copy, not a view into
// section, so callers may retain it after section's buffer is freed.
func ConvertFunctionSection(section []byte) ([]FunctionEntry, error) {
	records, data, err := readTableAndDataArea[functionRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]FunctionEntry, len(records))
	for i, rec := range records {
		code, err := sliceData(data, rec.CodeOffset, rec.CodeLength)
		if err != nil {
			return nil, fmt.Errorf("%w: function %d code: %v", ErrInvalidImage, i, err)
		}
		owned := make([]byte, len(code))
		copy(owned, code)
		entries[i] = FunctionEntry{
			TypeIndex:              rec.TypeIndex,
			LocalVariableListIndex: rec.LocalVariableListIndex,
			Code:                   owned,
		}
	}
	return entries, nil
}

// FunctionCode returns a zero-copy view of function idx's bytecode
// directly from section, without materialising the whole table.
func FunctionCode(section []byte, idx uint32) ([]byte, error) {
	records, data, err := readTableAndDataArea[functionRecord](section)
	if err != nil {
		return nil, err
	}
	if int(idx) >= len(records) {
		return nil, fmt.Errorf("%w: function index %d out of range (%d entries)", ErrInvalidImage, idx, len(records))
	}
	rec := records[idx]
	return sliceData(data, rec.CodeOffset, rec.CodeLength)
}

// sliceData returns data[offset:offset+length], bounds-checked.
func sliceData(data []byte, offset, length uint32) ([]byte, error) {
	end := offset + length
	if end < offset || uint64(end) > uint64(len(data)) {
		return nil, fmt.Errorf("%w: range [%d:%d] outside data area of length %d", ErrInvalidImage, offset, end, len(data))
	}
	return data[offset:end], nil
}
