package ancmod

import "fmt"

// LocalVariable is one slot in a function or block's frame.
type LocalVariable struct {
	MemoryType   MemoryDataType
	ActualLength uint32 // semantic size, e.g. 4 for an I32
	Align        uint32 // 4 for I32/F32, 8 for I64/F64, caller-chosen (<=8) for Bytes
}

// LocalVariableListEntry is the ordered local-variable layout for one
// function or block.
type LocalVariableListEntry struct {
	Variables []LocalVariable
}

// allocatedBytes returns the frame-byte total for this list: every
// variable's slot is 8-byte aligned and its size rounded up to a
// multiple of 8 (§3 invariant).
func (e LocalVariableListEntry) allocatedBytes() uint32 {
	var total uint32
	for _, v := range e.Variables {
		total += roundUp8(v.ActualLength)
	}
	return total
}

func roundUp8(n uint32) uint32 {
	return (n + 7) &^ 7
}

// localVariableListRecord is the outer per-function/block record: a
// slice [ListOffset, ListOffset+ListItemCount) into the section's flat
// pool of localVariableRecord, plus the precomputed frame-byte total.
type localVariableListRecord struct {
	ListOffset      uint32
	ListItemCount   uint32
	AllocatedBytes  uint32
}

// localVariableRecord is one {memory_type, actual_length, align}
// triple in the flat pool.
type localVariableRecord struct {
	MemoryType   uint8
	_            [3]byte
	ActualLength uint32
	Align        uint32
}

// ConvertLocalVariableEntries lays out a LocalVariable section: an
// outer table of per-function/block list descriptors, and a data area
// holding the flat concatenation of every list's inner records (§4.3).
func ConvertLocalVariableEntries(entries []LocalVariableListEntry) ([]byte, error) {
	outer := make([]localVariableListRecord, len(entries))
	var pool []localVariableRecord
	for i, e := range entries {
		outer[i] = localVariableListRecord{
			ListOffset:     uint32(len(pool)),
			ListItemCount:  uint32(len(e.Variables)),
			AllocatedBytes: e.allocatedBytes(),
		}
		for _, v := range e.Variables {
			if !v.MemoryType.Valid() {
				return nil, fmt.Errorf("ancmod: local variable entry %d has invalid memory type %d", i, v.MemoryType)
			}
			pool = append(pool, localVariableRecord{
				MemoryType:   uint8(v.MemoryType),
				ActualLength: v.ActualLength,
				Align:        v.Align,
			})
		}
	}

	poolBytes, err := encodeRecordPool(pool)
	if err != nil {
		return nil, err
	}
	return writeTableAndDataArea(outer, poolBytes)
}

// encodeRecordPool encodes items as raw concatenated records with no
// {count, reserved} header — used for a section's flat inner pool,
// whose count is tracked by the enclosing table instead.
func encodeRecordPool[R any](items []R) ([]byte, error) {
	b, err := writeTableAndDataArea(items, nil)
	if err != nil {
		return nil, err
	}
	return b[tableHeaderSize:], nil
}

// ConvertLocalVariableSection decodes a LocalVariable section's raw
// bytes into owned entries.
func ConvertLocalVariableSection(section []byte) ([]LocalVariableListEntry, error) {
	outer, data, err := readTableAndDataArea[localVariableListRecord](section)
	if err != nil {
		return nil, err
	}
	pool, err := readRecords[localVariableRecord](data, len(data)/recordSize[localVariableRecord]())
	if err != nil {
		return nil, err
	}

	entries := make([]LocalVariableListEntry, len(outer))
	for i, o := range outer {
		end := o.ListOffset + o.ListItemCount
		if uint32(len(pool)) < end {
			return nil, fmt.Errorf("%w: local variable list %d references pool index %d beyond pool size %d", ErrInvalidImage, i, end, len(pool))
		}
		vars := make([]LocalVariable, o.ListItemCount)
		for j, rec := range pool[o.ListOffset:end] {
			mt := MemoryDataType(rec.MemoryType)
			if !mt.Valid() {
				return nil, fmt.Errorf("%w: local variable memory type byte %d", ErrInvalidTag, rec.MemoryType)
			}
			vars[j] = LocalVariable{MemoryType: mt, ActualLength: rec.ActualLength, Align: rec.Align}
		}
		entries[i] = LocalVariableListEntry{Variables: vars}
	}
	return entries, nil
}
