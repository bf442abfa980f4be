package ancmod

import "fmt"

// DataEntry is one item of a ReadOnlyData or ReadWriteData section: a
// byte payload plus the memory type and alignment the VM needs to
// interpret it.
type DataEntry struct {
	MemoryType MemoryDataType
	Bytes      []byte
	Length     uint32 // semantic length; may be < len(Bytes) is never true in practice, but kept distinct from len(Bytes) to mirror the source's explicit field
	Align      uint32
}

// UninitDataEntry is the zero-initialized analogue of DataEntry: same
// layout rules, but no payload bytes are stored on disk.
type UninitDataEntry struct {
	MemoryType MemoryDataType
	Length     uint32
	Align      uint32
}

// effectiveAlign is the minimum boundary an item's offset must land
// on: max(align, 8) — every data item is at least 8-byte aligned
// regardless of its own declared alignment (§3 invariant).
func effectiveAlign(align uint32) uint32 {
	if align < 8 {
		return 8
	}
	return align
}

// roundUpTo rounds n up to the next multiple of align (align a power
// of two).
func roundUpTo(n, align uint32) uint32 {
	return (n + align - 1) &^ (align - 1)
}

type dataRecord struct {
	DataOffset uint32
	DataLength uint32
	MemoryType uint8
	Align      uint8
	_          uint16
}

// layoutDataOffsets assigns each item an offset satisfying §3's data
// alignment invariant: offset_i is a multiple of max(align_i, 8), and
// item i+1's offset is at least item i's offset + length (§8 property
// 6). Padding bytes between items are left zero by the caller
// (data is grown to the computed size and never explicitly written
// in the gaps).
func layoutDataOffsets(lengths, aligns []uint32) []uint32 {
	offsets := make([]uint32, len(lengths))
	var cursor uint32
	for i := range lengths {
		a := effectiveAlign(aligns[i])
		offsets[i] = roundUpTo(cursor, a)
		cursor = offsets[i] + lengths[i]
	}
	return offsets
}

// ConvertDataEntries lays out a ReadOnlyData or ReadWriteData
// section's table-plus-data-area wire format.
func ConvertDataEntries(entries []DataEntry) ([]byte, error) {
	lengths := make([]uint32, len(entries))
	aligns := make([]uint32, len(entries))
	for i, e := range entries {
		if !e.MemoryType.Valid() {
			return nil, fmt.Errorf("ancmod: data entry %d has invalid memory type %d", i, e.MemoryType)
		}
		lengths[i] = e.Length
		aligns[i] = e.Align
	}
	offsets := layoutDataOffsets(lengths, aligns)

	records := make([]dataRecord, len(entries))
	var data []byte
	for i, e := range entries {
		if uint32(len(data)) < offsets[i] {
			data = append(data, make([]byte, offsets[i]-uint32(len(data)))...)
		}
		records[i] = dataRecord{
			DataOffset: offsets[i],
			DataLength: e.Length,
			MemoryType: uint8(e.MemoryType),
			Align:      uint8(e.Align),
		}
		data = append(data, e.Bytes...)
		if pad := int(e.Length) - len(e.Bytes); pad > 0 {
			data = append(data, make([]byte, pad)...)
		}
	}
	return writeTableAndDataArea(records, data)
}

// ConvertDataSection decodes a ReadOnlyData or ReadWriteData section's
// raw bytes into owned entries.
func ConvertDataSection(section []byte) ([]DataEntry, error) {
	records, data, err := readTableAndDataArea[dataRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]DataEntry, len(records))
	for i, rec := range records {
		mt := MemoryDataType(rec.MemoryType)
		if !mt.Valid() {
			return nil, fmt.Errorf("%w: data memory type byte %d", ErrInvalidTag, rec.MemoryType)
		}
		b, err := sliceData(data, rec.DataOffset, rec.DataLength)
		if err != nil {
			return nil, fmt.Errorf("%w: data item %d: %v", ErrInvalidImage, i, err)
		}
		owned := make([]byte, len(b))
		copy(owned, b)
		entries[i] = DataEntry{MemoryType: mt, Bytes: owned, Length: rec.DataLength, Align: uint32(rec.Align)}
	}
	return entries, nil
}

// uninitDataRecord is the UninitData section's single-table record: no
// payload bytes, only the position within the zero-initialized segment
// that the loader must reserve.
type uninitDataRecord struct {
	Offset     uint32
	Length     uint32
	MemoryType uint8
	Align      uint8
	_          uint16
}

// ConvertUninitDataEntries lays out an UninitData section: a
// single-table, no-data-area section (§4.3) whose "offsets" are
// positions within a segment the loader zero-fills at load time.
func ConvertUninitDataEntries(entries []UninitDataEntry) ([]byte, error) {
	lengths := make([]uint32, len(entries))
	aligns := make([]uint32, len(entries))
	for i, e := range entries {
		if !e.MemoryType.Valid() {
			return nil, fmt.Errorf("ancmod: uninit data entry %d has invalid memory type %d", i, e.MemoryType)
		}
		lengths[i] = e.Length
		aligns[i] = e.Align
	}
	offsets := layoutDataOffsets(lengths, aligns)

	records := make([]uninitDataRecord, len(entries))
	for i, e := range entries {
		records[i] = uninitDataRecord{
			Offset:     offsets[i],
			Length:     e.Length,
			MemoryType: uint8(e.MemoryType),
			Align:      uint8(e.Align),
		}
	}
	return writeOneTable(records)
}

// ConvertUninitDataSection decodes an UninitData section's raw bytes
// into owned entries.
func ConvertUninitDataSection(section []byte) ([]UninitDataEntry, error) {
	records, err := readOneTable[uninitDataRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]UninitDataEntry, len(records))
	for i, rec := range records {
		mt := MemoryDataType(rec.MemoryType)
		if !mt.Valid() {
			return nil, fmt.Errorf("%w: uninit data memory type byte %d", ErrInvalidTag, rec.MemoryType)
		}
		entries[i] = UninitDataEntry{MemoryType: mt, Length: rec.Length, Align: uint32(rec.Align)}
	}
	return entries, nil
}
