package ancmod

import (
	"encoding/binary"
	"math"
	"reflect"
	"testing"
)

func le32(v uint32) []byte { b := make([]byte, 4); binary.LittleEndian.PutUint32(b, v); return b }
func le64(v uint64) []byte { b := make([]byte, 8); binary.LittleEndian.PutUint64(b, v); return b }

// TestDataSectionOffsetsS4 reproduces the S4 seed scenario from spec
// §8: eight data items of mixed type/alignment land at offsets
// [0, 8, 16, 24, 32, 40, 48, 56], every one an 8-byte-boundary
// multiple of max(align, 8).
func TestDataSectionOffsetsS4(t *testing.T) {
	entries := []DataEntry{
		{MemoryType: MemoryDataTypeI32, Bytes: le32(11), Length: 4, Align: 4},
		{MemoryType: MemoryDataTypeI64, Bytes: le64(13), Length: 8, Align: 8},
		{MemoryType: MemoryDataTypeBytes, Bytes: []byte("hello"), Length: 5, Align: 1},
		{MemoryType: MemoryDataTypeF32, Bytes: le32(math.Float32bits(3.14159)), Length: 4, Align: 4},
		{MemoryType: MemoryDataTypeF64, Bytes: le64(math.Float64bits(2.71828)), Length: 8, Align: 8},
		{MemoryType: MemoryDataTypeBytes, Bytes: []byte("foo"), Length: 3, Align: 8},
		{MemoryType: MemoryDataTypeI64, Bytes: le64(17), Length: 8, Align: 8},
		{MemoryType: MemoryDataTypeI32, Bytes: le32(19), Length: 4, Align: 4},
	}

	encoded, err := ConvertDataEntries(entries)
	if err != nil {
		t.Fatal(err)
	}

	records, _, err := readTableAndDataArea[dataRecord](encoded)
	if err != nil {
		t.Fatal(err)
	}
	want := []uint32{0, 8, 16, 24, 32, 40, 48, 56}
	for i, rec := range records {
		if rec.DataOffset != want[i] {
			t.Errorf("item %d offset = %d, want %d", i, rec.DataOffset, want[i])
		}
		if rec.DataOffset%effectiveAlign(uint32(rec.Align)) != 0 {
			t.Errorf("item %d offset %d is not a multiple of max(align,8)=%d", i, rec.DataOffset, effectiveAlign(uint32(rec.Align)))
		}
	}

	got, err := ConvertDataSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("round-trip mismatch:\n got  %+v\n want %+v", got, entries)
	}
}

func TestUninitDataRoundTrip(t *testing.T) {
	entries := []UninitDataEntry{
		{MemoryType: MemoryDataTypeI32, Length: 4, Align: 4},
		{MemoryType: MemoryDataTypeBytes, Length: 100, Align: 8},
	}
	encoded, err := ConvertUninitDataEntries(entries)
	if err != nil {
		t.Fatal(err)
	}
	got, err := ConvertUninitDataSection(encoded)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(got, entries) {
		t.Fatalf("round-trip mismatch:\n got  %+v\n want %+v", got, entries)
	}

	records, err := readOneTable[uninitDataRecord](encoded)
	if err != nil {
		t.Fatal(err)
	}
	if records[1].Offset%8 != 0 {
		t.Errorf("second uninit item offset %d not 8-aligned", records[1].Offset)
	}
}

func TestDataSectionInvalidMemoryType(t *testing.T) {
	encoded, err := ConvertDataEntries([]DataEntry{{MemoryType: MemoryDataTypeI32, Bytes: le32(1), Length: 4, Align: 4}})
	if err != nil {
		t.Fatal(err)
	}
	records, data, err := readTableAndDataArea[dataRecord](encoded)
	if err != nil {
		t.Fatal(err)
	}
	_ = records
	_ = data
	// Corrupt the record's memory-type byte.
	encoded[tableHeaderSize+8] = 0xff
	if _, err := ConvertDataSection(encoded); err == nil {
		t.Fatal("expected an invalid-tag error")
	}
}
