package ancmod

import "fmt"

// RelocateEntry marks one patchable field inside a function's bytecode:
// offset_in_function names the byte where the field starts, kind says
// what index it holds (§3).
type RelocateEntry struct {
	OffsetInFunction uint32
	Kind             RelocateType
}

// RelocateListEntry groups every RelocateEntry belonging to one
// function (§4.3: "identical nesting to LocalVariable").
type RelocateListEntry struct {
	Entries []RelocateEntry
}

type relocateListRecord struct {
	ListOffset    uint32
	ListItemCount uint32
}

type relocateRecord struct {
	OffsetInFunction uint32
	Kind             uint8
	_                [3]byte
}

// ConvertRelocateEntries lays out a Relocate section: an outer table of
// per-function list descriptors over a flat pool of inner records.
func ConvertRelocateEntries(entries []RelocateListEntry) ([]byte, error) {
	outer := make([]relocateListRecord, len(entries))
	var pool []relocateRecord
	for i, e := range entries {
		outer[i] = relocateListRecord{
			ListOffset:    uint32(len(pool)),
			ListItemCount: uint32(len(e.Entries)),
		}
		for _, r := range e.Entries {
			if !r.Kind.Valid() {
				return nil, fmt.Errorf("ancmod: relocate entry %d has invalid kind %d", i, r.Kind)
			}
			pool = append(pool, relocateRecord{
				OffsetInFunction: r.OffsetInFunction,
				Kind:             uint8(r.Kind),
			})
		}
	}

	poolBytes, err := encodeRecordPool(pool)
	if err != nil {
		return nil, err
	}
	return writeTableAndDataArea(outer, poolBytes)
}

// ConvertRelocateSection decodes a Relocate section's raw bytes into
// owned entries.
func ConvertRelocateSection(section []byte) ([]RelocateListEntry, error) {
	outer, data, err := readTableAndDataArea[relocateListRecord](section)
	if err != nil {
		return nil, err
	}
	pool, err := readRecords[relocateRecord](data, len(data)/recordSize[relocateRecord]())
	if err != nil {
		return nil, err
	}

	entries := make([]RelocateListEntry, len(outer))
	for i, o := range outer {
		end := o.ListOffset + o.ListItemCount
		if uint32(len(pool)) < end {
			return nil, fmt.Errorf("%w: relocate list %d references pool index %d beyond pool size %d", ErrInvalidImage, i, end, len(pool))
		}
		var list []RelocateEntry
		if o.ListItemCount > 0 {
			list = make([]RelocateEntry, o.ListItemCount)
		}
		for j, rec := range pool[o.ListOffset:end] {
			kind := RelocateType(rec.Kind)
			if !kind.Valid() {
				return nil, fmt.Errorf("%w: relocate kind byte %d", ErrInvalidTag, rec.Kind)
			}
			list[j] = RelocateEntry{OffsetInFunction: rec.OffsetInFunction, Kind: kind}
		}
		entries[i] = RelocateListEntry{Entries: list}
	}
	return entries, nil
}
