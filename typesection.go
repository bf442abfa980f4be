package ancmod

import "fmt"

// TypeEntry is a function signature: an ordered parameter list and an
// ordered result list.
type TypeEntry struct {
	Params  []DataType
	Results []DataType
}

// typeRecord is the Type section's 12-byte on-disk record. Params and
// results are each a 1-byte-per-DataType run in the section's shared
// data area; lengths fit a byte because no real signature carries more
// than 255 values either way.
type typeRecord struct {
	ParamsOffset  uint32
	ResultsOffset uint32
	ParamsLength  uint8
	ResultsLength uint8
	_             uint16
}

// ConvertTypeEntries lays out entries into the Type section's
// table-plus-data-area wire format.
func ConvertTypeEntries(entries []TypeEntry) ([]byte, error) {
	records := make([]typeRecord, len(entries))
	var data []byte
	for i, e := range entries {
		if len(e.Params) > 0xff || len(e.Results) > 0xff {
			return nil, fmt.Errorf("ancmod: type entry %d has more than 255 params or results", i)
		}
		records[i].ParamsOffset = uint32(len(data))
		records[i].ParamsLength = uint8(len(e.Params))
		for _, p := range e.Params {
			data = append(data, byte(p))
		}
		records[i].ResultsOffset = uint32(len(data))
		records[i].ResultsLength = uint8(len(e.Results))
		for _, r := range e.Results {
			data = append(data, byte(r))
		}
	}
	return writeTableAndDataArea(records, data)
}

// ConvertTypeSection decodes a Type section's raw bytes into owned
// entries (the "convert_to_entries" direction of §4.3).
func ConvertTypeSection(section []byte) ([]TypeEntry, error) {
	records, data, err := readTableAndDataArea[typeRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([]TypeEntry, len(records))
	for i, rec := range records {
		params, err := decodeDataTypeRun(data, rec.ParamsOffset, rec.ParamsLength)
		if err != nil {
			return nil, err
		}
		results, err := decodeDataTypeRun(data, rec.ResultsOffset, rec.ResultsLength)
		if err != nil {
			return nil, err
		}
		entries[i] = TypeEntry{Params: params, Results: results}
	}
	return entries, nil
}

func decodeDataTypeRun(data []byte, offset uint32, length uint8) ([]DataType, error) {
	end := uint32(offset) + uint32(length)
	if end > uint32(len(data)) {
		return nil, fmt.Errorf("%w: type run [%d:%d] outside data area of length %d", ErrInvalidImage, offset, end, len(data))
	}
	if length == 0 {
		return nil, nil
	}
	out := make([]DataType, length)
	for i, b := range data[offset:end] {
		dt := DataType(b)
		if !dt.Valid() {
			return nil, fmt.Errorf("%w: data type byte %d", ErrInvalidTag, b)
		}
		out[i] = dt
	}
	return out, nil
}

// GetTypeItemByIndex returns the type entry at idx, decoded from section
// without materialising the rest of the table.
func GetTypeItemByIndex(section []byte, idx uint32) (TypeEntry, error) {
	records, data, err := readTableAndDataArea[typeRecord](section)
	if err != nil {
		return TypeEntry{}, err
	}
	if int(idx) >= len(records) {
		return TypeEntry{}, fmt.Errorf("%w: type index %d out of range (%d entries)", ErrInvalidImage, idx, len(records))
	}
	rec := records[idx]
	params, err := decodeDataTypeRun(data, rec.ParamsOffset, rec.ParamsLength)
	if err != nil {
		return TypeEntry{}, err
	}
	results, err := decodeDataTypeRun(data, rec.ResultsOffset, rec.ResultsLength)
	if err != nil {
		return TypeEntry{}, err
	}
	return TypeEntry{Params: params, Results: results}, nil
}
