package ancmod

import "fmt"

// DataIndexItem resolves one data_public_index, within the current
// module, to the module, data section, and internal offset that
// actually defines it (§3). Same range/item shape as FunctionIndex,
// plus a DataSectionType discriminator (§4.5).
type DataIndexItem struct {
	TargetModuleIndex     uint32
	TargetDataSectionType DataSectionType
	DataInternalIndex     uint32
}

type dataIndexItemRecord struct {
	TargetModuleIndex     uint32
	TargetDataSectionType uint8
	_                     [3]byte
	DataInternalIndex     uint32
}

// ConvertDataIndexEntries lays out the DataIndex section from a
// per-module list of items, mirroring ConvertFunctionIndexEntries.
func ConvertDataIndexEntries(entries [][]DataIndexItem) ([]byte, error) {
	ranges := make([]rangeRecord, len(entries))
	var items []dataIndexItemRecord
	for m, list := range entries {
		ranges[m] = rangeRecord{Offset: uint32(len(items)), Count: uint32(len(list))}
		for _, it := range list {
			if !it.TargetDataSectionType.Valid() {
				return nil, fmt.Errorf("ancmod: data index module %d has invalid data section type %d", m, it.TargetDataSectionType)
			}
			items = append(items, dataIndexItemRecord{
				TargetModuleIndex:     it.TargetModuleIndex,
				TargetDataSectionType: uint8(it.TargetDataSectionType),
				DataInternalIndex:     it.DataInternalIndex,
			})
		}
	}
	return writeTwoTables(ranges, items)
}

// ConvertDataIndexSection decodes a DataIndex section back into its
// per-module grouping.
func ConvertDataIndexSection(section []byte) ([][]DataIndexItem, error) {
	ranges, items, err := readTwoTables[rangeRecord, dataIndexItemRecord](section)
	if err != nil {
		return nil, err
	}
	entries := make([][]DataIndexItem, len(ranges))
	for m, r := range ranges {
		end := r.Offset + r.Count
		if uint32(len(items)) < end {
			return nil, fmt.Errorf("%w: data index range %d [%d:%d] beyond item table size %d", ErrInvalidImage, m, r.Offset, end, len(items))
		}
		list := make([]DataIndexItem, r.Count)
		for j, it := range items[r.Offset:end] {
			dst := DataSectionType(it.TargetDataSectionType)
			if !dst.Valid() {
				return nil, fmt.Errorf("%w: data index section type byte %d", ErrInvalidTag, it.TargetDataSectionType)
			}
			list[j] = DataIndexItem{
				TargetModuleIndex:     it.TargetModuleIndex,
				TargetDataSectionType: dst,
				DataInternalIndex:     it.DataInternalIndex,
			}
		}
		entries[m] = list
	}
	return entries, nil
}

// ResolveDataPublicIndex looks up module moduleIndex's entry
// publicIndex.
func ResolveDataPublicIndex(section []byte, moduleIndex, publicIndex uint32) (DataIndexItem, error) {
	ranges, items, err := readTwoTables[rangeRecord, dataIndexItemRecord](section)
	if err != nil {
		return DataIndexItem{}, err
	}
	if int(moduleIndex) >= len(ranges) {
		return DataIndexItem{}, fmt.Errorf("%w: module index %d out of range (%d modules)", ErrInvalidImage, moduleIndex, len(ranges))
	}
	r := ranges[moduleIndex]
	if publicIndex >= r.Count {
		return DataIndexItem{}, fmt.Errorf("%w: data public index %d out of range (%d entries)", ErrInvalidImage, publicIndex, r.Count)
	}
	it := items[r.Offset+publicIndex]
	dst := DataSectionType(it.TargetDataSectionType)
	if !dst.Valid() {
		return DataIndexItem{}, fmt.Errorf("%w: data index section type byte %d", ErrInvalidTag, it.TargetDataSectionType)
	}
	return DataIndexItem{TargetModuleIndex: it.TargetModuleIndex, TargetDataSectionType: dst, DataInternalIndex: it.DataInternalIndex}, nil
}
