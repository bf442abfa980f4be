package ancmod

import (
	"bytes"
	"fmt"
	"io"
	"os"

	mmap "github.com/edsrzf/mmap-go"

	"github.com/ancore-lang/ancmod/internal/log"
)

// Options configures how an image is opened.
type Options struct {
	// Logger receives recoverable anomalies (e.g. a tolerated but
	// unknown section ID). Defaults to a filtered stderr logger at Warn
	// and above.
	Logger log.Logger
}

func (o *Options) helper() *log.Helper {
	if o == nil || o.Logger == nil {
		return log.Default
	}
	return log.NewHelper(o.Logger)
}

// Image is a decoded view over a module image. Section() returns
// zero-copy slices into the backing buffer; the Image (and, for
// Open, its underlying mmap) must be kept alive for as long as those
// slices, or any records materialised from them, are in use.
type Image struct {
	Type     ImageType
	Version  FormatVersion
	sections map[SectionID][]byte

	data []byte
	mm   mmap.MMap
	f    *os.File

	logger *log.Helper
}

// Open memory-maps the file at path read-only and decodes its section
// index.
func Open(path string, opts *Options) (*Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	data, err := mmap.Map(f, mmap.RDONLY, 0)
	if err != nil {
		f.Close()
		return nil, err
	}
	img, err := decodeImage(data, opts)
	if err != nil {
		data.Unmap()
		f.Close()
		return nil, err
	}
	img.mm = data
	img.f = f
	return img, nil
}

// OpenBytes decodes an image already held in memory. data is not
// copied; it must outlive the returned Image.
func OpenBytes(data []byte, opts *Options) (*Image, error) {
	return decodeImage(data, opts)
}

// Close releases the mmap backing an image opened with Open. It is a
// no-op for images opened with OpenBytes.
func (img *Image) Close() error {
	var err error
	if img.mm != nil {
		err = img.mm.Unmap()
		img.mm = nil
	}
	if img.f != nil {
		if cerr := img.f.Close(); err == nil {
			err = cerr
		}
		img.f = nil
	}
	return err
}

// Section returns the raw bytes of section id, or ok=false if the
// image does not carry it.
func (img *Image) Section(id SectionID) (data []byte, ok bool) {
	data, ok = img.sections[id]
	return
}

func decodeImage(data []byte, opts *Options) (*Image, error) {
	logger := opts.helper()

	imageType, version, err := readOuterHeader(data)
	if err != nil {
		return nil, err
	}

	indexSection, dataBlob, err := readTableAndDataArea[sectionIndexRecord](data[outerHeaderSize:])
	if err != nil {
		return nil, err
	}

	sections := make(map[SectionID][]byte, len(indexSection))
	for _, rec := range indexSection {
		end := rec.Offset + rec.Length
		if uint32(rec.Offset) > uint32(len(dataBlob)) || end < rec.Offset || end > uint32(len(dataBlob)) {
			return nil, fmt.Errorf("%w: section %d byte range out of bounds", ErrInvalidImage, rec.SectionID)
		}
		id := SectionID(rec.SectionID)
		if _, known := sectionIDNames[id]; !known {
			logger.Warnf("tolerating unknown section id %d in index table", rec.SectionID)
		}
		sections[id] = dataBlob[rec.Offset:end]
	}

	if err := checkSectionPresence(imageType, sections); err != nil {
		return nil, err
	}

	return &Image{
		Type:     imageType,
		Version:  version,
		sections: sections,
		data:     data,
		logger:   logger,
	}, nil
}

func checkSectionPresence(imageType ImageType, sections map[SectionID][]byte) error {
	for _, id := range requiredSections(imageType) {
		if _, ok := sections[id]; !ok {
			return fmt.Errorf("%w: %s required for %s images", ErrMissingSection, id, imageType)
		}
	}
	for _, id := range forbiddenSections(imageType) {
		if _, ok := sections[id]; ok {
			return fmt.Errorf("%w: %s must not appear in %s images", ErrInvalidImage, id, imageType)
		}
	}
	return nil
}

// SectionData pairs a section's ID with its already-encoded bytes, as
// produced by a section codec's writer.
type SectionData struct {
	ID   SectionID
	Data []byte
}

// Write assembles the section-index table and section-data blob and
// writes the full image (header included) to w, in canonical section
// order (§4.4). It validates the §3 presence rules for imageType
// before writing anything.
func Write(w io.Writer, imageType ImageType, version FormatVersion, sections []SectionData) error {
	byID := make(map[SectionID][]byte, len(sections))
	for _, s := range sections {
		byID[s.ID] = s.Data
	}
	if err := checkSectionPresence(imageType, byID); err != nil {
		return err
	}

	ordered := make([]SectionData, 0, len(sections))
	seen := make(map[SectionID]bool, len(sections))
	for _, id := range canonicalSectionOrder {
		if data, ok := byID[id]; ok {
			ordered = append(ordered, SectionData{ID: id, Data: data})
			seen[id] = true
		}
	}
	for _, s := range sections {
		if !seen[s.ID] {
			ordered = append(ordered, s)
		}
	}

	var blob bytes.Buffer
	index := make([]sectionIndexRecord, 0, len(ordered))
	for _, s := range ordered {
		offset := uint32(blob.Len())
		blob.Write(s.Data)
		blob.Write(padTo4(len(s.Data)))
		index = append(index, sectionIndexRecord{
			SectionID: uint32(s.ID),
			Offset:    offset,
			Length:    uint32(len(s.Data)),
		})
	}

	indexBytes, err := writeTableAndDataArea(index, nil)
	if err != nil {
		return err
	}

	if _, err := w.Write(writeOuterHeader(imageType, version)); err != nil {
		return err
	}
	if _, err := w.Write(indexBytes); err != nil {
		return err
	}
	_, err = w.Write(blob.Bytes())
	return err
}
