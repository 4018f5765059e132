package fat16

import (
	"encoding/binary"
	"strings"
	"time"

	"github.com/go-restruct/restruct"
)

// Attribute flags, spec §4.4.
const (
	AttrReadOnly  = 0x01
	AttrHidden    = 0x02
	AttrSystem    = 0x04
	AttrVolumeID  = 0x08
	AttrDirectory = 0x10
	AttrArchive   = 0x20
)

// Status-byte sentinels for name[0], spec §3/§4.4.
const (
	nameFree      = 0x00
	nameDeleted   = 0xE5
	nameDotEntry  = 0x2E
	escapedE5Char = 0x05 // first real byte of a name that is legitimately 0xE5
)

const rawDirEntrySize = 32

// rawDirEntry mirrors the packed, 32-byte, little-endian on-disk
// directory entry from spec.md §3/§6, field-for-field.
type rawDirEntry struct {
	Name            [8]byte
	Ext             [3]byte
	Attribute       uint8
	NTReserved      uint8
	CreateTimeTenth uint8
	CreateTime      uint16
	CreateDate      uint16
	LastAccessDate  uint16
	FirstClusterHI  uint16
	WriteTime       uint16
	WriteDate       uint16
	FirstClusterLO  uint16
	FileSize        uint32
}

func decodeRawDirEntry(raw []byte) (rawDirEntry, error) {
	var e rawDirEntry
	if len(raw) < rawDirEntrySize {
		return rawDirEntry{}, ErrBadArgument
	}

	if err := restruct.Unpack(raw[:rawDirEntrySize], binary.LittleEndian, &e); err != nil {
		return rawDirEntry{}, err
	}

	return e, nil
}

// firstCluster returns the entry's starting cluster. FAT16 ignores the
// high word of the first-cluster field (spec §4.5).
func (e rawDirEntry) firstCluster() uint16 {
	return e.FirstClusterLO
}

func (e rawDirEntry) isDirectory() bool {
	return e.Attribute&AttrDirectory == AttrDirectory
}

func (e rawDirEntry) isVolumeLabel() bool {
	return e.Attribute&AttrVolumeID == AttrVolumeID
}

// shortName decodes the 8.3 name per spec §4.4: right-padded BASE and EXT
// are trimmed of trailing ASCII spaces, the dot is omitted when EXT is
// entirely spaces, and the initial byte is corrected for the one legal
// collision with the deleted-entry sentinel. Case is preserved as stored
// - this intentionally does not special-case "non-alphabetic" characters
// the way the original C decoder does (spec §9: that conflates padding
// with non-alphabetic and mishandles digits in names).
func (e rawDirEntry) shortName() string {
	name := e.Name
	if name[0] == escapedE5Char {
		name[0] = nameDeleted
	}

	base := strings.TrimRight(string(name[:]), " ")
	ext := strings.TrimRight(string(e.Ext[:]), " ")

	if ext == "" {
		return base
	}

	return base + "." + ext
}

// DirEntry is the decoded, public view of a root-directory slot, as
// returned by Directory.ReadEntry.
type DirEntry struct {
	Name       string
	Size       uint32
	IsArchive  bool
	IsReadOnly bool
	IsSystem   bool
	IsHidden   bool
	IsDir      bool

	// CreateTime and ModTime supplement spec.md's dir_entry_t (which only
	// carries name/size/attributes): the original C struct neighbors
	// (my_time_t/date_t) decode these same bytes but the distillation
	// never surfaces them. A zero value means the on-disk stamp was
	// itself all-zero/invalid, see ParseDate/ParseTime.
	CreateTime time.Time
	ModTime    time.Time

	firstCluster uint16
}

func newDirEntry(e rawDirEntry) DirEntry {
	return DirEntry{
		Name:         e.shortName(),
		Size:         e.FileSize,
		IsArchive:    e.Attribute&AttrArchive == AttrArchive,
		IsReadOnly:   e.Attribute&AttrReadOnly == AttrReadOnly,
		IsSystem:     e.Attribute&AttrSystem == AttrSystem,
		IsHidden:     e.Attribute&AttrHidden == AttrHidden,
		IsDir:        e.isDirectory(),
		CreateTime:   combineDateTime(e.CreateDate, parseTimeWithTenths(e.CreateTime, e.CreateTimeTenth)),
		ModTime:      combineDateTime(e.WriteDate, e.WriteTime),
		firstCluster: e.firstCluster(),
	}
}
