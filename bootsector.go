package fat16

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
)

// bootSectorSize is the on-disk size of the boot sector / BPB, always one
// 512-byte sector regardless of the volume's own bytesPerSector (it has
// to be, or nothing could bootstrap the rest of the geometry).
const bootSectorSize = 512

// bootSector mirrors the packed, little-endian BIOS Parameter Block laid
// out in spec.md §6. Field order and widths match the byte offsets there
// exactly; restruct decodes it without any manual offset arithmetic.
type bootSector struct {
	JumpBoot            [3]byte
	OEMName             [8]byte
	BytesPerSector      uint16
	SectorsPerCluster   uint8
	ReservedSectorCount uint16
	FATCount            uint8
	MaxRootEntries      uint16
	TotalSectorsSmall   uint16
	Media               uint8
	SectorsPerFAT       uint16
	SectorsPerTrack     uint16
	NumberOfHeads       uint16
	HiddenSectors       uint32
	TotalSectorsLarge   uint32

	// FAT16-specific extended BPB (offsets 36-62), not required to derive
	// geometry but kept to surface the volume label (supplements the
	// distilled spec.md, which drops it; the original C struct carries
	// the same fields under fat_super_t).
	DriveNumber  uint8
	Reserved1    uint8
	BootSig      uint8
	SerialNumber uint32
	VolumeLabel  [11]byte
	FSTypeLabel  [8]byte

	_ [448]byte // offsets 62..510, unused by this reader

	Signature uint16
}

const bootSectorSignature = 0xAA55

func decodeBootSector(raw []byte) (bootSector, error) {
	var bs bootSector
	if len(raw) < bootSectorSize {
		return bootSector{}, ErrBadArgument
	}

	if err := restruct.Unpack(raw[:bootSectorSize], binary.LittleEndian, &bs); err != nil {
		return bootSector{}, err
	}

	return bs, nil
}
