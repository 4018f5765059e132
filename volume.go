package fat16

import (
	"fmt"
	"strings"

	"github.com/hashicorp/go-multierror"
)

// Volume holds a decoded FAT16 boot sector plus the geometry derived from
// it (spec.md §3). It does not take ownership of the BlockDevice it was
// opened from: the caller must close every Volume before closing the
// device it was built on.
type Volume struct {
	device      *BlockDevice
	firstSector uint32
	log         *Logger

	bytesPerSector      uint16
	sectorsPerCluster   uint8
	reservedSectors     uint16
	fatCount            uint8
	sectorsPerFAT       uint16
	maxRootEntries      uint16
	totalSectors        uint32
	label               string

	firstFATSector   uint32
	rootDirSectors   uint32
	firstRootSector  uint32
	firstDataSector  uint32
	totalClusters    uint32

	fatTable []uint16 // loaded lazily, once, and reused (spec §4.3/§5)
}

// OpenVolume parses the boot sector at firstSector (a 512-byte sector
// index on device, usually 0 for a partition-less image) and computes the
// derived geometry. It fails with ErrInvalidFormat if the signature does
// not match or the geometry is impossible.
func OpenVolume(device *BlockDevice, firstSector uint32) (*Volume, error) {
	if device == nil {
		return nil, ErrBadArgument
	}

	raw := make([]byte, bootSectorSize)
	if _, err := device.ReadSectors(firstSector, 1, raw); err != nil {
		return nil, wrapErr(err, ErrInvalidFormat)
	}

	bs, err := decodeBootSector(raw)
	if err != nil {
		return nil, wrapErr(err, ErrInvalidFormat)
	}

	v := &Volume{
		device:              device,
		firstSector:         firstSector,
		bytesPerSector:      bs.BytesPerSector,
		sectorsPerCluster:   bs.SectorsPerCluster,
		reservedSectors:     bs.ReservedSectorCount,
		fatCount:            bs.FATCount,
		sectorsPerFAT:       bs.SectorsPerFAT,
		maxRootEntries:      bs.MaxRootEntries,
		label:               strings.TrimRight(string(bs.VolumeLabel[:]), " "),
	}

	if bs.TotalSectorsSmall != 0 {
		v.totalSectors = uint32(bs.TotalSectorsSmall)
	} else {
		v.totalSectors = bs.TotalSectorsLarge
	}

	v.rootDirSectors = ceilDiv(uint32(v.maxRootEntries)*rawDirEntrySize, uint32(v.bytesPerSector))
	v.firstFATSector = uint32(v.reservedSectors)
	v.firstRootSector = uint32(v.reservedSectors) + uint32(v.fatCount)*uint32(v.sectorsPerFAT)
	v.firstDataSector = v.firstRootSector + v.rootDirSectors
	if v.sectorsPerCluster != 0 {
		v.totalClusters = v.totalSectors / uint32(v.sectorsPerCluster)
	}

	if err := v.validate(bs); err != nil {
		return nil, wrapErr(err, ErrInvalidFormat)
	}

	return v, nil
}

// validate folds every boot-sector/geometry invariant check into a single
// combined error (via hashicorp/go-multierror) instead of stopping at the
// first broken field, so a caller diagnosing a bad image sees everything
// wrong with it at once.
func (v *Volume) validate(bs bootSector) error {
	var result *multierror.Error

	if bs.Signature != bootSectorSignature {
		result = multierror.Append(result, fmt.Errorf("boot sector signature 0x%04X, want 0x%04X", bs.Signature, bootSectorSignature))
	}

	switch v.bytesPerSector {
	case 512, 1024, 2048, 4096:
	default:
		result = multierror.Append(result, fmt.Errorf("invalid bytes per sector: %d", v.bytesPerSector))
	}

	clusterBytes := uint32(v.sectorsPerCluster) * uint32(v.bytesPerSector)
	if v.sectorsPerCluster == 0 || v.sectorsPerCluster&(v.sectorsPerCluster-1) != 0 {
		result = multierror.Append(result, fmt.Errorf("sectors per cluster is not a power of two: %d", v.sectorsPerCluster))
	} else if clusterBytes > 32*1024 {
		result = multierror.Append(result, fmt.Errorf("cluster size exceeds 32 KiB: %d bytes", clusterBytes))
	}

	if v.reservedSectors == 0 {
		result = multierror.Append(result, fmt.Errorf("reserved sector count is zero"))
	}

	if v.fatCount < 1 {
		result = multierror.Append(result, fmt.Errorf("FAT count is zero"))
	}

	if v.firstDataSector >= v.totalSectors {
		result = multierror.Append(result, fmt.Errorf("first data sector %d is not before total sectors %d", v.firstDataSector, v.totalSectors))
	}

	if v.totalClusters == 0 {
		result = multierror.Append(result, fmt.Errorf("volume has zero data clusters"))
	}

	return result.ErrorOrNil()
}

// Label returns the volume label with trailing padding removed.
func (v *Volume) Label() string {
	return v.label
}

// WithLogger attaches an optional diagnostic tracer.
func (v *Volume) WithLogger(l *Logger) *Volume {
	v.log = l
	return v
}

// clusterBytes is the size, in bytes, of one cluster - the allocation
// unit for file data (spec GLOSSARY).
func (v *Volume) clusterBytes() uint32 {
	return uint32(v.sectorsPerCluster) * uint32(v.bytesPerSector)
}

// physicalSectorsPerVolumeSector converts from the volume's own logical
// sector size to the BlockDevice's fixed 512-byte physical sectors.
func (v *Volume) physicalSectorsPerVolumeSector() uint32 {
	return uint32(v.bytesPerSector) / SectorSize
}

// readVolumeSectors reads count contiguous logical (bytesPerSector-sized)
// sectors starting at volume-relative sector number first, translating to
// the BlockDevice's fixed 512-byte addressing and offsetting by the
// volume's own base sector on the device (spec §4.2: a volume need not
// start at device sector 0, e.g. one embedded past a partition table).
func (v *Volume) readVolumeSectors(first uint32, count uint32, out []byte) error {
	perVolumeSector := v.physicalSectorsPerVolumeSector()
	physicalFirst := v.firstSector + first*perVolumeSector
	physicalCount := count * perVolumeSector

	_, err := v.device.ReadSectors(physicalFirst, physicalCount, out)
	return err
}

// firstSectorOfCluster returns the volume-relative sector number where
// cluster begins (spec §4.6 address translation).
func (v *Volume) firstSectorOfCluster(cluster uint16) uint32 {
	return v.firstDataSector + (uint32(cluster)-2)*uint32(v.sectorsPerCluster)
}

// readCluster fetches one whole cluster's worth of data into a fresh
// scratch buffer (spec §4.6: "A whole cluster is read at a time").
func (v *Volume) readCluster(cluster uint16) ([]byte, error) {
	buf := make([]byte, v.clusterBytes())
	first := v.firstSectorOfCluster(cluster)
	if err := v.readVolumeSectors(first, uint32(v.sectorsPerCluster), buf); err != nil {
		return nil, wrapErr(err, ErrIoError)
	}
	return buf, nil
}

// readRootDirBytes reads the whole root directory region into one buffer.
// The root directory in FAT16 is a fixed-size run of sectors outside the
// cluster-chained data area (spec §3/§4.8), so this bypasses the FAT
// entirely.
func (v *Volume) readRootDirBytes() ([]byte, error) {
	buf := make([]byte, v.rootDirSectors*uint32(v.bytesPerSector))
	if err := v.readVolumeSectors(v.firstRootSector, v.rootDirSectors, buf); err != nil {
		return nil, wrapErr(err, ErrIoError)
	}
	return buf, nil
}

// rootDirEntryAt decodes the slot-th (0-based) 32-byte directory entry out
// of a buffer previously returned by readRootDirBytes.
func (v *Volume) rootDirEntryAt(buf []byte, slot int) (rawDirEntry, error) {
	start := slot * rawDirEntrySize
	end := start + rawDirEntrySize
	if end > len(buf) {
		return rawDirEntry{}, ErrOutOfRange
	}
	return decodeRawDirEntry(buf[start:end])
}

// findRootEntry scans the root directory from slot 0 for a name matching
// name byte-for-byte (spec §4.4: "Compare the decoded name byte-for-byte
// against the caller's requested name for file-open"), stopping at the
// first free (0x00) slot - root directories are never compacted, so
// nothing valid follows a free marker (spec §9/original_source).
func (v *Volume) findRootEntry(name string) (rawDirEntry, DirEntry, error) {
	buf, err := v.readRootDirBytes()
	if err != nil {
		return rawDirEntry{}, DirEntry{}, err
	}

	for slot := 0; slot < int(v.maxRootEntries); slot++ {
		raw, err := v.rootDirEntryAt(buf, slot)
		if err != nil {
			return rawDirEntry{}, DirEntry{}, err
		}

		if raw.Name[0] == nameFree {
			break
		}
		if raw.Name[0] == nameDeleted || raw.Name[0] == nameDotEntry {
			continue
		}

		entry := newDirEntry(raw)
		if entry.Name == name {
			return raw, entry, nil
		}
	}

	return rawDirEntry{}, DirEntry{}, ErrNotFound
}

// Close is a no-op placeholder kept for symmetry with BlockDevice.Close
// and File/Directory.Close: Volume owns no resource that outlives the
// device it borrows (its FAT-table cache is just a slice).
func (v *Volume) Close() error {
	return nil
}

func ceilDiv(a, b uint32) uint32 {
	return (a + b - 1) / b
}
