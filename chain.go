package fat16

import (
	"encoding/binary"
)

// FAT16 cluster-value sentinels (spec.md §4.3/GLOSSARY).
const (
	fatFreeCluster    = 0x0000
	fatMinDataCluster = 0x0002
	fatBadCluster     = 0xFFF7
	fatEndOfChainMin  = 0xFFF8
)

// ClusterChain is the ordered, finite, immutable sequence of cluster
// numbers belonging to one file, computed once at open time (spec §3).
type ClusterChain []uint16

// loadFAT reads the first copy of the FAT into memory, once, and caches
// it on the Volume (spec §4.3: "The FAT16 table is loaded once into
// memory ... and interpreted as a little-endian array of 16-bit
// entries"). Only the first FAT copy is ever read, matching spec.md §6.
func (v *Volume) loadFAT() ([]uint16, error) {
	if v.fatTable != nil {
		return v.fatTable, nil
	}

	byteSize := uint32(v.sectorsPerFAT) * uint32(v.bytesPerSector)
	raw := make([]byte, byteSize)
	if err := v.readVolumeSectors(v.firstFATSector, uint32(v.sectorsPerFAT), raw); err != nil {
		return nil, wrapErr(err, ErrIoError)
	}

	v.log.debugf("loaded FAT: %d bytes at volume sector %d", byteSize, v.firstFATSector)

	entries := make([]uint16, len(raw)/2)
	for i := range entries {
		entries[i] = binary.LittleEndian.Uint16(raw[i*2 : i*2+2])
	}

	v.fatTable = entries
	return entries, nil
}

// resolveChain walks the FAT starting at firstCluster and returns the
// ordered list of clusters belonging to the file, stopping just before
// the end-of-chain sentinel (spec §4.3). Unlike the original C
// implementation, this performs a single walk - spec §9 flags the
// source's two-pass approach (indexing the FAT array by the sentinel
// value itself before the real walk) as fragile and potentially OOB.
func (v *Volume) resolveChain(firstCluster uint16) (ClusterChain, error) {
	if firstCluster < fatMinDataCluster {
		return nil, ErrCorrupt
	}

	fat, err := v.loadFAT()
	if err != nil {
		return nil, err
	}

	chain := make(ClusterChain, 0, 1)
	current := firstCluster
	limit := v.totalClusters

	for step := uint32(0); ; step++ {
		if step > limit {
			return nil, ErrCorrupt
		}

		if current >= fatEndOfChainMin {
			break
		}
		if current == fatBadCluster {
			return nil, ErrCorrupt
		}
		if current < fatMinDataCluster {
			return nil, ErrCorrupt
		}
		if uint32(current) > v.totalClusters+1 {
			return nil, ErrCorrupt
		}

		chain = append(chain, current)

		if int(current) >= len(fat) {
			return nil, ErrCorrupt
		}
		current = fat[current]
	}

	return chain, nil
}
