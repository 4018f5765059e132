package fat16

import (
	"encoding/binary"
	"io"
	"testing"

	"github.com/xaionaro-go/bytesextra"
)

// testImageBuilder assembles a minimal, valid FAT16 image byte-for-byte so
// tests exercise the real decode path instead of mocking Volume's internals.
// Geometry is deliberately tiny: 512-byte sectors, 1 sector/cluster, one
// FAT copy, 16 root entries.
type testImageBuilder struct {
	bytesPerSector    uint16
	sectorsPerCluster uint8
	reservedSectors   uint16
	fatCount          uint8
	sectorsPerFAT     uint16
	maxRootEntries    uint16
	totalSectors      uint16

	volumeLabel [11]byte

	fat     []uint16
	entries []testDirEntry
	data    map[uint16][]byte // cluster number -> cluster contents
}

type testDirEntry struct {
	name         [8]byte
	ext          [3]byte
	attr         uint8
	firstCluster uint16
	size         uint32
}

func newTestImageBuilder() *testImageBuilder {
	b := &testImageBuilder{
		bytesPerSector:    512,
		sectorsPerCluster: 1,
		reservedSectors:   1,
		fatCount:          1,
		sectorsPerFAT:     1,
		maxRootEntries:    16,
		totalSectors:      64,
		fat:               []uint16{0xFFF8, 0xFFF8}, // slot 0 and 1 unused/reserved
		data:              map[uint16][]byte{},
	}
	for i := range b.volumeLabel {
		b.volumeLabel[i] = ' '
	}
	return b
}

// withLabel sets the boot sector's volume label field (real mkfs tools pad
// it with spaces, never NUL, which is why the zero-value builder above
// fills it with spaces rather than leaving it zeroed).
func (b *testImageBuilder) withLabel(label string) *testImageBuilder {
	for i := range b.volumeLabel {
		b.volumeLabel[i] = ' '
	}
	copy(b.volumeLabel[:], label)
	return b
}

func shortNameBytes(name string) ([8]byte, [3]byte) {
	var base [8]byte
	var ext [3]byte
	for i := range base {
		base[i] = ' '
	}
	for i := range ext {
		ext[i] = ' '
	}

	dot := -1
	for i, c := range name {
		if c == '.' {
			dot = i
			break
		}
	}

	baseStr := name
	extStr := ""
	if dot >= 0 {
		baseStr = name[:dot]
		extStr = name[dot+1:]
	}
	copy(base[:], baseStr)
	copy(ext[:], extStr)

	return base, ext
}

// addFile registers a file of the given name and contents, allocating as
// many clusters as needed and chaining them in the FAT.
func (b *testImageBuilder) addFile(name string, attr uint8, contents []byte) uint16 {
	clusterBytes := int(b.sectorsPerCluster) * int(b.bytesPerSector)

	var first uint16
	if len(contents) > 0 {
		chunks := (len(contents) + clusterBytes - 1) / clusterBytes
		clusters := make([]uint16, chunks)
		for i := 0; i < chunks; i++ {
			clusters[i] = uint16(len(b.fat))
			b.fat = append(b.fat, 0xFFFF)
		}
		for i, c := range clusters {
			start := i * clusterBytes
			end := start + clusterBytes
			buf := make([]byte, clusterBytes)
			if end > len(contents) {
				end = len(contents)
			}
			copy(buf, contents[start:end])
			b.data[c] = buf
			if i+1 < len(clusters) {
				b.fat[c] = clusters[i+1]
			} else {
				b.fat[c] = 0xFFFF // end-of-chain
			}
		}
		first = clusters[0]
	}

	base, ext := shortNameBytes(name)
	b.entries = append(b.entries, testDirEntry{
		name:         base,
		ext:          ext,
		attr:         attr,
		firstCluster: first,
		size:         uint32(len(contents)),
	})
	return first
}

// addRawFAT overwrites the FAT entry for cluster with value, for crafting
// corrupt images (e.g. a bad-cluster sentinel mid-chain).
func (b *testImageBuilder) addRawFAT(cluster uint16, value uint16) {
	for len(b.fat) <= int(cluster) {
		b.fat = append(b.fat, 0x0000)
	}
	b.fat[cluster] = value
}

func (b *testImageBuilder) rootDirSectors() uint32 {
	return ceilDiv(uint32(b.maxRootEntries)*rawDirEntrySize, uint32(b.bytesPerSector))
}

func (b *testImageBuilder) build(t *testing.T) []byte {
	t.Helper()

	image := make([]byte, int(b.totalSectors)*int(b.bytesPerSector))

	bs := make([]byte, bootSectorSize)
	binary.LittleEndian.PutUint16(bs[11:13], b.bytesPerSector)
	bs[13] = b.sectorsPerCluster
	binary.LittleEndian.PutUint16(bs[14:16], b.reservedSectors)
	bs[16] = b.fatCount
	binary.LittleEndian.PutUint16(bs[17:19], b.maxRootEntries)
	binary.LittleEndian.PutUint16(bs[19:21], b.totalSectors)
	binary.LittleEndian.PutUint16(bs[22:24], b.sectorsPerFAT)
	copy(bs[43:54], b.volumeLabel[:])
	binary.LittleEndian.PutUint16(bs[510:512], bootSectorSignature)
	copy(image[0:bootSectorSize], bs)

	fatStart := int(b.reservedSectors) * int(b.bytesPerSector)
	for i, v := range b.fat {
		off := fatStart + i*2
		binary.LittleEndian.PutUint16(image[off:off+2], v)
	}

	rootStart := (int(b.reservedSectors) + int(b.fatCount)*int(b.sectorsPerFAT)) * int(b.bytesPerSector)
	for i, e := range b.entries {
		off := rootStart + i*rawDirEntrySize
		copy(image[off:off+8], e.name[:])
		copy(image[off+8:off+11], e.ext[:])
		image[off+11] = e.attr
		binary.LittleEndian.PutUint16(image[off+26:off+28], e.firstCluster)
		binary.LittleEndian.PutUint32(image[off+28:off+32], e.size)
	}

	firstDataSector := uint32(b.reservedSectors) + uint32(b.fatCount)*uint32(b.sectorsPerFAT) + b.rootDirSectors()
	for cluster, contents := range b.data {
		first := firstDataSector + (uint32(cluster)-2)*uint32(b.sectorsPerCluster)
		off := int(first) * int(b.bytesPerSector)
		copy(image[off:off+len(contents)], contents)
	}

	return image
}

// openTestVolume builds the image and opens a Volume directly on top of an
// in-memory BlockDevice, for tests that don't need to craft their own
// geometry.
func (b *testImageBuilder) openTestVolume(t *testing.T) *Volume {
	t.Helper()

	raw := b.build(t)
	device, err := NewBlockDevice(newTestDevice(t, raw), int64(len(raw)), nil)
	if err != nil {
		t.Fatalf("NewBlockDevice: %v", err)
	}

	v, err := OpenVolume(device, 0)
	if err != nil {
		t.Fatalf("OpenVolume: %v", err)
	}
	return v
}

// newTestDevice wraps a raw in-memory image for use as a BlockDevice
// source, for tests that need to hand-craft image bytes directly.
func newTestDevice(t *testing.T, raw []byte) io.ReadWriteSeeker {
	t.Helper()
	return bytesextra.NewReadWriteSeeker(raw)
}

// openTestVolumeEmbedded builds the image prefixed with prefixSectors worth
// of unrelated filler (simulating, e.g., an MBR and its partition table),
// and opens a Volume whose boot sector starts right after that prefix - the
// same layout a volume embedded in a partitioned image would have.
func (b *testImageBuilder) openTestVolumeEmbedded(t *testing.T, prefixSectors uint32) *Volume {
	t.Helper()

	body := b.build(t)
	prefix := make([]byte, int(prefixSectors)*SectorSize)
	for i := range prefix {
		prefix[i] = 0xCC // distinct from any valid boot-sector byte, to catch offset bugs loudly
	}
	raw := append(prefix, body...)

	device, err := NewBlockDevice(newTestDevice(t, raw), int64(len(raw)), nil)
	if err != nil {
		t.Fatalf("NewBlockDevice: %v", err)
	}

	v, err := OpenVolume(device, prefixSectors)
	if err != nil {
		t.Fatalf("OpenVolume: %v", err)
	}
	return v
}
