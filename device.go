package fat16

import (
	"io"
	"sync"

	"github.com/spf13/afero"
)

// SectorSize is the fixed addressable unit of a FAT image, regardless of
// the volume's own bytes-per-sector (spec: "the 512-byte unit is fixed
// regardless of bytes_per_sector, matching conventional MBR-style disk
// addressing; the Volume multiplies appropriately").
const SectorSize = 512

// sectorSource is the narrow interface BlockDevice actually needs from its
// backing store, and the seam mocked by gomock in tests that need to
// inject mid-stream I/O failures (spec §7 ErrIoError).
//
//go:generate mockgen -source=device.go -destination=mock_sectorsource_test.go -package=fat16
type sectorSource interface {
	io.ReadSeeker
}

// BlockDevice is a random-access, fixed-512-byte-sector reader over a raw
// image file. It is exclusively owned by at most one Volume (spec §3/§5).
// Every read seeks first, so calls are absolute regardless of whatever
// position a previous call left the source at. Each seek-then-read pair
// runs under a mutex, so concurrent ReadSectors calls never interleave
// on the source.
type BlockDevice struct {
	mu     sync.Mutex
	source sectorSource
	closer io.Closer
	size   int64
	log    *Logger
}

// OpenBlockDevice opens path read-only through the given afero filesystem.
// Using afero rather than os directly lets a BlockDevice be backed by a
// real file, an in-memory afero.MemMapFs fixture, or any other afero
// backend without changing a single line of the FAT decoder above it.
func OpenBlockDevice(fs afero.Fs, path string) (*BlockDevice, error) {
	if fs == nil || path == "" {
		return nil, ErrBadArgument
	}

	f, err := fs.Open(path)
	if err != nil {
		return nil, wrapErr(err, ErrNotFound)
	}

	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, wrapErr(err, ErrNotFound)
	}

	return &BlockDevice{
		source: f,
		closer: f,
		size:   info.Size(),
	}, nil
}

// NewBlockDevice wraps an already-open seekable byte source, e.g. an
// in-memory image built with github.com/xaionaro-go/bytesextra for tests.
// closer may be nil if the source needs no explicit teardown.
func NewBlockDevice(source io.ReadSeeker, size int64, closer io.Closer) (*BlockDevice, error) {
	if source == nil {
		return nil, ErrBadArgument
	}

	return &BlockDevice{
		source: source,
		closer: closer,
		size:   size,
	}, nil
}

// WithLogger attaches an optional diagnostic tracer. Returns the device
// itself for chaining at construction time.
func (d *BlockDevice) WithLogger(l *Logger) *BlockDevice {
	d.log = l
	return d
}

// ReadSectors reads count contiguous 512-byte sectors starting at
// firstSector into out, which must be at least 512*count bytes. The read
// is absolute, not relative to any prior position (spec §4.1).
func (d *BlockDevice) ReadSectors(firstSector uint32, count uint32, out []byte) (int, error) {
	if d == nil || out == nil {
		return 0, ErrBadArgument
	}

	want := int64(count) * SectorSize
	if int64(len(out)) < want {
		return 0, ErrBadArgument
	}

	start := int64(firstSector) * SectorSize
	end := start + want
	if count == 0 || start < 0 || end > d.size {
		return 0, ErrOutOfRange
	}

	d.mu.Lock()
	defer d.mu.Unlock()

	d.log.debugf("reading %d sector(s) starting at %d", count, firstSector)

	if _, err := d.source.Seek(start, io.SeekStart); err != nil {
		return 0, wrapErr(err, ErrIoError)
	}

	n, err := io.ReadFull(d.source, out[:want])
	if err != nil {
		return n, wrapErr(err, ErrIoError)
	}

	return int(count), nil
}

// Close releases the underlying file, if any. The caller must close every
// Volume built on top of this device first (spec §4.2 ownership note).
func (d *BlockDevice) Close() error {
	if d == nil || d.closer == nil {
		return nil
	}
	return d.closer.Close()
}
