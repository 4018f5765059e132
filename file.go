package fat16

import (
	"io"
)

// File is a read-only handle onto one root-directory file (spec §3/§4.5).
// It borrows its Volume and owns a ClusterChain; the cursor is kept as
// (chainIndex, clusterOffset) exactly as spec.md's file_t describes it.
type File struct {
	volume *Volume
	name   string
	size   uint32
	chain  ClusterChain

	chainIndex    int
	clusterOffset int
	endOfFile     bool
	closed        bool
}

// OpenFile scans the root directory for name and opens it for reading
// (spec §4.5). Opening a directory or volume-label entry fails with
// ErrIsDirectory. Zero-length files are openable; reading one returns 0
// elements without ever touching the FAT.
func OpenFile(v *Volume, name string) (*File, error) {
	if v == nil || name == "" {
		return nil, ErrBadArgument
	}

	raw, entry, err := v.findRootEntry(name)
	if err != nil {
		return nil, err
	}

	if entry.IsDir || raw.isVolumeLabel() {
		return nil, ErrIsDirectory
	}

	f := &File{
		volume:    v,
		name:      entry.Name,
		size:      entry.Size,
		endOfFile: entry.Size == 0,
	}

	if entry.Size > 0 {
		chain, err := v.resolveChain(raw.firstCluster())
		if err != nil {
			return nil, err
		}
		f.chain = chain
	}

	return f, nil
}

// Name returns the file's decoded 8.3 short name.
func (f *File) Name() string {
	return f.name
}

// Size returns the file's size in bytes, as recorded in its directory
// entry.
func (f *File) Size() int64 {
	return int64(f.size)
}

func (f *File) logicalOffset() int64 {
	return int64(f.chainIndex)*int64(f.volume.clusterBytes()) + int64(f.clusterOffset)
}

// ReadElements reads up to elemCount contiguous elements of elemSize
// bytes into out, exactly mirroring spec §4.6 (modeled on C's fread):
// an element straddling end-of-file is copied out but not counted toward
// the returned element count, and end_of_file becomes sticky from then
// on. The cursor advances to reflect every byte actually delivered,
// including the uncounted partial final element.
func (f *File) ReadElements(out []byte, elemSize int, elemCount int) (int, error) {
	if f == nil || f.closed {
		return 0, ErrBadArgument
	}
	if out == nil || elemSize <= 0 || elemCount <= 0 {
		return 0, ErrBadArgument
	}
	if len(out) < elemSize*elemCount {
		return 0, ErrBadArgument
	}

	if f.endOfFile {
		return 0, nil
	}

	elementsRead := 0
	written := 0

	for i := 0; i < elemCount; i++ {
		remaining := int64(f.size) - f.logicalOffset()
		if remaining <= 0 {
			f.endOfFile = true
			break
		}

		toCopy := elemSize
		partial := false
		if int64(toCopy) > remaining {
			toCopy = int(remaining)
			partial = true
		}

		n, err := f.readBytes(out[written : written+toCopy])
		written += n
		if err != nil {
			return elementsRead, err
		}
		if n < toCopy {
			// A short read below what was requested without an explicit
			// error shouldn't happen once the chain is resolved, but if
			// it does, stop here and report what was actually delivered.
			break
		}

		if partial {
			f.endOfFile = true
			break
		}

		elementsRead++
	}

	return elementsRead, nil
}

// readBytes copies exactly len(dst) bytes starting at the file's current
// cursor, fetching clusters through the chain transparently as it
// crosses cluster boundaries, and advances the cursor by what it copied.
func (f *File) readBytes(dst []byte) (int, error) {
	written := 0

	for written < len(dst) {
		if f.chainIndex >= len(f.chain) {
			return written, ErrCorrupt
		}

		cluster := f.chain[f.chainIndex]
		buf, err := f.volume.readCluster(cluster)
		if err != nil {
			return written, err
		}

		avail := len(buf) - f.clusterOffset
		n := len(dst) - written
		if n > avail {
			n = avail
		}

		copy(dst[written:written+n], buf[f.clusterOffset:f.clusterOffset+n])
		written += n
		f.clusterOffset += n

		if f.clusterOffset >= len(buf) {
			f.clusterOffset = 0
			f.chainIndex++
		}
	}

	return written, nil
}

// Read implements io.Reader in terms of ReadElements with a 1-byte
// element size, so File can be used anywhere a plain byte stream is
// expected (e.g. io.Copy) while still honoring the exact end-of-file
// bookkeeping spec.md describes.
func (f *File) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}

	n, err := f.ReadElements(p, 1, len(p))
	if err != nil {
		return n, err
	}
	if n == 0 {
		return 0, io.EOF
	}
	return n, nil
}

// Seek repositions the cursor (spec §4.7). whence follows io.Seek*
// conventions (SET/CUR/END). Seeking strictly below size clears
// end_of_file; seeking to exactly size leaves the file positioned so the
// next read reports 0.
func (f *File) Seek(offset int64, whence int) (int64, error) {
	if f == nil || f.closed {
		return 0, ErrBadArgument
	}

	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = f.logicalOffset() + offset
	case io.SeekEnd:
		target = int64(f.size) + offset
	default:
		return 0, ErrBadArgument
	}

	if target < 0 || target > int64(f.size) {
		return 0, ErrOutOfRange
	}

	clusterBytes := int64(f.volume.clusterBytes())
	if clusterBytes == 0 {
		f.chainIndex, f.clusterOffset = 0, 0
	} else {
		f.chainIndex = int(target / clusterBytes)
		f.clusterOffset = int(target % clusterBytes)
	}

	f.endOfFile = target >= int64(f.size)

	return target, nil
}

// Close releases the handle. Further reads or seeks fail with
// ErrBadArgument.
func (f *File) Close() error {
	if f == nil {
		return ErrBadArgument
	}
	f.closed = true
	return nil
}
