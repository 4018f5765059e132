package fat16

// rootPath is the only directory path this reader accepts (spec §9 Open
// Question: subdirectory traversal is a Non-goal, so the root is
// addressed the same way the original C driver's caller always did).
const rootPath = `\`

// Directory iterates the fixed-size root directory region one live entry
// at a time (spec §4.8). There is no subdirectory traversal: opening
// anything but the root path fails with ErrNotFound.
type Directory struct {
	volume *Volume
	buf    []byte
	slot   int
	closed bool
}

// OpenDir opens path for iteration. Only the root path is supported.
func OpenDir(v *Volume, path string) (*Directory, error) {
	if v == nil {
		return nil, ErrBadArgument
	}
	if path != rootPath {
		return nil, ErrNotFound
	}

	buf, err := v.readRootDirBytes()
	if err != nil {
		return nil, err
	}

	return &Directory{volume: v, buf: buf}, nil
}

// ReadEntry decodes the next live entry into *out and returns 0, skipping
// deleted (0xE5) slots and the "." /".." bookkeeping entries, and stopping
// at the first free (0x00) slot the same way findRootEntry does. It
// returns 1, nil once the directory is exhausted and rewinds the cursor
// to the start so a subsequent call starts over (spec §4.8: dir_read
// returns 0 when an entry is produced, 1 at end of directory - the
// inverse of the usual "1 means success" convention, kept as specified).
func (d *Directory) ReadEntry(out *DirEntry) (int, error) {
	if d == nil || d.closed || out == nil {
		return 0, ErrBadArgument
	}

	for d.slot < int(d.volume.maxRootEntries) {
		raw, err := d.volume.rootDirEntryAt(d.buf, d.slot)
		if err != nil {
			return 0, err
		}
		d.slot++

		if raw.Name[0] == nameFree {
			break
		}
		if raw.Name[0] == nameDeleted || raw.Name[0] == nameDotEntry {
			continue
		}

		*out = newDirEntry(raw)
		return 0, nil
	}

	d.slot = 0
	return 1, nil
}

// Close releases the handle. Further reads fail with ErrBadArgument.
func (d *Directory) Close() error {
	if d == nil {
		return ErrBadArgument
	}
	d.closed = true
	return nil
}
