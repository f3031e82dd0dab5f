//go:build !linux

package listing

import "os"

// Lookup stats path, following symlinks, and returns its metadata record.
// Link count and owner are not portable here; they are reported as 1 and
// empty.
func Lookup(path string) (FileInfo, error) {
	fi, err := os.Stat(path)
	if err != nil {
		return FileInfo{}, err
	}

	return FileInfo{
		Name:    fi.Name(),
		Mode:    fi.Mode(),
		Links:   1,
		Size:    fi.Size(),
		ModTime: fi.ModTime(),
	}, nil
}

// Transient reports whether a failed lookup is worth retrying.
func Transient(error) bool { return false }
