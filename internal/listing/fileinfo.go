package listing

import (
	"io/fs"
	"os/user"
	"strconv"
	"strings"
	"sync"
	"time"
)

// LastModifiedLayout is the time layout of the Last Modified column.
const LastModifiedLayout = "Mon 02 Jan 2006 at 15:04"

// FileInfo is the metadata record produced by one lookup.
type FileInfo struct {
	Name    string
	Mode    fs.FileMode
	Links   uint64
	UID     uint32
	Owner   string
	Size    int64
	ModTime time.Time
}

// IsDir reports whether the entry is a directory.
func (fi FileInfo) IsDir() bool { return fi.Mode.IsDir() }

// Permissions renders the mode as type plus three rwx triads, each group
// separated by a space: "d rwx r-x r-x".
func (fi FileInfo) Permissions() string {
	var b strings.Builder
	b.Grow(13)

	if fi.Mode.IsDir() {
		b.WriteByte('d')
	} else {
		b.WriteByte('-')
	}

	const rwx = "rwx"
	perm := fi.Mode.Perm()
	for shift := 6; shift >= 0; shift -= 3 {
		b.WriteByte(' ')
		bits := perm >> uint(shift)
		for i, c := range rwx {
			if bits&(1<<uint(2-i)) != 0 {
				b.WriteRune(c)
			} else {
				b.WriteByte('-')
			}
		}
	}
	return b.String()
}

// LastModified formats ModTime in local time.
func (fi FileInfo) LastModified() string {
	return fi.ModTime.Local().Format(LastModifiedLayout)
}

// owners caches uid to user name resolution; several workers may ask for
// the same uid at once.
var owners = struct {
	sync.Mutex
	names map[uint32]string
}{names: make(map[uint32]string)}

// ownerName resolves uid to a user name, falling back to the numeric id.
func ownerName(uid uint32) string {
	owners.Lock()
	name, ok := owners.names[uid]
	owners.Unlock()
	if ok {
		return name
	}

	id := strconv.FormatUint(uint64(uid), 10)
	name = id
	if u, err := user.LookupId(id); err == nil && u.Username != "" {
		name = u.Username
	}

	owners.Lock()
	owners.names[uid] = name
	owners.Unlock()
	return name
}
