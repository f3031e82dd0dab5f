// Package listing enumerates a directory and gathers per-entry metadata
// (permissions, link count, owner, size, modification time) by running one
// stat lookup per entry on a pool.Pool.
//
// The caller gets a Report whose entries keep directory name order. A
// lookup that fails is kept as a failed Entry; only a directory that
// cannot be read or a pool that cannot be used fails the whole listing.
package listing
