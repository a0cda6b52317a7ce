// Package registry implements persistence for Instance records.
//
// The FileRepository keeps every known instance in a single JSON array file and
// rewrites it in full on each mutation, through a temporary file and a rename
// so a reader never sees a partial write. The mutex only serialises callers
// inside one process: two slapaman processes mutating the same file race and
// the last writer wins.
package registry
