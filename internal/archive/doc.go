// Package archive bundles the regular files of a staging directory into a
// single zip archive and hands it to a delivery function.
//
// Every archive is created under a unique temporary name, so concurrent
// bundle requests never share a path. The archive (and any parts it was split
// into) is removed once delivery returns, whether delivery succeeded or not.
// Files in the staging directory are only read, never modified.
package archive
