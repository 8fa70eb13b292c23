// Package backend holds what the file backends share: the file system
// abstraction and file-to-file migrations.
package backend
