// Package yamlfile stores configuration trees as YAML documents.
//
// The backend keeps key order, line numbers and comments: head comments map to
// comments above an entry, line comments to inline ones and foot comments to
// comments below.
package yamlfile
