// Package keypath addresses entries inside a canonical tree and translates
// entry labels into on-disk key spellings.
//
// # Path Syntax
//
//   - Simple keys: "server"
//   - Nested keys: "server.port"
//   - List elements: "hosts[2]"
//   - Keys that are not plain words: `labels["app.kubernetes.io/name"]`
package keypath
