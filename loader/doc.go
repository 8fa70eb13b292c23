// Package loader runs the configure cycle of a contract against a storage
// backend: try the migrations, otherwise read the stored tree, then write the
// healed tree back when anything was defaulted, rewritten or migrated.
package loader
