// Package text splits mixed-case identifiers into words for key mapping.
package text
