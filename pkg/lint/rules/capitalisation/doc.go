// Package capitalisation provides lint rules for the case of SQL words.
// These rules follow SQLFluff's CP (Capitalisation) rule category.
//
// Rules in this package:
//   - CP01: Inconsistent capitalisation of keywords
package capitalisation
