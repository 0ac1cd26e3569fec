// Package convention provides lint rules for SQL coding conventions.
// These rules follow SQLFluff's CV (Convention) rule category.
//
// Rules in this package:
//   - CV01: Inconsistent not-equal operator
//   - CV09: Use of blocked words
package convention
