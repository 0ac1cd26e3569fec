// Package aliasing provides lint rules for table and column aliases.
// These rules follow SQLFluff's AL (Aliasing) rule category.
//
// Rules in this package:
//   - AL03: Column expression without an alias
//   - AL06: Table alias length out of bounds
//   - AL09: Column aliased to its own name
package aliasing
