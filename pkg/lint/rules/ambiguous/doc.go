// Package ambiguous provides lint rules for detecting ambiguous SQL patterns.
// These rules follow SQLFluff's AM (Ambiguous) rule category.
//
// Rules in this package:
//   - AM01: DISTINCT used with GROUP BY
//   - AM02: UNION without DISTINCT or ALL
//   - AM04: Set operation branches return different column counts
//   - AM05: Implicit cross join in a comma-separated FROM
//   - AM09: ORDER BY or LIMIT after a set operation
//   - AM10: LIMIT without ORDER BY
//   - AM11: SELECT * instead of explicit columns
package ambiguous
