// Package coltype infers a semantic category for each column of a parsed
// table.
//
// Every column receives exactly one [Category] from a fixed taxonomy:
//
//   - [Numeric] (N): every cell is a number
//   - [Date] (D): every cell is a calendar date under one pattern
//   - [TextNumeric] (TN): letters and digits both appear in the column
//   - [Text] (T): anything else, including empty columns
//
// # Decision Procedure
//
// [Classifier.ClassifyColumn] applies the tests in fixed precedence and
// stops at the first match:
//
//  1. Numeric test over every cell
//  2. [DateRecognizer] (strict pattern catalog, then a sampled permissive parse)
//  3. [MixedContentDetector] (column-level letter and digit presence)
//  4. Text fallback
//
// # Concurrency
//
// A [Classifier] holds only immutable configuration and may be shared
// between goroutines. Classification never returns an error: malformed cell
// data degrades the category toward Text instead.
package coltype
