// Package core is the classification service behind the web and CLI
// front ends.
//
// A request flows through [Service.ClassifyUpload]:
//
//  1. The file name selects a format from the ingest registry; unknown
//     extensions fail before any bytes are read.
//  2. An [UploadLimiter] slot is taken so only a bounded number of files
//     are parsed at once.
//  3. The file is parsed into columns and each column is classified by
//     the coltype engine as Numeric, Date, TextNumeric, or Text.
//  4. A metadata-only run is written to the history store.
//
// Errors are mapped to user-facing messages with support codes by
// [MapError]; see error_messages.go for the code list.
package core
