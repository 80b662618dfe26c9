// Package exchange moves a dataset collection across the file boundary as a
// single JSON document.
//
// Export encodes the whole collection and hands it to a Saver under a
// timestamped name (phone8ez_YYMMDD_HHmm.json). Import reads an uploaded
// file, validates its structure, and only then replaces the caller's
// collection in one step; on any failure the collection is left untouched.
//
// Validation is deliberately shallow: the root must be a non-empty array
// and every element an object carrying an object-typed "data" field. The
// inner sheet payload is not checked beyond what decoding into
// dataset.Dataset requires.
//
// Cloud mode is reserved. Both directions return ErrCloudReserved in cloud
// mode so callers can tell "not available" apart from success.
package exchange
