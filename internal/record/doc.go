// Package record defines the book row shape shared by every stage of
// collection assembly.
//
// A Book is one row of the assembled table; a Table is an ordered, id-indexed
// set of rows. Column access by name goes through a closed accessor table
// (Get/Set) so schema-driven code such as overlays and the volume merger is
// checked against a fixed column set instead of reflecting over struct fields.
//
// Dates are calendar dates (no time-of-day); optional scalars are pointers
// with nil meaning unset, and optional strings use "" for unset.
package record
