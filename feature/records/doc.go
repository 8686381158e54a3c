// Package records implements the record join feature behind the match command.
//
// Records are untyped rows decoded from YAML or JSON files. The feature joins a
// set of element records with related data records coming from one of three
// sources:
//  1. File: another record file, indexed in memory.
//  2. Database: a table queried through core/source.Table.
//  3. Storage: one object per identifier read through core/source.Objects.
//
// Identifiers and join keys are compared by their string form so that a YAML
// integer, a JSON number and a database column value of the same number match.
//
// # Components
//
//   - Record, Load, LoadRows: Input decoding.
//   - Source constructors: FileSource, TableSource, ObjectSource.
//   - Service: Builds and runs a matcher on the shared engine.
//   - Write: Output encoding (json, yaml).
package records
