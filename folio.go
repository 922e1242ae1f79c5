// Package folio provides a static, offline-capable markdown reading
// backend. A build-time indexer scans a content directory of markdown
// files and emits a navigation manifest; a versioned cache worker
// keeps the reading application usable when the network is not.
//
// This package contains domain types and interfaces following Ben
// Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., fs/,
// sqlite/, bloom/).
package folio
