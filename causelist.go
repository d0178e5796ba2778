// Package causelist harvests court cause-list PDFs published on web pages
// and searches them for a case identifier or free text. Each hit carries a
// context snippet and heuristically recovered metadata (serial number,
// court or judge label).
//
// This package contains domain types, interfaces and the pure search logic
// following Ben Johnson's Standard Package Layout. Implementations live in
// subdirectories named after their primary dependency (e.g., goquery/, rod/,
// pdf/, sqlite/).
package causelist
