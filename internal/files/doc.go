// Package files locates register extracts on disk.
//
// Extracts are stored below version directories named after their export
// date, for example:
//
//	data/open_mastr/data/dataversion-2024-01-31/bnetza_mastr_solar_raw.csv
//
// Discovery.LatestSnapshot picks the lexicographically last match of a glob,
// which for date-named directories is the newest export. An explicitly
// configured input file always takes precedence.
package files
