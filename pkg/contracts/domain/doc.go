// Package domain holds the data contracts shared by the pipeline, the exporter
// and the report API: unit records read from the register extract and the
// yearly capacity series derived from them.
package domain
