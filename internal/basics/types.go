// Package basics provides the fixed-point constants and small integer
// helpers shared by the rasterizer packages.
package basics

// Basic integer types following the C heritage naming convention.
type (
	Int8u  = uint8
	Int16u = uint16
	Int32  = int32
	Int32u = uint32
	Int64  = int64
)

// CoverType represents an 8-bit coverage value.
type CoverType = Int8u
