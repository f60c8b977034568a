// Package extset holds the accepted file extension classification from
// spec §6: RAW, standard raster, and sidecar. All comparisons are
// case-insensitive; the set members are stored lower-case.
package extset

var raw = map[string]bool{
	"arw": true, "cr2": true, "cr3": true, "nef": true, "dng": true,
	"raf": true, "orf": true, "rw2": true, "pef": true,
}

var standard = map[string]bool{
	"jpg": true, "jpeg": true, "png": true, "gif": true, "webp": true,
	"heic": true, "heif": true, "tiff": true, "bmp": true,
}

var sidecar = map[string]bool{
	"xmp": true, "xml": true,
}

// IsRaw reports whether ext (already lower-cased, no leading dot) is a RAW extension.
func IsRaw(ext string) bool { return raw[ext] }

// IsStandard reports whether ext is a standard raster extension.
func IsStandard(ext string) bool { return standard[ext] }

// IsSidecar reports whether ext is a sidecar extension.
func IsSidecar(ext string) bool { return sidecar[ext] }

// IsAccepted reports whether ext belongs to any recognized set.
func IsAccepted(ext string) bool {
	return raw[ext] || standard[ext] || sidecar[ext]
}
