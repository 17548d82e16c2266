// internal/app/system/limits/limits.go
package limits

// Request body size limits. These guard against memory exhaustion from
// oversized requests; handlers apply them with http.MaxBytesReader before
// decoding.
const (
	// MaxJSONBody is the maximum size for JSON request bodies. The largest
	// legitimate payload is a class create with a season of recurring slots,
	// which is nowhere near this.
	MaxJSONBody = 1 << 20 // 1 MB
)
