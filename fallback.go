package folio

// firstNonZero returns the first value that is not zero, or def.
//
// It encodes the "present and non-zero wins" rule used when a quote field is
// merged over a locally computed one: a zero coming from a data source is
// treated the same as a missing field.
func firstNonZero[T interface{ IsZero() bool }](def T, values ...T) T {
	for _, v := range values {
		if !v.IsZero() {
			return v
		}
	}
	return def
}
