package helpers

// NullIfEmpty maps "" to a NULL parameter for pgx.
func NullIfEmpty(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
