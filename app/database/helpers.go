package database

// rowScanner is satisfied by both *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...any) error
}

// nullIfEmpty maps empty foreign keys to NULL so referential integrity only
// applies to set links.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
