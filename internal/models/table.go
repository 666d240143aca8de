package models

const (
	TableAvailable = "available"
	TableOccupied  = "occupied"
	TableReserved  = "reserved"
)

// Table is one physical table in the dining room. The pool is fixed at
// startup; rows are only ever status-mutated, never deleted.
type Table struct {
	TableID int    `json:"table_id" db:"table_id"`
	Status  string `json:"status" db:"status"`
}

// ValidTableStatus reports whether s is a recognized table status.
func ValidTableStatus(s string) bool {
	return s == TableAvailable || s == TableOccupied || s == TableReserved
}
