package postgres

type clubTableModel struct {
	ID   int64  `db:"id"`
	Name string `db:"name"`
}
