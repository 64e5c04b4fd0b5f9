package disabled

import "database/sql"

func query(db *sql.DB, id string) {
	db.Query("SELECT * FROM t WHERE id = " + id)
}

func exec(db *sql.DB, id string) {
	db.Exec("DELETE FROM t WHERE id = " + id) // want "possible injection"
}
