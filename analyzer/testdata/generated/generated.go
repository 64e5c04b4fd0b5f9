// Code generated by hand for tests. DO NOT EDIT.

package generated

import "database/sql"

func query(db *sql.DB, id string) {
	db.Query("SELECT * FROM t WHERE id = " + id) // want "possible injection"
}
