package a

import (
	"database/sql"
	"flag"
	"html/template"
	"net/url"
	"strconv"
)

func partial(db *sql.DB, id string, a, b bool) {
	if a {
		id = url.QueryEscape(id)
	}
	if b {
		if _, err := strconv.Atoi(id); err != nil {
			return
		}
	}
	db.Query("SELECT * FROM t WHERE id = " + id) // want "possible injection in .*Query, 3 of 4 paths mitigated"
}

func full(db *sql.DB, id string, a, b bool) {
	if a {
		id = url.QueryEscape(id)
	}
	if b {
		id = url.PathEscape(id)
	} else if _, err := strconv.Atoi(id); err != nil {
		return
	}
	db.Query("SELECT * FROM t WHERE id = " + id)
}

func constant(db *sql.DB) {
	db.Query("SELECT 1")
}

func crossPartial(db *sql.DB, id string, a bool) {
	if a {
		if !isNumeric(id) {
			return
		}
	}
	db.Exec("DELETE FROM t WHERE id = " + id) // want "possible injection in .*Exec, 1 of 2 paths mitigated"
}

func lookup(name string) string {
	f := flag.Lookup(name)
	return f.Value.String() // want "possible nil dereference in f from flag.Lookup, 0 of 1 paths mitigated"
}

func lookupChecked(name string) string {
	f := flag.Lookup(name)
	if f == nil {
		return ""
	}
	return f.Value.String()
}

func markup(s string) template.HTML {
	return template.HTML(s) // want "possible cross-site scripting in html/template.HTML, 0 of 1 paths mitigated"
}

func ignored(db *sql.DB, id string) {
	db.Query(id) //nolint:sinkguard
}

//nolint:sinkguard
func ignoredFunc(db *sql.DB, id string) {
	db.Query(id)
}
