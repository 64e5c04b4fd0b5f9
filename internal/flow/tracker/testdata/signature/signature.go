package signature

import (
	"bytes"
	"database/sql"
	"html/template"
	"net/http"
	"strconv"
)

type Store struct{ db *sql.DB }

func (s *Store) Find(id string) {
	_, _ = s.db.Query("select " + id) // want `\(database/sql.DB\).Query`
}

func Handle(w http.ResponseWriter, r *http.Request) {
	c, _ := r.Cookie("session")                  // want `\(net/http.Request\).Cookie`
	_, _ = w.Write([]byte(c.Value))               // want `\(net/http.ResponseWriter\).Write`
	_ = template.HTML(r.FormValue("q"))           // want `html/template.HTML` `\(net/http.Request\).FormValue`
	n, _ := strconv.Atoi(r.URL.Query().Get("n")) // want `strconv.Atoi` `\(net/url.Values\).Get` `\(net/url.URL\).Query`
	_ = n
}

func Generic[T any](v T) T { return v }

func Instantiate() {
	_ = Generic[int](1)  // want `test/signature.Generic`
	_ = Generic("x")     // want `test/signature.Generic`
	var b bytes.Buffer   // OK
	_ = b.String()       // want `\(bytes.Buffer\).String`
	f := func() {}
	f() // OK
	_ = len("x") // OK
}
