package cantreturn

import (
	"log"
	"os"
	"runtime"
	"syscall"
	"testing"
)

func logFatal() {
	log.Fatal() // want "Can't return"
}

func builtinPanic() {
	panic("") // want "Can't return"
}

func logFatalf() {
	l := log.Default()

	l.Fatalf("") // want "Can't return"
}

func osExit() {
	os.Exit(1) // want "Can't return"
}

func syscallExit() {
	syscall.Exit(1) // want "Can't return"
}

func runtimeGoexit() {
	runtime.Goexit() // want "Can't return"
}

func testFatal(t *testing.T) {
	t.Fatal() // want "Can't return"
}

func tbSkip(tb testing.TB) {
	tb.SkipNow() // want "Can't return"
}

func normalReturn() {
	println("hello") // OK
}

func funcReturn() {
	panic := log.Fatal

	panic("hello") // OK
}

func parenthesized() {
	(os.Exit)(2) // want "Can't return"
}
