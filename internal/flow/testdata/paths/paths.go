package paths

func sink() {}

func check() bool { return true }

func straight() {
	sink() // want "paths=1"
}

func branch(b bool) {
	if b {
		check()
	}

	sink() // want "paths=2"
}

func fourPaths(a, b bool) {
	if a {
		check()
	} else {
		check()
	}

	if b {
		check()
	}

	sink() // want "paths=4"
}

func loop(n int) {
	for i := 0; i < n; i++ {
		check()
	}

	sink() // want "paths=2"
}

func sinkInLoop(n int) {
	for i := 0; i < n; i++ {
		if i > 2 {
			check()
		}

		sink() // want "paths=2"
	}
}

func rangeLoop(s []int) {
	for range s {
		check()
	}

	sink() // want "paths=2"
}

func earlyReturn(b bool) {
	if b {
		return
	}

	sink() // want "paths=1"
}

func switchCases(x int) {
	switch x {
	case 1:
		check()

	case 2:
		check()

	default:
	}

	sink() // want "paths=3"
}

func many(a, b, c, d bool) {
	if a {
		check()
	}

	if b {
		check()
	}

	if c {
		check()
	}

	if d {
		check()
	}

	sink() // want "paths=8 truncated"
}

func deadSink() {
	return

	sink() // want "paths=0"
}

func gotoLoop(n int) {
	i := 0
L:
	if i < n {
		i++
		goto L
	}

	sink() // want "paths=2"
}

func exitBranch(b bool) int { // want "exit=2"
	if b {
		return 1
	}

	return 0
}

func exitNever() { // want "exit=none"
	for {
	}
}

func exitPanic(b bool) { // want "exit=1"
	if b {
		panic("fail")
	}
}

func exitEmpty() { // want "exit=1"
}
