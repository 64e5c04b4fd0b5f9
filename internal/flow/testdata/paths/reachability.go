package paths

import "log"

func basic() {
	var to int

	if true {
		var from int
		_ = from
	}

	_ = to // want "is reachable"
}

func loopBack() {
	for {
		var to int
		_ = to // want "is reachable"

		var from int
		_ = from
	}
}

func rangeBack() {
	for to := range 5 {
		_ = to // want "is reachable"

		var from int
		_ = from
	}
}

func gotoBack(from, to int) {
	_ = from
L:
	goto L

	_ = to // want "unreachable"
}

func selectForever(from, to int) int {
	select {}

	return to // want "unreachable"
}

func selectBreak(from, to int) int {
	ch := make(chan int)
	select {
	case x := <-ch:
		if x > 0 {
			break
		}

		return 0
	}

	return to // want "is reachable"
}

func simpleswitch() {
	from, to := 1, 5

	switch 5 {
	case 1:
		log.Fatal()

	case 3:
		return

	default:
		panic("")
	}

	_, _ = from, to // want "unreachable"
}

func typeSwitchAssign() {
	from := 1
	var i any = from

	switch to := i.(type) {
	case int:
		_ = to // want "is reachable"
	}
}

func labeledRange(from, to int) int {
L:
	for range 1 {
		for range 5 {
			break L
		}

		return 0
	}

	return to // want "is reachable"
}
