package shallow

import (
	"os/exec"
	"strconv"
)

func run(arg string) {
	if !valid(arg) {
		return
	}
	_ = exec.Command("echo", arg) // want "possible injection in .*Command, 0 of 1 paths mitigated"
}

func valid(s string) bool {
	return numeric(s)
}

func numeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}
