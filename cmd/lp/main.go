package main

import (
	"fmt"
	"os"
	"os/exec"
	"syscall"
)

func main() {
	bin, err := exec.LookPath("linchpin")
	if err != nil {
		fmt.Fprintln(os.Stderr, "lp: linchpin not found on PATH")
		os.Exit(1)
	}
	if err := syscall.Exec(bin, append([]string{"linchpin"}, os.Args[1:]...), os.Environ()); err != nil {
		fmt.Fprintf(os.Stderr, "lp: %v\n", err)
		os.Exit(1)
	}
}
