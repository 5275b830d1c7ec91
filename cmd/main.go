package main

import (
	"flag"
	"fmt"
	"log"
	"runtime"

	options "github.com/richinsley/golinedraw/options"
)

func init() {
	runtime.LockOSThread()
}

func main() {
	opts := options.Bind(flag.CommandLine)
	flag.Parse()

	if *opts.Help {
		fmt.Println("Line drawing canvas")
		fmt.Println()
		fmt.Println("Click or drag to add points. Keys: C clear, R random point, +/- width,")
		fmt.Println("1-5 colors, S save PNG, P save PDF, Esc quit. Typed commands on stdin:")
		fmt.Println("  <x> <y> | random | clear | width <n> | color <#hex> | png <file> | pdf <file> | quit")
		fmt.Println()
		flag.PrintDefaults()
		return
	}

	if err := opts.Validate(); err != nil {
		log.Fatalf("Invalid options: %v", err)
	}

	a, err := newApp(opts)
	if err != nil {
		log.Fatalf("Failed to start: %v", err)
	}
	err = a.run()
	a.shutdown()
	if err != nil {
		log.Fatalf("Drawing failed: %v", err)
	}
}
