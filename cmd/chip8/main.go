package main

import (
	"log"
	"runtime"
)

func init() {
	// GLFW and OpenGL calls must happen on the main thread.
	runtime.LockOSThread()
}

func main() {
	err := NewApp(parseArgs()).Run()
	if err != nil {
		log.Fatal(err)
	}
}
