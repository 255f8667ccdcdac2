// Package statsview serves live runtime charts (heap, goroutines, GC pauses)
// while a program runs. It is compiled in only with the statsview build tag:
//
//	go build -tags statsview ./cmd/chip8
//
// The charts are then at http://localhost:12800/debug/statsview and the
// standard pprof handlers at /debug/pprof/.
package statsview
