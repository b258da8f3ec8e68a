// Package profile provides optional runtime profiling for kmap.
//
// Profiling is built on [github.com/pkg/profile] and compiled in only with
// the "pprof" build tag:
//
//	go build -tags pprof .
//
// Without the tag, [Enabled] is false, [Modes] is empty and
// [Profiler.Start] returns a no-op.
//
// # Modes
//
//   - allocs:    memory allocation profiling (all allocations)
//   - block:     block (synchronization) profiling
//   - clock:     wall-clock profiling
//   - cpu:       CPU profiling
//   - goroutine: goroutine profiling
//   - heap:      heap memory profiling (live allocations)
//   - mem:       general memory profiling
//   - mutex:     mutex contention profiling
//   - thread:    thread creation profiling
//   - trace:     execution trace profiling
//
// # Usage
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/profiles", Quiet: true}
//	defer p.Start().Stop()
//
// From the command line:
//
//	kmap --pprof-mode cpu convert --all
//	kmap --pprof-mode heap --pprof-dir ./profiles convert de
//
// Profiles default to $XDG_CACHE_HOME/kmap/pprof and are analyzed with
//
//	go tool pprof -http=: ~/.cache/kmap/pprof/cpu.pprof
//
// Building with the tag also imports [net/http/pprof], registering its
// handlers on [net/http.DefaultServeMux].
package profile
