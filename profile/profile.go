package profile

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper stops a running profiler and flushes its output.
type Stopper interface{ Stop() }

// Profiler describes a profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty mode disables profiling.
	Mode string
	// Path is the directory profile files are written to. The profiling
	// library picks a temporary directory when empty.
	Path string
	// Quiet suppresses the profiling library's own log output.
	Quiet bool
}

// Start starts the profiler and returns a [Stopper] for it.
//
// If the binary was built without the pprof tag, or p.Mode is empty or not
// one of [Modes], Start returns a no-op. Both Start and Stop are always safe
// to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" || !Enabled {
		return ignore{}
	}

	return start(p)
}

type ignore struct{}

func (ignore) Stop() {}
