package cleanup

import "os"

func removeBestEffort(path string) {
	if path == "" {
		return
	}
	_ = os.Remove(path)
}

func safeCall(fn func()) {
	if fn == nil {
		return
	}
	defer func() { _ = recover() }()
	fn()
}
