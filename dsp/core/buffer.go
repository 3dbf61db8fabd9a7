package core

// AppendWindow appends src to buf and drops the oldest samples so that at
// most limit samples remain. The returned slice reuses buf's storage when it
// is large enough. A limit <= 0 keeps everything.
func AppendWindow(buf, src []float64, limit int) []float64 {
	buf = append(buf, src...)
	if limit <= 0 || len(buf) <= limit {
		return buf
	}
	drop := len(buf) - limit
	n := copy(buf, buf[drop:])
	return buf[:n]
}

// Tail returns the last n samples of buf, or all of buf if it is shorter.
// The result shares storage with buf.
func Tail(buf []float64, n int) []float64 {
	if n < 0 {
		n = 0
	}
	if n >= len(buf) {
		return buf
	}
	return buf[len(buf)-n:]
}
