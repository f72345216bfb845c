package conf

// Fixed audio format constants. The pipeline is mono 16-bit PCM end to end;
// sample rate and block size are configurable per session but constant for
// the session's lifetime.
const (
	BitDepth    = 16
	NumChannels = 1
)
