package gazelle

// Status is the outcome of one Session.Parse or Session.Finish call.
type Status int

const (
	// StatusOK means the supplied chunk was fully consumed and the
	// session may be resumed with more input.
	StatusOK Status = iota
	// StatusError means a lexical or grammatical error was detected;
	// see the returned error for details.
	StatusError
	// StatusCancelled means a callback requested cancellation (or
	// panicked during Parse). The session must not be resumed.
	StatusCancelled
	// StatusHardEOF means the entry rule's frame has popped, leaving the
	// parse stack empty; bytes after that point are not consumed, and
	// every later Parse call returns StatusHardEOF again. A parse that
	// could stop at the current point but could also continue is not
	// reported as StatusHardEOF; it returns StatusOK.
	StatusHardEOF
	// StatusResourceLimitExceeded means a configured cap (stack depth,
	// token buffer length) was breached.
	StatusResourceLimitExceeded
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "Error"
	case StatusCancelled:
		return "Cancelled"
	case StatusHardEOF:
		return "HardEOF"
	case StatusResourceLimitExceeded:
		return "ResourceLimitExceeded"
	default:
		return "Unknown"
	}
}
