package downloads

import "errors"

// ErrInvalidState marks a queue bookkeeping call whose precondition did not
// hold, such as starting a download when nothing is queued. It indicates a
// bug in the caller, not a recoverable runtime condition: continuing would
// corrupt the shared counters, so these errors must never be silently
// absorbed.
var ErrInvalidState = errors.New("invalid queue state")
