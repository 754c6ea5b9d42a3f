package bridge

// TaskError is the re-raised form of a unit failure. Its message and
// errors.Is/As behavior are those of the original error; the stack captured
// where the failure surfaced rides along for diagnostics. The TaskError is
// the only reference to the failure that survives cleanup, and the caller
// owns it.
type TaskError struct {
	err        error
	panicValue interface{}
	stack      []byte
}

func newTaskError(f *failure) *TaskError {
	return &TaskError{
		err:        f.err,
		panicValue: f.panicValue,
		stack:      f.stack,
	}
}

func (e *TaskError) Error() string {
	return e.err.Error()
}

// Unwrap exposes the original error so classification via errors.Is and
// errors.As is preserved across the bridge.
func (e *TaskError) Unwrap() error {
	return e.err
}

// Stack returns the stack captured at the point the failure surfaced on
// the dispatch loop.
func (e *TaskError) Stack() []byte {
	return e.stack
}

// Panicked reports whether the failure came from a recovered panic rather
// than a returned error.
func (e *TaskError) Panicked() bool {
	return e.panicValue != nil
}

// PanicValue returns the recovered value for panic failures, or nil.
func (e *TaskError) PanicValue() interface{} {
	return e.panicValue
}
