// Package action turns player intent into handler calls. The Dispatcher
// validates every action against game state before reaching the Handler,
// the CommandProcessor maps slash commands onto dispatcher calls, and the
// InputBridge pumps an input handler into both once per frame.
package action

// Result is the outcome of one action. Failures carry the message shown
// to the player; they are expected and never surfaced as errors.
type Result struct {
	Success bool
	Message string
}

func Success(msg string) Result { return Result{Success: true, Message: msg} }
func Failure(msg string) Result { return Result{Message: msg} }

// Ok is a successful result with no message.
var Ok = Result{Success: true}
