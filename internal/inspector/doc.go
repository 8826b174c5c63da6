// Package inspector implements the interactive packet inspector.
//
// The inspector is a Bubble Tea program with a single text input. Pressing
// enter decodes the input, stores the outcome as the current result and
// clears the input so the next packet can be pasted straight away. The
// result stays on screen until the next submission or until it is cleared.
//
// # Key Bindings
//
//   - enter: decode the input (an empty input is ignored)
//   - ctrl+l: clear the current result
//   - esc, ctrl+c: quit
//
// # State
//
// All state lives in the Model value that Update returns; there are no
// package level variables. Tests drive the model by calling Update with
// key messages and inspecting Last().
//
// Example:
//
//	opts := packet.Options{Layout: packet.LayoutCanonical}
//	if err := inspector.Run(ctx, opts); err != nil {
//	    return err
//	}
package inspector
