package tui

import (
	"encoding/json"
	"fmt"
	"io"

	dperrors "github.com/mrz1836/dayplan/internal/errors"
)

// Output formats command results.
type Output interface {
	// Success prints a success message.
	Success(msg string)
	// Error prints an error as a failure notice.
	Error(err error)
	// Warning prints a warning message.
	Warning(msg string)
	// Info prints an informational message.
	Info(msg string)
	// JSON outputs a value as formatted JSON.
	JSON(v any) error
	// Plan prints a day listing.
	Plan(p Plan) error
}

// TTYOutput provides styled output for terminals.
type TTYOutput struct {
	w      io.Writer
	styles *OutputStyles
}

// NewTTYOutput creates a TTYOutput.
func NewTTYOutput(w io.Writer) *TTYOutput {
	return &TTYOutput{w: w, styles: NewOutputStyles()}
}

// Success prints a success message.
func (o *TTYOutput) Success(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Success.Render("✓ "+msg))
}

// Error prints the user-facing message of err and, when known, what to do.
func (o *TTYOutput) Error(err error) {
	msg, action := dperrors.Actionable(err)
	_, _ = fmt.Fprintln(o.w, o.styles.Error.Render("✗ "+msg))
	if action != "" {
		_, _ = fmt.Fprintln(o.w, o.styles.Dim.Render("  "+action))
	}
}

// Warning prints a warning message.
func (o *TTYOutput) Warning(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Warning.Render("⚠ "+msg))
}

// Info prints an informational message.
func (o *TTYOutput) Info(msg string) {
	_, _ = fmt.Fprintln(o.w, o.styles.Info.Render(msg))
}

// JSON outputs a value as formatted JSON.
func (o *TTYOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

// Plan prints the day listing grouped by slot.
func (o *TTYOutput) Plan(p Plan) error {
	return RenderPlan(o.w, p, NewPlanStyles())
}

// JSONOutput writes one JSON object per message.
type JSONOutput struct {
	w       io.Writer
	encoder *json.Encoder
}

// NewJSONOutput creates a JSONOutput.
func NewJSONOutput(w io.Writer) *JSONOutput {
	return &JSONOutput{w: w, encoder: json.NewEncoder(w)}
}

type jsonMessage struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

type jsonError struct {
	Type       string `json:"type"`
	Message    string `json:"message"`
	Details    string `json:"details,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// Success outputs {"type":"success","message":...}.
func (o *JSONOutput) Success(msg string) {
	_ = o.encoder.Encode(jsonMessage{Type: "success", Message: msg}) //nolint:errchkjson // no error return by contract
}

// Error outputs the error with its user message and raw details.
func (o *JSONOutput) Error(err error) {
	msg, action := dperrors.Actionable(err)
	out := jsonError{Type: "error", Message: msg, Suggestion: action}
	if details := err.Error(); details != msg {
		out.Details = details
	}
	_ = o.encoder.Encode(out) //nolint:errchkjson // no error return by contract
}

// Warning outputs {"type":"warning","message":...}.
func (o *JSONOutput) Warning(msg string) {
	_ = o.encoder.Encode(jsonMessage{Type: "warning", Message: msg}) //nolint:errchkjson // no error return by contract
}

// Info is a no-op for JSON output.
func (o *JSONOutput) Info(_ string) {}

// JSON outputs a value as formatted JSON.
func (o *JSONOutput) JSON(v any) error {
	return encodeJSON(o.w, v)
}

// Plan outputs the listing as JSON.
func (o *JSONOutput) Plan(p Plan) error {
	return encodeJSON(o.w, p)
}

func encodeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// NewOutput creates the output for format ("text" or "json").
func NewOutput(w io.Writer, format string) Output {
	if format == "json" {
		return NewJSONOutput(w)
	}
	return NewTTYOutput(w)
}
