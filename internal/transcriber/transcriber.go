package transcriber

import (
	"context"
	"fmt"
)

// Request describes one recorded take to transcribe. The language code is
// passed to the service verbatim, including the special value "auto".
type Request struct {
	WAVPath  string
	Language string
	Model    string
	Prompt   string
}

// Segment is a timed piece of the transcript, offsets in seconds.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
}

// Result is the service response for one request.
type Result struct {
	Text     string    `json:"text"`
	Language string    `json:"language"`
	Segments []Segment `json:"segments"`
}

// Client uploads a recorded take and returns the recognized text. The
// implementation owns the WAV file named in the request and removes it on
// every exit path.
type Client interface {
	Transcribe(ctx context.Context, req Request) (*Result, error)
}

// RequestError reports a failed transcription attempt. Status is the HTTP
// status code, or 0 when the request never reached the service.
type RequestError struct {
	Status  int
	Message string
}

func (e *RequestError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("transcription request failed: %s", e.Message)
	}
	return fmt.Sprintf("transcription request failed with status %d: %s", e.Status, e.Message)
}
