package models

// CaptureView is a captured pulse sequence with its decoding attempt.
type CaptureView struct {
	// Index is the position in the capture history; nil for live captures
	// and for a latest capture whose history was cleared.
	Index       *int     `json:"index,omitempty"`
	Pulses      []uint32 `json:"pulses"`
	Frames      []string `json:"frames,omitempty"`
	DecodeError string   `json:"decode_error,omitempty"`
}
