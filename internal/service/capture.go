package service

import (
	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/ir/aeha"
	"controlling_aircon/internal/models"
)

// CaptureService presents received sequences with their AEHA decoding.
type CaptureService struct {
	receiver Receiver
}

func NewCaptureService(r Receiver) *CaptureService {
	return &CaptureService{receiver: r}
}

func (s *CaptureService) Latest() (models.CaptureView, bool) {
	seq, idx := s.receiver.LatestIndexed()
	if seq == nil {
		return models.CaptureView{}, false
	}
	view := describeCapture(seq)
	if idx >= 0 {
		view.Index = &idx
	}
	return view, true
}

func (s *CaptureService) History() []models.CaptureView {
	history := s.receiver.History()
	out := make([]models.CaptureView, len(history))
	for i, seq := range history {
		out[i] = describeCapture(seq)
		out[i].Index = &i
	}
	return out
}

func (s *CaptureService) ClearHistory() {
	s.receiver.ClearHistory()
}

// WatchCaptures streams every new capture. The channel closes after cancel.
func (s *CaptureService) WatchCaptures() (<-chan models.CaptureView, func()) {
	in, cancel := s.receiver.Subscribe()
	out := make(chan models.CaptureView, 1)
	go func() {
		defer close(out)
		for seq := range in {
			replaceLatest(out, describeCapture(seq))
		}
	}()
	return out, cancel
}

// describeCapture decodes seq; a decode failure is reported, not returned.
func describeCapture(seq ir.Sequence) models.CaptureView {
	view := models.CaptureView{Pulses: seq.Micros()}
	frames, err := aeha.Decode(seq)
	if err != nil {
		view.DecodeError = err.Error()
		return view
	}
	view.Frames = make([]string, len(frames))
	for i, f := range frames {
		view.Frames[i] = f.String()
	}
	return view
}
