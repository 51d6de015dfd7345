package service

import (
	"context"
	"sync"
	"time"

	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/models"
)

type fakeStateRepo struct {
	loadResp   models.ApplianceState
	loadOK     bool
	loadErr    error
	saveErr    error
	savedCalls []models.ApplianceState
}

func (f *fakeStateRepo) Load(context.Context) (models.ApplianceState, bool, error) {
	return f.loadResp, f.loadOK, f.loadErr
}

func (f *fakeStateRepo) Save(_ context.Context, s models.ApplianceState) error {
	f.savedCalls = append(f.savedCalls, s)
	return f.saveErr
}

// fakeEventRepo records appends and returns canned List results.
type fakeEventRepo struct {
	mu        sync.Mutex
	appendErr error
	appended  []models.ApplianceEvent

	gotFrom time.Time
	gotTo   time.Time
	gotType string
	events  []models.ApplianceEvent
	listErr error
	calls   int
}

func (f *fakeEventRepo) Append(_ context.Context, e models.ApplianceEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.appended = append(f.appended, e)
	return f.appendErr
}

func (f *fakeEventRepo) List(_ context.Context, from, to time.Time, typ string) ([]models.ApplianceEvent, error) {
	f.calls++
	f.gotFrom, f.gotTo, f.gotType = from, to, typ
	return f.events, f.listErr
}

func (f *fakeEventRepo) types() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.appended))
	for i, e := range f.appended {
		out[i] = e.Type
	}
	return out
}

type fakeSender struct {
	err  error
	sent []ir.Sequence
}

func (f *fakeSender) Send(_ context.Context, seq ir.Sequence) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, seq)
	return nil
}

type fakeReceiver struct {
	mu        sync.Mutex
	history   []ir.Sequence
	latest    ir.Sequence
	latestIdx int
	subs      []chan ir.Sequence
}

func (f *fakeReceiver) LatestIndexed() (ir.Sequence, int) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.latest == nil {
		return nil, -1
	}
	return f.latest, f.latestIdx
}

func (f *fakeReceiver) History() []ir.Sequence {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]ir.Sequence(nil), f.history...)
}

func (f *fakeReceiver) ClearHistory() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = nil
	f.latestIdx = -1
}

func (f *fakeReceiver) Subscribe() (<-chan ir.Sequence, func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	ch := make(chan ir.Sequence, 1)
	f.subs = append(f.subs, ch)
	var once sync.Once
	return ch, func() { once.Do(func() { close(ch) }) }
}

func (f *fakeReceiver) push(seq ir.Sequence) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.history = append(f.history, seq)
	f.latest, f.latestIdx = seq, len(f.history)-1
	for _, ch := range f.subs {
		ch <- seq
	}
}
