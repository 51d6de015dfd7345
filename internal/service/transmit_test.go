package service

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"controlling_aircon/internal/ir"
	"controlling_aircon/internal/ir/aeha"
	"controlling_aircon/internal/logger"
	"controlling_aircon/internal/models"
)

func Test_parseHexFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in      string
		want    ir.Frame
		wantErr bool
	}{
		{name: "spaced", in: "40 00 14", want: ir.Frame{0x40, 0x00, 0x14}},
		{name: "prefixed with commas", in: "0x40, 0x00,0X14", want: ir.Frame{0x40, 0x00, 0x14}},
		{name: "packed", in: "400014", want: ir.Frame{0x40, 0x00, 0x14}},
		{name: "empty", in: "  ", wantErr: true},
		{name: "odd digits", in: "400", wantErr: true},
		{name: "not hex", in: "zz", wantErr: true},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			got, err := parseHexFrame(tc.in)
			if tc.wantErr {
				if !errors.Is(err, ErrInvalidFrame) {
					t.Fatalf("expected ErrInvalidFrame, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if !reflect.DeepEqual(got, tc.want) {
				t.Fatalf("got %v; want %v", got, tc.want)
			}
		})
	}
}

func TestTransmitService_SendFrames(t *testing.T) {
	sender := &fakeSender{}
	events := &fakeEventRepo{}
	svc := NewTransmitService(sender, events, logger.Nop())

	n, err := svc.SendFrames(context.Background(), []string{"40 00 14", "01"})
	if err != nil {
		t.Fatalf("SendFrames: %v", err)
	}
	want, _ := aeha.EncodeFrames(ir.Frame{0x40, 0x00, 0x14}, ir.Frame{0x01})
	if n != len(want) || len(sender.sent) != 1 || !want.Equal(sender.sent[0]) {
		t.Fatalf("unexpected transmission: n=%d sends=%d", n, len(sender.sent))
	}
	if got := events.types(); !reflect.DeepEqual(got, []string{models.EventSend}) {
		t.Fatalf("events = %v", got)
	}

	if _, err := svc.SendFrames(context.Background(), nil); !errors.Is(err, ErrInvalidFrame) {
		t.Fatalf("expected ErrInvalidFrame, got %v", err)
	}
	if _, err := svc.SendFrames(context.Background(), []string{"40", "xx"}); !errors.Is(err, ErrInvalidFrame) {
		t.Fatalf("expected ErrInvalidFrame, got %v", err)
	}
	if len(sender.sent) != 1 {
		t.Fatalf("invalid frames must not be sent")
	}
}

func TestTransmitService_SendPulses(t *testing.T) {
	sender := &fakeSender{}
	svc := NewTransmitService(sender, &fakeEventRepo{}, logger.Nop())
	ctx := context.Background()

	if err := svc.SendPulses(ctx, []uint32{3400, 1700, 430}); err != nil {
		t.Fatalf("SendPulses: %v", err)
	}
	if !sender.sent[0].Equal(ir.Sequence{3400, 1700, 430}) {
		t.Fatalf("unexpected sequence %v", sender.sent[0])
	}

	for _, bad := range [][]uint32{nil, {3400, 1700}, {3400, 0, 430}, {maxRawPulse + 1}} {
		if err := svc.SendPulses(ctx, bad); !errors.Is(err, ErrInvalidPulses) {
			t.Fatalf("SendPulses(%v): expected ErrInvalidPulses, got %v", bad, err)
		}
	}

	sender.err = errors.New("stopped")
	if err := svc.SendPulses(ctx, []uint32{560}); !errors.Is(err, sender.err) {
		t.Fatalf("expected sender error, got %v", err)
	}
}
