package ipc

import (
	"context"
	"errors"
	"testing"
)

func TestRegistryInvoke(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(ChannelAppGetVersion, func(_ context.Context, _ any) (any, error) {
		return "2.0.0", nil
	})

	raw, err := reg.Invoke(context.Background(), ChannelAppGetVersion, nil)
	if err != nil {
		t.Fatalf("Invoke: %v", err)
	}
	if raw != "2.0.0" {
		t.Errorf("raw = %v", raw)
	}
}

func TestRegistryUnknownChannel(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	_, err := reg.Invoke(context.Background(), Channel("nope:nothing"), nil)
	if !errors.Is(err, ErrChannelNotFound) {
		t.Errorf("err = %v, want ErrChannelNotFound", err)
	}
}

func TestRegistryHandlerErrorBecomesFailEnvelope(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(ChannelProfileGetByID, func(_ context.Context, _ any) (any, error) {
		return nil, errors.New("record not found")
	})

	raw, err := reg.Invoke(context.Background(), ChannelProfileGetByID, nil)
	if err != nil {
		t.Fatalf("handler errors must not be transport errors, got %v", err)
	}
	resp := Normalize(raw)
	if resp.Success {
		t.Errorf("resp = %+v, want failure", resp)
	}
	if resp.Error != "record not found" {
		t.Errorf("Error = %q", resp.Error)
	}
}

func TestRegistryChannels(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(ChannelConfigGet, func(_ context.Context, _ any) (any, error) { return nil, nil })
	reg.Register(ChannelConfigSet, func(_ context.Context, _ any) (any, error) { return nil, nil })

	channels := reg.Channels()
	if len(channels) != 2 {
		t.Errorf("Channels() = %v, want 2 entries", channels)
	}
}

func TestRegistryAsBridgeTransport(t *testing.T) {
	t.Parallel()

	reg := NewRegistry()
	reg.Register(ChannelQuoteGetAll, func(_ context.Context, _ any) (any, error) {
		return []string{"q1"}, nil
	})

	b := NewBridge(reg)
	quotes, err := Call[[]string](context.Background(), b, ChannelQuoteGetAll, nil)
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if len(quotes) != 1 || quotes[0] != "q1" {
		t.Errorf("quotes = %v", quotes)
	}
}

func TestChannelNamespace(t *testing.T) {
	t.Parallel()

	tests := []struct {
		ch   Channel
		want string
	}{
		{ChannelConfigGet, "config"},
		{ChannelProfileCreate, "db"},
		{ChannelLLMQuery, "llm"},
		{EventEntityChanged, "event"},
		{Channel("bare"), "bare"},
	}
	for _, tt := range tests {
		if got := tt.ch.Namespace(); got != tt.want {
			t.Errorf("Namespace(%s) = %q, want %q", tt.ch, got, tt.want)
		}
	}
}
