package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"propertypulse/internal/models"
)

func renderedMessages(tenants ...*models.Tenant) []RenderedMessage {
	messages := make([]RenderedMessage, len(tenants))
	for i, tenant := range tenants {
		messages[i] = RenderedMessage{Tenant: tenant, Body: "hello"}
	}
	return messages
}

func TestDispatchOneOutcomePerMessage(t *testing.T) {
	gw := &MockSendGateway{}
	engine := NewDispatchEngine(gw, 4, time.Second)

	messages := renderedMessages(
		testTenant(1, "Alice", strP("+254720020001")),
		testTenant(2, "Brian", strP("+254720020002")),
		testTenant(3, "Cathy", strP("+254720020003")),
	)

	outcomes := engine.Dispatch(context.Background(), models.ChannelSMS, messages)

	if len(outcomes) != len(messages) {
		t.Fatalf("got %d outcomes, want %d", len(outcomes), len(messages))
	}
	for i, o := range outcomes {
		if o.TenantID != messages[i].Tenant.ID {
			t.Errorf("outcome %d has tenant %d, want %d", i, o.TenantID, messages[i].Tenant.ID)
		}
		if o.Status != models.OutcomeSent {
			t.Errorf("outcome %d status = %q, want sent", i, o.Status)
		}
	}
}

func TestDispatchFailureIsolation(t *testing.T) {
	gw := &MockSendGateway{}
	gw.SendFunc = func(ctx context.Context, channel models.Channel, address, subject, body string) error {
		if address == "+254720020002" {
			return errors.New("invalid phone number")
		}
		return nil
	}
	engine := NewDispatchEngine(gw, 4, time.Second)

	messages := renderedMessages(
		testTenant(1, "Alice", strP("+254720020001")),
		testTenant(2, "Brian", strP("+254720020002")),
		testTenant(3, "Cathy", strP("+254720020003")),
	)

	outcomes := engine.Dispatch(context.Background(), models.ChannelSMS, messages)

	sent, failed, skipped := models.CountOutcomes(outcomes)
	if sent != 2 || failed != 1 || skipped != 0 {
		t.Errorf("counts = (%d, %d, %d), want (2, 1, 0)", sent, failed, skipped)
	}

	if outcomes[1].Status != models.OutcomeFailed {
		t.Errorf("tenant 2 status = %q, want failed", outcomes[1].Status)
	}
	if outcomes[1].Error == nil || *outcomes[1].Error != "invalid phone number" {
		t.Errorf("tenant 2 error = %v, want invalid phone number", outcomes[1].Error)
	}
}

func TestDispatchConcurrencyBound(t *testing.T) {
	const limit = 3

	var inFlight, peak int64
	gw := &MockSendGateway{}
	gw.SendFunc = func(ctx context.Context, channel models.Channel, address, subject, body string) error {
		n := atomic.AddInt64(&inFlight, 1)
		for {
			p := atomic.LoadInt64(&peak)
			if n <= p || atomic.CompareAndSwapInt64(&peak, p, n) {
				break
			}
		}
		time.Sleep(10 * time.Millisecond)
		atomic.AddInt64(&inFlight, -1)
		return nil
	}
	engine := NewDispatchEngine(gw, limit, time.Second)

	tenants := make([]*models.Tenant, 20)
	for i := range tenants {
		tenants[i] = testTenant(i+1, "T", strP(fmt.Sprintf("+2547200200%02d", i)))
	}

	outcomes := engine.Dispatch(context.Background(), models.ChannelSMS, renderedMessages(tenants...))

	if len(outcomes) != 20 {
		t.Fatalf("got %d outcomes, want 20", len(outcomes))
	}
	if p := atomic.LoadInt64(&peak); p > limit {
		t.Errorf("observed %d concurrent sends, limit is %d", p, limit)
	}
}

func TestDispatchTimeoutBecomesFailure(t *testing.T) {
	gw := &MockSendGateway{}
	gw.SendFunc = func(ctx context.Context, channel models.Channel, address, subject, body string) error {
		select {
		case <-time.After(5 * time.Second):
			return nil
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	engine := NewDispatchEngine(gw, 1, 20*time.Millisecond)

	outcomes := engine.Dispatch(context.Background(), models.ChannelSMS,
		renderedMessages(testTenant(1, "Alice", strP("+254720020001"))))

	if outcomes[0].Status != models.OutcomeFailed {
		t.Errorf("status = %q, want failed on timeout", outcomes[0].Status)
	}
}

func TestDispatchCancellationStopsNewSends(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var started sync.Once
	gw := &MockSendGateway{}
	gw.SendFunc = func(sendCtx context.Context, channel models.Channel, address, subject, body string) error {
		// Cancel the caller as soon as the first send is in flight. The
		// in-flight send must still complete.
		started.Do(cancel)
		time.Sleep(20 * time.Millisecond)
		return nil
	}
	engine := NewDispatchEngine(gw, 1, time.Second)

	tenants := make([]*models.Tenant, 10)
	for i := range tenants {
		tenants[i] = testTenant(i+1, "T", strP(fmt.Sprintf("+2547200200%02d", i)))
	}

	outcomes := engine.Dispatch(ctx, models.ChannelSMS, renderedMessages(tenants...))

	if len(outcomes) != 10 {
		t.Fatalf("got %d outcomes, want one per recipient even after cancel", len(outcomes))
	}

	sent, failed, skipped := models.CountOutcomes(outcomes)
	if failed != 0 {
		t.Errorf("no sends should fail, got %d failed", failed)
	}
	if sent == 0 {
		t.Error("the in-flight send should have completed")
	}
	if sent+skipped != 10 {
		t.Errorf("counts = (%d, %d, %d), want sent+skipped == 10", sent, failed, skipped)
	}

	for _, o := range outcomes {
		if o.Status == models.OutcomeSkipped {
			if o.Error == nil || *o.Error != "cancelled before send" {
				t.Errorf("skipped outcome error = %v, want cancelled before send", o.Error)
			}
		}
	}
}

func TestDispatchAddressLessRecipientSkipped(t *testing.T) {
	gw := &MockSendGateway{}
	engine := NewDispatchEngine(gw, 2, time.Second)

	outcomes := engine.Dispatch(context.Background(), models.ChannelSMS,
		renderedMessages(testTenant(1, "Alice", nil)))

	if outcomes[0].Status != models.OutcomeSkipped {
		t.Errorf("status = %q, want skipped", outcomes[0].Status)
	}
	if len(gw.Sends()) != 0 {
		t.Error("no gateway call expected for an address-less recipient")
	}
}

func TestSkipOutcomes(t *testing.T) {
	tenants := []*models.Tenant{
		testTenant(1, "Alice", nil),
		testTenant(2, "Brian", nil),
	}

	outcomes := SkipOutcomes(models.ChannelEmail, tenants)

	if len(outcomes) != 2 {
		t.Fatalf("got %d outcomes, want 2", len(outcomes))
	}
	for _, o := range outcomes {
		if o.Status != models.OutcomeSkipped {
			t.Errorf("status = %q, want skipped", o.Status)
		}
		if o.Error == nil || *o.Error != "no email address on file" {
			t.Errorf("error = %v, want no email address on file", o.Error)
		}
	}
}
