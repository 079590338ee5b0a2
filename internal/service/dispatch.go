package service

import (
	"context"
	"sync"
	"time"

	"propertypulse/internal/gateway"
	"propertypulse/internal/models"
)

// RenderedMessage is one personalized message ready for dispatch
type RenderedMessage struct {
	Tenant  *models.Tenant
	Subject string
	Body    string
}

// DispatchEngine sends rendered messages through the gateway with bounded
// concurrency. Per-recipient sends are independent: one failure never aborts
// or delays the rest of the batch.
type DispatchEngine struct {
	gateway     gateway.Gateway
	concurrency int
	sendTimeout time.Duration
}

// NewDispatchEngine creates a dispatch engine. concurrency bounds the number
// of simultaneous in-flight gateway calls; sendTimeout applies per call.
func NewDispatchEngine(gw gateway.Gateway, concurrency int, sendTimeout time.Duration) *DispatchEngine {
	if concurrency <= 0 {
		concurrency = 10
	}
	if sendTimeout <= 0 {
		sendTimeout = 5 * time.Second
	}
	return &DispatchEngine{
		gateway:     gw,
		concurrency: concurrency,
		sendTimeout: sendTimeout,
	}
}

// Dispatch sends every message and returns exactly one outcome per message.
// Completion order is not guaranteed. Cancelling ctx stops new sends from
// starting; sends already handed to the gateway run to completion under
// their own timeout so every recipient still gets an outcome. Recipients
// that never got a send attempt after cancellation are recorded as skipped.
func (e *DispatchEngine) Dispatch(ctx context.Context, channel models.Channel, messages []RenderedMessage) []models.DeliveryOutcome {
	outcomes := make([]models.DeliveryOutcome, len(messages))
	sem := make(chan struct{}, e.concurrency)
	var wg sync.WaitGroup

	for i, msg := range messages {
		wg.Add(1)
		go func(i int, msg RenderedMessage) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
				defer func() { <-sem }()
			case <-ctx.Done():
				outcomes[i] = skippedOutcome(msg.Tenant.ID, "cancelled before send")
				return
			}
			if ctx.Err() != nil {
				outcomes[i] = skippedOutcome(msg.Tenant.ID, "cancelled before send")
				return
			}

			outcomes[i] = e.send(ctx, channel, msg)
		}(i, msg)
	}

	wg.Wait()
	return outcomes
}

// send performs one gateway call. The send context is detached from the
// caller's cancellation so an in-flight call completes, but it carries the
// per-call timeout.
func (e *DispatchEngine) send(ctx context.Context, channel models.Channel, msg RenderedMessage) models.DeliveryOutcome {
	address, ok := msg.Tenant.AddressFor(channel)
	if !ok {
		return skippedOutcome(msg.Tenant.ID, skipReason(channel))
	}

	sendCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), e.sendTimeout)
	defer cancel()

	if err := e.gateway.Send(sendCtx, channel, address, msg.Subject, msg.Body); err != nil {
		reason := err.Error()
		return models.DeliveryOutcome{
			TenantID: msg.Tenant.ID,
			Status:   models.OutcomeFailed,
			Error:    &reason,
		}
	}

	return models.DeliveryOutcome{
		TenantID: msg.Tenant.ID,
		Status:   models.OutcomeSent,
	}
}

// SkipOutcomes converts address-less tenants into skipped outcomes so they
// merge into the same outcome list as attempted sends.
func SkipOutcomes(channel models.Channel, tenants []*models.Tenant) []models.DeliveryOutcome {
	outcomes := make([]models.DeliveryOutcome, 0, len(tenants))
	for _, tenant := range tenants {
		outcomes = append(outcomes, skippedOutcome(tenant.ID, skipReason(channel)))
	}
	return outcomes
}

func skippedOutcome(tenantID int, reason string) models.DeliveryOutcome {
	return models.DeliveryOutcome{
		TenantID: tenantID,
		Status:   models.OutcomeSkipped,
		Error:    &reason,
	}
}

func skipReason(channel models.Channel) string {
	if channel == models.ChannelEmail {
		return "no email address on file"
	}
	return "no phone number on file"
}
