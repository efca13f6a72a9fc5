package out

import (
	"context"

	interruptiondto "focusfarm/internal/modules/interruption/dto"
	interruptionin "focusfarm/internal/modules/interruption/port/in"
)

// MonitorBridge exposes the interruption module to the timer. Sessions
// always run in strict mode.
type MonitorBridge struct {
	monitor interruptionin.Monitor
}

func NewMonitorBridge(monitor interruptionin.Monitor) *MonitorBridge {
	return &MonitorBridge{monitor: monitor}
}

func (b *MonitorBridge) Start(ctx context.Context) error {
	b.monitor.SetStrictMode(true)
	return b.monitor.Start(ctx)
}

func (b *MonitorBridge) Stop() {
	b.monitor.Stop()
}

func (b *MonitorBridge) Events() <-chan interruptiondto.Event {
	return b.monitor.Events()
}

func (b *MonitorBridge) SetFocusVisible(visible bool) {
	b.monitor.SetFocusVisible(visible)
}
