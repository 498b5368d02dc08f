package cli

import (
	"context"

	"github.com/mcoot/mobboss/internal/reconcile"
)

// NoticePrinter shows reconciliation notices to the player as they arrive
type NoticePrinter struct {
	out *Output
}

// Ensure NoticePrinter implements Notifier
var _ reconcile.Notifier = (*NoticePrinter)(nil)

// NewNoticePrinter creates a NoticePrinter
func NewNoticePrinter(out *Output) *NoticePrinter {
	return &NoticePrinter{out: out}
}

// Notify prints the notice
func (p *NoticePrinter) Notify(_ context.Context, n reconcile.Notice) {
	p.out.PrintNotice(n)
}
