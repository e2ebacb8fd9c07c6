package engine

import (
	"context"

	"github.com/petrijr/gridpath/pkg/api"
)

// replay discloses the outcome of a completed run: every path position in
// order, delay apart, or a single unreachable notice. Only ctx stops it.
func (c *controllerImpl) replay(ctx context.Context, rec *api.RunRecord, events *eventLog) {
	if ctx.Err() != nil {
		return
	}

	if rec.Path == nil {
		c.observer.OnUnreachable(ctx, rec)
		events.append(ctx, api.EventUnreachable, rec.End, 0, "")
		return
	}

	for i, pos := range rec.Path {
		if i > 0 {
			if err := pace(ctx, c.replayDelay); err != nil {
				return
			}
		}
		c.observer.OnPathStep(ctx, rec, pos, i)
		events.append(ctx, api.EventPathStep, pos, i, "")
	}
}
