package pipeline

import (
	"context"

	"clipmix/jobs"
)

// LocalDispatcher runs render requests in-process through the job manager.
type LocalDispatcher struct {
	Manager  *jobs.Manager
	Renderer *Renderer
}

// Dispatch submits the render as a background job and returns its pending
// snapshot.
func (d *LocalDispatcher) Dispatch(ctx context.Context, req RenderRequest) (*jobs.Job, error) {
	return d.Manager.Submit(ctx, "render", func(ctx context.Context, progress func(int, string)) (string, error) {
		return d.Renderer.Render(ctx, req, progress)
	})
}
