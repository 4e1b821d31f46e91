package inspect

import (
	"context"

	"batchmux/internal/mediakit"
)

// Target selects what a batch of paths should be inspected as.
type Target string

const (
	TargetVideo      Target = "video"
	TargetAudio      Target = Target(mediakit.FileAudio)
	TargetSubtitle   Target = Target(mediakit.FileSubtitle)
	TargetChapter    Target = Target(mediakit.FileChapter)
	TargetAttachment Target = Target(mediakit.FileAttachment)
)

// Batch holds the results of inspecting a set of paths. Failed paths are
// recorded individually so one unreadable file never sinks the rest.
type Batch struct {
	Videos    []mediakit.VideoFile
	Externals []mediakit.ExternalFile
	Failed    map[string]error
}

// Update is one increment of a streaming scan, keyed by the caller's scan
// identifier. The final update has Done set; consumers must not assume
// updates cover the original path list in order.
type Update struct {
	ScanID string
	Batch  Batch
	Done   bool
}

// InspectBatch inspects every path as the given target and returns one
// combined batch.
func (c *Client) InspectBatch(ctx context.Context, paths []string, target Target) (Batch, error) {
	batch := Batch{Failed: make(map[string]error)}
	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return batch, err
		}
		c.inspectInto(ctx, &batch, path, target)
	}
	return batch, nil
}

// Stream inspects paths asynchronously, emitting partial batches of up to
// batchSize results so callers can populate their lists incrementally. The
// channel closes after the Done update.
func (c *Client) Stream(ctx context.Context, scanID string, paths []string, target Target, batchSize int) <-chan Update {
	if batchSize <= 0 {
		batchSize = 8
	}
	updates := make(chan Update, 1)
	go func() {
		defer close(updates)
		pending := Batch{Failed: make(map[string]error)}
		flush := func(done bool) bool {
			if !done && pending.count() == 0 {
				return true
			}
			select {
			case updates <- Update{ScanID: scanID, Batch: pending, Done: done}:
				pending = Batch{Failed: make(map[string]error)}
				return true
			case <-ctx.Done():
				return false
			}
		}
		for _, path := range paths {
			if ctx.Err() != nil {
				return
			}
			c.inspectInto(ctx, &pending, path, target)
			if pending.count() >= batchSize {
				if !flush(false) {
					return
				}
			}
		}
		flush(true)
	}()
	return updates
}

func (c *Client) inspectInto(ctx context.Context, batch *Batch, path string, target Target) {
	if target == TargetVideo {
		video, err := c.Video(ctx, path)
		if err != nil {
			batch.Failed[path] = err
			return
		}
		batch.Videos = append(batch.Videos, video)
		return
	}
	file, err := c.External(ctx, path, mediakit.FileKind(target))
	if err != nil {
		batch.Failed[path] = err
		return
	}
	batch.Externals = append(batch.Externals, file)
}

func (b Batch) count() int {
	return len(b.Videos) + len(b.Externals) + len(b.Failed)
}
