package winmux

import (
	"errors"

	"github.com/gogpu/winmux/gpu"
)

// Staging belt misuse errors. The belt enforces one finish/recall cycle
// per frame with no interleaving.
var (
	ErrBeltFinished    = errors.New("winmux: staging belt already finished")
	ErrBeltNotFinished = errors.New("winmux: staging belt not finished")
)

// StagingBelt batches CPU→GPU buffer uploads for one frame. A window
// stages writes while recording its command sequence, calls Finish once
// before submitting, and Recall once after, which reopens the belt for
// the next frame.
type StagingBelt struct {
	queue    gpu.Queue
	pending  []stagedWrite
	finished bool
}

type stagedWrite struct {
	target gpu.Buffer
	offset uint64
	data   []byte
}

// NewStagingBelt creates an open belt flushing through queue.
func NewStagingBelt(queue gpu.Queue) *StagingBelt {
	return &StagingBelt{queue: queue}
}

// Write stages data for upload into target at offset. The data is copied
// immediately, so the caller may reuse its slice.
func (b *StagingBelt) Write(target gpu.Buffer, offset uint64, data []byte) error {
	if b.finished {
		return ErrBeltFinished
	}
	staged := make([]byte, len(data))
	copy(staged, data)
	b.pending = append(b.pending, stagedWrite{target: target, offset: offset, data: staged})
	return nil
}

// Finish flushes every staged write to the queue and closes the belt.
// The belt must be finished exactly once before command submission.
func (b *StagingBelt) Finish() error {
	if b.finished {
		return ErrBeltFinished
	}
	for _, w := range b.pending {
		b.queue.WriteBuffer(w.target, w.offset, w.data)
	}
	b.finished = true
	return nil
}

// Recall reclaims the belt after submission, reopening it for the next
// frame. Calling Recall on a belt that was never finished is an error.
func (b *StagingBelt) Recall() error {
	if !b.finished {
		return ErrBeltNotFinished
	}
	b.pending = b.pending[:0]
	b.finished = false
	return nil
}
