package winmux

import (
	"bytes"
	"errors"
	"testing"
)

func TestStagingBeltFlushOnFinish(t *testing.T) {
	q := &fakeQueue{}
	belt := NewStagingBelt(q)
	buf := &fakeBuffer{size: 64}

	data := []byte{1, 2, 3, 4}
	if err := belt.Write(buf, 16, data); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(q.writes) != 0 {
		t.Fatal("write flushed before Finish")
	}

	// The belt copies staged data; mutating the caller's slice
	// afterwards must not change what is uploaded.
	data[0] = 99

	if err := belt.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if len(q.writes) != 1 {
		t.Fatalf("got %d queue writes, want 1", len(q.writes))
	}
	w := q.writes[0]
	if w.buf != buf || w.offset != 16 || !bytes.Equal(w.data, []byte{1, 2, 3, 4}) {
		t.Errorf("flushed write = %+v", w)
	}
}

func TestStagingBeltMisuse(t *testing.T) {
	q := &fakeQueue{}
	belt := NewStagingBelt(q)
	buf := &fakeBuffer{}

	if err := belt.Recall(); !errors.Is(err, ErrBeltNotFinished) {
		t.Errorf("Recall before Finish err = %v, want ErrBeltNotFinished", err)
	}

	if err := belt.Finish(); err != nil {
		t.Fatalf("Finish: %v", err)
	}
	if err := belt.Finish(); !errors.Is(err, ErrBeltFinished) {
		t.Errorf("double Finish err = %v, want ErrBeltFinished", err)
	}
	if err := belt.Write(buf, 0, []byte{1}); !errors.Is(err, ErrBeltFinished) {
		t.Errorf("Write after Finish err = %v, want ErrBeltFinished", err)
	}

	if err := belt.Recall(); err != nil {
		t.Fatalf("Recall: %v", err)
	}

	// Recall reopens the belt for the next frame.
	if err := belt.Write(buf, 0, []byte{1}); err != nil {
		t.Errorf("Write after Recall: %v", err)
	}
	if err := belt.Finish(); err != nil {
		t.Errorf("Finish after Recall: %v", err)
	}
	if len(q.writes) != 2 {
		t.Errorf("got %d queue writes over two frames, want 2", len(q.writes))
	}
}
