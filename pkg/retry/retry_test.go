package retry

import (
	"errors"
	"testing"
)

func TestDoSucceedsFirstTry(t *testing.T) {
	attempts := 0
	err := Do(func() error {
		attempts++
		return nil
	})
	if err != nil || attempts != 1 {
		t.Fatalf("err = %v, attempts = %d", err, attempts)
	}
}

func TestPermanentErrorNotRetried(t *testing.T) {
	attempts := 0
	wrapped := errors.New("invalid login credentials")
	err := Do(func() error {
		attempts++
		return Permanent(wrapped)
	})
	if attempts != 1 {
		t.Fatalf("attempts = %d, want 1", attempts)
	}
	if !errors.Is(err, wrapped) {
		t.Fatalf("err = %v, want wrapped original", err)
	}
}

func TestTransientErrorRetriedToCap(t *testing.T) {
	attempts := 0
	err := DoWithMax(func() error {
		attempts++
		return errors.New("connection reset")
	}, 1)
	if err == nil {
		t.Fatal("expected exhausted retries to fail")
	}
	// One initial attempt plus one retry.
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestTransientErrorEventuallySucceeds(t *testing.T) {
	attempts := 0
	err := DoWithMax(func() error {
		attempts++
		if attempts < 2 {
			return errors.New("connection reset")
		}
		return nil
	}, 3)
	if err != nil {
		t.Fatalf("err = %v", err)
	}
	if attempts != 2 {
		t.Fatalf("attempts = %d, want 2", attempts)
	}
}

func TestPermanentNil(t *testing.T) {
	if Permanent(nil) != nil {
		t.Fatal("Permanent(nil) must stay nil")
	}
}
