package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Slot typed load/save of one JSON value under a fixed key.
// Load never fails: a missing or unreadable value yields the caller's default.
// Save reports failures to the caller and the log; callers decide whether to care.
type Slot[T any] struct {
	kv     KV
	key    string
	logger *zap.Logger
}

func NewSlot[T any](kv KV, key string, logger *zap.Logger) *Slot[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Slot[T]{kv: kv, key: key, logger: logger}
}

func (s *Slot[T]) Key() string { return s.key }

// Load reads and decodes the stored value, falling back to def on miss or any failure
func (s *Slot[T]) Load(ctx context.Context, def T) T {
	raw, err := s.kv.Get(ctx, s.key)
	if err != nil {
		if errors.Is(err, ErrMiss) {
			s.logger.Debug("slot empty, using default", zap.String("key", s.key))
		} else {
			s.logger.Warn("slot read failed, using default", zap.String("key", s.key), zap.Error(err))
		}
		return def
	}
	var v T
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		s.logger.Warn("slot decode failed, using default", zap.String("key", s.key), zap.Error(err))
		return def
	}
	return v
}

// Save encodes v and writes it without expiry
func (s *Slot[T]) Save(ctx context.Context, v T) error {
	raw, err := json.Marshal(v)
	if err != nil {
		err = fmt.Errorf("encode %s: %w", s.key, err)
		s.logger.Error("slot save failed", zap.String("key", s.key), zap.Error(err))
		return err
	}
	if err := s.kv.Set(ctx, s.key, string(raw), 0); err != nil {
		err = fmt.Errorf("write %s: %w", s.key, err)
		s.logger.Error("slot save failed", zap.String("key", s.key), zap.Error(err))
		return err
	}
	return nil
}
