package payment

import (
	"context"
	"fmt"
)

const replayBatchSize = 100

type ReplayResult struct {
	Total    int `json:"total"`
	Replayed int `json:"replayed"`
	Failed   int `json:"failed"`
}

// ReplayFailedEvents republishes stored events to the topic they were
// originally meant for, oldest first. Only one replay runs at a time.
func (s *paymentService) ReplayFailedEvents(ctx context.Context) (*ReplayResult, error) {
	if !s.replayMu.TryLock() {
		return nil, ErrReplayInProgress
	}
	defer s.replayMu.Unlock()

	stored, err := s.eventStore.GetUnreplayedEvents(ctx, replayBatchSize)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch unreplayed events: %w", err)
	}

	result := &ReplayResult{Total: len(stored)}
	if len(stored) == 0 {
		s.logger.Info(ctx, "No events to replay")
		return result, nil
	}

	s.logger.Info(ctx, fmt.Sprintf("Starting replay of %d failed events", len(stored)))

	for _, evt := range stored {
		if err := s.eventStore.MarkEventAsReplaying(ctx, evt.ID); err != nil {
			s.logger.Warn(ctx, fmt.Sprintf("Failed to mark event %s as replaying: %v", evt.ID, err))
		}

		if pubErr := s.publishWithRetry(ctx, evt.Topic, evt.EventData); pubErr != nil {
			s.logger.Exception(ctx, fmt.Sprintf("Replay failed for event %s", evt.ID), pubErr)
			if err := s.eventStore.MarkEventAsFailed(ctx, evt.ID); err != nil {
				s.logger.Warn(ctx, fmt.Sprintf("Failed to mark event %s as failed: %v", evt.ID, err))
			}
			result.Failed++
			continue
		}

		if err := s.eventStore.MarkEventAsCompleted(ctx, evt.ID); err != nil {
			s.logger.Warn(ctx, fmt.Sprintf("Failed to mark event %s as completed: %v", evt.ID, err))
		}
		result.Replayed++
	}

	s.logger.Info(ctx, fmt.Sprintf("Replay completed: %d successful, %d failed", result.Replayed, result.Failed))

	if result.Failed > 0 {
		return result, fmt.Errorf("replay completed with %d failures out of %d events", result.Failed, result.Total)
	}
	return result, nil
}
