package intent

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"voicepay-server/src/logger"
)

// Completer sends a prompt to a text-generation service and returns the raw reply.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Classifier resolves transcripts through the remote model first and the
// local keyword rules when the model is unavailable or answers badly.
type Classifier struct {
	completer Completer
	timeout   time.Duration
}

// NewClassifier builds a classifier. A nil completer means the local rules are always used.
func NewClassifier(completer Completer, timeout time.Duration) *Classifier {
	return &Classifier{completer: completer, timeout: timeout}
}

// Classify never fails: any problem with the remote model is logged and the
// local rules answer instead.
func (c *Classifier) Classify(ctx context.Context, transcript string) TranscriptIntent {
	log := logger.FromContext(ctx)

	result, err := c.classifyRemote(ctx, transcript)
	if err == nil {
		log.Debug().Str("intent", string(result.Intent)).Msg("Transcript classified by model")
		return result
	}

	log.Warn().Err(err).Msg("Model classification failed, using fallback")
	result = Fallback(transcript)
	log.Info().
		Str("intent", string(result.Intent)).
		Str("name", result.Parameters.Name).
		Float64("amount", float64(result.Parameters.Amount)).
		Msg("Fallback classification")
	return result
}

func (c *Classifier) classifyRemote(ctx context.Context, transcript string) (TranscriptIntent, error) {
	if c.completer == nil {
		return TranscriptIntent{}, errors.New("no model configured")
	}

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	raw, err := c.completer.Complete(ctx, BuildPrompt(transcript))
	if err != nil {
		return TranscriptIntent{}, err
	}

	return ParseModelReply(raw)
}

// ParseModelReply strips code fences from a model reply and decodes it into a validated intent.
func ParseModelReply(raw string) (TranscriptIntent, error) {
	cleaned := cleanModelJSON(raw)
	if cleaned == "" {
		return TranscriptIntent{}, errors.New("empty model reply")
	}

	var result TranscriptIntent
	if err := json.Unmarshal([]byte(cleaned), &result); err != nil {
		return TranscriptIntent{}, fmt.Errorf("invalid model reply format: %w", err)
	}
	if err := result.Validate(); err != nil {
		return TranscriptIntent{}, fmt.Errorf("invalid model reply: %w", err)
	}
	return result, nil
}

func cleanModelJSON(raw string) string {
	s := strings.ReplaceAll(raw, "```json", "")
	s = strings.ReplaceAll(s, "```", "")
	return strings.TrimSpace(s)
}
