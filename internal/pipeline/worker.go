package pipeline

import (
	"context"
	"errors"
	"time"

	"artmint/internal/domain"
	"artmint/internal/infra"
	"artmint/internal/sqlinline"
)

var (
	errNoPromptAvailable = errors.New("no pending prompt")
	errClaimLost         = errors.New("prompt claimed by another worker")
)

// Worker drains the prompt queue one job at a time: claim the oldest
// pending prompt, fulfill it, write the terminal status, repeat. Failures
// after a claim never stop the loop; they are captured on the prompt row.
type Worker struct {
	sql          infra.SQLExecutor
	fulfiller    *Fulfiller
	pollInterval time.Duration
	logger       infra.Logger
}

// NewWorker builds the queue-backed worker around a fulfiller.
func NewWorker(sql infra.SQLExecutor, fulfiller *Fulfiller, pollInterval time.Duration, logger infra.Logger) *Worker {
	if pollInterval <= 0 {
		pollInterval = 10 * time.Second
	}
	return &Worker{sql: sql, fulfiller: fulfiller, pollInterval: pollInterval, logger: logger}
}

// Run polls until ctx is cancelled.
func (w *Worker) Run(ctx context.Context) error {
	w.logger.Info().
		Dur("poll_interval", w.pollInterval).
		Bool("mint_enabled", w.fulfiller.MintEnabled()).
		Msg("worker: started")

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		prompt, err := w.claimNext(ctx)
		if err != nil {
			switch {
			case errors.Is(err, errClaimLost):
				continue
			case errors.Is(err, errNoPromptAvailable):
				if err := w.idle(ctx); err != nil {
					return err
				}
				continue
			case errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded):
				return err
			default:
				w.logger.Error().Err(err).Msg("worker: failed to claim prompt")
				if err := w.idle(ctx); err != nil {
					return err
				}
				continue
			}
		}

		if ok := w.handlePrompt(ctx, prompt); !ok {
			// Back off after a failure so a persistently broken
			// collaborator does not burn through the queue.
			if err := w.idle(ctx); err != nil {
				return err
			}
		}
	}
}

// ProcessOne claims and fulfills at most one prompt. It reports whether a
// prompt was handled.
func (w *Worker) ProcessOne(ctx context.Context) (bool, error) {
	prompt, err := w.claimNext(ctx)
	if err != nil {
		if errors.Is(err, errNoPromptAvailable) || errors.Is(err, errClaimLost) {
			return false, nil
		}
		return false, err
	}
	w.handlePrompt(ctx, prompt)
	return true, nil
}

func (w *Worker) claimNext(ctx context.Context) (*domain.Prompt, error) {
	row := w.sql.QueryRow(ctx, sqlinline.QSelectOldestPendingPrompt)
	var p domain.Prompt
	if err := row.Scan(&p.ID, &p.PromptText, &p.WalletAddress, &p.CreatedAt); err != nil {
		if infra.IsNoRows(err) {
			return nil, errNoPromptAvailable
		}
		return nil, err
	}

	tag, err := w.sql.Exec(ctx, sqlinline.QClaimPrompt, p.ID)
	if err != nil {
		return nil, err
	}
	if tag.RowsAffected() == 0 {
		// Another worker claimed it between the read and the update.
		return nil, errClaimLost
	}
	p.Status = domain.PromptStatusProcessing
	return &p, nil
}

// handlePrompt fulfills one claimed prompt and writes its terminal status.
// It reports whether the prompt completed.
func (w *Worker) handlePrompt(ctx context.Context, prompt *domain.Prompt) bool {
	w.logger.Info().
		Str("prompt_id", prompt.ID).
		Str("prompt_text", prompt.PromptText).
		Msg("worker: picked prompt")

	result, ferr := w.fulfiller.Fulfill(ctx, Request{
		PromptID:      prompt.ID,
		PromptText:    prompt.PromptText,
		WalletAddress: prompt.WalletAddress,
	})
	if ferr != nil {
		w.logger.Error().
			Str("prompt_id", prompt.ID).
			Str("kind", string(ferr.Kind)).
			Str("reason", ferr.Message).
			Msg("worker: prompt failed")
		w.markFailed(ctx, prompt.ID, ferr)
		return false
	}

	if _, err := w.sql.Exec(ctx, sqlinline.QInsertGeneratedImage,
		prompt.ID, result.ImageURL, result.MetadataURL, result.TxHash, result.ModelUsed); err != nil {
		w.logger.Error().Err(err).Str("prompt_id", prompt.ID).Msg("worker: record artifact failed")
		w.markFailed(ctx, prompt.ID, failure(KindStore, "record artifact: "+err.Error()))
		return false
	}
	if _, err := w.sql.Exec(ctx, sqlinline.QCompletePrompt, prompt.ID); err != nil {
		w.logger.Error().Err(err).Str("prompt_id", prompt.ID).Msg("worker: complete status write failed")
		return false
	}

	w.logger.Info().
		Str("prompt_id", prompt.ID).
		Str("image_url", result.ImageURL).
		Str("tx_hash", result.TxHash).
		Msg("worker: prompt completed")
	return true
}

func (w *Worker) markFailed(ctx context.Context, promptID string, ferr *Error) {
	msg := domain.TruncateError(ferr.Message)
	if _, err := w.sql.Exec(ctx, sqlinline.QFailPrompt, promptID, msg); err != nil {
		w.logger.Error().Err(err).Str("prompt_id", promptID).Msg("worker: failed status write failed")
	}
}

func (w *Worker) idle(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(w.pollInterval):
		return nil
	}
}
