package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/postwind/postwind/internal/domain"
)

type sequenceRepository struct {
	db *sql.DB
}

// NewSequenceRepository creates a new PostgreSQL sequence repository
func NewSequenceRepository(db *sql.DB) domain.SequenceRepository {
	return &sequenceRepository{db: db}
}

const sequenceSelectFields = `id, name, description, is_active, default_send_time, reply_to, created_at, updated_at`

const sequenceStepSelectFields = `id, sequence_id, step_number, delay_days, delay_time, delay_minutes,
	subject, content, template_id, is_enabled, created_at`

func scanSequence(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Sequence, error) {
	var s domain.Sequence
	err := scanner.Scan(
		&s.ID,
		&s.Name,
		&s.Description,
		&s.IsActive,
		&s.DefaultSendTime,
		&s.ReplyTo,
		&s.CreatedAt,
		&s.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func scanSequenceStep(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.SequenceStep, error) {
	var s domain.SequenceStep
	err := scanner.Scan(
		&s.ID,
		&s.SequenceID,
		&s.StepNumber,
		&s.DelayDays,
		&s.DelayTime,
		&s.DelayMinutes,
		&s.Subject,
		&s.Content,
		&s.TemplateID,
		&s.IsEnabled,
		&s.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *sequenceRepository) Create(ctx context.Context, sequence *domain.Sequence) error {
	query := `
		INSERT INTO sequences (id, name, description, is_active, default_send_time, reply_to, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`
	_, err := r.db.ExecContext(ctx, query,
		sequence.ID,
		sequence.Name,
		sequence.Description,
		sequence.IsActive,
		sequence.DefaultSendTime,
		sequence.ReplyTo,
		sequence.CreatedAt,
		sequence.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create sequence: %w", err)
	}
	return nil
}

func (r *sequenceRepository) GetByID(ctx context.Context, id string) (*domain.Sequence, error) {
	query := fmt.Sprintf(`SELECT %s FROM sequences WHERE id = $1`, sequenceSelectFields)

	sequence, err := scanSequence(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrSequenceNotFound{Message: "sequence not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get sequence: %w", err)
	}
	return sequence, nil
}

func (r *sequenceRepository) List(ctx context.Context) ([]*domain.Sequence, error) {
	return r.querySequences(ctx,
		fmt.Sprintf(`SELECT %s FROM sequences ORDER BY created_at DESC`, sequenceSelectFields))
}

func (r *sequenceRepository) ListActive(ctx context.Context) ([]*domain.Sequence, error) {
	return r.querySequences(ctx,
		fmt.Sprintf(`SELECT %s FROM sequences WHERE is_active = TRUE ORDER BY created_at DESC`, sequenceSelectFields))
}

func (r *sequenceRepository) querySequences(ctx context.Context, query string, args ...interface{}) ([]*domain.Sequence, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query sequences: %w", err)
	}
	defer rows.Close()

	var sequences []*domain.Sequence
	for rows.Next() {
		sequence, err := scanSequence(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sequence: %w", err)
		}
		sequences = append(sequences, sequence)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating sequence rows: %w", err)
	}
	return sequences, nil
}

func (r *sequenceRepository) Update(ctx context.Context, sequence *domain.Sequence) error {
	query := `
		UPDATE sequences
		SET name = $1, description = $2, is_active = $3, default_send_time = $4, reply_to = $5, updated_at = $6
		WHERE id = $7
	`
	result, err := r.db.ExecContext(ctx, query,
		sequence.Name,
		sequence.Description,
		sequence.IsActive,
		sequence.DefaultSendTime,
		sequence.ReplyTo,
		sequence.UpdatedAt,
		sequence.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update sequence: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrSequenceNotFound{Message: "sequence not found"}
	}
	return nil
}

func (r *sequenceRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM sequences WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete sequence: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrSequenceNotFound{Message: "sequence not found"}
	}
	return nil
}

func (r *sequenceRepository) ListSteps(ctx context.Context, sequenceID string, enabledOnly bool) ([]*domain.SequenceStep, error) {
	query := fmt.Sprintf(`SELECT %s FROM sequence_steps WHERE sequence_id = $1`, sequenceStepSelectFields)
	if enabledOnly {
		query += ` AND is_enabled`
	}
	query += ` ORDER BY step_number`

	rows, err := r.db.QueryContext(ctx, query, sequenceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list sequence steps: %w", err)
	}
	defer rows.Close()

	var steps []*domain.SequenceStep
	for rows.Next() {
		step, err := scanSequenceStep(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan sequence step: %w", err)
		}
		steps = append(steps, step)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating step rows: %w", err)
	}
	return steps, nil
}

func (r *sequenceRepository) CountEnabledSteps(ctx context.Context, sequenceID string) (int, error) {
	var count int
	err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sequence_steps WHERE sequence_id = $1 AND is_enabled`, sequenceID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count enabled steps: %w", err)
	}
	return count, nil
}

func (r *sequenceRepository) InsertStepsDisabled(ctx context.Context, steps []*domain.SequenceStep) error {
	query := `
		INSERT INTO sequence_steps (
			id, sequence_id, step_number, delay_days, delay_time, delay_minutes,
			subject, content, template_id, is_enabled, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, FALSE, $10)
	`
	for _, step := range steps {
		_, err := r.db.ExecContext(ctx, query,
			step.ID,
			step.SequenceID,
			step.StepNumber,
			step.DelayDays,
			step.DelayTime,
			step.DelayMinutes,
			step.Subject,
			step.Content,
			step.TemplateID,
			step.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to insert disabled step %d: %w", step.StepNumber, err)
		}
	}
	return nil
}

func (r *sequenceRepository) SwapEnabledSteps(ctx context.Context, sequenceID string, newStepIDs []string) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx,
		`UPDATE sequence_steps SET is_enabled = FALSE WHERE sequence_id = $1 AND is_enabled`,
		sequenceID); err != nil {
		return fmt.Errorf("failed to disable current steps: %w", err)
	}

	result, err := tx.ExecContext(ctx,
		`UPDATE sequence_steps SET is_enabled = TRUE WHERE sequence_id = $1 AND id = ANY($2)`,
		sequenceID, pq.Array(newStepIDs))
	if err != nil {
		return fmt.Errorf("failed to enable replacement steps: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows != int64(len(newStepIDs)) {
		return fmt.Errorf("step swap enabled %d of %d replacement steps", rows, len(newStepIDs))
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit step swap: %w", err)
	}
	return nil
}

func (r *sequenceRepository) CreateEnrollment(ctx context.Context, enrollment *domain.Enrollment) (bool, error) {
	query := `
		INSERT INTO sequence_enrollments (id, subscriber_id, sequence_id, current_step, started_at, completed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (subscriber_id, sequence_id) DO NOTHING
	`
	result, err := r.db.ExecContext(ctx, query,
		enrollment.ID,
		enrollment.SubscriberID,
		enrollment.SequenceID,
		enrollment.CurrentStep,
		enrollment.StartedAt,
		enrollment.CompletedAt,
	)
	if err != nil {
		return false, fmt.Errorf("failed to create enrollment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to get affected rows: %w", err)
	}
	return rows > 0, nil
}

const enrollmentSelectFields = `id, subscriber_id, sequence_id, current_step, started_at, completed_at`

func scanEnrollment(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.Enrollment, error) {
	var e domain.Enrollment
	err := scanner.Scan(
		&e.ID,
		&e.SubscriberID,
		&e.SequenceID,
		&e.CurrentStep,
		&e.StartedAt,
		&e.CompletedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *sequenceRepository) GetEnrollment(ctx context.Context, subscriberID, sequenceID string) (*domain.Enrollment, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM sequence_enrollments WHERE subscriber_id = $1 AND sequence_id = $2`,
		enrollmentSelectFields)

	enrollment, err := scanEnrollment(r.db.QueryRowContext(ctx, query, subscriberID, sequenceID))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrEnrollmentNotFound{Message: "enrollment not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get enrollment: %w", err)
	}
	return enrollment, nil
}

func (r *sequenceRepository) ListEnrollmentsBySequence(ctx context.Context, sequenceID string) ([]*domain.Enrollment, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM sequence_enrollments WHERE sequence_id = $1 ORDER BY started_at DESC`,
		enrollmentSelectFields)
	return r.queryEnrollments(ctx, query, sequenceID)
}

func (r *sequenceRepository) ListEnrollmentsBySubscriber(ctx context.Context, subscriberID string) ([]*domain.Enrollment, error) {
	query := fmt.Sprintf(
		`SELECT %s FROM sequence_enrollments WHERE subscriber_id = $1 ORDER BY started_at DESC`,
		enrollmentSelectFields)
	return r.queryEnrollments(ctx, query, subscriberID)
}

func (r *sequenceRepository) queryEnrollments(ctx context.Context, query string, args ...interface{}) ([]*domain.Enrollment, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query enrollments: %w", err)
	}
	defer rows.Close()

	var enrollments []*domain.Enrollment
	for rows.Next() {
		enrollment, err := scanEnrollment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan enrollment: %w", err)
		}
		enrollments = append(enrollments, enrollment)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating enrollment rows: %w", err)
	}
	return enrollments, nil
}

func (r *sequenceRepository) AdvanceEnrollment(ctx context.Context, enrollmentID string, currentStep int, completedAt *int64) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE sequence_enrollments SET current_step = $1, completed_at = $2 WHERE id = $3`,
		currentStep, completedAt, enrollmentID)
	if err != nil {
		return fmt.Errorf("failed to advance enrollment: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrEnrollmentNotFound{Message: "enrollment not found"}
	}
	return nil
}

func (r *sequenceRepository) ListDueCandidates(ctx context.Context) ([]*domain.DueCandidate, error) {
	// One row per enrollment awaiting its next enabled step. Completed
	// enrollments, inactive sequences and non-active subscribers drop out
	// of the join.
	query := fmt.Sprintf(`
		SELECT
			%s,
			%s,
			%s,
			%s
		FROM sequence_enrollments e
		JOIN subscribers sub ON sub.id = e.subscriber_id AND sub.status = 'active'
		JOIN sequences seq ON seq.id = e.sequence_id AND seq.is_active = TRUE
		JOIN sequence_steps st ON st.sequence_id = e.sequence_id
			AND st.is_enabled
			AND st.step_number = e.current_step + 1
		WHERE e.completed_at IS NULL
		ORDER BY e.started_at
	`,
		prefixFields("e.", enrollmentSelectFields),
		prefixFields("sub.", subscriberSelectFields),
		prefixFields("seq.", sequenceSelectFields),
		prefixFields("st.", sequenceStepSelectFields),
	)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list due candidates: %w", err)
	}
	defer rows.Close()

	var candidates []*domain.DueCandidate
	for rows.Next() {
		var c domain.DueCandidate
		err := rows.Scan(
			&c.Enrollment.ID,
			&c.Enrollment.SubscriberID,
			&c.Enrollment.SequenceID,
			&c.Enrollment.CurrentStep,
			&c.Enrollment.StartedAt,
			&c.Enrollment.CompletedAt,
			&c.Subscriber.ID,
			&c.Subscriber.Email,
			&c.Subscriber.Name,
			&c.Subscriber.Status,
			&c.Subscriber.UnsubscribeToken,
			&c.Subscriber.SubscribedAt,
			&c.Subscriber.UnsubscribedAt,
			&c.Subscriber.CreatedAt,
			&c.Sequence.ID,
			&c.Sequence.Name,
			&c.Sequence.Description,
			&c.Sequence.IsActive,
			&c.Sequence.DefaultSendTime,
			&c.Sequence.ReplyTo,
			&c.Sequence.CreatedAt,
			&c.Sequence.UpdatedAt,
			&c.Step.ID,
			&c.Step.SequenceID,
			&c.Step.StepNumber,
			&c.Step.DelayDays,
			&c.Step.DelayTime,
			&c.Step.DelayMinutes,
			&c.Step.Subject,
			&c.Step.Content,
			&c.Step.TemplateID,
			&c.Step.IsEnabled,
			&c.Step.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due candidate: %w", err)
		}
		candidates = append(candidates, &c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating candidate rows: %w", err)
	}
	return candidates, nil
}
