package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/postwind/postwind/internal/domain"
)

type contactListRepository struct {
	db *sql.DB
}

// NewContactListRepository creates a new PostgreSQL contact list repository
func NewContactListRepository(db *sql.DB) domain.ContactListRepository {
	return &contactListRepository{db: db}
}

const contactListSelectFields = `id, name, description, provider_segment_id, created_at, updated_at`

func scanContactList(scanner interface {
	Scan(dest ...interface{}) error
}) (*domain.ContactList, error) {
	var l domain.ContactList
	err := scanner.Scan(
		&l.ID,
		&l.Name,
		&l.Description,
		&l.ProviderSegmentID,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (r *contactListRepository) Create(ctx context.Context, list *domain.ContactList) error {
	query := `
		INSERT INTO contact_lists (id, name, description, provider_segment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`
	_, err := r.db.ExecContext(ctx, query,
		list.ID,
		list.Name,
		list.Description,
		list.ProviderSegmentID,
		list.CreatedAt,
		list.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create contact list: %w", err)
	}
	return nil
}

func (r *contactListRepository) GetByID(ctx context.Context, id string) (*domain.ContactList, error) {
	query := fmt.Sprintf(`SELECT %s FROM contact_lists WHERE id = $1`, contactListSelectFields)

	list, err := scanContactList(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &domain.ErrContactListNotFound{Message: "contact list not found"}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get contact list: %w", err)
	}
	return list, nil
}

func (r *contactListRepository) List(ctx context.Context) ([]*domain.ContactList, error) {
	query := fmt.Sprintf(`SELECT %s FROM contact_lists ORDER BY name`, contactListSelectFields)

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list contact lists: %w", err)
	}
	defer rows.Close()

	var lists []*domain.ContactList
	for rows.Next() {
		list, err := scanContactList(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan contact list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating contact list rows: %w", err)
	}
	return lists, nil
}

func (r *contactListRepository) Update(ctx context.Context, list *domain.ContactList) error {
	query := `
		UPDATE contact_lists
		SET name = $1, description = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query,
		list.Name,
		list.Description,
		list.UpdatedAt,
		list.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update contact list: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrContactListNotFound{Message: "contact list not found"}
	}
	return nil
}

func (r *contactListRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM contact_lists WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete contact list: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrContactListNotFound{Message: "contact list not found"}
	}
	return nil
}

func (r *contactListRepository) SetProviderSegmentID(ctx context.Context, listID, segmentID string) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE contact_lists SET provider_segment_id = $1 WHERE id = $2`, segmentID, listID)
	if err != nil {
		return fmt.Errorf("failed to set provider segment id: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return &domain.ErrContactListNotFound{Message: "contact list not found"}
	}
	return nil
}

func (r *contactListRepository) AddMember(ctx context.Context, listID, subscriberID string, now int64) error {
	query := `
		INSERT INTO list_members (list_id, subscriber_id, added_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (list_id, subscriber_id) DO NOTHING
	`
	_, err := r.db.ExecContext(ctx, query, listID, subscriberID, now)
	if err != nil {
		return fmt.Errorf("failed to add list member: %w", err)
	}
	return nil
}

func (r *contactListRepository) RemoveMember(ctx context.Context, listID, subscriberID string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM list_members WHERE list_id = $1 AND subscriber_id = $2`, listID, subscriberID)
	if err != nil {
		return fmt.Errorf("failed to remove list member: %w", err)
	}
	return nil
}

func (r *contactListRepository) ListMembers(ctx context.Context, listID string) ([]*domain.Subscriber, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM subscribers s
		JOIN list_members lm ON lm.subscriber_id = s.id
		WHERE lm.list_id = $1
		ORDER BY s.created_at DESC
	`, prefixFields("s.", subscriberSelectFields))

	rows, err := r.db.QueryContext(ctx, query, listID)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var subscribers []*domain.Subscriber
	for rows.Next() {
		subscriber, err := scanSubscriber(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan subscriber: %w", err)
		}
		subscribers = append(subscribers, subscriber)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating member rows: %w", err)
	}
	return subscribers, nil
}
