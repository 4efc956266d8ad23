package service

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/asaskevich/govalidator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/pkg/crypto"
	"github.com/postwind/postwind/pkg/logger"
)

// ConfirmTokenTTL is the validity window of a double-opt-in token.
const ConfirmTokenTTL = 7 * 24 * time.Hour

// ErrInvalidConfirmToken is returned when a confirmation token fails to
// parse, is expired, or names an unknown subscriber.
var ErrInvalidConfirmToken = errors.New("invalid or expired confirmation token")

// SubscriberServiceConfig carries the deployment knobs the subscriber
// flows need.
type SubscriberServiceConfig struct {
	SiteURL            string
	ConfirmTokenSecret string
	FromName           string
	FromEmail          string
	ReplyTo            string
}

// SubscriberService owns the subscriber lifecycle: public signup with
// double opt-in, admin CRUD, CSV import/export, and enrollment into
// active sequences at confirmation time.
type SubscriberService struct {
	subscriberRepo domain.SubscriberRepository
	sequenceRepo   domain.SequenceRepository
	brandRepo      domain.BrandSettingsRepository
	renderer       domain.TemplateRenderer
	providerClient domain.ProviderClient
	cfg            SubscriberServiceConfig
	logger         logger.Logger
}

func NewSubscriberService(
	subscriberRepo domain.SubscriberRepository,
	sequenceRepo domain.SequenceRepository,
	brandRepo domain.BrandSettingsRepository,
	renderer domain.TemplateRenderer,
	providerClient domain.ProviderClient,
	cfg SubscriberServiceConfig,
	log logger.Logger,
) *SubscriberService {
	return &SubscriberService{
		subscriberRepo: subscriberRepo,
		sequenceRepo:   sequenceRepo,
		brandRepo:      brandRepo,
		renderer:       renderer,
		providerClient: providerClient,
		cfg:            cfg,
		logger:         log,
	}
}

func (s *SubscriberService) GetByID(ctx context.Context, id string) (*domain.Subscriber, error) {
	return s.subscriberRepo.GetByID(ctx, id)
}

func (s *SubscriberService) List(ctx context.Context, params domain.SubscriberListParams) ([]*domain.Subscriber, int, error) {
	if err := params.Validate(); err != nil {
		return nil, 0, err
	}
	return s.subscriberRepo.List(ctx, params)
}

// Update applies admin edits to name and status. The email and the
// unsubscribe token are immutable.
func (s *SubscriberService) Update(ctx context.Context, id string, name *string, status domain.SubscriberStatus) (*domain.Subscriber, error) {
	subscriber, err := s.subscriberRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if name != nil {
		trimmed := strings.TrimSpace(*name)
		if trimmed == "" {
			subscriber.Name = nil
		} else {
			subscriber.Name = &trimmed
		}
	}
	if status != "" {
		subscriber.Status = status
	}
	if err := subscriber.Validate(); err != nil {
		return nil, err
	}
	if err := s.subscriberRepo.Update(ctx, subscriber); err != nil {
		return nil, err
	}
	return subscriber, nil
}

// Signup creates a pending subscriber and emails a confirmation link.
// An existing pending subscriber gets the confirmation re-sent; any
// other existing status is returned unchanged.
func (s *SubscriberService) Signup(ctx context.Context, email, name string) (*domain.Subscriber, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if !govalidator.IsEmail(email) {
		return nil, fmt.Errorf("invalid email format: %s", email)
	}

	existing, err := s.subscriberRepo.GetByEmail(ctx, email)
	if err == nil {
		if existing.Status == domain.SubscriberStatusPending {
			if sendErr := s.sendConfirmation(ctx, existing); sendErr != nil {
				return nil, sendErr
			}
		}
		return existing, nil
	}
	var notFound *domain.ErrSubscriberNotFound
	if !errors.As(err, &notFound) {
		return nil, err
	}

	token, err := crypto.GenerateSecureToken(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate unsubscribe token: %w", err)
	}

	subscriber := &domain.Subscriber{
		ID:               uuid.New().String(),
		Email:            email,
		Status:           domain.SubscriberStatusPending,
		UnsubscribeToken: token,
		CreatedAt:        time.Now().Unix(),
	}
	if trimmed := strings.TrimSpace(name); trimmed != "" {
		subscriber.Name = &trimmed
	}
	if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
		return nil, err
	}

	if err := s.sendConfirmation(ctx, subscriber); err != nil {
		return nil, err
	}
	return subscriber, nil
}

// Confirm flips a pending subscriber to active and enrolls them into
// every active sequence. Confirming twice is a no-op.
func (s *SubscriberService) Confirm(ctx context.Context, token string) (*domain.Subscriber, error) {
	subscriberID, err := s.parseConfirmToken(token)
	if err != nil {
		return nil, ErrInvalidConfirmToken
	}

	subscriber, err := s.subscriberRepo.GetByID(ctx, subscriberID)
	if err != nil {
		var notFound *domain.ErrSubscriberNotFound
		if errors.As(err, &notFound) {
			return nil, ErrInvalidConfirmToken
		}
		return nil, err
	}

	if subscriber.Status == domain.SubscriberStatusPending {
		now := time.Now().Unix()
		subscriber.Status = domain.SubscriberStatusActive
		subscriber.SubscribedAt = &now
		if err := s.subscriberRepo.Update(ctx, subscriber); err != nil {
			return nil, fmt.Errorf("failed to activate subscriber: %w", err)
		}
	}

	if subscriber.Status == domain.SubscriberStatusActive {
		s.enrollInActiveSequences(ctx, subscriber)
	}
	return subscriber, nil
}

// enrollInActiveSequences attempts one enrollment per active sequence.
// Uniqueness conflicts mean "already enrolled" and are not errors.
func (s *SubscriberService) enrollInActiveSequences(ctx context.Context, subscriber *domain.Subscriber) {
	sequences, err := s.sequenceRepo.ListActive(ctx)
	if err != nil {
		s.logger.WithField("error", err.Error()).Error("Failed to list active sequences for enrollment")
		return
	}
	now := time.Now().Unix()
	for _, seq := range sequences {
		inserted, err := s.sequenceRepo.CreateEnrollment(ctx, &domain.Enrollment{
			ID:           uuid.New().String(),
			SubscriberID: subscriber.ID,
			SequenceID:   seq.ID,
			CurrentStep:  0,
			StartedAt:    now,
		})
		if err != nil {
			s.logger.WithFields(map[string]interface{}{
				"subscriber_id": subscriber.ID,
				"sequence_id":   seq.ID,
				"error":         err.Error(),
			}).Error("Failed to enroll subscriber at confirmation")
			continue
		}
		if inserted {
			s.logger.WithFields(map[string]interface{}{
				"subscriber_id": subscriber.ID,
				"sequence_id":   seq.ID,
			}).Info("Enrolled subscriber into sequence")
		}
	}
}

func (s *SubscriberService) sendConfirmation(ctx context.Context, subscriber *domain.Subscriber) error {
	token, err := s.generateConfirmToken(subscriber.ID)
	if err != nil {
		return fmt.Errorf("failed to sign confirmation token: %w", err)
	}

	brand, err := s.brandRepo.Get(ctx)
	if err != nil {
		return fmt.Errorf("failed to load brand settings: %w", err)
	}

	confirmURL := fmt.Sprintf("%s/api/newsletter/confirm?token=%s", s.cfg.SiteURL, token)
	content := fmt.Sprintf(
		"<p>Please confirm your subscription by clicking the link below.</p>"+
			"<p><a href=\"%s\">Confirm subscription</a></p>"+
			"<p>If you did not sign up, you can ignore this email.</p>",
		confirmURL)

	html, err := s.renderer.Render(ctx, domain.RenderInput{
		TemplateID:     brand.DefaultTemplateID,
		Subject:        "Confirm your subscription",
		Content:        content,
		Brand:          brand,
		SubscriberName: subscriber.DisplayName(),
		UnsubscribeURL: fmt.Sprintf("%s/api/newsletter/unsubscribe/%s", s.cfg.SiteURL, subscriber.UnsubscribeToken),
		SiteURL:        s.cfg.SiteURL,
	})
	if err != nil {
		return fmt.Errorf("failed to render confirmation email: %w", err)
	}

	_, err = s.providerClient.Send(ctx, domain.EmailMessage{
		From:    fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.FromEmail),
		To:      subscriber.Email,
		ReplyTo: s.cfg.ReplyTo,
		Subject: "Confirm your subscription",
		HTML:    html,
	})
	if err != nil {
		return fmt.Errorf("failed to send confirmation email: %w", err)
	}
	return nil
}

func (s *SubscriberService) generateConfirmToken(subscriberID string) (string, error) {
	now := time.Now()
	claims := jwt.RegisteredClaims{
		Subject:   subscriberID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ConfirmTokenTTL)),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.ConfirmTokenSecret))
}

func (s *SubscriberService) parseConfirmToken(raw string) (string, error) {
	claims := &jwt.RegisteredClaims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return []byte(s.cfg.ConfirmTokenSecret), nil
	})
	if err != nil || !token.Valid || claims.Subject == "" {
		return "", ErrInvalidConfirmToken
	}
	return claims.Subject, nil
}

// ImportRowError reports one rejected CSV row with its 1-based line
// number (the header is line 1).
type ImportRowError struct {
	Row   int    `json:"row"`
	Error string `json:"error"`
}

// ImportResult summarises a CSV import.
type ImportResult struct {
	Imported int              `json:"imported"`
	Skipped  int              `json:"skipped"`
	Errors   []ImportRowError `json:"errors,omitempty"`
}

// csvEmailHeaders are the accepted email column names, lowercased. The
// Japanese synonyms match the admin UI's export format.
var csvEmailHeaders = map[string]bool{
	"email":    true,
	"eメール":     true,
	"メールアドレス": true,
}

// ImportCSV reads subscribers from a CSV stream. Imported rows become
// active immediately (admin import bypasses double opt-in); rows whose
// email already exists are skipped; malformed rows are reported with
// their line number without aborting the import.
func (s *SubscriberService) ImportCSV(ctx context.Context, r io.Reader) (*ImportResult, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	emailCol, firstCol, lastCol, nameCol := -1, -1, -1, -1
	for i, h := range header {
		switch key := strings.ToLower(strings.TrimSpace(h)); {
		case csvEmailHeaders[key]:
			emailCol = i
		case key == "first_name" || key == "firstname":
			firstCol = i
		case key == "last_name" || key == "lastname":
			lastCol = i
		case key == "name" || key == "氏名":
			nameCol = i
		}
	}
	if emailCol == -1 {
		return nil, fmt.Errorf("CSV is missing an email column")
	}

	result := &ImportResult{}
	row := 1
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Error: err.Error()})
			continue
		}
		if emailCol >= len(record) {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Error: "missing email value"})
			continue
		}

		email := strings.ToLower(strings.TrimSpace(record[emailCol]))
		if !govalidator.IsEmail(email) {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Error: fmt.Sprintf("invalid email format: %s", email)})
			continue
		}

		if _, err := s.subscriberRepo.GetByEmail(ctx, email); err == nil {
			result.Skipped++
			continue
		} else {
			var notFound *domain.ErrSubscriberNotFound
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to check existing subscriber: %w", err)
			}
		}

		name := csvName(record, firstCol, lastCol, nameCol)
		token, err := crypto.GenerateSecureToken(32)
		if err != nil {
			return nil, fmt.Errorf("failed to generate unsubscribe token: %w", err)
		}
		now := time.Now().Unix()
		subscriber := &domain.Subscriber{
			ID:               uuid.New().String(),
			Email:            email,
			Status:           domain.SubscriberStatusActive,
			UnsubscribeToken: token,
			SubscribedAt:     &now,
			CreatedAt:        now,
		}
		if name != "" {
			subscriber.Name = &name
		}
		if err := s.subscriberRepo.Create(ctx, subscriber); err != nil {
			result.Errors = append(result.Errors, ImportRowError{Row: row, Error: err.Error()})
			continue
		}
		result.Imported++
	}
	return result, nil
}

func csvName(record []string, firstCol, lastCol, nameCol int) string {
	cell := func(i int) string {
		if i < 0 || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}
	if name := cell(nameCol); name != "" {
		return name
	}
	return domain.JoinName(cell(firstCol), cell(lastCol))
}

const exportPageSize = 500

// ExportCSV streams subscribers as CSV with columns email, first_name,
// last_name, status, created_at (ISO-8601).
func (s *SubscriberService) ExportCSV(ctx context.Context, w io.Writer, status domain.SubscriberStatus, listID string) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"email", "first_name", "last_name", "status", "created_at"}); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	offset := 0
	for {
		params := domain.SubscriberListParams{
			Status: status,
			ListID: listID,
			Limit:  exportPageSize,
			Offset: offset,
		}
		if err := params.Validate(); err != nil {
			return err
		}
		subscribers, total, err := s.subscriberRepo.List(ctx, params)
		if err != nil {
			return fmt.Errorf("failed to list subscribers: %w", err)
		}
		for _, sub := range subscribers {
			first, last := domain.SplitName(sub.DisplayName())
			created := time.Unix(sub.CreatedAt, 0).UTC().Format(time.RFC3339)
			if err := writer.Write([]string{sub.Email, first, last, string(sub.Status), created}); err != nil {
				return fmt.Errorf("failed to write CSV row: %w", err)
			}
		}
		offset += len(subscribers)
		if len(subscribers) == 0 || offset >= total {
			break
		}
	}

	writer.Flush()
	return writer.Error()
}
