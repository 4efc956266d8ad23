package service

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/postwind/postwind/internal/domain"
	"github.com/postwind/postwind/internal/domain/mocks"
	"github.com/postwind/postwind/pkg/logger"
)

type subscriberServiceMocks struct {
	subscriberRepo *mocks.MockSubscriberRepository
	sequenceRepo   *mocks.MockSequenceRepository
	brandRepo      *mocks.MockBrandSettingsRepository
	renderer       *mocks.MockTemplateRenderer
	provider       *mocks.MockProviderClient
}

func newSubscriberService(t *testing.T, ctrl *gomock.Controller) (*SubscriberService, *subscriberServiceMocks) {
	m := &subscriberServiceMocks{
		subscriberRepo: mocks.NewMockSubscriberRepository(ctrl),
		sequenceRepo:   mocks.NewMockSequenceRepository(ctrl),
		brandRepo:      mocks.NewMockBrandSettingsRepository(ctrl),
		renderer:       mocks.NewMockTemplateRenderer(ctrl),
		provider:       mocks.NewMockProviderClient(ctrl),
	}
	cfg := SubscriberServiceConfig{
		SiteURL:            "https://postwind.test",
		ConfirmTokenSecret: "test-confirm-secret",
		FromName:           "Postwind",
		FromEmail:          "news@postwind.test",
		ReplyTo:            "hello@postwind.test",
	}
	s := NewSubscriberService(m.subscriberRepo, m.sequenceRepo, m.brandRepo, m.renderer, m.provider, cfg, logger.NewTestLogger(t))
	return s, m
}

func expectConfirmationEmail(t *testing.T, m *subscriberServiceMocks, email string) {
	m.brandRepo.EXPECT().Get(gomock.Any()).Return(domain.DefaultBrandSettings(), nil)
	m.renderer.EXPECT().Render(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, input domain.RenderInput) (string, error) {
			assert.Contains(t, input.Content, "/api/newsletter/confirm?token=")
			return "<html>confirm</html>", nil
		})
	m.provider.EXPECT().Send(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, msg domain.EmailMessage) (string, error) {
			assert.Equal(t, email, msg.To)
			assert.Equal(t, "Confirm your subscription", msg.Subject)
			return "msg-1", nil
		})
}

func TestSignupCreatesPendingAndSendsConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newSubscriberService(t, ctrl)

	m.subscriberRepo.EXPECT().GetByEmail(gomock.Any(), "new@example.com").
		Return(nil, &domain.ErrSubscriberNotFound{Message: "subscriber not found"})
	m.subscriberRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, sub *domain.Subscriber) error {
			assert.Equal(t, domain.SubscriberStatusPending, sub.Status)
			assert.NotEmpty(t, sub.UnsubscribeToken)
			require.NotNil(t, sub.Name)
			assert.Equal(t, "Hanako", *sub.Name)
			return nil
		})
	expectConfirmationEmail(t, m, "new@example.com")

	sub, err := s.Signup(context.Background(), " New@Example.com ", "Hanako")
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", sub.Email)
	assert.Equal(t, domain.SubscriberStatusPending, sub.Status)
}

func TestSignupExistingPendingResendsConfirmation(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newSubscriberService(t, ctrl)

	existing := &domain.Subscriber{ID: "sub-1", Email: "a@example.com", Status: domain.SubscriberStatusPending, UnsubscribeToken: "tok"}
	m.subscriberRepo.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(existing, nil)
	expectConfirmationEmail(t, m, "a@example.com")

	sub, err := s.Signup(context.Background(), "a@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, existing, sub)
}

func TestSignupExistingActiveIsIdempotent(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newSubscriberService(t, ctrl)

	existing := &domain.Subscriber{ID: "sub-1", Email: "a@example.com", Status: domain.SubscriberStatusActive}
	m.subscriberRepo.EXPECT().GetByEmail(gomock.Any(), "a@example.com").Return(existing, nil)

	// No confirmation is re-sent.
	sub, err := s.Signup(context.Background(), "a@example.com", "")
	require.NoError(t, err)
	assert.Equal(t, existing, sub)
}

func TestSignupRejectsInvalidEmail(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newSubscriberService(t, ctrl)

	_, err := s.Signup(context.Background(), "not-an-email", "")
	assert.Error(t, err)
}

func TestConfirmActivatesAndEnrolls(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newSubscriberService(t, ctrl)

	token, err := s.generateConfirmToken("sub-1")
	require.NoError(t, err)

	pending := &domain.Subscriber{ID: "sub-1", Email: "a@example.com", Status: domain.SubscriberStatusPending}
	m.subscriberRepo.EXPECT().GetByID(gomock.Any(), "sub-1").Return(pending, nil)
	m.subscriberRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, sub *domain.Subscriber) error {
			assert.Equal(t, domain.SubscriberStatusActive, sub.Status)
			require.NotNil(t, sub.SubscribedAt)
			return nil
		})
	m.sequenceRepo.EXPECT().ListActive(gomock.Any()).
		Return([]*domain.Sequence{{ID: "seq-1", IsActive: true}}, nil)
	m.sequenceRepo.EXPECT().CreateEnrollment(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, e *domain.Enrollment) (bool, error) {
			assert.Equal(t, "sub-1", e.SubscriberID)
			assert.Equal(t, "seq-1", e.SequenceID)
			assert.Equal(t, 0, e.CurrentStep)
			return true, nil
		})

	sub, err := s.Confirm(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriberStatusActive, sub.Status)
}

func TestConfirmTwiceIsNoop(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newSubscriberService(t, ctrl)

	token, err := s.generateConfirmToken("sub-1")
	require.NoError(t, err)

	active := &domain.Subscriber{ID: "sub-1", Email: "a@example.com", Status: domain.SubscriberStatusActive}
	m.subscriberRepo.EXPECT().GetByID(gomock.Any(), "sub-1").Return(active, nil)
	// Enrollment is re-attempted; the uniqueness constraint absorbs it.
	m.sequenceRepo.EXPECT().ListActive(gomock.Any()).
		Return([]*domain.Sequence{{ID: "seq-1", IsActive: true}}, nil)
	m.sequenceRepo.EXPECT().CreateEnrollment(gomock.Any(), gomock.Any()).Return(false, nil)

	sub, err := s.Confirm(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriberStatusActive, sub.Status)
}

func TestConfirmRejectsBadToken(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newSubscriberService(t, ctrl)

	_, err := s.Confirm(context.Background(), "not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidConfirmToken)
}

func TestConfirmRejectsTokenSignedWithOtherSecret(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newSubscriberService(t, ctrl)

	other := &SubscriberService{cfg: SubscriberServiceConfig{ConfirmTokenSecret: "other-secret"}}
	token, err := other.generateConfirmToken("sub-1")
	require.NoError(t, err)

	_, err = s.Confirm(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidConfirmToken)
}

func TestImportCSVJapaneseHeaders(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newSubscriberService(t, ctrl)

	csvBody := "メールアドレス,氏名\n" +
		"taro@example.com,山田太郎\n" +
		"hanako@example.com,佐藤花子\n"

	m.subscriberRepo.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).
		Return(nil, &domain.ErrSubscriberNotFound{Message: "subscriber not found"}).Times(2)

	var created []*domain.Subscriber
	m.subscriberRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, sub *domain.Subscriber) error {
			created = append(created, sub)
			return nil
		}).Times(2)

	result, err := s.ImportCSV(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 2, result.Imported)
	assert.Equal(t, 0, result.Skipped)
	assert.Empty(t, result.Errors)

	require.Len(t, created, 2)
	// Admin import bypasses double opt-in.
	assert.Equal(t, domain.SubscriberStatusActive, created[0].Status)
	require.NotNil(t, created[0].SubscribedAt)
	require.NotNil(t, created[0].Name)
	assert.Equal(t, "山田太郎", *created[0].Name)
}

func TestImportCSVSkipsExistingAndReportsBadRows(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newSubscriberService(t, ctrl)

	csvBody := "email,first_name,last_name\n" +
		"existing@example.com,Ann,Ito\n" +
		"not-an-email,Bad,Row\n" +
		"new@example.com,Ken,Sato\n"

	m.subscriberRepo.EXPECT().GetByEmail(gomock.Any(), "existing@example.com").
		Return(&domain.Subscriber{ID: "sub-1", Email: "existing@example.com"}, nil)
	m.subscriberRepo.EXPECT().GetByEmail(gomock.Any(), "new@example.com").
		Return(nil, &domain.ErrSubscriberNotFound{Message: "subscriber not found"})
	m.subscriberRepo.EXPECT().Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, sub *domain.Subscriber) error {
			assert.Equal(t, "new@example.com", sub.Email)
			require.NotNil(t, sub.Name)
			assert.Equal(t, "Ken Sato", *sub.Name)
			return nil
		})

	result, err := s.ImportCSV(context.Background(), strings.NewReader(csvBody))
	require.NoError(t, err)
	assert.Equal(t, 1, result.Imported)
	assert.Equal(t, 1, result.Skipped)
	require.Len(t, result.Errors, 1)
	// Header is line 1, so the bad row is line 3.
	assert.Equal(t, 3, result.Errors[0].Row)
	assert.Contains(t, result.Errors[0].Error, "invalid email")
}

func TestImportCSVMissingEmailColumn(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, _ := newSubscriberService(t, ctrl)

	_, err := s.ImportCSV(context.Background(), strings.NewReader("name,status\nTaro,active\n"))
	assert.Error(t, err)
}

func TestExportCSV(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newSubscriberService(t, ctrl)

	name := "Taro Yamada"
	subscribers := []*domain.Subscriber{
		{ID: "sub-1", Email: "taro@example.com", Name: &name, Status: domain.SubscriberStatusActive, CreatedAt: 1700000000},
		{ID: "sub-2", Email: "anon@example.com", Status: domain.SubscriberStatusUnsubscribed, CreatedAt: 1700000100},
	}
	m.subscriberRepo.EXPECT().List(gomock.Any(), gomock.Any()).Return(subscribers, 2, nil)

	var buf bytes.Buffer
	require.NoError(t, s.ExportCSV(context.Background(), &buf, "", ""))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "email,first_name,last_name,status,created_at", lines[0])
	assert.Equal(t, "taro@example.com,Taro,Yamada,active,2023-11-14T22:13:20Z", lines[1])
	assert.Contains(t, lines[2], "anon@example.com")
	assert.Contains(t, lines[2], "unsubscribed")
}

func TestUpdateEditsNameAndStatusOnly(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	s, m := newSubscriberService(t, ctrl)

	existing := &domain.Subscriber{ID: "sub-1", Email: "a@example.com", Status: domain.SubscriberStatusActive, UnsubscribeToken: "tok", CreatedAt: 1700000000}
	m.subscriberRepo.EXPECT().GetByID(gomock.Any(), "sub-1").Return(existing, nil)
	m.subscriberRepo.EXPECT().Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ interface{}, sub *domain.Subscriber) error {
			assert.Equal(t, "a@example.com", sub.Email)
			assert.Equal(t, "tok", sub.UnsubscribeToken)
			require.NotNil(t, sub.Name)
			assert.Equal(t, "Renamed", *sub.Name)
			assert.Equal(t, domain.SubscriberStatusUnsubscribed, sub.Status)
			return nil
		})

	name := " Renamed "
	sub, err := s.Update(context.Background(), "sub-1", &name, domain.SubscriberStatusUnsubscribed)
	require.NoError(t, err)
	assert.Equal(t, domain.SubscriberStatusUnsubscribed, sub.Status)
}
