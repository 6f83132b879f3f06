package mailer

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"shutterflow/internal/branding"
	"shutterflow/internal/engine"
	"shutterflow/internal/models"
)

type mockSender struct {
	mock.Mock
}

func (m *mockSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	return m.Called(ctx, params).Error(0)
}

type fakeTemplates map[uuid.UUID]*models.EmailTemplate

func (f fakeTemplates) FindByID(photographerID, id uuid.UUID) (*models.EmailTemplate, error) {
	t := f[id]
	if t == nil || t.PhotographerID != photographerID {
		return nil, nil
	}
	return t, nil
}

type fakeBranding struct{ b *models.Branding }

func (f fakeBranding) FindByPhotographer(uuid.UUID) (*models.Branding, error) { return f.b, nil }

type fakeLog struct {
	records []models.SentEmail
	err     error
}

func (f *fakeLog) Create(e *models.SentEmail) error {
	if f.err != nil {
		return f.err
	}
	e.ID = uuid.New()
	f.records = append(f.records, *e)
	return nil
}

func newTestService(t *testing.T, sender EmailSender) (*Service, *models.EmailTemplate, *fakeLog) {
	t.Helper()
	pid := uuid.New()
	tmpl := &models.EmailTemplate{
		ID:             uuid.New(),
		PhotographerID: pid,
		Slug:           "gallery-delivery",
		Version:        1,
		Document: models.Document{
			Subject: "{{first_name}}, your gallery is ready",
			Blocks: []models.Block{
				{ID: "1", Type: models.BlockText, Content: models.TextContent{Text: "Hi {{client_name}}, from {{business_name}}."}},
				{ID: "2", Type: models.BlockButton, Content: models.ButtonContent{Text: "View Gallery", LinkType: models.LinkGallery}},
				{ID: "3", Type: models.BlockText, Content: models.TextContent{Text: "Shot on {{event_date}}"}},
			},
		},
	}
	brand := &models.Branding{PhotographerID: pid, BusinessName: "Lumen Studio", PhotographerName: "Ana", Version: 3}
	log := &fakeLog{}
	svc := NewService(sender, engine.New(), fakeTemplates{tmpl.ID: tmpl}, fakeBranding{b: brand}, log)
	return svc, tmpl, log
}

func TestServiceSend(t *testing.T) {
	sender := &mockSender{}
	svc, tmpl, log := newTestService(t, sender)

	sender.On("SendEmail", mock.Anything, mock.MatchedBy(func(p SendEmailParams) bool {
		return p.SendTo == "jo@example.com" &&
			p.Subject == "Jo, your gallery is ready" &&
			p.Tag == "gallery-delivery" &&
			assert.Contains(t, p.BodyHTML, `href="https://gallery.example.com/g/1?a=1&amp;b=2"`) &&
			assert.Contains(t, p.BodyHTML, "Hi Jo &lt;3 Smith, from Lumen Studio.") &&
			assert.Contains(t, p.BodyHTML, "{{event_date}}")
	})).Return(nil).Once()

	rec, err := svc.Send(context.Background(), SendRequest{
		PhotographerID: tmpl.PhotographerID,
		TemplateID:     tmpl.ID,
		To:             "jo@example.com",
		Values:         map[string]string{"first_name": "Jo", "client_name": "Jo <3 Smith"},
		Links:          Links{Gallery: "https://gallery.example.com/g/1?a=1&b=2"},
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)

	assert.Equal(t, models.SendStatusSent, rec.Status)
	require.Len(t, log.records, 1)
	assert.Equal(t, "Jo, your gallery is ready", log.records[0].Subject)
	assert.Equal(t, tmpl.ID, log.records[0].TemplateID)
}

func TestServiceSendSignatureContactMatchesPreview(t *testing.T) {
	tests := []struct {
		name      string
		brand     models.Branding
		wantPhone string
		wantEmail string
	}{
		{name: "profile without contact", brand: models.Branding{PhotographerName: "Jane Doe"}, wantPhone: branding.FallbackPhone, wantEmail: branding.FallbackEmail},
		{name: "profile contact wins", brand: models.Branding{PhotographerName: "Jane Doe", Phone: "0721 000 000", Email: "jane@lumen.test"}, wantPhone: "0721 000 000", wantEmail: "jane@lumen.test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pid := uuid.New()
			tmpl := &models.EmailTemplate{
				ID: uuid.New(), PhotographerID: pid, Slug: "hello", Version: 1,
				Document: models.Document{
					Subject:          "Hello",
					Blocks:           []models.Block{{ID: "1", Type: models.BlockText, Content: models.TextContent{Text: "Hi"}}},
					IncludeSignature: true,
					SignatureStyle:   models.SignatureSimple,
				},
			}
			brand := tt.brand
			brand.PhotographerID = pid
			eng := engine.New()

			preview, err := eng.Preview(tmpl.Document, &brand)
			require.NoError(t, err)
			assert.Contains(t, preview.HTML.String(), tt.wantPhone)

			var sent SendEmailParams
			sender := &mockSender{}
			sender.On("SendEmail", mock.Anything, mock.Anything).Run(func(args mock.Arguments) {
				sent = args.Get(1).(SendEmailParams)
			}).Return(nil).Once()

			svc := NewService(sender, eng, fakeTemplates{tmpl.ID: tmpl}, fakeBranding{b: &brand}, &fakeLog{})
			_, err = svc.Send(context.Background(), SendRequest{PhotographerID: pid, TemplateID: tmpl.ID, To: "jo@example.com"})
			require.NoError(t, err)

			assert.Contains(t, sent.BodyHTML, tt.wantPhone)
			assert.Contains(t, sent.BodyHTML, tt.wantEmail)
		})
	}
}

func TestServiceSendFailureIsRecorded(t *testing.T) {
	sender := &mockSender{}
	svc, tmpl, log := newTestService(t, sender)
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(ErrFailedToSendEmail)

	rec, err := svc.Send(context.Background(), SendRequest{
		PhotographerID: tmpl.PhotographerID, TemplateID: tmpl.ID, To: "jo@example.com",
	})
	assert.ErrorIs(t, err, ErrFailedToSendEmail)
	require.NotNil(t, rec)
	assert.Equal(t, models.SendStatusFailed, rec.Status)
	require.Len(t, log.records, 1)
	assert.Equal(t, models.SendStatusFailed, log.records[0].Status)
	assert.NotEmpty(t, log.records[0].Error)
}

func TestServiceSendLogFailureDoesNotFailSend(t *testing.T) {
	sender := &mockSender{}
	svc, tmpl, log := newTestService(t, sender)
	log.err = errors.New("db down")
	sender.On("SendEmail", mock.Anything, mock.Anything).Return(nil)

	rec, err := svc.Send(context.Background(), SendRequest{
		PhotographerID: tmpl.PhotographerID, TemplateID: tmpl.ID, To: "jo@example.com",
	})
	require.NoError(t, err)
	assert.Equal(t, models.SendStatusSent, rec.Status)
}

func TestServiceSendTemplateNotFound(t *testing.T) {
	sender := &mockSender{}
	svc, tmpl, log := newTestService(t, sender)

	_, err := svc.Send(context.Background(), SendRequest{
		PhotographerID: uuid.New(), TemplateID: tmpl.ID, To: "jo@example.com",
	})
	assert.ErrorIs(t, err, ErrTemplateNotFound)
	sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	assert.Empty(t, log.records)
}

func TestServiceSendInvalidRecipient(t *testing.T) {
	sender := &mockSender{}
	svc, tmpl, log := newTestService(t, sender)

	_, err := svc.Send(context.Background(), SendRequest{
		PhotographerID: tmpl.PhotographerID, TemplateID: tmpl.ID, To: "nope",
	})
	assert.ErrorIs(t, err, ErrInvalidParams)
	sender.AssertNotCalled(t, "SendEmail", mock.Anything, mock.Anything)
	assert.Empty(t, log.records)
}

func TestValues(t *testing.T) {
	brand := &models.Branding{BusinessName: "Lumen Studio", PhotographerName: "Ana"}

	tests := []struct {
		name  string
		req   SendRequest
		brand *models.Branding
		want  map[string]string
	}{
		{
			name:  "branding defaults",
			brand: brand,
			want:  map[string]string{"business_name": "Lumen Studio", "photographer_name": "Ana"},
		},
		{
			name:  "explicit value wins",
			req:   SendRequest{Values: map[string]string{"business_name": "Other"}},
			brand: brand,
			want:  map[string]string{"business_name": "Other", "photographer_name": "Ana"},
		},
		{
			name: "client name from first and last",
			req:  SendRequest{Values: map[string]string{"first_name": "Jo", "last_name": "Smith"}},
			want: map[string]string{"first_name": "Jo", "last_name": "Smith", "client_name": "Jo Smith"},
		},
		{
			name: "links only when set",
			req:  SendRequest{Links: Links{Calendar: "https://cal.example.com"}},
			want: map[string]string{"calendar_link": "https://cal.example.com"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Values(tt.req, tt.brand))
		})
	}
}
