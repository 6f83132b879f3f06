package store

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutterflow/internal/models"
)

func TestSentEmailStore(t *testing.T) {
	db := testDB(t)
	s := NewSentEmailStore(db)
	owner := testPhotographer(t, db)
	tmpl := uuid.New()

	ok := &models.SentEmail{TemplateID: tmpl, PhotographerID: owner, Recipient: "ana@example.com", Subject: "Hi Ana", Status: models.SendStatusSent}
	require.NoError(t, s.Create(ok))
	assert.NotEqual(t, uuid.Nil, ok.ID)
	assert.False(t, ok.SentAt.IsZero())

	failed := &models.SentEmail{TemplateID: tmpl, PhotographerID: owner, Recipient: "bob@example.com", Subject: "Hi Bob", Status: models.SendStatusFailed, Error: "inactive recipient"}
	require.NoError(t, s.Create(failed))

	list, err := s.ListByPhotographer(owner, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)

	byRecipient := map[string]models.SentEmail{}
	for _, e := range list {
		byRecipient[e.Recipient] = e
	}
	assert.Equal(t, models.SendStatusFailed, byRecipient["bob@example.com"].Status)
	assert.Equal(t, "inactive recipient", byRecipient["bob@example.com"].Error)

	limited, err := s.ListByPhotographer(owner, 1)
	require.NoError(t, err)
	assert.Len(t, limited, 1)
}
