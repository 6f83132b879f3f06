package composer

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shutterflow/internal/models"
	"shutterflow/internal/variables"
)

func ids(bs []models.Block) []string {
	out := make([]string, len(bs))
	for i, b := range bs {
		out[i] = b.ID
	}
	return out
}

func seeded(t *testing.T) (*Composer, []string) {
	t.Helper()
	c := New()
	for _, typ := range []models.BlockType{models.BlockHeading, models.BlockText, models.BlockButton} {
		_, err := c.Add(typ)
		require.NoError(t, err)
	}
	return c, ids(c.Blocks())
}

func TestAddAssignsIDsAndDefaults(t *testing.T) {
	c := New()
	b, err := c.Add(models.BlockSpacer)
	require.NoError(t, err)

	assert.NotEmpty(t, b.ID)
	sp, ok := b.Content.(models.SpacerContent)
	require.True(t, ok)
	require.NotNil(t, sp.Height)
	assert.Equal(t, 40, *sp.Height)
	assert.Equal(t, models.SpacerMedium, sp.Size)

	_, err = c.Add("VIDEO")
	assert.Error(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestInsertClampsIndex(t *testing.T) {
	c, before := seeded(t)

	first, err := c.Insert(-3, models.Block{Type: models.BlockImage})
	require.NoError(t, err)
	last, err := c.Insert(99, models.Block{Type: models.BlockSpacer})
	require.NoError(t, err)

	want := append([]string{first.ID}, before...)
	want = append(want, last.ID)
	assert.Equal(t, want, ids(c.Blocks()))

	_, err = c.Insert(0, models.Block{ID: first.ID, Type: models.BlockText})
	assert.Error(t, err)
}

func TestInsertRejectsContentMismatch(t *testing.T) {
	c, before := seeded(t)

	_, err := c.Insert(0, models.Block{ID: "z", Type: "CAROUSEL", Content: models.ButtonContent{Text: "hi"}})
	assert.True(t, errors.Is(err, ErrContentMismatch))

	_, err = c.Insert(0, models.Block{ID: "y", Type: models.BlockHeading, Content: models.TextContent{Text: "x"}})
	assert.True(t, errors.Is(err, ErrContentMismatch))

	assert.Equal(t, before, ids(c.Blocks()))

	// Unknown types are kept with their raw payload.
	kept, err := c.Insert(0, models.Block{ID: "v", Type: "VIDEO", Content: models.UnknownContent{Raw: []byte(`{}`)}})
	require.NoError(t, err)
	assert.Equal(t, "v", kept.ID)
}

func TestMove(t *testing.T) {
	c, id := seeded(t)

	require.NoError(t, c.Move(0, 2))
	assert.Equal(t, []string{id[1], id[2], id[0]}, ids(c.Blocks()))

	require.NoError(t, c.Move(2, 0))
	assert.Equal(t, id, ids(c.Blocks()))

	assert.True(t, errors.Is(c.Move(0, 3), ErrInvalidOrder))
}

func TestReorder(t *testing.T) {
	c, id := seeded(t)

	require.NoError(t, c.Reorder([]string{id[2], id[0], id[1]}))
	assert.Equal(t, []string{id[2], id[0], id[1]}, ids(c.Blocks()))
}

func TestReorderRejectsNonPermutation(t *testing.T) {
	tests := []struct {
		name  string
		order func(id []string) []string
	}{
		{name: "too few", order: func(id []string) []string { return id[:2] }},
		{name: "repeated", order: func(id []string) []string { return []string{id[0], id[0], id[1]} }},
		{name: "unknown", order: func(id []string) []string { return []string{id[0], id[1], "nope"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, id := seeded(t)
			err := c.Reorder(tt.order(id))
			assert.True(t, errors.Is(err, ErrInvalidOrder))
			assert.Equal(t, id, ids(c.Blocks()), "list must be untouched")
		})
	}
}

func TestDeleteByIDIsStableAcrossReorder(t *testing.T) {
	c, id := seeded(t)
	require.NoError(t, c.Reorder([]string{id[2], id[1], id[0]}))

	require.NoError(t, c.Delete(id[1]))
	assert.Equal(t, []string{id[2], id[0]}, ids(c.Blocks()))

	assert.True(t, errors.Is(c.Delete(id[1]), ErrBlockNotFound))
}

func TestUpdate(t *testing.T) {
	c, id := seeded(t)

	require.NoError(t, c.Update(id[0], models.HeadingContent{Text: "Our Package"}))
	b, ok := c.Get(id[0])
	require.True(t, ok)
	assert.Equal(t, models.HeadingContent{Text: "Our Package"}, b.Content)

	assert.True(t, errors.Is(c.Update(id[0], models.TextContent{Text: "x"}), ErrContentMismatch))
	assert.True(t, errors.Is(c.Update("missing", models.TextContent{}), ErrBlockNotFound))
}

func TestInsertVariable(t *testing.T) {
	c, id := seeded(t)
	require.NoError(t, c.Update(id[1], models.TextContent{Text: "Hi , thanks!"}))

	caret, err := c.InsertVariable(id[1], 3, variables.FirstName)
	require.NoError(t, err)
	assert.Equal(t, 17, caret)

	b, _ := c.Get(id[1])
	assert.Equal(t, models.TextContent{Text: "Hi {{first_name}}, thanks!"}, b.Content)

	spacer, err := c.Add(models.BlockSpacer)
	require.NoError(t, err)
	_, err = c.InsertVariable(spacer.ID, 0, variables.FirstName)
	assert.True(t, errors.Is(err, ErrNotEditable))
}

func TestSetSpacerSizeKeepsHeightInSync(t *testing.T) {
	c := New()
	sp, err := c.Add(models.BlockSpacer)
	require.NoError(t, err)

	require.NoError(t, c.SetSpacerSize(sp.ID, models.SpacerLarge))
	b, _ := c.Get(sp.ID)
	content := b.Content.(models.SpacerContent)
	assert.Equal(t, 60, *content.Height)
	assert.Equal(t, models.SpacerLarge, content.Size)
}

func TestBrandingSelections(t *testing.T) {
	c := New()
	require.NoError(t, c.SetHeader(true, models.HeaderBold))
	require.NoError(t, c.SetSignature(true, models.SignatureProfessional))
	assert.Error(t, c.SetHeader(true, "neon"))
	c.SetHero(true, "https://cdn.test/hero.jpg")
	c.SetSubject("Your gallery is ready")

	doc := c.Document()
	assert.True(t, doc.IncludeHeader)
	assert.Equal(t, models.HeaderBold, doc.HeaderStyle)
	assert.Equal(t, models.SignatureProfessional, doc.SignatureStyle)
	assert.Equal(t, "https://cdn.test/hero.jpg", doc.HeroImageURL)
	assert.Equal(t, "Your gallery is ready", doc.Subject)
}

func TestPickersAreIndependent(t *testing.T) {
	c, id := seeded(t)

	c.OpenPicker(PickerHeader)
	c.OpenPicker(PickerSignature)
	c.ClosePicker(PickerHeader)
	assert.False(t, c.PickerOpen(PickerHeader))
	assert.True(t, c.PickerOpen(PickerSignature))

	// Editing continues while a dialog is open.
	require.NoError(t, c.Delete(id[0]))
	assert.Equal(t, 2, c.Len())
}

func TestDocumentRoundTrip(t *testing.T) {
	c, _ := seeded(t)
	_, err := c.Add(models.BlockSpacer)
	require.NoError(t, err)
	_, err = c.Insert(1, models.Block{ID: "future", Type: "VIDEO", Content: models.UnknownContent{Raw: json.RawMessage(`{"src":"v.mp4"}`)}})
	require.NoError(t, err)

	data, err := json.Marshal(c.Document())
	require.NoError(t, err)

	var doc models.Document
	require.NoError(t, json.Unmarshal(data, &doc))
	restored := FromDocument(doc)

	assert.Equal(t, c.Blocks(), restored.Blocks())
}

func TestSnapshotsAreIndependent(t *testing.T) {
	c, id := seeded(t)
	snap := c.Document()

	require.NoError(t, c.Delete(id[0]))
	assert.Len(t, snap.Blocks, 3)

	restored := FromDocument(snap)
	snap.Blocks[0].ID = "mutated"
	assert.Equal(t, id[0], restored.Blocks()[0].ID)
}
