// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package composer holds an email document while it is being edited. It is
// a single "editing" state over an ordered block list plus the branding
// selections; picker dialogs open and close independently without blocking
// edits. Nothing is persisted here: callers take a Document snapshot on save.
//
// A Composer is not safe for concurrent use.
package composer

import (
	"errors"
	"fmt"

	"github.com/google/uuid"

	"shutterflow/internal/blocks"
	"shutterflow/internal/branding"
	"shutterflow/internal/models"
	"shutterflow/internal/variables"
)

var (
	// ErrBlockNotFound is returned when no block has the given id.
	ErrBlockNotFound = errors.New("block not found")

	// ErrInvalidOrder is returned by Reorder when the ids are not a
	// permutation of the current blocks.
	ErrInvalidOrder = errors.New("invalid block order")

	// ErrContentMismatch is returned when new content does not belong to
	// the block's type.
	ErrContentMismatch = errors.New("content does not match block type")

	// ErrNotEditable is returned when inserting a variable into a block
	// that has no text field.
	ErrNotEditable = errors.New("block has no editable text")
)

// Picker names a branding picker dialog.
type Picker string

const (
	PickerHeader    Picker = "header"
	PickerSignature Picker = "signature"
)

// Composer is the editing state of one email document.
type Composer struct {
	doc     models.Document
	pickers map[Picker]bool
}

// New returns an empty composer.
func New() *Composer {
	return &Composer{pickers: make(map[Picker]bool)}
}

// FromDocument starts editing a copy of doc. Block ids, types, content and
// order are kept exactly.
func FromDocument(doc models.Document) *Composer {
	c := New()
	c.doc = doc.Clone()
	return c
}

// Document returns a snapshot of the document being edited.
func (c *Composer) Document() models.Document {
	return c.doc.Clone()
}

// Blocks returns a copy of the ordered block list.
func (c *Composer) Blocks() []models.Block {
	return c.doc.Clone().Blocks
}

// Len returns the number of blocks.
func (c *Composer) Len() int {
	return len(c.doc.Blocks)
}

// Add appends a new block of type t with default content and returns it.
func (c *Composer) Add(t models.BlockType) (models.Block, error) {
	if !t.Known() {
		return models.Block{}, fmt.Errorf("add block: unknown type %q", t)
	}
	content := models.NewContent(t)
	if sp, ok := content.(models.SpacerContent); ok && sp.Height == nil {
		h := blocks.DefaultSpacerHeight
		sp.Height = &h
		sp.Size = blocks.SizeForHeight(h)
		content = sp
	}
	b := models.Block{ID: uuid.New().String(), Type: t, Content: content}
	c.doc.Blocks = append(c.doc.Blocks, b)
	return b, nil
}

// Insert places b at index i, clamped to the list bounds. A block without
// an id gets a fresh one. Content must match the block's type.
func (c *Composer) Insert(i int, b models.Block) (models.Block, error) {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	if c.index(b.ID) >= 0 {
		return models.Block{}, fmt.Errorf("insert block: duplicate id %q", b.ID)
	}
	if b.Content == nil {
		b.Content = models.NewContent(b.Type)
	}
	if !models.ContentMatches(b.Type, b.Content) {
		return models.Block{}, fmt.Errorf("insert block %s: %w", b.ID, ErrContentMismatch)
	}
	i = clamp(i, 0, len(c.doc.Blocks))

	out := make([]models.Block, 0, len(c.doc.Blocks)+1)
	out = append(out, c.doc.Blocks[:i]...)
	out = append(out, b)
	out = append(out, c.doc.Blocks[i:]...)
	c.doc.Blocks = out
	return b, nil
}

// Move moves the block at index from to index to.
func (c *Composer) Move(from, to int) error {
	n := len(c.doc.Blocks)
	if from < 0 || from >= n || to < 0 || to >= n {
		return fmt.Errorf("move block %d to %d: %w", from, to, ErrInvalidOrder)
	}
	if from == to {
		return nil
	}
	out := make([]models.Block, 0, n)
	b := c.doc.Blocks[from]
	for i, x := range c.doc.Blocks {
		if i != from {
			out = append(out, x)
		}
	}
	out = append(out[:to], append([]models.Block{b}, out[to:]...)...)
	c.doc.Blocks = out
	return nil
}

// Reorder replaces the block list with the blocks named by ids, in that
// order. The ids must be a permutation of the current block ids; otherwise
// the list is left untouched.
func (c *Composer) Reorder(ids []string) error {
	if len(ids) != len(c.doc.Blocks) {
		return fmt.Errorf("reorder %d blocks with %d ids: %w", len(c.doc.Blocks), len(ids), ErrInvalidOrder)
	}
	byID := make(map[string]models.Block, len(c.doc.Blocks))
	for _, b := range c.doc.Blocks {
		byID[b.ID] = b
	}
	out := make([]models.Block, 0, len(ids))
	for _, id := range ids {
		b, ok := byID[id]
		if !ok {
			return fmt.Errorf("reorder: unknown or repeated id %q: %w", id, ErrInvalidOrder)
		}
		delete(byID, id)
		out = append(out, b)
	}
	c.doc.Blocks = out
	return nil
}

// Update replaces the content of block id. The content must match the
// block's type.
func (c *Composer) Update(id string, content models.BlockContent) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("update block %s: %w", id, ErrBlockNotFound)
	}
	b := &c.doc.Blocks[i]
	if !models.ContentMatches(b.Type, content) {
		return fmt.Errorf("update block %s: %w", id, ErrContentMismatch)
	}
	b.Content = content
	return nil
}

// Delete removes block id. Other blocks keep their relative order.
func (c *Composer) Delete(id string) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("delete block %s: %w", id, ErrBlockNotFound)
	}
	out := make([]models.Block, 0, len(c.doc.Blocks)-1)
	for _, b := range c.doc.Blocks {
		if b.ID != id {
			out = append(out, b)
		}
	}
	c.doc.Blocks = out
	return nil
}

// Get returns block id.
func (c *Composer) Get(id string) (models.Block, bool) {
	i := c.index(id)
	if i < 0 {
		return models.Block{}, false
	}
	return c.doc.Blocks[i], true
}

// InsertVariable splices token into the text of block id at caret (in
// runes) and returns the caret after the token. Heading, text and button
// label fields accept variables. The token is not validated.
func (c *Composer) InsertVariable(id string, caret int, token string) (int, error) {
	i := c.index(id)
	if i < 0 {
		return 0, fmt.Errorf("insert variable into %s: %w", id, ErrBlockNotFound)
	}
	b := &c.doc.Blocks[i]

	buf := variables.Buffer{Caret: caret}
	splice := func(text string) string {
		buf.Text = text
		buf.Insert(token)
		return buf.Text
	}
	switch content := b.Content.(type) {
	case models.HeadingContent:
		content.Text = splice(content.Text)
		b.Content = content
	case models.TextContent:
		content.Text = splice(content.Text)
		b.Content = content
	case models.ButtonContent:
		content.Text = splice(content.Text)
		b.Content = content
	default:
		return 0, fmt.Errorf("insert variable into %s: %w", id, ErrNotEditable)
	}
	return buf.Caret, nil
}

// SetSpacerSize sets a spacer's size label and its height together.
func (c *Composer) SetSpacerSize(id string, size models.SpacerSize) error {
	i := c.index(id)
	if i < 0 {
		return fmt.Errorf("set spacer size %s: %w", id, ErrBlockNotFound)
	}
	b := &c.doc.Blocks[i]
	sp, ok := b.Content.(models.SpacerContent)
	if !ok {
		return fmt.Errorf("set spacer size %s: %w", id, ErrContentMismatch)
	}
	h := blocks.HeightForSize(size)
	sp.Height = &h
	sp.Size = blocks.SizeForHeight(h)
	b.Content = sp
	return nil
}

// SetSubject sets the email subject line.
func (c *Composer) SetSubject(subject string) {
	c.doc.Subject = subject
}

// SetHeader toggles the branded header and selects its style.
func (c *Composer) SetHeader(include bool, style models.HeaderStyle) error {
	if _, err := branding.ParseHeaderStyle(string(style)); err != nil {
		return fmt.Errorf("set header: %w", err)
	}
	c.doc.IncludeHeader = include
	c.doc.HeaderStyle = style
	return nil
}

// SetSignature toggles the branded signature and selects its style.
func (c *Composer) SetSignature(include bool, style models.SignatureStyle) error {
	if _, err := branding.ParseSignatureStyle(string(style)); err != nil {
		return fmt.Errorf("set signature: %w", err)
	}
	c.doc.IncludeSignature = include
	c.doc.SignatureStyle = style
	return nil
}

// SetHero toggles the hero image and sets its URL. The URL is not checked.
func (c *Composer) SetHero(include bool, url string) {
	c.doc.IncludeHeroImage = include
	c.doc.HeroImageURL = url
}

// OpenPicker opens a branding picker dialog.
func (c *Composer) OpenPicker(p Picker) { c.pickers[p] = true }

// ClosePicker closes a branding picker dialog.
func (c *Composer) ClosePicker(p Picker) { delete(c.pickers, p) }

// PickerOpen reports whether picker p is open.
func (c *Composer) PickerOpen(p Picker) bool { return c.pickers[p] }

// OpenPickers lists the open dialogs in a stable order.
func (c *Composer) OpenPickers() []Picker {
	var out []Picker
	for _, p := range []Picker{PickerHeader, PickerSignature} {
		if c.pickers[p] {
			out = append(out, p)
		}
	}
	return out
}

func (c *Composer) index(id string) int {
	for i, b := range c.doc.Blocks {
		if b.ID == id {
			return i
		}
	}
	return -1
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
