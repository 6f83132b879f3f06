// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// BlockType identifies the kind of a content block in an email template.
type BlockType string

const (
	BlockHeading   BlockType = "HEADING"
	BlockText      BlockType = "TEXT"
	BlockButton    BlockType = "BUTTON"
	BlockImage     BlockType = "IMAGE"
	BlockSpacer    BlockType = "SPACER"
	BlockHeader    BlockType = "HEADER"
	BlockSignature BlockType = "SIGNATURE"
)

// Known reports whether t is one of the block types the renderer understands.
func (t BlockType) Known() bool {
	switch t {
	case BlockHeading, BlockText, BlockButton, BlockImage, BlockSpacer, BlockHeader, BlockSignature:
		return true
	}
	return false
}

// ButtonVariant selects one of the fixed button styles.
type ButtonVariant string

const (
	ButtonDefault   ButtonVariant = "default"
	ButtonSecondary ButtonVariant = "secondary"
	ButtonOutline   ButtonVariant = "outline"
)

// LinkType tells the renderer how to resolve a button's href.
type LinkType string

const (
	LinkCustom    LinkType = "CUSTOM"
	LinkSmartFile LinkType = "SMART_FILE"
	LinkGallery   LinkType = "GALLERY"
	LinkCalendar  LinkType = "CALENDAR"
)

// SpacerSize is the cosmetic size label shown in the spacer editor.
type SpacerSize string

const (
	SpacerSmall  SpacerSize = "small"
	SpacerMedium SpacerSize = "medium"
	SpacerLarge  SpacerSize = "large"
)

// BlockContent is the type-dependent payload of a Block. The set of
// implementations is closed: one struct per BlockType plus UnknownContent.
type BlockContent interface {
	blockType() BlockType
}

// HeadingContent is the payload of a HEADING block.
type HeadingContent struct {
	Text string `json:"text"`
}

// TextContent is the payload of a TEXT block. Newlines are significant.
type TextContent struct {
	Text string `json:"text"`
}

// ButtonContent is the payload of a BUTTON block. When LinkType is not
// CUSTOM, LinkValue is an opaque identifier resolved by the sender; the
// renderer only ever emits the matching placeholder token.
type ButtonContent struct {
	Text      string        `json:"text"`
	Variant   ButtonVariant `json:"variant,omitempty"`
	LinkType  LinkType      `json:"linkType,omitempty"`
	LinkValue string        `json:"linkValue,omitempty"`
}

// ImageContent is the payload of an IMAGE block.
type ImageContent struct {
	URL string `json:"url"`
	Alt string `json:"alt,omitempty"`
}

// SpacerContent is the payload of a SPACER block. Height is authoritative;
// Size only mirrors it for the editor. A nil Height means "not set".
type SpacerContent struct {
	Height *int       `json:"height,omitempty"`
	Size   SpacerSize `json:"size,omitempty"`
}

// HeaderContent places the branded header inside the block list.
type HeaderContent struct {
	Style string `json:"style,omitempty"`
}

// SignatureContent places the branded signature inside the block list.
type SignatureContent struct {
	Style string `json:"style,omitempty"`
}

// UnknownContent keeps the raw payload of a block type this version does
// not understand, so documents written by newer clients survive a round-trip.
type UnknownContent struct {
	Raw json.RawMessage
}

func (HeadingContent) blockType() BlockType   { return BlockHeading }
func (TextContent) blockType() BlockType      { return BlockText }
func (ButtonContent) blockType() BlockType    { return BlockButton }
func (ImageContent) blockType() BlockType     { return BlockImage }
func (SpacerContent) blockType() BlockType    { return BlockSpacer }
func (HeaderContent) blockType() BlockType    { return BlockHeader }
func (SignatureContent) blockType() BlockType { return BlockSignature }
func (UnknownContent) blockType() BlockType   { return "" }

// Block is one renderable unit of an email template. Its position in the
// owning slice is its display order.
type Block struct {
	ID      string       `json:"id"`
	Type    BlockType    `json:"type"`
	Content BlockContent `json:"content"`
}

// NewContent returns the zero payload for a block type, or UnknownContent
// for types this version does not know.
func NewContent(t BlockType) BlockContent {
	switch t {
	case BlockHeading:
		return HeadingContent{}
	case BlockText:
		return TextContent{}
	case BlockButton:
		return ButtonContent{}
	case BlockImage:
		return ImageContent{}
	case BlockSpacer:
		return SpacerContent{}
	case BlockHeader:
		return HeaderContent{}
	case BlockSignature:
		return SignatureContent{}
	}
	return UnknownContent{}
}

// ContentMatches reports whether c is a valid payload for t.
func ContentMatches(t BlockType, c BlockContent) bool {
	if c == nil {
		return false
	}
	if _, ok := c.(UnknownContent); ok {
		return !t.Known()
	}
	return c.blockType() == t
}

type blockJSON struct {
	ID      string          `json:"id"`
	Type    BlockType       `json:"type"`
	Content json.RawMessage `json:"content,omitempty"`
}

// MarshalJSON encodes the block in its persisted {id, type, content} form.
func (b Block) MarshalJSON() ([]byte, error) {
	var raw json.RawMessage
	switch c := b.Content.(type) {
	case nil:
		raw = json.RawMessage(`{}`)
	case UnknownContent:
		raw = c.Raw
		if len(raw) == 0 {
			raw = json.RawMessage(`{}`)
		}
	default:
		encoded, err := json.Marshal(c)
		if err != nil {
			return nil, fmt.Errorf("marshal %s content: %w", b.Type, err)
		}
		raw = encoded
	}
	return json.Marshal(blockJSON{ID: b.ID, Type: b.Type, Content: raw})
}

// UnmarshalJSON decodes a block, selecting the payload struct by type.
func (b *Block) UnmarshalJSON(data []byte) error {
	var aux blockJSON
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	content, err := decodeContent(aux.Type, aux.Content)
	if err != nil {
		return fmt.Errorf("block %s: %w", aux.ID, err)
	}

	b.ID = aux.ID
	b.Type = aux.Type
	b.Content = content
	return nil
}

func decodeContent(t BlockType, raw json.RawMessage) (BlockContent, error) {
	if !t.Known() {
		return UnknownContent{Raw: append(json.RawMessage(nil), raw...)}, nil
	}
	if len(bytes.TrimSpace(raw)) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null")) {
		return NewContent(t), nil
	}

	var (
		content BlockContent
		err     error
	)
	switch t {
	case BlockHeading:
		var c HeadingContent
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockText:
		var c TextContent
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockButton:
		var c ButtonContent
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockImage:
		var c ImageContent
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockSpacer:
		var c SpacerContent
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockHeader:
		var c HeaderContent
		err = json.Unmarshal(raw, &c)
		content = c
	case BlockSignature:
		var c SignatureContent
		err = json.Unmarshal(raw, &c)
		content = c
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s content: %w", t, err)
	}
	return content, nil
}

// DecodeContent parses a raw JSON payload for the given block type. Used by
// handlers that receive a content edit without the surrounding block.
func DecodeContent(t BlockType, raw json.RawMessage) (BlockContent, error) {
	return decodeContent(t, raw)
}
