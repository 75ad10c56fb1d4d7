package domain

import (
	"encoding/json"
	"fmt"
)

// DecodeBlock reads one block, dispatching on its "type" field. Style
// fields absent from data keep the variant's defaults.
func DecodeBlock(data []byte) (Block, error) {
	var head struct {
		Type BlockType `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode block: %w", err)
	}
	b, err := emptyBlock(head.Type)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(data, b); err != nil {
		return nil, fmt.Errorf("decode %s block: %w", head.Type, err)
	}
	return b, nil
}

func (s *Section) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID      string            `json:"id"`
		Layout  LayoutKind        `json:"layout"`
		Columns *int              `json:"columns"`
		Style   SectionStyle      `json:"style"`
		Blocks  []json.RawMessage `json:"blocks"`
	}
	aux.Layout = LayoutFlex
	aux.Style = DefaultSectionStyle()
	if err := json.Unmarshal(data, &aux); err != nil {
		return fmt.Errorf("decode section: %w", err)
	}

	var blocks []Block
	if aux.Blocks != nil {
		blocks = make([]Block, 0, len(aux.Blocks))
		for i, raw := range aux.Blocks {
			b, err := DecodeBlock(raw)
			if err != nil {
				return fmt.Errorf("section %q block %d: %w", aux.ID, i, err)
			}
			blocks = append(blocks, b)
		}
	}

	*s = Section{
		ID:      aux.ID,
		Layout:  aux.Layout,
		Columns: aux.Columns,
		Style:   aux.Style,
		Blocks:  blocks,
	}
	return nil
}

// ParsePage decodes a native page document.
func ParsePage(data []byte) (*Page, error) {
	var p Page
	if err := json.Unmarshal(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// MarshalPage encodes p in the native document format.
func MarshalPage(p *Page) ([]byte, error) {
	return json.Marshal(p)
}
