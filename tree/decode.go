package tree

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/brettbedarf/stshell"
)

// NodeDTO is the JSON representation of one node in the IDE's resource list.
// A node with an id is a leaf; otherwise a node with children is a branch.
type NodeDTO struct {
	ID       *NodeID     `json:"id,omitempty"`
	Text     string      `json:"text"`
	LiAttr   *LiAttrDTO  `json:"li_attr,omitempty"`
	Children *[]*NodeDTO `json:"children,omitempty"`
}

// NodeID is a leaf id sent either as a JSON string or a JSON number.
// Numbers keep their literal text.
type NodeID string

func (id *NodeID) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = NodeID(s)
		return nil
	}
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var n json.Number
	if err := dec.Decode(&n); err != nil {
		return fmt.Errorf("resource id must be a string or number, got %s", data)
	}
	*id = NodeID(n.String())
	return nil
}

// LiAttrDTO carries the leaf's type tags
type LiAttrDTO struct {
	ResourceType        string `json:"resource-type"`
	ResourceContentType string `json:"resource-content-type"`
}

// Decode parses the IDE's resource list into a tree snapshot
func Decode(data []byte) ([]stshell.ResourceNode, error) {
	var dtos []*NodeDTO
	if err := json.Unmarshal(data, &dtos); err != nil {
		return nil, fmt.Errorf("failed to unmarshal resource list: %w", err)
	}
	return convertNodes(dtos), nil
}

func convertNodes(dtos []*NodeDTO) []stshell.ResourceNode {
	nodes := make([]stshell.ResourceNode, 0, len(dtos))
	for _, dto := range dtos {
		if n := convertNode(dto); n != nil {
			nodes = append(nodes, n)
		}
	}
	return nodes
}

func convertNode(dto *NodeDTO) stshell.ResourceNode {
	switch {
	case dto == nil:
		return nil
	case dto.ID != nil:
		attr := valueOrDefault(dto.LiAttr, LiAttrDTO{})
		return stshell.Leaf{
			ID:           string(*dto.ID),
			Text:         dto.Text,
			ResourceType: attr.ResourceType,
			ContentType:  attr.ResourceContentType,
		}
	case dto.Children != nil:
		return stshell.Branch{
			Text:     dto.Text,
			Children: convertNodes(*dto.Children),
		}
	}
	return nil
}

func valueOrDefault[T any](ptr *T, defaultVal T) T {
	if ptr != nil {
		return *ptr
	}
	return defaultVal
}
