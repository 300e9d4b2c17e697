package store

// BlockNode is a block with its children, built at read time from the flat
// parent_id links.
type BlockNode struct {
	Block
	Children []*BlockNode `json:"children,omitempty"`
}

// BuildTree groups flat blocks under their parents. Input order is kept
// among siblings, so pass blocks sorted by order. A block whose parent is not
// in the slice is treated as a root.
func BuildTree(blocks []Block) []*BlockNode {
	nodes := make([]BlockNode, len(blocks))
	index := make(map[string]int, len(blocks))
	for i, b := range blocks {
		nodes[i] = BlockNode{Block: b}
		index[b.ID] = i
	}

	var roots []*BlockNode
	for i := range nodes {
		n := &nodes[i]
		if n.ParentID != nil {
			if p, ok := index[*n.ParentID]; ok && p != i {
				nodes[p].Children = append(nodes[p].Children, n)
				continue
			}
		}
		roots = append(roots, n)
	}
	return roots
}

// PageTree returns the blocks of a page arranged as a tree.
func (s *Store) PageTree(pageID string) ([]*BlockNode, error) {
	if _, err := s.pageGraph(pageID); err != nil {
		return nil, err
	}
	blocks, err := s.ListBlocks(pageID)
	if err != nil {
		return nil, err
	}
	return BuildTree(blocks), nil
}
