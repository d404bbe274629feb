package tx

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"sort"
	"strings"

	"github.com/LeJamon/goDoomsday/internal/core/ledger/entry"
	"github.com/LeJamon/goDoomsday/internal/core/ledger/keylet"
)

// Action represents the type of modification to a ledger entry
type Action int

const (
	// ActionCache means the entry was read but not modified
	ActionCache Action = iota
	// ActionInsert means a new entry was created
	ActionInsert
	// ActionModify means an existing entry was modified
	ActionModify
	// ActionErase means an entry was deleted
	ActionErase
)

// TrackedEntry represents a ledger entry being tracked for changes
type TrackedEntry struct {
	Action   Action
	Type     entry.Type
	Original []byte // Original state (nil for inserts)
	Current  []byte // Current state
}

// AffectedNode describes one entry changed by an operation.
type AffectedNode struct {
	NodeType    string     `json:"node_type"`
	EntryType   entry.Type `json:"entry_type"`
	LedgerIndex string     `json:"ledger_index"`
}

// Metadata lists the entries an applied operation changed.
type Metadata struct {
	AffectedNodes []AffectedNode `json:"affected_nodes"`
}

// ApplyStateTable wraps a LedgerView and tracks all modifications so that
// an operation either commits every change or none of them.
type ApplyStateTable struct {
	base  LedgerView
	items map[[32]byte]*TrackedEntry
}

// NewApplyStateTable creates a new ApplyStateTable wrapping the given base view
func NewApplyStateTable(base LedgerView) *ApplyStateTable {
	return &ApplyStateTable{
		base:  base,
		items: make(map[[32]byte]*TrackedEntry),
	}
}

// Read reads a ledger entry, tracking it as cached
func (t *ApplyStateTable) Read(k keylet.Keylet) ([]byte, error) {
	if tracked, exists := t.items[k.Key]; exists {
		if tracked.Action == ActionErase {
			return nil, nil
		}
		return tracked.Current, nil
	}

	data, err := t.base.Read(k)
	if err != nil {
		return nil, err
	}

	// Only track entries that exist in the base
	if data != nil {
		t.items[k.Key] = &TrackedEntry{
			Action:   ActionCache,
			Type:     k.Type,
			Original: data,
			Current:  data,
		}
	}

	return data, nil
}

// Exists checks if an entry exists
func (t *ApplyStateTable) Exists(k keylet.Keylet) (bool, error) {
	if tracked, exists := t.items[k.Key]; exists {
		return tracked.Action != ActionErase, nil
	}
	return t.base.Exists(k)
}

// Insert adds a new entry
func (t *ApplyStateTable) Insert(k keylet.Keylet, data []byte) error {
	if tracked, exists := t.items[k.Key]; exists {
		if tracked.Action != ActionErase {
			return ErrEntryExists
		}
		// Re-inserting a deleted entry becomes a modify
		tracked.Action = ActionModify
		tracked.Current = data
		return nil
	}

	exists, err := t.base.Exists(k)
	if err != nil {
		return err
	}
	if exists {
		return ErrEntryExists
	}

	t.items[k.Key] = &TrackedEntry{
		Action:  ActionInsert,
		Type:    k.Type,
		Current: data,
	}
	return nil
}

// Update modifies an existing entry
func (t *ApplyStateTable) Update(k keylet.Keylet, data []byte) error {
	if tracked, exists := t.items[k.Key]; exists {
		if tracked.Action == ActionErase {
			return fmt.Errorf("%w (deleted)", ErrEntryNotFound)
		}
		if tracked.Action == ActionCache {
			tracked.Action = ActionModify
		}
		// For insert, keep it as insert with new data
		tracked.Current = data
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return ErrEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionModify,
		Type:     k.Type,
		Original: original,
		Current:  data,
	}
	return nil
}

// Erase removes an entry
func (t *ApplyStateTable) Erase(k keylet.Keylet) error {
	if tracked, exists := t.items[k.Key]; exists {
		switch tracked.Action {
		case ActionErase:
			return fmt.Errorf("%w (already deleted)", ErrEntryNotFound)
		case ActionInsert:
			// Inserting then deleting = no change
			delete(t.items, k.Key)
			return nil
		}
		tracked.Action = ActionErase
		return nil
	}

	original, err := t.base.Read(k)
	if err != nil {
		return err
	}
	if original == nil {
		return ErrEntryNotFound
	}

	t.items[k.Key] = &TrackedEntry{
		Action:   ActionErase,
		Type:     k.Type,
		Original: original,
		Current:  original,
	}
	return nil
}

// ForEach iterates over the base entries overlaid with the tracked changes.
func (t *ApplyStateTable) ForEach(fn func(key [32]byte, data []byte) bool) error {
	stopped := false
	err := t.base.ForEach(func(key [32]byte, data []byte) bool {
		if tracked, ok := t.items[key]; ok {
			if tracked.Action == ActionErase {
				return true
			}
			data = tracked.Current
		}
		if !fn(key, data) {
			stopped = true
			return false
		}
		return true
	})
	if err != nil || stopped {
		return err
	}

	for _, key := range t.sortedKeys() {
		if tracked := t.items[key]; tracked.Action == ActionInsert {
			if !fn(key, tracked.Current) {
				return nil
			}
		}
	}
	return nil
}

// Changed reports whether any entry would be written by Apply.
func (t *ApplyStateTable) Changed() bool {
	for _, tracked := range t.items {
		if t.isWrite(tracked) {
			return true
		}
	}
	return false
}

// Discard drops every tracked change.
func (t *ApplyStateTable) Discard() {
	t.items = make(map[[32]byte]*TrackedEntry)
}

// Apply commits all changes to the base view and returns generated metadata.
// Writes are ordered by key. If the base implements BatchCommitter the
// whole set is committed in a single batch.
func (t *ApplyStateTable) Apply() (*Metadata, error) {
	metadata := &Metadata{AffectedNodes: make([]AffectedNode, 0)}
	var writes []StagedWrite

	for _, key := range t.sortedKeys() {
		tracked := t.items[key]
		if !t.isWrite(tracked) {
			continue
		}

		node := AffectedNode{
			EntryType:   tracked.Type,
			LedgerIndex: strings.ToUpper(hex.EncodeToString(key[:])),
		}
		switch tracked.Action {
		case ActionInsert:
			node.NodeType = "CreatedNode"
			writes = append(writes, StagedWrite{Key: key, Data: tracked.Current})
		case ActionModify:
			node.NodeType = "ModifiedNode"
			writes = append(writes, StagedWrite{Key: key, Data: tracked.Current})
		case ActionErase:
			node.NodeType = "DeletedNode"
			writes = append(writes, StagedWrite{Key: key})
		}
		metadata.AffectedNodes = append(metadata.AffectedNodes, node)
	}

	if committer, ok := t.base.(BatchCommitter); ok {
		if err := committer.CommitBatch(writes); err != nil {
			return nil, err
		}
	} else {
		for i, w := range writes {
			k := keylet.Keylet{Type: t.items[w.Key].Type, Key: w.Key}
			var err error
			switch metadata.AffectedNodes[i].NodeType {
			case "CreatedNode":
				err = t.base.Insert(k, w.Data)
			case "ModifiedNode":
				err = t.base.Update(k, w.Data)
			case "DeletedNode":
				err = t.base.Erase(k)
			}
			if err != nil {
				return nil, err
			}
		}
	}

	t.Discard()
	return metadata, nil
}

func (t *ApplyStateTable) isWrite(tracked *TrackedEntry) bool {
	switch tracked.Action {
	case ActionInsert, ActionErase:
		return true
	case ActionModify:
		// Skip if no actual change
		return !bytes.Equal(tracked.Original, tracked.Current)
	default:
		return false
	}
}

func (t *ApplyStateTable) sortedKeys() [][32]byte {
	keys := make([][32]byte, 0, len(t.items))
	for k := range t.items {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i][:], keys[j][:]) < 0
	})
	return keys
}
