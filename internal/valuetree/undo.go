package valuetree

// change is a single reversible edit recorded by a node mutator.
type change struct {
	undo func()
	redo func()
}

// transaction groups the changes made by one logical operation so they
// undo and redo as a unit.
type transaction struct {
	name    string
	changes []change
}

// UndoManager records reversible edits against one or more trees.
//
// Mutations performed inside Transaction are grouped under one name and
// reversed together. Mutations recorded outside a transaction each become
// their own single-change transaction. Performing any new edit clears the
// redo stack.
type UndoManager struct {
	done    []transaction
	undone  []transaction
	current *transaction
}

// NewUndoManager creates an empty undo manager.
func NewUndoManager() *UndoManager {
	return &UndoManager{}
}

// Transaction runs fn with all recorded changes grouped under name.
// If fn returns an error the changes already made are rolled back and the
// transaction is discarded.
//
// Nested calls are flattened into the outermost transaction.
func (u *UndoManager) Transaction(name string, fn func() error) error {
	if u.current != nil {
		// Already inside a transaction; just run in the enclosing group.
		return fn()
	}
	u.current = &transaction{name: name}
	err := fn()
	tx := u.current
	u.current = nil
	if err != nil {
		for i := len(tx.changes) - 1; i >= 0; i-- {
			tx.changes[i].undo()
		}
		return err
	}
	if len(tx.changes) > 0 {
		u.done = append(u.done, *tx)
		u.undone = nil
	}
	return err
}

// record stores a change, opening an implicit single-change transaction
// when none is active.
func (u *UndoManager) record(c change) {
	if u.current != nil {
		u.current.changes = append(u.current.changes, c)
		return
	}
	u.done = append(u.done, transaction{changes: []change{c}})
	u.undone = nil
}

// CanUndo reports whether there is anything to undo.
func (u *UndoManager) CanUndo() bool {
	return len(u.done) > 0
}

// CanRedo reports whether there is anything to redo.
func (u *UndoManager) CanRedo() bool {
	return len(u.undone) > 0
}

// UndoDescription returns the name of the transaction Undo would revert,
// or "" when there is none.
func (u *UndoManager) UndoDescription() string {
	if len(u.done) == 0 {
		return ""
	}
	return u.done[len(u.done)-1].name
}

// Undo reverts the most recent transaction. Returns false if there was
// nothing to undo.
func (u *UndoManager) Undo() bool {
	if len(u.done) == 0 {
		return false
	}
	tx := u.done[len(u.done)-1]
	u.done = u.done[:len(u.done)-1]
	for i := len(tx.changes) - 1; i >= 0; i-- {
		tx.changes[i].undo()
	}
	u.undone = append(u.undone, tx)
	return true
}

// Redo re-applies the most recently undone transaction. Returns false if
// there was nothing to redo.
func (u *UndoManager) Redo() bool {
	if len(u.undone) == 0 {
		return false
	}
	tx := u.undone[len(u.undone)-1]
	u.undone = u.undone[:len(u.undone)-1]
	for _, c := range tx.changes {
		c.redo()
	}
	u.done = append(u.done, tx)
	return true
}

// Clear drops all undo and redo history.
func (u *UndoManager) Clear() {
	u.done = nil
	u.undone = nil
	u.current = nil
}
