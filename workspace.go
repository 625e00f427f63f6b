package sym

// A Workspace is an arena of scratch atoms for intermediate construction.
//
// Operations obtain scratch nodes with NewAtom and release everything
// allocated after a checkpoint with the Mark/Release pair:
//
//	mark := ws.Mark()
//	defer ws.Release(mark)
//
// Scratch atoms must not escape the Mark/Release scope; results are
// copied into caller owned atoms before release.
// A Workspace is not safe for concurrent use; each goroutine owns its own.
type Workspace struct {
	inuse []*Atom
	free  []*Atom
}

// NewWorkspace returns an empty workspace.
func NewWorkspace() *Workspace {
	return &Workspace{}
}

// NewAtom returns a scratch atom holding the number 0.
func (ws *Workspace) NewAtom() *Atom {
	var a *Atom
	if n := len(ws.free); n > 0 {
		a = ws.free[n-1]
		ws.free = ws.free[:n-1]
	} else {
		a = &Atom{}
	}
	a.reset(NumAtom)
	ws.inuse = append(ws.inuse, a)
	return a
}

// Mark returns a checkpoint of the allocation state.
func (ws *Workspace) Mark() int { return len(ws.inuse) }

// Release returns every atom allocated since mark to the workspace.
func (ws *Workspace) Release(mark int) {
	ws.free = append(ws.free, ws.inuse[mark:]...)
	for i := mark; i < len(ws.inuse); i++ {
		ws.inuse[i] = nil
	}
	ws.inuse = ws.inuse[:mark]
}
