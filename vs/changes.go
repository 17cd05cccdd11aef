package vs

// changesFrame records the objects touched at one nesting level. Variables
// are drained before packages so that a package removal can force its
// variables invalid first.
type changesFrame struct {
	vars  []*variable
	packs []*pkg
}

func (f *changesFrame) addVar(v *variable) {
	f.vars = append(f.vars, v)
}

func (f *changesFrame) addPack(p *pkg) {
	f.packs = append(f.packs, p)
}

// dropPackage removes a dead package and its variables from the frame.
func (f *changesFrame) dropPackage(p *pkg) {
	vars := f.vars[:0]
	for _, v := range f.vars {
		if v.owner != p {
			vars = append(vars, v)
		}
	}
	f.vars = vars
	for i, fp := range f.packs {
		if fp == p {
			f.packs = append(f.packs[:i], f.packs[i+1:]...)
			break
		}
	}
}

// changesStack is one frame per nesting level, frames[i] covering level i+1.
// It is created lazily on the first write inside a transaction and back-filled
// to the current depth, so its length always equals the nesting level while
// it exists.
type changesStack struct {
	frames []*changesFrame
}

func (cs *changesStack) top() *changesFrame {
	return cs.frames[len(cs.frames)-1]
}

func (cs *changesStack) push() {
	cs.frames = append(cs.frames, &changesFrame{})
}

// popFrame detaches the innermost frame for draining.
func (cs *changesStack) popFrame() *changesFrame {
	f := cs.top()
	cs.frames = cs.frames[:len(cs.frames)-1]
	return f
}

func (cs *changesStack) empty() bool {
	return len(cs.frames) == 0
}
