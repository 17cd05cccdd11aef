package vs

// PackageStats reports the memory footprint of one resident package.
// Packages removed inside an open transaction are still resident and show up
// with Valid false until the removal commits.
type PackageStats struct {
	Package  string
	Valid    bool
	Regular  int // regular variables
	Trans    int // transactional variables, including removed ones
	Versions int // version states across all variables
	Bytes    int // approximate payload bytes across all versions
}

// Stats walks every resident package and totals its variables, version
// chains and payload bytes.
func (s *Store) Stats() []PackageStats {
	var out []PackageStats
	if s.packages == nil {
		return out
	}
	for pp := s.packages.Oldest(); pp != nil; pp = pp.Next() {
		p := pp.Value
		st := PackageStats{
			Package: p.name,
			Valid:   p.chain.head.valid,
			Regular: p.regular.Len(),
			Trans:   p.trans.Len(),
		}
		for vp := p.regular.Oldest(); vp != nil; vp = vp.Next() {
			st.Bytes += len(vp.Value.name)
			for ver := vp.Value.chain.head; ver != nil; ver = ver.next {
				st.Versions++
				st.Bytes += ver.payload.size()
			}
		}
		for vp := p.trans.Oldest(); vp != nil; vp = vp.Next() {
			st.Bytes += len(vp.Value.name)
			for ver := vp.Value.chain.head; ver != nil; ver = ver.next {
				st.Versions++
				st.Bytes += ver.payload.size()
			}
		}
		out = append(out, st)
	}
	return out
}
