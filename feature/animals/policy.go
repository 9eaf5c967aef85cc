package animals

// TrackedField is a field that marks a record dirty when it changes.
type TrackedField struct {
	Name string
	Get  func(*Animal) *string
}

// TrackedFields is the change-detection field set.
var TrackedFields = []TrackedField{
	{"process_state", func(a *Animal) *string { return a.ProcessState }},
	{"weight", func(a *Animal) *string { return a.Weight }},
	{"care_tel", func(a *Animal) *string { return a.CareTel }},
}

// Policy implements reconcile.Policy for animals.
type Policy struct {
	ProtectedState string
}

// Key returns the desertion number.
func (p Policy) Key(a *Animal) string {
	return a.DesertionNo
}

// IsChanged reports whether any tracked field carries a new present value.
func (p Policy) IsChanged(stored, incoming *Animal) bool {
	return len(p.ChangedFields(stored, incoming)) > 0
}

// ChangedFields lists the tracked fields for which incoming carries a new value.
func (p Policy) ChangedFields(stored, incoming *Animal) []string {
	var out []string
	for _, f := range TrackedFields {
		in := f.Get(incoming)
		if in == nil {
			continue
		}
		if st := f.Get(stored); st == nil || *st != *in {
			out = append(out, f.Name)
		}
	}
	return out
}

// Merge overlays every present field of incoming onto stored.
// Fallback enum codes only replace a stored fallback; identity and created_at are kept.
func (p Policy) Merge(stored, incoming *Animal) *Animal {
	out := *stored

	overlay := func(dst **string, v *string) {
		if v != nil {
			*dst = v
		}
	}
	overlay(&out.RfidCd, incoming.RfidCd)
	overlay(&out.HappenDt, incoming.HappenDt)
	overlay(&out.HappenPlace, incoming.HappenPlace)
	overlay(&out.UpKindNm, incoming.UpKindNm)
	overlay(&out.KindNm, incoming.KindNm)
	overlay(&out.ColorCd, incoming.ColorCd)
	overlay(&out.Age, incoming.Age)
	overlay(&out.Weight, incoming.Weight)
	overlay(&out.NoticeSdt, incoming.NoticeSdt)
	overlay(&out.NoticeEdt, incoming.NoticeEdt)
	overlay(&out.Popfile1, incoming.Popfile1)
	overlay(&out.Popfile2, incoming.Popfile2)
	overlay(&out.ProcessState, incoming.ProcessState)
	overlay(&out.SpecialMark, incoming.SpecialMark)
	overlay(&out.CareNm, incoming.CareNm)
	overlay(&out.CareTel, incoming.CareTel)
	overlay(&out.CareAddr, incoming.CareAddr)
	overlay(&out.CareOwnerNm, incoming.CareOwnerNm)
	overlay(&out.OrgNm, incoming.OrgNm)
	overlay(&out.EtcBigo, incoming.EtcBigo)

	if incoming.SexCd != "" && (incoming.SexCd != SexUnknown || out.SexCd == "") {
		out.SexCd = incoming.SexCd
	}
	if incoming.NeuterYn != "" && (incoming.NeuterYn != NeuterUnknown || out.NeuterYn == "") {
		out.NeuterYn = incoming.NeuterYn
	}
	return &out
}

// IsProtected reports whether the stored record is still under care.
func (p Policy) IsProtected(stored *Animal) bool {
	return stored.ProcessState != nil && *stored.ProcessState == p.ProtectedState
}
