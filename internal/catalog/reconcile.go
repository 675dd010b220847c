package catalog

import "strings"

// Entry is one submitted row of an editable child list. ID 0 marks a row the user added.
type Entry[F any] struct {
	ID     uint
	Fields F
}

// Plan is the set of writes that turns the persisted rows into the submitted list.
//
// Identities are never reused, so the operations may be applied in any order;
// callers that want to be strict apply ToDelete first.
type Plan[F any] struct {
	ToDelete []uint
	ToUpdate []Entry[F]
	ToInsert []F
}

// Empty reports whether applying the plan would change nothing.
func (p Plan[F]) Empty() bool {
	return len(p.ToDelete) == 0 && len(p.ToUpdate) == 0 && len(p.ToInsert) == 0
}

// Reconcile diffs submitted against the persisted identities with full-replacement semantics:
// persisted rows missing from the submission are deleted, submitted rows with a known ID are
// overwritten verbatim, and new rows are inserted unless blank reports them as an untouched
// placeholder. Submitted IDs that are not persisted are ignored.
func Reconcile[F any](persisted []uint, submitted []Entry[F], blank func(F) bool) Plan[F] {
	known := make(map[uint]struct{}, len(persisted))
	for _, id := range persisted {
		known[id] = struct{}{}
	}

	kept := make(map[uint]struct{}, len(submitted))
	var plan Plan[F]
	for _, e := range submitted {
		if e.ID == 0 {
			if blank != nil && blank(e.Fields) {
				continue
			}
			plan.ToInsert = append(plan.ToInsert, e.Fields)
			continue
		}
		if _, ok := known[e.ID]; !ok {
			continue
		}
		if _, dup := kept[e.ID]; dup {
			continue
		}
		kept[e.ID] = struct{}{}
		plan.ToUpdate = append(plan.ToUpdate, e)
	}

	for _, id := range persisted {
		if _, ok := kept[id]; !ok {
			plan.ToDelete = append(plan.ToDelete, id)
		}
	}
	return plan
}

// ContactFields is the editable part of a supplier contact row.
type ContactFields struct {
	Name  string
	Email string
	Phone string
}

// ContactBlank treats a row with every field blank as the form's empty placeholder.
func ContactBlank(f ContactFields) bool {
	return strings.TrimSpace(f.Name) == "" &&
		strings.TrimSpace(f.Email) == "" &&
		strings.TrimSpace(f.Phone) == ""
}

// ImageSlot is one position of an edited image list: a kept image (ID set, Data empty) or a new upload.
type ImageSlot struct {
	Data []byte
}

// ImageSlotBlank drops new slots without a payload.
func ImageSlotBlank(f ImageSlot) bool {
	return len(f.Data) == 0
}
