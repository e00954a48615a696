package spl

// extractLabeler returns the labeler: the first representedOrganization
// found under an author. The result is always structurally complete.
func extractLabeler(doc *documentElement) Organization {
	for _, a := range doc.Authors {
		if a.AssignedEntity != nil && a.AssignedEntity.RepresentedOrganization != nil {
			return extractOrganization(a.AssignedEntity.RepresentedOrganization)
		}
	}
	return emptyOrganization()
}

// extractHolder returns the marketing-authorization holder of a product, or
// nil when the label does not name one.
func extractHolder(role *productElement) *Organization {
	for _, s := range role.SubjectOf {
		if s.Approval == nil || s.Approval.Holder == nil || s.Approval.Holder.Role == nil {
			continue
		}
		if org := s.Approval.Holder.Role.PlayingOrganization; org != nil {
			o := extractOrganization(org)
			return &o
		}
	}
	return nil
}

// extractOrganization reads the name and every identifier of an
// organization and of the establishments registered beneath it. Ids are
// de-duplicated by (root, extension) and kept in document order.
func extractOrganization(org *organizationElement) Organization {
	out := emptyOrganization()
	if org == nil {
		return out
	}
	out.Name = nullable(markupText(org.Name, true))

	type key struct{ root, ext string }
	seen := make(map[key]bool)

	stack := []*organizationElement{org}
	for len(stack) > 0 {
		cur := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		for _, id := range cur.IDs {
			if id.Root == "" && id.Extension == "" {
				continue
			}
			k := key{id.Root, id.Extension}
			if seen[k] {
				continue
			}
			seen[k] = true
			out.OrgIDs = append(out.OrgIDs, OrgID{
				Root:      nullable(id.Root),
				Extension: nullable(id.Extension),
				TypeHint:  typeHint(id.Root, id.Extension),
			})
		}

		// Push children in reverse so they pop in document order.
		for i := len(cur.AssignedEntities) - 1; i >= 0; i-- {
			if child := cur.AssignedEntities[i].AssignedOrganization; child != nil {
				stack = append(stack, child)
			}
		}
	}
	return out
}

func typeHint(root, extension string) *string {
	id := ResolveInstance(root, extension)
	if id.Kind == KindUnknown || id.Kind == KindSetID {
		return nil
	}
	s := string(id.Kind)
	return &s
}

func emptyOrganization() Organization {
	return Organization{OrgIDs: []OrgID{}}
}
