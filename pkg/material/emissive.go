package material

// IsEmissive reports whether the material behind id emits light
func (l *Library) IsEmissive(id ID) bool {
	m, ok := l.Material(id)
	return ok && m.Kind == KindDiffuseLight
}

// EmissiveMaterials lists every diffuse light in the library
func (l *Library) EmissiveMaterials() []ID {
	var ids []ID
	for i := range l.materials {
		if l.IsEmissive(ID(i)) {
			ids = append(ids, ID(i))
		}
	}
	return ids
}
