package models

// All lists the persisted models in dependency order (parents before children).
func All() []interface{} {
	return []interface{}{&Post{}, &Comment{}}
}
