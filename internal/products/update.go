package products

// Update collects column changes for a product. Only the fields exposed as
// setters can ever reach the database, so arbitrary attribute names from
// request payloads are never interpolated into an update.
type Update struct {
	fields map[string]any
}

// NewUpdate returns an empty update builder.
func NewUpdate() *Update {
	return &Update{fields: make(map[string]any)}
}

// SetItem changes the item name. The names index is renamed alongside.
func (u *Update) SetItem(v string) *Update {
	u.fields["item"] = v
	return u
}

// SetDescription changes the product description.
func (u *Update) SetDescription(v string) *Update {
	u.fields["description"] = v
	return u
}

// SetPrice changes the decimal price string. Callers validate the value
// before building the update.
func (u *Update) SetPrice(v string) *Update {
	u.fields["price"] = v
	return u
}

// SetBrand changes the brand.
func (u *Update) SetBrand(v string) *Update {
	u.fields["brand"] = v
	return u
}

// SetCategory changes the category.
func (u *Update) SetCategory(v string) *Update {
	u.fields["category"] = v
	return u
}

// IsEmpty reports whether no setter has been called.
func (u *Update) IsEmpty() bool {
	return u == nil || len(u.fields) == 0
}

// Item returns the pending item name, if set.
func (u *Update) Item() (string, bool) {
	if u == nil {
		return "", false
	}
	v, ok := u.fields["item"].(string)
	return v, ok
}

// Price returns the pending price, if set.
func (u *Update) Price() (string, bool) {
	if u == nil {
		return "", false
	}
	v, ok := u.fields["price"].(string)
	return v, ok
}

// Fields returns a copy of the pending column map.
func (u *Update) Fields() map[string]any {
	out := make(map[string]any, len(u.fields))
	for k, v := range u.fields {
		out[k] = v
	}
	return out
}
