package location

// Codec turns a raw location into a logical one.
type Codec interface {
	Decode(raw RawLocation) (LogicalLocation, error)
}

// Fallback decodes the static-host fallback scheme (see Decode).
type Fallback struct{}

// Decode implements Codec.
func (Fallback) Decode(raw RawLocation) (LogicalLocation, error) {
	return Decode(raw)
}

// Direct treats every raw location as a clean deep link.
type Direct struct{}

// Decode implements Codec. Only the shape of raw is validated.
func (Direct) Decode(raw RawLocation) (LogicalLocation, error) {
	if err := validateRaw(raw); err != nil {
		return Root, err
	}
	return LogicalLocation{Path: raw.Pathname, Search: raw.Search}, nil
}

// Resolve decodes raw with c, degrading any failure to Root.
// The returned error is informational; the location is always usable.
func Resolve(c Codec, raw RawLocation) (LogicalLocation, error) {
	loc, err := c.Decode(raw)
	if err != nil {
		return Root, err
	}
	return loc, nil
}
