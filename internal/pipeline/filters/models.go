package filters

// FilterSet is the normalized output of the filter compiler. Numeric fields
// keep the parsed int64 when coercion succeeds, otherwise the raw trimmed
// string is retained.
type FilterSet struct {
	NameQuery    string
	Country      string
	Region       []string
	Locality     []string
	IndustryList []string
	Website      string
	Linkedin     string
	Twitter      string
	TotalFunding *FundingFilter
	Founded      interface{}
}

// FundingFilter carries the funding bound and its comparison operation.
type FundingFilter struct {
	Value     interface{}
	Operation string // "gte" or "lte"
}

// IsEmpty reports whether no filter dimension is set.
func (f FilterSet) IsEmpty() bool {
	return f.NameQuery == "" &&
		f.Country == "" &&
		len(f.Region) == 0 &&
		len(f.Locality) == 0 &&
		len(f.IndustryList) == 0 &&
		f.Website == "" &&
		f.Linkedin == "" &&
		f.Twitter == "" &&
		f.TotalFunding == nil &&
		f.Founded == nil
}
