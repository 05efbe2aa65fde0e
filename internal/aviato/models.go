package aviato

// SearchDSL is the query payload for the company and person search endpoints.
type SearchDSL struct {
	Offset    int                      `json:"offset"`
	Limit     int                      `json:"limit"`
	NameQuery string                   `json:"nameQuery,omitempty"`
	ID        string                   `json:"id,omitempty"`
	FullName  string                   `json:"fullName,omitempty"`
	Sort      []map[string]string      `json:"sort,omitempty"`
	Filters   []map[string]interface{} `json:"filters,omitempty"`
}

// Predicate builds one filter condition in the DSL's native shape.
func Predicate(field, operation string, value interface{}) map[string]interface{} {
	return map[string]interface{}{
		field: map[string]interface{}{
			"operation": operation,
			"value":     value,
		},
	}
}

// And wraps conditions in the AND structure the search endpoint expects.
func And(conditions []map[string]interface{}) []map[string]interface{} {
	return []map[string]interface{}{{"AND": conditions}}
}

// SearchResult is the company search response.
type SearchResult struct {
	Items []Company `json:"items"`
	Count int       `json:"count"`
}

// Company is one search-result record, augmented in place during enrichment.
type Company struct {
	ID           string      `json:"id"`
	Name         string      `json:"name"`
	LegalName    string      `json:"legalName,omitempty"`
	Country      string      `json:"country,omitempty"`
	Region       string      `json:"region,omitempty"`
	Locality     string      `json:"locality,omitempty"`
	Website      string      `json:"website,omitempty"`
	URLs         interface{} `json:"URLs,omitempty"`
	LinkedinID   string      `json:"linkedinID,omitempty"`
	IndustryList []string    `json:"industryList,omitempty"`
	Description  string      `json:"description,omitempty"`
	Founded      string      `json:"founded,omitempty"`
	Status       string      `json:"status,omitempty"`
	TotalFunding float64     `json:"totalFunding,omitempty"`

	// Populated by the enrichment orchestrator.
	People         []Person `json:"people,omitempty"`
	FoundersCount  int      `json:"founders_count"`
	EmployeesCount int      `json:"employees_count"`
	TotalPeople    int      `json:"total_people"`
}

// Person is a person-in-role record. Founders carry their fields at the top
// level; employees nest the person record and carry a position history.
type Person struct {
	Role         string        `json:"role,omitempty"`
	ID           string        `json:"id,omitempty"`
	PersonID     string        `json:"personId,omitempty"`
	FullName     string        `json:"fullName,omitempty"`
	Location     string        `json:"location,omitempty"`
	URLs         PersonURLs    `json:"URLs,omitempty"`
	Person       *PersonRecord `json:"person,omitempty"`
	PositionList []Position    `json:"positionList,omitempty"`
	CurrentTitle string        `json:"currentTitle,omitempty"`
}

// PersonRecord is the nested person sub-record on employee entries.
type PersonRecord struct {
	ID       string     `json:"id,omitempty"`
	FullName string     `json:"fullName,omitempty"`
	Location string     `json:"location,omitempty"`
	URLs     PersonURLs `json:"URLs,omitempty"`
}

type PersonURLs struct {
	Linkedin string `json:"linkedin,omitempty"`
	Twitter  string `json:"twitter,omitempty"`
}

// Position is one entry in an employee's position history. The current
// position is the first entry without an end date, else the first entry.
type Position struct {
	Title   string `json:"title,omitempty"`
	EndDate string `json:"endDate,omitempty"`
}

// CurrentPosition derives the active position per the rule above. Returns nil
// when the history is empty.
func (p *Person) CurrentPosition() *Position {
	if len(p.PositionList) == 0 {
		return nil
	}
	for i := range p.PositionList {
		if p.PositionList[i].EndDate == "" {
			return &p.PositionList[i]
		}
	}
	return &p.PositionList[0]
}

// ResolvePersonID prefers the nested person sub-record's id, falling back to
// the person-in-role record's own ids.
func (p *Person) ResolvePersonID() string {
	if p.PersonID != "" {
		return p.PersonID
	}
	if p.Person != nil && p.Person.ID != "" {
		return p.Person.ID
	}
	return p.ID
}

// ResolveFullName prefers the nested person sub-record's name.
func (p *Person) ResolveFullName() string {
	if p.Person != nil && p.Person.FullName != "" {
		return p.Person.FullName
	}
	return p.FullName
}

// ResolveLinkedin prefers the nested person sub-record's linkedin URL.
func (p *Person) ResolveLinkedin() string {
	if p.Person != nil && p.Person.URLs.Linkedin != "" {
		return p.Person.URLs.Linkedin
	}
	return p.URLs.Linkedin
}

// ContactInfo is the person contact-info response.
type ContactInfo struct {
	Emails []Email  `json:"emails"`
	Phones []string `json:"phones,omitempty"`
}

// Email is one address with its source tag (work, personal, ...).
type Email struct {
	Email string `json:"email"`
	Type  string `json:"type,omitempty"`
}

// CompanyProfile is the full enrich-by-website/linkedin projection, including
// the sub-resources fetched by the complete enrichment path.
type CompanyProfile struct {
	ID                string        `json:"id"`
	Name              string        `json:"name"`
	LegalName         string        `json:"legalName,omitempty"`
	Country           string        `json:"country,omitempty"`
	Region            string        `json:"region,omitempty"`
	Locality          string        `json:"locality,omitempty"`
	Website           string        `json:"website,omitempty"`
	URLs              interface{}   `json:"URLs,omitempty"`
	LinkedinID        string        `json:"linkedinID,omitempty"`
	IndustryList      []string      `json:"industryList,omitempty"`
	Description       string        `json:"description,omitempty"`
	Founded           string        `json:"founded,omitempty"`
	Status            string        `json:"status,omitempty"`
	TotalFunding      float64       `json:"totalFunding,omitempty"`
	FundingRoundCount int           `json:"fundingRoundCount,omitempty"`
	ProductList       []Product     `json:"productList,omitempty"`
	BusinessModelList []string      `json:"businessModelList,omitempty"`
	EmbeddedNews      []interface{} `json:"embeddedNews,omitempty"`
	IsAcquired        bool          `json:"isAcquired,omitempty"`
	IsExited          bool          `json:"isExited,omitempty"`
	IsShutDown        bool          `json:"isShutDown,omitempty"`
	JobListingList    []interface{} `json:"jobListingList,omitempty"`
	CustomerTypes     []string      `json:"customerTypes,omitempty"`
	OwnedPatents      []interface{} `json:"ownedPatents,omitempty"`
	GovernmentAwards  []interface{} `json:"governmentAwards,omitempty"`

	MonthlyWebTrafficChange  float64       `json:"monthlyWebTrafficChange,omitempty"`
	MonthlyWebTrafficPercent float64       `json:"monthlyWebTrafficPercent,omitempty"`
	YearlyWebTrafficChange   float64       `json:"yearlyWebTrafficChange,omitempty"`
	YearlyWebTrafficPercent  float64       `json:"yearlyWebTrafficPercent,omitempty"`
	CurrentWebTraffic        float64       `json:"currentWebTraffic,omitempty"`
	WebTrafficSources        []interface{} `json:"webTrafficSources,omitempty"`
	WebViewerCountries       []interface{} `json:"webViewerCountries,omitempty"`

	Acquisitions []Acquisition `json:"acquisitions,omitempty"`
	Founders     []Person      `json:"founders,omitempty"`
	Investors    []Investor    `json:"investors,omitempty"`
}

type Product struct {
	ProductName string `json:"productName,omitempty"`
	Tagline     string `json:"tagline,omitempty"`
}

type Acquisition struct {
	Name string `json:"name,omitempty"`
	Date string `json:"date,omitempty"`
}

type Investor struct {
	Name string `json:"name,omitempty"`
}

// ProfileSearchResult is the person search response.
type ProfileSearchResult struct {
	Items []PersonRecord `json:"items"`
	Count int            `json:"count"`
}
