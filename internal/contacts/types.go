package contacts

// Contact is a Graph personal contact.
type Contact struct {
	ID              string           `json:"id"`
	DisplayName     string           `json:"displayName,omitempty"`
	GivenName       string           `json:"givenName,omitempty"`
	Surname         string           `json:"surname,omitempty"`
	EmailAddresses  []EmailAddress   `json:"emailAddresses,omitempty"`
	BusinessPhones  []string         `json:"businessPhones,omitempty"`
	MobilePhone     string           `json:"mobilePhone,omitempty"`
	HomePhones      []string         `json:"homePhones,omitempty"`
	CompanyName     string           `json:"companyName,omitempty"`
	JobTitle        string           `json:"jobTitle,omitempty"`
	Department      string           `json:"department,omitempty"`
	BusinessAddress *PhysicalAddress `json:"businessAddress,omitempty"`
	HomeAddress     *PhysicalAddress `json:"homeAddress,omitempty"`
	PersonalNotes   string           `json:"personalNotes,omitempty"`
	Birthday        string           `json:"birthday,omitempty"`
}

// EmailAddress is a name/address pair.
type EmailAddress struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address"`
}

// PhysicalAddress is a postal address.
type PhysicalAddress struct {
	Street          string `json:"street,omitempty"`
	City            string `json:"city,omitempty"`
	State           string `json:"state,omitempty"`
	CountryOrRegion string `json:"countryOrRegion,omitempty"`
	PostalCode      string `json:"postalCode,omitempty"`
}

// Draft describes a contact to create.
type Draft struct {
	GivenName      string
	Surname        string
	Email          string
	BusinessPhones []string
	CompanyName    string
	JobTitle       string
}
