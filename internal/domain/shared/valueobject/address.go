package valueobject

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"

	"github.com/subhashana00/E-Commerce-Clothing--WEB-VTON-Reasearch/internal/domain/shared"
)

// Address is the shipping address captured at checkout.
// It is copied onto the order so later profile edits never change history.
type Address struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state"`
	Zipcode   string `json:"zipcode"`
	Country   string `json:"country"`
	Phone     string `json:"phone"`
}

// NewAddress trims every field and validates the result
func NewAddress(a Address) (Address, error) {
	addr := Address{
		FirstName: strings.TrimSpace(a.FirstName),
		LastName:  strings.TrimSpace(a.LastName),
		Email:     strings.ToLower(strings.TrimSpace(a.Email)),
		Street:    strings.TrimSpace(a.Street),
		City:      strings.TrimSpace(a.City),
		State:     strings.TrimSpace(a.State),
		Zipcode:   strings.TrimSpace(a.Zipcode),
		Country:   strings.TrimSpace(a.Country),
		Phone:     strings.TrimSpace(a.Phone),
	}
	if err := addr.Validate(); err != nil {
		return Address{}, err
	}
	return addr, nil
}

// Validate checks the fields a courier needs
func (a Address) Validate() error {
	required := []struct {
		name  string
		value string
	}{
		{"firstName", a.FirstName},
		{"lastName", a.LastName},
		{"email", a.Email},
		{"street", a.Street},
		{"city", a.City},
		{"zipcode", a.Zipcode},
		{"country", a.Country},
		{"phone", a.Phone},
	}
	for _, f := range required {
		if f.value == "" {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("address %s is required", f.name))
		}
		if len(f.value) > 200 {
			return shared.NewDomainError("INVALID_INPUT", fmt.Sprintf("address %s cannot exceed 200 characters", f.name))
		}
	}
	if _, err := mail.ParseAddress(a.Email); err != nil {
		return shared.NewDomainError("INVALID_EMAIL", "address email is invalid")
	}
	return nil
}

// IsEmpty returns true if no field is set
func (a Address) IsEmpty() bool {
	return a == Address{}
}

// FullName joins first and last name
func (a Address) FullName() string {
	return strings.TrimSpace(a.FirstName + " " + a.LastName)
}

// Lines returns the printable address lines used in emails
func (a Address) Lines() []string {
	region := strings.TrimSpace(strings.Join(nonEmpty(a.City, a.State, a.Zipcode), ", "))
	return nonEmpty(a.FullName(), a.Street, region, a.Country, a.Phone)
}

// String returns a single-line representation of the address
func (a Address) String() string {
	return strings.Join(a.Lines(), ", ")
}

// Value implements driver.Valuer so the address is stored as a JSON column
func (a Address) Value() (driver.Value, error) {
	b, err := json.Marshal(a)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner for JSON columns
func (a *Address) Scan(value any) error {
	if value == nil {
		*a = Address{}
		return nil
	}
	var data []byte
	switch v := value.(type) {
	case string:
		data = []byte(v)
	case []byte:
		data = v
	default:
		return fmt.Errorf("cannot scan %T into Address", value)
	}
	return json.Unmarshal(data, a)
}

func nonEmpty(values ...string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
