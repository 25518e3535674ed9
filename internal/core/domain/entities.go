package domain

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// User represents any account known to the API: admins, owners, clients and agents
type User struct {
	ID        uint      `json:"id"`
	FirstName string    `json:"first_name"`
	LastName  string    `json:"last_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	Address   string    `json:"address,omitempty"`
	Image     string    `json:"image,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// FullName joins the name parts
func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// PropertyType is the kind of real-estate asset
type PropertyType string

const (
	PropertyApartment  PropertyType = "apartment"
	PropertyHouse      PropertyType = "house"
	PropertyVilla      PropertyType = "villa"
	PropertyLand       PropertyType = "land"
	PropertyCommercial PropertyType = "commercial"
)

// PropertyTypes lists the accepted property types in display order
var PropertyTypes = []PropertyType{PropertyApartment, PropertyHouse, PropertyVilla, PropertyLand, PropertyCommercial}

// PropertyStatus is the market status of a property
type PropertyStatus string

const (
	PropertyAvailable PropertyStatus = "available"
	PropertyRented    PropertyStatus = "rented"
	PropertySold      PropertyStatus = "sold"
	PropertyPending   PropertyStatus = "pending"
)

// PropertyStatuses lists the accepted property statuses
var PropertyStatuses = []PropertyStatus{PropertyAvailable, PropertyRented, PropertySold, PropertyPending}

// Property represents a listing owned by an owner
type Property struct {
	ID          uint           `json:"id"`
	Type        PropertyType   `json:"type"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Address     string         `json:"address"`
	City        string         `json:"city"`
	Surface     Decimal        `json:"surface"`
	Rooms       int            `json:"rooms"`
	Price       Decimal        `json:"price"`
	Status      PropertyStatus `json:"status"`
	Images      []string       `json:"images,omitempty"`
	OwnerID     uint           `json:"owner_id,omitempty"`
	Owner       *User          `json:"owner,omitempty"`
	CreatedAt   time.Time      `json:"created_at,omitempty"`
	UpdatedAt   time.Time      `json:"updated_at,omitempty"`
}

// ContractType distinguishes rentals from sales
type ContractType string

const (
	ContractRent ContractType = "rent"
	ContractSale ContractType = "sale"
)

// ContractStatus is the lifecycle state of a contract, owned by the API
type ContractStatus string

const (
	ContractPending   ContractStatus = "pending"
	ContractApproved  ContractStatus = "approved"
	ContractRejected  ContractStatus = "rejected"
	ContractActive    ContractStatus = "active"
	ContractCompleted ContractStatus = "completed"
)

// Contract links a property, its owner and a client
type Contract struct {
	ID         uint           `json:"id"`
	Type       ContractType   `json:"type"`
	StartDate  string         `json:"start_date"`
	EndDate    string         `json:"end_date,omitempty"`
	Amount     Decimal        `json:"amount"`
	Status     ContractStatus `json:"status"`
	PropertyID uint           `json:"property_id"`
	OwnerID    uint           `json:"owner_id,omitempty"`
	ClientID   uint           `json:"client_id,omitempty"`
	Property   *Property      `json:"property,omitempty"`
	Owner      *User          `json:"owner,omitempty"`
	Client     *User          `json:"client,omitempty"`
	CreatedAt  time.Time      `json:"created_at,omitempty"`
}

// Pending reports whether the owner can still approve or reject the contract
func (c Contract) Pending() bool {
	return c.Status == ContractPending
}

// VisitStatus is the scheduling state of a visit
type VisitStatus string

const (
	VisitPending   VisitStatus = "pending"
	VisitConfirmed VisitStatus = "confirmed"
	VisitCancelled VisitStatus = "cancelled"
)

// ParseVisitStatus validates a visit status coming from a form
func ParseVisitStatus(s string) (VisitStatus, error) {
	switch v := VisitStatus(strings.ToLower(strings.TrimSpace(s))); v {
	case VisitPending, VisitConfirmed, VisitCancelled:
		return v, nil
	}
	return "", ErrInvalidStatus
}

// Visit is a scheduled property viewing
type Visit struct {
	ID         uint        `json:"id"`
	PropertyID uint        `json:"property_id"`
	ClientID   uint        `json:"client_id,omitempty"`
	AgentID    uint        `json:"agent_id,omitempty"`
	Date       string      `json:"date"`
	Time       string      `json:"time"`
	Status     VisitStatus `json:"status"`
	Notes      string      `json:"notes,omitempty"`
	Property   *Property   `json:"property,omitempty"`
	Client     *User       `json:"client,omitempty"`
	Agent      *User       `json:"agent,omitempty"`
}

// Decimal is a number the API may send either as a JSON number or as a quoted string
// (decimal columns are serialized as strings).
type Decimal float64

// UnmarshalJSON accepts 12.5, "12.5" and null
func (d *Decimal) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" || s == `""` {
		*d = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = strings.TrimSpace(str)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return err
	}
	*d = Decimal(f)
	return nil
}

// Float64 returns the plain value
func (d Decimal) Float64() float64 {
	return float64(d)
}

// String formats the value without trailing zeros
func (d Decimal) String() string {
	return strconv.FormatFloat(float64(d), 'f', -1, 64)
}
