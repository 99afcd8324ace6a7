// Package testutils holds fixture types shared by the typetext tests and
// benchmarks.
package testutils

import (
	"time"

	"github.com/google/uuid"
)

// Customer mixes the value kinds a typical document carries.
type Customer struct {
	ID       uuid.UUID `text:"id"`
	Email    string    `text:"email"`
	Name     string
	Age      int
	IsActive bool `text:"is_active"`

	Joined  time.Time
	Timeout time.Duration

	Tags    []string
	Scores  map[string]int
	Address Address

	// pointers, nil unless set
	NickName *string
	TenantID *uuid.UUID
}

// Address is a nested struct member of Customer.
type Address struct {
	Street string
	City   string
	Zip    string
}

// Node is a singly linked node; pointing Next at itself makes a cycle.
type Node struct {
	Name string
	Next *Node
}

// Envelope carries a payload whose concrete type is only known at runtime.
type Envelope struct {
	Kind    string
	Payload any
}

// NewCustomer returns a fully populated Customer.
func NewCustomer() Customer {
	nick := "annie"
	tenant := uuid.MustParse("6f1c2a3e-4b5d-4e6f-8a9b-0c1d2e3f4a5b")
	return Customer{
		ID:       uuid.MustParse("0b6e4c1a-9f3d-4a2b-8c7d-1e2f3a4b5c6d"),
		Email:    "ann@example.com",
		Name:     "Ann Smith",
		Age:      41,
		IsActive: true,
		Joined:   time.Date(2023, 3, 14, 9, 26, 53, 0, time.UTC),
		Timeout:  90 * time.Second,
		Tags:     []string{"gold", "early adopter", "a,b"},
		Scores:   map[string]int{"q1": 10, "q2": 7},
		Address:  Address{Street: "1 Main St", City: "Springfield", Zip: "01101"},
		NickName: &nick,
		TenantID: &tenant,
	}
}
