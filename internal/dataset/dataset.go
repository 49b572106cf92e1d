//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

// Package dataset assembles and validates the in-memory star schema.
// Validation happens once, at the load boundary: rows that violate a
// field invariant or reference a missing dimension row make the load
// fail with an error naming the row. Nothing is silently dropped, and
// the analytical code downstream can assume integrity.
package dataset

import (
	"fmt"

	"github.com/retailmetrics/retail-analytics/internal/model"
)

// Dataset holds the loaded dimension and fact collections plus lookup
// indexes. It is immutable after New returns.
type Dataset struct {
	Customers []model.Customer
	Stores    []model.Store
	Products  []model.Product
	Sales     []model.SaleTransaction

	customersByID map[int]*model.Customer
	storesByID    map[int]*model.Store
	productsByID  map[int]*model.Product
}

// New validates the collections and builds the lookup indexes.
func New(customers []model.Customer, stores []model.Store, products []model.Product, sales []model.SaleTransaction) (*Dataset, error) {
	ds := &Dataset{
		Customers: customers,
		Stores:    stores,
		Products:  products,
		Sales:     sales,

		customersByID: make(map[int]*model.Customer, len(customers)),
		storesByID:    make(map[int]*model.Store, len(stores)),
		productsByID:  make(map[int]*model.Product, len(products)),
	}

	for i := range customers {
		c := &customers[i]
		if _, dup := ds.customersByID[c.ID]; dup {
			return nil, fmt.Errorf("customer %d: duplicate id", c.ID)
		}
		ds.customersByID[c.ID] = c
	}

	for i := range stores {
		s := &stores[i]
		if _, dup := ds.storesByID[s.ID]; dup {
			return nil, fmt.Errorf("store %d: duplicate id", s.ID)
		}
		ds.storesByID[s.ID] = s
	}

	for i := range products {
		p := &products[i]
		if _, dup := ds.productsByID[p.ID]; dup {
			return nil, fmt.Errorf("product %d: duplicate id", p.ID)
		}
		if p.UnitCost.IsNegative() {
			return nil, fmt.Errorf("product %d: negative unit cost %s", p.ID, p.UnitCost)
		}
		if p.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("product %d: negative unit price %s", p.ID, p.UnitPrice)
		}
		ds.productsByID[p.ID] = p
	}

	seen := make(map[int]struct{}, len(sales))
	for i := range sales {
		t := &sales[i]
		if _, dup := seen[t.ID]; dup {
			return nil, fmt.Errorf("transaction %d: duplicate id", t.ID)
		}
		seen[t.ID] = struct{}{}

		if t.Quantity <= 0 {
			return nil, fmt.Errorf("transaction %d: quantity must be positive, got %d", t.ID, t.Quantity)
		}
		if t.UnitPrice.IsNegative() {
			return nil, fmt.Errorf("transaction %d: negative unit price %s", t.ID, t.UnitPrice)
		}
		if t.Discount.IsNegative() {
			return nil, fmt.Errorf("transaction %d: negative discount %s", t.ID, t.Discount)
		}
		if _, ok := ds.customersByID[t.CustomerID]; !ok {
			return nil, fmt.Errorf("transaction %d: unknown customer %d", t.ID, t.CustomerID)
		}
		if _, ok := ds.productsByID[t.ProductID]; !ok {
			return nil, fmt.Errorf("transaction %d: unknown product %d", t.ID, t.ProductID)
		}
		if _, ok := ds.storesByID[t.StoreID]; !ok {
			return nil, fmt.Errorf("transaction %d: unknown store %d", t.ID, t.StoreID)
		}
	}

	return ds, nil
}

// Customer resolves a customer dimension row. A miss is a data
// integrity error: New guarantees every fact row resolves, so a miss
// here means the caller is using an id from outside the dataset.
func (ds *Dataset) Customer(id int) (*model.Customer, error) {
	c, ok := ds.customersByID[id]
	if !ok {
		return nil, fmt.Errorf("data integrity: customer %d not found", id)
	}
	return c, nil
}

// Store resolves a store dimension row.
func (ds *Dataset) Store(id int) (*model.Store, error) {
	s, ok := ds.storesByID[id]
	if !ok {
		return nil, fmt.Errorf("data integrity: store %d not found", id)
	}
	return s, nil
}

// Product resolves a product dimension row.
func (ds *Dataset) Product(id int) (*model.Product, error) {
	p, ok := ds.productsByID[id]
	if !ok {
		return nil, fmt.Errorf("data integrity: product %d not found", id)
	}
	return p, nil
}

// Profit computes the derived profit for a fact row by resolving its
// product dimension.
func (ds *Dataset) Profit(t *model.SaleTransaction) (float64, error) {
	p, err := ds.Product(t.ProductID)
	if err != nil {
		return 0, err
	}
	return t.Profit(p).InexactFloat64(), nil
}
