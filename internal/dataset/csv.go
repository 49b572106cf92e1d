//-------------------------------------------------------------------------
//
// Retail Analytics Toolkit
//
// Copyright (c) 2025 - 2026, RetailMetrics, Inc.
// This software is released under The PostgreSQL License
//
//-------------------------------------------------------------------------

package dataset

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/retailmetrics/retail-analytics/internal/logging"
	"github.com/retailmetrics/retail-analytics/internal/model"
)

// CSV file names within a data directory.
const (
	CustomersFile = "customers.csv"
	StoresFile    = "stores.csv"
	ProductsFile  = "products.csv"
	SalesFile     = "sales_transactions.csv"
)

const dateLayout = "2006-01-02"

// header maps column names to their position in a CSV file.
type header map[string]int

func readRecords(path string) (header, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	if len(records) == 0 {
		return nil, nil, fmt.Errorf("%s: missing header row", filepath.Base(path))
	}

	h := make(header, len(records[0]))
	for i, name := range records[0] {
		h[name] = i
	}
	return h, records[1:], nil
}

func (h header) field(rec []string, col string) (string, error) {
	i, ok := h[col]
	if !ok {
		return "", fmt.Errorf("missing column %q", col)
	}
	return rec[i], nil
}

func (h header) optional(rec []string, col string) string {
	i, ok := h[col]
	if !ok {
		return ""
	}
	return rec[i]
}

func (h header) intField(rec []string, col string) (int, error) {
	s, err := h.field(rec, col)
	if err != nil {
		return 0, err
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("column %q: %w", col, err)
	}
	return v, nil
}

func (h header) decimalField(rec []string, col string) (decimal.Decimal, error) {
	s, err := h.field(rec, col)
	if err != nil {
		return decimal.Zero, err
	}
	v, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("column %q: %w", col, err)
	}
	return v, nil
}

func (h header) dateField(rec []string, col string) (time.Time, error) {
	s, err := h.field(rec, col)
	if err != nil {
		return time.Time{}, err
	}
	v, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("column %q: %w", col, err)
	}
	return v, nil
}

// ReadDir loads and validates a dataset from the four CSV files in dir.
// The sales file may carry a total_amount column; it is ignored since
// the total is derived, and discount_amount/promotion_id are optional.
func ReadDir(dir string) (*Dataset, error) {
	customers, err := readCustomers(filepath.Join(dir, CustomersFile))
	if err != nil {
		return nil, fmt.Errorf("loading customers: %w", err)
	}
	stores, err := readStores(filepath.Join(dir, StoresFile))
	if err != nil {
		return nil, fmt.Errorf("loading stores: %w", err)
	}
	products, err := readProducts(filepath.Join(dir, ProductsFile))
	if err != nil {
		return nil, fmt.Errorf("loading products: %w", err)
	}
	sales, err := readSales(filepath.Join(dir, SalesFile))
	if err != nil {
		return nil, fmt.Errorf("loading sales: %w", err)
	}

	ds, err := New(customers, stores, products, sales)
	if err != nil {
		return nil, err
	}

	logging.Info().
		Str("dir", dir).
		Int("customers", len(customers)).
		Int("stores", len(stores)).
		Int("products", len(products)).
		Int("sales", len(sales)).
		Msg("Loaded dataset from CSV")

	return ds, nil
}

func readCustomers(path string) ([]model.Customer, error) {
	h, records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	customers := make([]model.Customer, 0, len(records))
	for n, rec := range records {
		id, err := h.intField(rec, "customer_id")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		first, err := h.field(rec, "first_name")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		last, err := h.field(rec, "last_name")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		email, err := h.field(rec, "email")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		city, err := h.field(rec, "city")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		signup, err := h.dateField(rec, "signup_date")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		customers = append(customers, model.Customer{
			ID:         id,
			Name:       first + " " + last,
			Email:      email,
			City:       city,
			SignupDate: signup,
		})
	}
	return customers, nil
}

func readStores(path string) ([]model.Store, error) {
	h, records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	stores := make([]model.Store, 0, len(records))
	for n, rec := range records {
		id, err := h.intField(rec, "store_id")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		name, err := h.field(rec, "store_name")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		city, err := h.field(rec, "city")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		region, err := h.field(rec, "region")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		stores = append(stores, model.Store{
			ID:      id,
			Name:    name,
			City:    city,
			Region:  region,
			Manager: h.optional(rec, "manager_name"),
		})
	}
	return stores, nil
}

func readProducts(path string) ([]model.Product, error) {
	h, records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	products := make([]model.Product, 0, len(records))
	for n, rec := range records {
		id, err := h.intField(rec, "product_id")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		name, err := h.field(rec, "product_name")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		category, err := h.field(rec, "category")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		brand, err := h.field(rec, "brand")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		cost, err := h.decimalField(rec, "unit_cost")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		price, err := h.decimalField(rec, "unit_price")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		products = append(products, model.Product{
			ID:        id,
			Name:      name,
			Category:  category,
			Brand:     brand,
			UnitCost:  cost,
			UnitPrice: price,
		})
	}
	return products, nil
}

func readSales(path string) ([]model.SaleTransaction, error) {
	h, records, err := readRecords(path)
	if err != nil {
		return nil, err
	}

	sales := make([]model.SaleTransaction, 0, len(records))
	for n, rec := range records {
		id, err := h.intField(rec, "transaction_id")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		customerID, err := h.intField(rec, "customer_id")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		productID, err := h.intField(rec, "product_id")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		storeID, err := h.intField(rec, "store_id")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		date, err := h.dateField(rec, "date")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		quantity, err := h.intField(rec, "quantity")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}
		price, err := h.decimalField(rec, "unit_price")
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", n+2, err)
		}

		discount := decimal.Zero
		if s := h.optional(rec, "discount_amount"); s != "" {
			discount, err = decimal.NewFromString(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: column %q: %w", n+2, "discount_amount", err)
			}
		}

		var promotionID *int
		if s := h.optional(rec, "promotion_id"); s != "" {
			p, err := strconv.Atoi(s)
			if err != nil {
				return nil, fmt.Errorf("row %d: column %q: %w", n+2, "promotion_id", err)
			}
			promotionID = &p
		}

		sales = append(sales, model.SaleTransaction{
			ID:          id,
			CustomerID:  customerID,
			ProductID:   productID,
			StoreID:     storeID,
			SaleDate:    date,
			Quantity:    quantity,
			UnitPrice:   price,
			Discount:    discount,
			PromotionID: promotionID,
		})
	}
	return sales, nil
}

// WriteDir writes the dataset to the four CSV files in dir, creating
// the directory if needed. The sales file includes the derived
// total_amount column for compatibility with downstream consumers of
// the original file layout; ReadDir ignores it.
func WriteDir(dir string, ds *Dataset) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	customerRows := [][]string{{"customer_id", "first_name", "last_name", "email", "city", "signup_date"}}
	for _, c := range ds.Customers {
		first, last := splitName(c.Name)
		customerRows = append(customerRows, []string{
			strconv.Itoa(c.ID), first, last, c.Email, c.City, c.SignupDate.Format(dateLayout),
		})
	}
	if err := writeFile(filepath.Join(dir, CustomersFile), customerRows); err != nil {
		return err
	}

	storeRows := [][]string{{"store_id", "store_name", "city", "region", "manager_name"}}
	for _, s := range ds.Stores {
		storeRows = append(storeRows, []string{
			strconv.Itoa(s.ID), s.Name, s.City, s.Region, s.Manager,
		})
	}
	if err := writeFile(filepath.Join(dir, StoresFile), storeRows); err != nil {
		return err
	}

	productRows := [][]string{{"product_id", "product_name", "category", "brand", "unit_cost", "unit_price"}}
	for _, p := range ds.Products {
		productRows = append(productRows, []string{
			strconv.Itoa(p.ID), p.Name, p.Category, p.Brand,
			p.UnitCost.StringFixed(2), p.UnitPrice.StringFixed(2),
		})
	}
	if err := writeFile(filepath.Join(dir, ProductsFile), productRows); err != nil {
		return err
	}

	saleRows := [][]string{{
		"transaction_id", "customer_id", "product_id", "store_id", "date",
		"quantity", "unit_price", "total_amount", "discount_amount", "promotion_id",
	}}
	for i := range ds.Sales {
		t := &ds.Sales[i]
		promo := ""
		if t.PromotionID != nil {
			promo = strconv.Itoa(*t.PromotionID)
		}
		saleRows = append(saleRows, []string{
			strconv.Itoa(t.ID),
			strconv.Itoa(t.CustomerID),
			strconv.Itoa(t.ProductID),
			strconv.Itoa(t.StoreID),
			t.SaleDate.Format(dateLayout),
			strconv.Itoa(t.Quantity),
			t.UnitPrice.StringFixed(2),
			t.TotalAmount().StringFixed(2),
			t.Discount.StringFixed(2),
			promo,
		})
	}
	if err := writeFile(filepath.Join(dir, SalesFile), saleRows); err != nil {
		return err
	}

	logging.Info().
		Str("dir", dir).
		Int("customers", len(ds.Customers)).
		Int("stores", len(ds.Stores)).
		Int("products", len(ds.Products)).
		Int("sales", len(ds.Sales)).
		Msg("Wrote dataset CSV files")

	return nil
}

func writeFile(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		return fmt.Errorf("%s: %w", filepath.Base(path), err)
	}
	w.Flush()
	return w.Error()
}

func splitName(name string) (string, string) {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == ' ' {
			return name[:i], name[i+1:]
		}
	}
	return name, ""
}
