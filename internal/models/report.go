package models

import "github.com/google/uuid"

// RevenueBucket is one time bucket of a revenue report. Label is the bucket
// key: a date for weekly reports, "Week N" for monthly, a month name for
// yearly.
type RevenueBucket struct {
	Label   string  `json:"label"`
	Revenue float64 `json:"revenue"`
}

// TopFood is one entry of the best-sellers report.
type TopFood struct {
	FoodID       uuid.UUID `json:"food_id"`
	Name         string    `json:"name"`
	TotalOrdered int       `json:"total_ordered"`
}

// EmployeeStats aggregates completed orders per employee.
type EmployeeStats struct {
	EmployeeID uuid.UUID `json:"employee_id"`
	OrderCount int       `json:"order_count"`
	TotalSales float64   `json:"total_sales"`
	AvgSale    float64   `json:"avg_sale"`
}

// DashboardSummary is the cached one-shot payload for the manager dashboard.
type DashboardSummary struct {
	TotalSales     float64   `json:"total_sales"`
	TotalCustomers int       `json:"total_customers"`
	TotalOrders    int       `json:"total_orders"`
	TopFoods       []TopFood `json:"top_foods"`
}
