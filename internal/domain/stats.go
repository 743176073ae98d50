package domain

// MonthlyStat mirrors the aggregation row shape the admin charts consume.
type MonthlyStat struct {
	Month int     `json:"_id"`
	Total float64 `json:"total"`
	Count int64   `json:"count"`
}

type SalesStats struct {
	TotalOrders     int64         `json:"totalOrders"`
	TotalSales      float64       `json:"totalSales"`
	PaidOrders      int64         `json:"paidOrders"`
	PendingOrders   int64         `json:"pendingOrders"`
	CancelledOrders int64         `json:"cancelledOrders"`
	MonthlySales    []MonthlyStat `json:"monthlySales"`
}

type RevenuePoint struct {
	Month   string  `json:"month"`
	Revenue float64 `json:"revenue"`
}

// ChartSlice is a color-tagged wedge for the category and payment-method
// breakdown charts.
type ChartSlice struct {
	Name  string `json:"name"`
	Value int64  `json:"value"`
	Color string `json:"color"`
}

type SalesTotals struct {
	Daily   float64 `json:"daily"`
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
	Change  string  `json:"change"`
}

type GraphStats struct {
	TotalSales         SalesTotals    `json:"totalSales"`
	TotalOrders        int64          `json:"totalOrders"`
	ActiveCustomers    int64          `json:"activeCustomers"`
	TopSellingProducts string         `json:"topSellingProducts"`
	Revenue            []RevenuePoint `json:"revenue"`
	Categories         []ChartSlice   `json:"categories"`
	PaymentMethods     []ChartSlice   `json:"paymentMethods"`
}
