package service

import (
	"context"
	"time"

	"dokanpos/backend/internal/cart"
	"dokanpos/backend/internal/domain"
	"dokanpos/backend/internal/query"
	"dokanpos/backend/internal/recordstore"
)

// SalesInRange aggregates sales between two dates inclusive, bucketed by
// payment method and by local calendar day of each sale's own timestamp.
func (s *Service) SalesInRange(ctx context.Context, from, to time.Time) (domain.SalesReport, error) {
	var sales []domain.Sale
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		sales, err = s.sales.All(tx)
		return err
	})
	if err != nil {
		return domain.SalesReport{}, err
	}

	matched := query.InRange(sales, func(s domain.Sale) time.Time { return s.SoldAt }, from, to)

	report := domain.SalesReport{
		From:      from.Format("2006-01-02"),
		To:        to.Format("2006-01-02"),
		ByPayment: []domain.PaymentBucket{},
		ByDay:     []domain.DayBucket{},
	}
	paymentIndex := make(map[string]int)
	dayIndex := make(map[string]int)

	for _, sale := range matched {
		report.Count++
		report.Revenue = cart.Round(report.Revenue + sale.GrandTotal)
		report.TotalTax = cart.Round(report.TotalTax + sale.TotalTax)
		report.TotalDiscount = cart.Round(report.TotalDiscount + sale.TotalDiscount)

		at, ok := paymentIndex[sale.PaymentMethod]
		if !ok {
			at = len(report.ByPayment)
			paymentIndex[sale.PaymentMethod] = at
			report.ByPayment = append(report.ByPayment, domain.PaymentBucket{PaymentMethod: sale.PaymentMethod})
		}
		report.ByPayment[at].Count++
		report.ByPayment[at].Amount = cart.Round(report.ByPayment[at].Amount + sale.GrandTotal)

		day := sale.SoldAt.Local().Format("2006-01-02")
		at, ok = dayIndex[day]
		if !ok {
			at = len(report.ByDay)
			dayIndex[day] = at
			report.ByDay = append(report.ByDay, domain.DayBucket{Date: day})
		}
		report.ByDay[at].Count++
		report.ByDay[at].Amount = cart.Round(report.ByDay[at].Amount + sale.GrandTotal)
	}

	report.ByDay = query.SortBy(report.ByDay, func(a, b domain.DayBucket) bool { return a.Date < b.Date })
	return report, nil
}

// TopProducts ranks products by quantity sold across the range, stable on
// first-encounter order for ties, truncated to limit.
func (s *Service) TopProducts(ctx context.Context, from, to time.Time, limit int) ([]domain.TopProduct, error) {
	var sales []domain.Sale
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		sales, err = s.sales.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	matched := query.InRange(sales, func(s domain.Sale) time.Time { return s.SoldAt }, from, to)

	ranked := []domain.TopProduct{}
	index := make(map[string]int)
	for _, sale := range matched {
		for _, item := range sale.Items {
			at, ok := index[item.ProductID]
			if !ok {
				at = len(ranked)
				index[item.ProductID] = at
				ranked = append(ranked, domain.TopProduct{ProductID: item.ProductID, Name: item.Name})
			}
			ranked[at].QuantitySold += item.Quantity
			ranked[at].Revenue = cart.Round(ranked[at].Revenue + item.Total)
		}
	}

	ranked = query.SortBy(ranked, func(a, b domain.TopProduct) bool { return a.QuantitySold > b.QuantitySold })
	if limit > 0 && len(ranked) > limit {
		ranked = ranked[:limit]
	}
	return ranked, nil
}

// ProfitLoss totals revenue, tax and discount over the range and prices
// the cost of goods sold at each product's current purchase price. Items
// whose product has since been deleted contribute zero cost.
func (s *Service) ProfitLoss(ctx context.Context, from, to time.Time) (domain.ProfitLossReport, error) {
	var (
		sales    []domain.Sale
		products []domain.Product
	)
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		if sales, err = s.sales.All(tx); err != nil {
			return err
		}
		products, err = s.products.All(tx)
		return err
	})
	if err != nil {
		return domain.ProfitLossReport{}, err
	}

	purchasePrice := make(map[string]float64, len(products))
	for _, p := range products {
		purchasePrice[p.ID] = p.PurchasePrice
	}

	report := domain.ProfitLossReport{
		From: from.Format("2006-01-02"),
		To:   to.Format("2006-01-02"),
	}
	for _, sale := range query.InRange(sales, func(s domain.Sale) time.Time { return s.SoldAt }, from, to) {
		report.Revenue = cart.Round(report.Revenue + sale.GrandTotal)
		report.TotalTax = cart.Round(report.TotalTax + sale.TotalTax)
		report.TotalDiscount = cart.Round(report.TotalDiscount + sale.TotalDiscount)
		for _, item := range sale.Items {
			report.Cost = cart.Round(report.Cost + purchasePrice[item.ProductID]*float64(item.Quantity))
		}
	}

	report.GrossProfit = cart.Round(report.Revenue - report.Cost)
	report.NetProfit = cart.Round(report.GrossProfit - report.TotalTax)
	if report.Revenue > 0 {
		report.ProfitMargin = cart.Round(report.GrossProfit / report.Revenue * 100)
	}
	return report, nil
}

// CustomerReport aggregates every customer's purchase history across all
// sales, ranked by lifetime spend. Ties keep customer list order.
func (s *Service) CustomerReport(ctx context.Context) ([]domain.CustomerReportRow, error) {
	var (
		customers []domain.Customer
		sales     []domain.Sale
	)
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		if customers, err = s.customers.All(tx); err != nil {
			return err
		}
		sales, err = s.sales.All(tx)
		return err
	})
	if err != nil {
		return nil, err
	}

	rows := []domain.CustomerReportRow{}
	index := make(map[string]int, len(customers))
	for _, c := range customers {
		index[c.ID] = len(rows)
		rows = append(rows, domain.CustomerReportRow{
			CustomerID:     c.ID,
			Name:           c.Name,
			Phone:          c.Phone,
			CurrentBalance: c.CurrentBalance,
			LoyaltyPoints:  c.LoyaltyPoints,
		})
	}
	for _, sale := range sales {
		at, ok := index[sale.CustomerID]
		if !ok {
			continue
		}
		rows[at].OrderCount++
		rows[at].TotalPurchases = cart.Round(rows[at].TotalPurchases + sale.GrandTotal)
		if rows[at].LastPurchase == nil || sale.SoldAt.After(*rows[at].LastPurchase) {
			soldAt := sale.SoldAt
			rows[at].LastPurchase = &soldAt
		}
	}
	for i := range rows {
		if rows[i].OrderCount > 0 {
			rows[i].AverageOrder = cart.Round(rows[i].TotalPurchases / float64(rows[i].OrderCount))
		}
	}

	return query.SortBy(rows, func(a, b domain.CustomerReportRow) bool {
		return a.TotalPurchases > b.TotalPurchases
	}), nil
}

// LowStock returns active products at or below the threshold. A nil
// threshold compares each product against its own min_stock_level.
func (s *Service) LowStock(ctx context.Context, threshold *int) ([]domain.Product, error) {
	products, err := s.ListProducts(ctx, domain.ProductFilter{ActiveOnly: true})
	if err != nil {
		return nil, err
	}
	return query.Filter(products, func(p domain.Product) bool {
		if threshold != nil {
			return p.StockQuantity <= *threshold
		}
		return p.StockQuantity <= p.MinStockLevel
	}), nil
}

// Summary backs the dashboard: today's and this month's sales plus record
// counts.
func (s *Service) Summary(ctx context.Context) (domain.DashboardSummary, error) {
	var (
		sales     []domain.Sale
		products  []domain.Product
		customers []domain.Customer
	)
	err := s.store.Atomic(ctx, func(tx *recordstore.Tx) error {
		var err error
		if sales, err = s.sales.All(tx); err != nil {
			return err
		}
		if products, err = s.products.All(tx); err != nil {
			return err
		}
		customers, err = s.customers.All(tx)
		return err
	})
	if err != nil {
		return domain.DashboardSummary{}, err
	}

	now := s.now().Local()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	summary := domain.DashboardSummary{
		ProductCount:    len(products),
		CustomerCount:   len(customers),
		TotalSalesCount: len(sales),
	}
	for _, sale := range query.InRange(sales, func(s domain.Sale) time.Time { return s.SoldAt }, now, now) {
		summary.TodayCount++
		summary.TodaySales = cart.Round(summary.TodaySales + sale.GrandTotal)
	}
	for _, sale := range query.InRange(sales, func(s domain.Sale) time.Time { return s.SoldAt }, monthStart, now) {
		summary.MonthCount++
		summary.MonthSales = cart.Round(summary.MonthSales + sale.GrandTotal)
	}
	for _, product := range products {
		if product.Active && product.StockQuantity <= product.MinStockLevel {
			summary.LowStockCount++
		}
	}
	return summary, nil
}
