package domain

import "time"

// Meta carries the identity and bookkeeping fields shared by every stored
// record. The record store assigns ID and both timestamps on create and
// refreshes UpdatedAt on every update.
type Meta struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Meta) RecordMeta() *Meta { return m }

type Product struct {
	Meta
	Name          string  `json:"name"`
	SKU           string  `json:"sku,omitempty"`
	Barcode       string  `json:"barcode,omitempty"`
	Description   string  `json:"description,omitempty"`
	CategoryID    string  `json:"category_id"`
	Unit          string  `json:"unit"`
	PurchasePrice float64 `json:"purchase_price"`
	SellingPrice  float64 `json:"selling_price"`
	TaxRate       float64 `json:"tax_rate"`
	StockQuantity int     `json:"stock_quantity"`
	MinStockLevel int     `json:"min_stock_level"`
	Active        bool    `json:"is_active"`
}

type Customer struct {
	Meta
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	Email          string     `json:"email,omitempty"`
	Address        string     `json:"address,omitempty"`
	CreditLimit    float64    `json:"credit_limit"`
	CurrentBalance float64    `json:"current_balance"`
	LoyaltyPoints  int        `json:"loyalty_points"`
	TotalPurchases float64    `json:"total_purchases"`
	LastPurchase   *time.Time `json:"last_purchase,omitempty"`
}

type Category struct {
	Meta
	Name     string `json:"name"`
	ParentID string `json:"parent_id,omitempty"`
	Active   bool   `json:"is_active"`
}

type SaleItem struct {
	ProductID string  `json:"product_id"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"unit_price"`
	Quantity  int     `json:"quantity"`
	TaxRate   float64 `json:"tax_rate"`
	Discount  float64 `json:"discount"`
	Total     float64 `json:"total_amount"`
}

type Sale struct {
	Meta
	InvoiceNumber string     `json:"invoice_number"`
	CustomerID    string     `json:"customer_id,omitempty"`
	Items         []SaleItem `json:"items"`
	Subtotal      float64    `json:"subtotal"`
	TotalDiscount float64    `json:"total_discount"`
	TotalTax      float64    `json:"total_tax"`
	GrandTotal    float64    `json:"grand_total"`
	PaymentMethod string     `json:"payment_method"`
	PaymentStatus string     `json:"payment_status"`
	PaidAmount    float64    `json:"paid_amount"`
	DueAmount     float64    `json:"due_amount"`
	CashierID     string     `json:"cashier_id,omitempty"`
	SoldAt        time.Time  `json:"sold_at"`
}

type InventoryTransaction struct {
	Meta
	ProductID     string `json:"product_id"`
	Type          string `json:"type"`
	Quantity      int    `json:"quantity"`
	PreviousStock int    `json:"previous_stock"`
	NewStock      int    `json:"new_stock"`
	ReferenceType string `json:"reference_type"`
	ReferenceID   string `json:"reference_id,omitempty"`
	Notes         string `json:"notes,omitempty"`
}

// Settings is a singleton record, stored as a single JSON object rather
// than a collection.
type Settings struct {
	CompanyName    string    `json:"company_name"`
	CompanyPhone   string    `json:"company_phone,omitempty"`
	CompanyAddress string    `json:"company_address,omitempty"`
	DefaultTaxRate float64   `json:"default_tax_rate"`
	Currency       string    `json:"currency"`
	ReceiptHeader  string    `json:"receipt_header,omitempty"`
	ReceiptFooter  string    `json:"receipt_footer,omitempty"`
	UpdatedAt      time.Time `json:"updated_at"`
}

type UserAccount struct {
	Meta
	Username string `json:"username"`
	Password string `json:"password"`
	Role     string `json:"role"`
	Active   bool   `json:"is_active"`
}

type Actor struct {
	Username string
	Role     string
}

type ProductCreateRequest struct {
	Name          string  `json:"name" validate:"required"`
	SKU           string  `json:"sku"`
	Barcode       string  `json:"barcode"`
	Description   string  `json:"description"`
	CategoryID    string  `json:"category_id" validate:"required"`
	Unit          string  `json:"unit"`
	PurchasePrice float64 `json:"purchase_price" validate:"gte=0"`
	SellingPrice  float64 `json:"selling_price" validate:"gte=0"`
	TaxRate       float64 `json:"tax_rate" validate:"gte=0,lte=100"`
	InitialStock  int     `json:"initial_stock" validate:"gte=0"`
	MinStockLevel int     `json:"min_stock_level" validate:"gte=0"`
}

type ProductUpdateRequest struct {
	Name          *string  `json:"name,omitempty"`
	SKU           *string  `json:"sku,omitempty"`
	Barcode       *string  `json:"barcode,omitempty"`
	Description   *string  `json:"description,omitempty"`
	CategoryID    *string  `json:"category_id,omitempty"`
	Unit          *string  `json:"unit,omitempty"`
	PurchasePrice *float64 `json:"purchase_price,omitempty"`
	SellingPrice  *float64 `json:"selling_price,omitempty"`
	TaxRate       *float64 `json:"tax_rate,omitempty"`
	MinStockLevel *int     `json:"min_stock_level,omitempty"`
	Active        *bool    `json:"is_active,omitempty"`
}

type ProductFilter struct {
	CategoryID string
	Query      string
	ActiveOnly bool
}

type CustomerCreateRequest struct {
	Name        string  `json:"name" validate:"required"`
	Phone       string  `json:"phone" validate:"required"`
	Email       string  `json:"email" validate:"omitempty,email"`
	Address     string  `json:"address"`
	CreditLimit float64 `json:"credit_limit" validate:"gte=0"`
}

type CustomerUpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Phone       *string  `json:"phone,omitempty"`
	Email       *string  `json:"email,omitempty"`
	Address     *string  `json:"address,omitempty"`
	CreditLimit *float64 `json:"credit_limit,omitempty"`
}

type CustomerPaymentRequest struct {
	Amount float64 `json:"amount" validate:"gt=0"`
	Notes  string  `json:"notes"`
}

type CategoryCreateRequest struct {
	Name     string `json:"name" validate:"required"`
	ParentID string `json:"parent_id"`
}

type SaleLineRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gt=0"`
}

type DiscountSpec struct {
	Amount float64 `json:"amount" validate:"gte=0"`
	Type   string  `json:"type" validate:"omitempty,oneof=percentage fixed_amount"`
}

type SaleRequest struct {
	CustomerID    string            `json:"customer_id"`
	Items         []SaleLineRequest `json:"items" validate:"required,dive"`
	Discount      DiscountSpec      `json:"discount"`
	PaymentMethod string            `json:"payment_method" validate:"required"`
	PaidAmount    float64           `json:"paid_amount" validate:"gte=0"`
	GrandTotal    *float64          `json:"grand_total,omitempty"`
}

type StockAdjustRequest struct {
	ProductID string `json:"product_id" validate:"required"`
	Quantity  int    `json:"quantity" validate:"gte=0"`
	Mode      string `json:"mode" validate:"required,oneof=add subtract set"`
	Notes     string `json:"notes"`
}

type TransactionFilter struct {
	ProductID string
	From      *time.Time
	To        *time.Time
}

type SettingsUpdateRequest struct {
	CompanyName    *string  `json:"company_name,omitempty"`
	CompanyPhone   *string  `json:"company_phone,omitempty"`
	CompanyAddress *string  `json:"company_address,omitempty"`
	DefaultTaxRate *float64 `json:"default_tax_rate,omitempty" validate:"omitempty,gte=0,lte=100"`
	Currency       *string  `json:"currency,omitempty"`
	ReceiptHeader  *string  `json:"receipt_header,omitempty"`
	ReceiptFooter  *string  `json:"receipt_footer,omitempty"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	Role        string `json:"role"`
	ExpiresAt   string `json:"expires_at"`
}

type CashierCreateRequest struct {
	Username string `json:"username" validate:"required,min=4"`
	Password string `json:"password" validate:"required,min=6"`
}

type CashierUser struct {
	Username  string    `json:"username"`
	Role      string    `json:"role"`
	Active    bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

type PaymentBucket struct {
	PaymentMethod string  `json:"payment_method"`
	Count         int     `json:"count"`
	Amount        float64 `json:"amount"`
}

type DayBucket struct {
	Date   string  `json:"date"`
	Count  int     `json:"count"`
	Amount float64 `json:"amount"`
}

type SalesReport struct {
	From          string          `json:"from"`
	To            string          `json:"to"`
	Count         int             `json:"count"`
	Revenue       float64         `json:"revenue"`
	TotalTax      float64         `json:"total_tax"`
	TotalDiscount float64         `json:"total_discount"`
	ByPayment     []PaymentBucket `json:"by_payment"`
	ByDay         []DayBucket     `json:"by_day"`
}

type TopProduct struct {
	ProductID    string  `json:"product_id"`
	Name         string  `json:"name"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

type CustomerReportRow struct {
	CustomerID     string     `json:"customer_id"`
	Name           string     `json:"name"`
	Phone          string     `json:"phone"`
	TotalPurchases float64    `json:"total_purchases"`
	OrderCount     int        `json:"order_count"`
	AverageOrder   float64    `json:"average_order"`
	CurrentBalance float64    `json:"current_balance"`
	LoyaltyPoints  int        `json:"loyalty_points"`
	LastPurchase   *time.Time `json:"last_purchase,omitempty"`
}

type ProfitLossReport struct {
	From          string  `json:"from"`
	To            string  `json:"to"`
	Revenue       float64 `json:"revenue"`
	Cost          float64 `json:"cost"`
	TotalTax      float64 `json:"total_tax"`
	TotalDiscount float64 `json:"total_discount"`
	GrossProfit   float64 `json:"gross_profit"`
	NetProfit     float64 `json:"net_profit"`
	ProfitMargin  float64 `json:"profit_margin"`
}

type DashboardSummary struct {
	TodaySales      float64 `json:"today_sales"`
	TodayCount      int     `json:"today_count"`
	MonthSales      float64 `json:"month_sales"`
	MonthCount      int     `json:"month_count"`
	ProductCount    int     `json:"product_count"`
	CustomerCount   int     `json:"customer_count"`
	LowStockCount   int     `json:"low_stock_count"`
	TotalSalesCount int     `json:"total_sales_count"`
}

// Backup is the whole-store snapshot shape. Import overwrites only the
// collections present in the payload; absent ones are left untouched.
// Collection fields never carry omitempty: an exported empty collection
// must survive the round trip as [], not vanish from the payload.
type Backup struct {
	Products              []Product              `json:"products"`
	Customers             []Customer             `json:"customers"`
	Sales                 []Sale                 `json:"sales"`
	InventoryTransactions []InventoryTransaction `json:"inventoryTransactions"`
	Categories            []Category             `json:"categories"`
	Settings              *Settings              `json:"settings,omitempty"`
	Users                 []UserAccount          `json:"users"`
	ExportDate            time.Time              `json:"exportDate"`
	Version               string                 `json:"version"`
}

const BackupVersion = "1.0.0"

const (
	PaymentStatusPaid    = "paid"
	PaymentStatusPartial = "partial"
	PaymentStatusUnpaid  = "unpaid"
)

const (
	DiscountPercentage = "percentage"
	DiscountFixed      = "fixed_amount"
)

const (
	StockIn         = "in"
	StockOut        = "out"
	StockAdjustment = "adjustment"
)

const (
	ReferenceManual = "manual"
	ReferenceSale   = "sale"
)

const (
	RoleAdmin   = "admin"
	RoleCashier = "cashier"
)

const (
	AdjustModeAdd      = "add"
	AdjustModeSubtract = "subtract"
	AdjustModeSet      = "set"
)
