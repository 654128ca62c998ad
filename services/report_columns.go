package services

// Align is the horizontal alignment of a report column.
type Align string

const (
	AlignLeft   Align = "left"
	AlignCenter Align = "center"
	AlignRight  Align = "right"
)

// Format selects how a column's raw value is rendered as a cell.
type Format string

const (
	FormatText     Format = "text"
	FormatDate     Format = "date"
	FormatCurrency Format = "currency"
	FormatPhone    Format = "phone"
	FormatNumber   Format = "number"
)

// Category groups columns by the entity they were denormalized from. It
// decides which editor a cell click opens.
type Category string

const (
	CategoryBooking      Category = "booking"
	CategoryCustomer     Category = "customer"
	CategoryAvailability Category = "availability"
)

// Column describes one selectable field of the master report.
type Column struct {
	Key           string
	Label         string
	Width         float64 // layout hint, roughly characters
	Align         Align
	Format        Format
	Summable      bool
	Category      Category
	AlwaysVisible bool
}

// IdentityColumn can never be hidden.
const IdentityColumn = "customer_name"

// masterReportColumns is the ordered catalog. Keys are persisted in view
// settings and presets, so they must never be renamed.
var masterReportColumns = []Column{
	{Key: "customer_name", Label: "Customer", Width: 22, Align: AlignLeft, Format: FormatText, Category: CategoryCustomer, AlwaysVisible: true},
	{Key: "confirmation_number", Label: "Confirmation #", Width: 14, Align: AlignLeft, Format: FormatText, Category: CategoryBooking},
	{Key: "status", Label: "Status", Width: 11, Align: AlignCenter, Format: FormatText, Category: CategoryBooking},
	{Key: "start_date", Label: "Activity Date", Width: 13, Align: AlignCenter, Format: FormatDate, Category: CategoryAvailability},
	{Key: "start_time", Label: "Time", Width: 8, Align: AlignCenter, Format: FormatText, Category: CategoryAvailability},
	{Key: "activity_name", Label: "Activity", Width: 22, Align: AlignLeft, Format: FormatText, Category: CategoryAvailability},
	{Key: "pax_count", Label: "Pax", Width: 6, Align: AlignRight, Format: FormatNumber, Summable: true, Category: CategoryBooking},
	{Key: "total_amount", Label: "Total", Width: 12, Align: AlignRight, Format: FormatCurrency, Summable: true, Category: CategoryBooking},
	{Key: "amount_paid", Label: "Paid", Width: 12, Align: AlignRight, Format: FormatCurrency, Summable: true, Category: CategoryBooking},
	{Key: "balance_due", Label: "Balance Due", Width: 12, Align: AlignRight, Format: FormatCurrency, Summable: true, Category: CategoryBooking},
	{Key: "customer_email", Label: "Email", Width: 26, Align: AlignLeft, Format: FormatText, Category: CategoryCustomer},
	{Key: "customer_phone", Label: "Phone", Width: 15, Align: AlignLeft, Format: FormatPhone, Category: CategoryCustomer},
	{Key: "pickup_hotel", Label: "Pickup Hotel", Width: 20, Align: AlignLeft, Format: FormatText, Category: CategoryBooking},
	{Key: "pickup_time", Label: "Pickup", Width: 8, Align: AlignCenter, Format: FormatText, Category: CategoryBooking},
	{Key: "voucher_number", Label: "Voucher", Width: 12, Align: AlignLeft, Format: FormatText, Category: CategoryBooking},
	{Key: "vehicle_name", Label: "Vehicle", Width: 16, Align: AlignLeft, Format: FormatText, Category: CategoryAvailability},
	{Key: "driver_name", Label: "Driver", Width: 16, Align: AlignLeft, Format: FormatText, Category: CategoryAvailability},
	{Key: "guide_name", Label: "Guide", Width: 16, Align: AlignLeft, Format: FormatText, Category: CategoryAvailability},
	{Key: "notes", Label: "Notes", Width: 30, Align: AlignLeft, Format: FormatText, Category: CategoryBooking},
	{Key: "created", Label: "Booked On", Width: 13, Align: AlignCenter, Format: FormatDate, Category: CategoryBooking},
}

// defaultVisibleColumns is used on first load and whenever persisted
// visible columns cannot be recovered.
var defaultVisibleColumns = []string{
	"customer_name",
	"confirmation_number",
	"start_date",
	"activity_name",
	"pax_count",
	"total_amount",
	"amount_paid",
	"balance_due",
	"vehicle_name",
}

// ColumnRegistry is a read-only lookup over an ordered column catalog.
type ColumnRegistry struct {
	columns []Column
	byKey   map[string]int
}

// NewColumnRegistry builds a registry. Later duplicates of a key are ignored.
func NewColumnRegistry(columns []Column) *ColumnRegistry {
	r := &ColumnRegistry{byKey: make(map[string]int, len(columns))}
	for _, c := range columns {
		if _, dup := r.byKey[c.Key]; dup {
			continue
		}
		r.byKey[c.Key] = len(r.columns)
		r.columns = append(r.columns, c)
	}
	return r
}

// MasterReportColumns returns the registry for the master report.
func MasterReportColumns() *ColumnRegistry {
	return NewColumnRegistry(masterReportColumns)
}

// ListColumns returns a copy of the catalog in display order.
func (r *ColumnRegistry) ListColumns() []Column {
	out := make([]Column, len(r.columns))
	copy(out, r.columns)
	return out
}

// Column looks up a column by key.
func (r *ColumnRegistry) Column(key string) (Column, bool) {
	i, ok := r.byKey[key]
	if !ok {
		return Column{}, false
	}
	return r.columns[i], true
}

// Reconcile drops unknown and repeated keys, keeping first occurrences in order.
func (r *ColumnRegistry) Reconcile(keys []string) []string {
	seen := make(map[string]bool, len(keys))
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if seen[k] {
			continue
		}
		if _, ok := r.byKey[k]; !ok {
			continue
		}
		seen[k] = true
		out = append(out, k)
	}
	return out
}

// Resolve maps keys to their descriptors, skipping unknown keys.
func (r *ColumnRegistry) Resolve(keys []string) []Column {
	out := make([]Column, 0, len(keys))
	for _, k := range keys {
		if c, ok := r.Column(k); ok {
			out = append(out, c)
		}
	}
	return out
}

// alwaysVisibleKeys lists columns that must stay in VisibleColumns.
func (r *ColumnRegistry) alwaysVisibleKeys() []string {
	var keys []string
	for _, c := range r.columns {
		if c.AlwaysVisible {
			keys = append(keys, c.Key)
		}
	}
	return keys
}
