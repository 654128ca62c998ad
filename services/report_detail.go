package services

// Editor names the external editor that handles a row detail request.
type Editor string

const (
	EditorBooking      Editor = "booking"
	EditorCustomer     Editor = "customer"
	EditorAvailability Editor = "availability"
)

// RowDetailRequested is emitted when a grid cell is clicked.
type RowDetailRequested struct {
	RowID     string `json:"rowId"`
	ColumnKey string `json:"columnKey"`
	Editor    Editor `json:"editor"`
	TargetID  string `json:"targetId"`
}

// editorTargets maps a column category to its editor and the row field
// holding the id that editor opens.
var editorTargets = map[Category]struct {
	editor Editor
	field  string
}{
	CategoryBooking:      {EditorBooking, RowIDKey},
	CategoryCustomer:     {EditorCustomer, "customer_id"},
	CategoryAvailability: {EditorAvailability, "availability_id"},
}

// NewRowDetailRequested routes a click on (row, col). Unknown categories go
// to the booking editor.
func NewRowDetailRequested(row Row, col Column) RowDetailRequested {
	target, ok := editorTargets[col.Category]
	if !ok {
		target = editorTargets[CategoryBooking]
	}
	return RowDetailRequested{
		RowID:     row.ID(),
		ColumnKey: col.Key,
		Editor:    target.editor,
		TargetID:  row.String(target.field),
	}
}

// FindRow returns the row with the given identity.
func FindRow(rows []Row, id string) (Row, bool) {
	for _, r := range rows {
		if r.ID() == id {
			return r, true
		}
	}
	return nil, false
}
