// Package models defines the record shapes exchanged with the backend:
// the authenticated admin profile and the flat entity rows every list
// page loads wholesale.
package models

// AppUser is the identity and payroll-default snapshot returned by the
// login call. It is treated as an immutable value per login and replaced
// wholesale on the next one.
type AppUser struct {
	// ID is the unique identifier of the admin user.
	ID string `json:"id"`
	// Username is the login name.
	Username string `json:"username"`
	// FullName is the display name.
	FullName string `json:"full_name"`
	// Email is optional contact mail.
	Email string `json:"email,omitempty"`
	// Phone is optional contact phone.
	Phone string `json:"phone,omitempty"`
	// NationalNumber is the national identification number.
	NationalNumber string `json:"national_number"`
	// IsActive reports whether the account may log in.
	IsActive bool `json:"is_active"`
	// BaseSalary is the default monthly base salary.
	BaseSalary float64 `json:"base_salary"`
	// OfficialOffDaysPerMonth is the allowed monthly off-day count.
	OfficialOffDaysPerMonth int `json:"official_off_days_per_month"`
}

// User is a full employee record as managed on the users page.
type User struct {
	ID                      string  `json:"id"`
	Username                string  `json:"username"`
	FullName                string  `json:"full_name"`
	NationalNumber          string  `json:"national_number,omitempty"`
	Email                   string  `json:"email,omitempty"`
	Phone                   string  `json:"phone,omitempty"`
	IsActive                bool    `json:"is_active"`
	ShiftID                 string  `json:"shift_id,omitempty"`
	ReferenceImage          string  `json:"reference_image,omitempty"`
	FrontIDImage            string  `json:"front_id_image,omitempty"`
	BackIDImage             string  `json:"back_id_image,omitempty"`
	FeeshImage              string  `json:"feesh_image,omitempty"`
	MedicalCertificateImage string  `json:"medical_certificate_image,omitempty"`
	BaseSalary              float64 `json:"base_salary"`
	OfficialOffDaysPerMonth int     `json:"official_off_days_per_month"`
	CreatedAt               string  `json:"created_at,omitempty"`
}

// Branch is a physical location row.
type Branch struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	Address   string   `json:"address,omitempty"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	CreatedAt string   `json:"created_at,omitempty"`
}

// Shift defines a working-hours window with grace periods.
type Shift struct {
	ID                   string  `json:"id"`
	Name                 string  `json:"name"`
	StartTime            string  `json:"start_time"`
	DurationHours        float64 `json:"duration_hours"`
	CheckinGraceMinutes  int     `json:"checkin_grace_minutes"`
	CheckoutGraceMinutes int     `json:"checkout_grace_minutes"`
	CreatedAt            string  `json:"created_at,omitempty"`
}

// AttendanceType labels a kind of attendance event.
type AttendanceType struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// AttendanceRecord is one check-in/check-out entry for a user.
type AttendanceRecord struct {
	ID               string `json:"id"`
	UserID           string `json:"user_id"`
	BranchID         string `json:"branch_id,omitempty"`
	AttendanceTypeID string `json:"attendance_type_id,omitempty"`
	CheckIn          string `json:"check_in,omitempty"`
	CheckOut         string `json:"check_out,omitempty"`
	TotalMinutes     int    `json:"total_minutes,omitempty"`
	Note             string `json:"note,omitempty"`
}

// Deduction is a payroll deduction entry.
type Deduction struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
	CreatedBy string  `json:"created_by,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// Addition is a payroll addition entry.
type Addition struct {
	ID        string  `json:"id"`
	UserID    string  `json:"user_id"`
	Amount    float64 `json:"amount"`
	Reason    string  `json:"reason"`
	CreatedBy string  `json:"created_by,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// RequestStatus is a workflow status lookup row.
type RequestStatus struct {
	ID        string `json:"id"`
	Code      string `json:"code"`
	NameAr    string `json:"name_ar"`
	CreatedAt string `json:"created_at,omitempty"`
	UpdatedAt string `json:"updated_at,omitempty"`
}

// Product is a sellable item.
type Product struct {
	ID          string  `json:"id"`
	ProdID      string  `json:"prod_id,omitempty"`
	Name        string  `json:"name"`
	CategoryID  string  `json:"category_id,omitempty"`
	SalePrice   float64 `json:"sale_price"`
	BuyPrice    float64 `json:"buy_price"`
	IsAvailable bool    `json:"is_available"`
}

// ProductCategory is a product grouping lookup row.
type ProductCategory struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// ProductRecipe links a product to an inventory item it consumes.
type ProductRecipe struct {
	ID        string  `json:"id"`
	ProductID string  `json:"product_id"`
	ItemID    string  `json:"item_id"`
	Quantity  float64 `json:"quantity"`
}

// InventoryItem is a stock-keeping unit in the shared catalogue.
type InventoryItem struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Unit        string `json:"unit"`
	Description string `json:"description,omitempty"`
}

// BranchInventory is the stock level of one item at one branch.
type BranchInventory struct {
	ID       string  `json:"id"`
	BranchID string  `json:"branch_id"`
	ItemID   string  `json:"item_id"`
	Quantity float64 `json:"quantity"`
}

// InventoryTransaction is a stock movement audit row.
type InventoryTransaction struct {
	ID        string  `json:"id"`
	BranchID  string  `json:"branch_id"`
	ItemID    string  `json:"item_id"`
	Quantity  float64 `json:"quantity"`
	Kind      string  `json:"transaction_type,omitempty"`
	Note      string  `json:"note,omitempty"`
	CreatedAt string  `json:"created_at,omitempty"`
}

// BranchCount is a per-branch headcount used by the dashboard.
type BranchCount struct {
	BranchID       string `json:"branch_id"`
	BranchName     string `json:"branch_name"`
	EmployeesCount int    `json:"employees_count"`
}

// DashboardStats is the aggregate returned by the dashboard call.
type DashboardStats struct {
	EmployeesWorkedToday    int           `json:"employees_worked_today"`
	EmployeesPerBranchToday []BranchCount `json:"employees_per_branch_today"`
	DeductionsToday         float64       `json:"deductions_today"`
	AdditionsToday          float64       `json:"additions_today"`
	CurrentlyWorking        int           `json:"currently_working"`
}

// SalaryBreakdown is the payroll aggregate computed server-side.
type SalaryBreakdown struct {
	UserID          string  `json:"user_id,omitempty"`
	BaseSalary      float64 `json:"base_salary"`
	TotalAdditions  float64 `json:"total_additions"`
	TotalDeductions float64 `json:"total_deductions"`
	WorkedMinutes   int     `json:"worked_minutes,omitempty"`
	OffDaysTaken    int     `json:"off_days_taken,omitempty"`
	FinalSalary     float64 `json:"final_salary"`
}

// AttendanceDay is one day of the monthly per-day attendance report.
type AttendanceDay struct {
	Day          string  `json:"day"`
	CheckIn      string  `json:"check_in,omitempty"`
	CheckOut     string  `json:"check_out,omitempty"`
	TotalMinutes int     `json:"total_minutes,omitempty"`
	TotalHours   float64 `json:"total_hours,omitempty"`
	Status       string  `json:"status,omitempty"`
}
